package services

import (
	"context"

	"blogsmith/internal/domain/models"
)

// BlogService defines the business logic for blog generation and the
// chats, messages and blogs it leaves behind
type BlogService interface {
	// GenerateBlog runs the generation pipeline for a topic and persists the
	// user prompt, the assistant reply and the blog in the given (or a new) chat
	GenerateBlog(ctx context.Context, req *GenerateBlogRequest) (*GenerateBlogResponse, error)

	// ListChats returns a user's chats, most recently updated first
	ListChats(ctx context.Context, userID string) ([]models.Chat, error)

	// ListMessages returns a chat's messages, oldest first
	ListMessages(ctx context.Context, chatID string) ([]models.Message, error)

	// DeleteChat removes a chat together with its blogs and messages
	DeleteChat(ctx context.Context, chatID string) error

	// DeleteMessage removes a single message
	DeleteMessage(ctx context.Context, messageID string) error

	// EditMessage replaces a message's content
	EditMessage(ctx context.Context, messageID string, req *EditMessageRequest) (*models.Message, error)

	// ListBlogs returns a user's blogs, newest first
	ListBlogs(ctx context.Context, userID string) ([]models.Blog, error)

	// GetBlog retrieves a blog by ID
	GetBlog(ctx context.Context, blogID string) (*models.Blog, error)

	// RenderBlogHTML renders a blog's markdown as sanitized HTML
	RenderBlogHTML(ctx context.Context, blogID string) (string, error)
}

// GenerateBlogRequest is the DTO for generating a blog
type GenerateBlogRequest struct {
	Topic  string  `json:"topic"`
	UserID string  `json:"user_id"`
	ChatID *string `json:"chat_id,omitempty"`
}

// GenerateBlogResponse is returned after a blog has been generated and saved
type GenerateBlogResponse struct {
	Success            bool    `json:"success"`
	ChatID             string  `json:"chat_id"`
	BlogID             string  `json:"blog_id"`
	UserMessageID      string  `json:"user_message_id"`
	AssistantMessageID string  `json:"assistant_message_id"`
	Topic              string  `json:"topic"`
	Content            string  `json:"content"`
	ImageURL           *string `json:"image_url"`
}

// EditMessageRequest is the DTO for editing a message
type EditMessageRequest struct {
	Content string `json:"content"`
}
