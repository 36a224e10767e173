package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"blogsmith/internal/config"
	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models"
	"blogsmith/internal/domain/models/llm"
	"blogsmith/internal/domain/repositories"
	"blogsmith/internal/domain/services"
	llmSvc "blogsmith/internal/domain/services/llm"
)

// Service implements the BlogService interface
type Service struct {
	userRepo    repositories.UserRepository
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
	blogRepo    repositories.BlogRepository
	txManager   repositories.TransactionManager
	generator   llmSvc.Generator
	renderer    *HTMLRenderer
	defaultUser string
	logger      *slog.Logger
}

// NewService creates a new blog service
func NewService(
	userRepo repositories.UserRepository,
	chatRepo repositories.ChatRepository,
	messageRepo repositories.MessageRepository,
	blogRepo repositories.BlogRepository,
	txManager repositories.TransactionManager,
	generator llmSvc.Generator,
	cfg *config.Config,
	logger *slog.Logger,
) services.BlogService {
	return &Service{
		userRepo:    userRepo,
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		blogRepo:    blogRepo,
		txManager:   txManager,
		generator:   generator,
		renderer:    NewHTMLRenderer(),
		defaultUser: cfg.DefaultUserID,
		logger:      logger,
	}
}

// GenerateBlog runs the pipeline for a topic and saves the exchange
func (s *Service) GenerateBlog(ctx context.Context, req *services.GenerateBlogRequest) (*services.GenerateBlogResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", domain.ErrValidation)
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if req.UserID == "" {
		req.UserID = s.defaultUser
	}
	if err := s.validateGenerateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.userRepo.GetOrCreate(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	chat, err := s.resolveChat(ctx, user.ID, req)
	if err != nil {
		return nil, err
	}

	userMsg := &models.Message{
		ChatID:  chat.ID,
		Role:    models.RoleUser,
		Content: "Generate a blog about: " + req.Topic,
	}
	if err := s.messageRepo.Create(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	chatID := chat.ID
	result := s.generator.Generate(ctx, &llm.GenerationRequest{Topic: req.Topic, ChatID: &chatID})

	blog := &models.Blog{
		UserID:  user.ID,
		ChatID:  &chatID,
		Topic:   req.Topic,
		Content: result.BlogContent,
	}
	assistantMsg := &models.Message{
		ChatID:   chat.ID,
		Role:     models.RoleAssistant,
		Content:  result.BlogContent,
		ImageURL: result.ImageURL,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.blogRepo.Create(txCtx, blog); err != nil {
			return fmt.Errorf("save blog: %w", err)
		}
		if err := s.messageRepo.Create(txCtx, assistantMsg); err != nil {
			return fmt.Errorf("save assistant message: %w", err)
		}
		return s.chatRepo.Touch(txCtx, chat.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("blog saved",
		"blog_id", blog.ID,
		"chat_id", chat.ID,
		"user_id", user.ID,
		"attempts", result.Attempts,
		"has_image", result.ImageURL != nil,
	)

	return &services.GenerateBlogResponse{
		Success:            true,
		ChatID:             chat.ID,
		BlogID:             blog.ID,
		UserMessageID:      userMsg.ID,
		AssistantMessageID: assistantMsg.ID,
		Topic:              req.Topic,
		Content:            result.BlogContent,
		ImageURL:           result.ImageURL,
	}, nil
}

// resolveChat returns the requested chat, or a new one titled after the topic
// when no chat was named or the named chat does not exist.
func (s *Service) resolveChat(ctx context.Context, userID string, req *services.GenerateBlogRequest) (*models.Chat, error) {
	if req.ChatID != nil && *req.ChatID != "" {
		chat, err := s.chatRepo.Get(ctx, *req.ChatID)
		if err == nil {
			return chat, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get chat: %w", err)
		}
		s.logger.Debug("chat not found, starting a new one", "chat_id", *req.ChatID)
	}

	chat := &models.Chat{
		UserID: userID,
		Title:  chatTitle(req.Topic),
	}
	if err := s.chatRepo.Create(ctx, chat); err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}

	s.logger.Info("chat created", "id", chat.ID, "user_id", userID)
	return chat, nil
}

// ListChats retrieves a user's chats
func (s *Service) ListChats(ctx context.Context, userID string) ([]models.Chat, error) {
	if userID == "" {
		userID = s.defaultUser
	}
	if err := validateID("user_id", userID); err != nil {
		return nil, err
	}
	return s.chatRepo.ListByUser(ctx, userID)
}

// ListMessages retrieves a chat's messages
func (s *Service) ListMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	return s.messageRepo.ListByChat(ctx, chatID)
}

// DeleteChat removes a chat with its blogs and messages in one transaction
func (s *Service) DeleteChat(ctx context.Context, chatID string) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.chatRepo.Get(txCtx, chatID); err != nil {
			return err
		}
		if err := s.blogRepo.DeleteByChat(txCtx, chatID); err != nil {
			return fmt.Errorf("delete chat blogs: %w", err)
		}
		if err := s.messageRepo.DeleteByChat(txCtx, chatID); err != nil {
			return fmt.Errorf("delete chat messages: %w", err)
		}
		return s.chatRepo.Delete(txCtx, chatID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("chat deleted", "id", chatID)
	return nil
}

// DeleteMessage removes a single message
func (s *Service) DeleteMessage(ctx context.Context, messageID string) error {
	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return err
	}
	s.logger.Info("message deleted", "id", messageID)
	return nil
}

// EditMessage replaces a message's content
func (s *Service) EditMessage(ctx context.Context, messageID string, req *services.EditMessageRequest) (*models.Message, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", domain.ErrValidation)
	}
	err := validation.ValidateStruct(req,
		validation.Field(&req.Content, validation.Required, validation.Length(1, config.MaxMessageContentLength)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.messageRepo.UpdateContent(ctx, messageID, req.Content); err != nil {
		return nil, err
	}
	return s.messageRepo.Get(ctx, messageID)
}

// ListBlogs retrieves a user's blogs
func (s *Service) ListBlogs(ctx context.Context, userID string) ([]models.Blog, error) {
	if userID == "" {
		userID = s.defaultUser
	}
	if err := validateID("user_id", userID); err != nil {
		return nil, err
	}
	return s.blogRepo.ListByUser(ctx, userID)
}

// GetBlog retrieves a blog by ID
func (s *Service) GetBlog(ctx context.Context, blogID string) (*models.Blog, error) {
	return s.blogRepo.Get(ctx, blogID)
}

// RenderBlogHTML renders a blog's markdown as sanitized HTML
func (s *Service) RenderBlogHTML(ctx context.Context, blogID string) (string, error) {
	blog, err := s.blogRepo.Get(ctx, blogID)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(blog.Content)
}

func (s *Service) validateGenerateRequest(req *services.GenerateBlogRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Topic, validation.Required, validation.Length(1, config.MaxTopicLength)),
		validation.Field(&req.UserID, validation.Required, validation.By(isUUID)),
	)
}

// chatTitle derives a chat title from the topic, cut at MaxChatTitleLength runes
func chatTitle(topic string) string {
	runes := []rune(topic)
	if len(runes) > config.MaxChatTitleLength {
		return string(runes[:config.MaxChatTitleLength])
	}
	return topic
}

func validateID(field, id string) error {
	if err := isUUID(id); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrValidation, field, err)
	}
	return nil
}

func isUUID(value interface{}) error {
	s, _ := value.(string)
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("must be a valid UUID")
	}
	return nil
}
