package repositories

import (
	"context"

	"blogsmith/internal/domain/models"
)

// MessageRepository defines data access operations for chat messages
type MessageRepository interface {
	// Create appends a message to a chat and fills in ID and CreatedAt
	Create(ctx context.Context, msg *models.Message) error

	// Get retrieves a message by ID
	Get(ctx context.Context, messageID string) (*models.Message, error)

	// ListByChat retrieves a chat's messages, oldest first
	ListByChat(ctx context.Context, chatID string) ([]models.Message, error)

	// UpdateContent replaces a message's content
	// Returns domain.ErrNotFound if the message does not exist
	UpdateContent(ctx context.Context, messageID, content string) error

	// Delete removes a single message
	Delete(ctx context.Context, messageID string) error

	// DeleteByChat removes every message in a chat
	DeleteByChat(ctx context.Context, chatID string) error
}
