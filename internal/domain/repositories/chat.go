package repositories

import (
	"context"

	"blogsmith/internal/domain/models"
)

// ChatRepository defines data access operations for chats
type ChatRepository interface {
	// Create inserts a new chat and fills in ID and timestamps
	Create(ctx context.Context, chat *models.Chat) error

	// Get retrieves a chat by ID
	// Returns domain.ErrNotFound if the chat does not exist
	Get(ctx context.Context, chatID string) (*models.Chat, error)

	// ListByUser retrieves a user's chats, most recently updated first
	ListByUser(ctx context.Context, userID string) ([]models.Chat, error)

	// Touch bumps a chat's updated_at
	Touch(ctx context.Context, chatID string) error

	// Delete removes a chat
	// Returns domain.ErrNotFound if the chat does not exist
	Delete(ctx context.Context, chatID string) error
}
