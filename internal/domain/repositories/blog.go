package repositories

import (
	"context"

	"blogsmith/internal/domain/models"
)

// BlogRepository defines data access operations for generated blogs
type BlogRepository interface {
	// Create inserts a blog and fills in ID and Timestamp
	Create(ctx context.Context, blog *models.Blog) error

	// Get retrieves a blog by ID
	Get(ctx context.Context, blogID string) (*models.Blog, error)

	// ListByUser retrieves a user's blogs, newest first
	ListByUser(ctx context.Context, userID string) ([]models.Blog, error)

	// DeleteByChat removes every blog attached to a chat
	DeleteByChat(ctx context.Context, chatID string) error
}
