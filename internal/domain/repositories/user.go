package repositories

import (
	"context"

	"blogsmith/internal/domain/models"
)

// UserRepository defines data access operations for users
type UserRepository interface {
	// GetOrCreate returns the user with the given ID, creating a placeholder
	// user (user_<id>, user<id>@example.com) when none exists
	GetOrCreate(ctx context.Context, userID string) (*models.User, error)
}
