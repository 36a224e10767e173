package blog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"blogsmith/internal/domain/models"
	"blogsmith/internal/domain/repositories"
	"blogsmith/internal/repository/postgres"
)

// PostgresUserRepository implements repositories.UserRepository using PostgreSQL
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewUserRepository creates a new PostgresUserRepository
func NewUserRepository(config *postgres.RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetOrCreate returns the user, inserting a placeholder row on first use.
// ON CONFLICT makes concurrent first requests for the same user safe.
func (r *PostgresUserRepository) GetOrCreate(ctx context.Context, userID string) (*models.User, error) {
	insert := fmt.Sprintf(`
		INSERT INTO %s (id, username, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, r.tables.Users)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, insert, userID, placeholderUsername(userID), placeholderEmail(userID))
	if err != nil {
		if nf := postgres.NotFound(err, "user", userID); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	if tag.RowsAffected() > 0 {
		r.logger.Info("user created", "id", userID)
	}

	query := fmt.Sprintf(`
		SELECT id, username, email, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Users)

	var user models.User
	err = executor.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.CreatedAt,
	)
	if err != nil {
		if nf := postgres.NotFound(err, "user", userID); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func placeholderUsername(userID string) string {
	return "user_" + userID
}

func placeholderEmail(userID string) string {
	return "user" + userID + "@example.com"
}
