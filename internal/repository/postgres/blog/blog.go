package blog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models"
	"blogsmith/internal/domain/repositories"
	"blogsmith/internal/repository/postgres"
)

// PostgresBlogRepository implements repositories.BlogRepository using PostgreSQL
type PostgresBlogRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewBlogRepository creates a new PostgresBlogRepository
func NewBlogRepository(config *postgres.RepositoryConfig) repositories.BlogRepository {
	return &PostgresBlogRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create stores a generated blog
func (r *PostgresBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, chat_id, topic, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, timestamp
	`, r.tables.Blogs)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		blog.UserID,
		blog.ChatID,
		blog.Topic,
		blog.Content,
	).Scan(&blog.ID, &blog.Timestamp)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("blog owner: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create blog: %w", err)
	}

	return nil
}

// Get retrieves a blog by ID
func (r *PostgresBlogRepository) Get(ctx context.Context, blogID string) (*models.Blog, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, chat_id, topic, content, timestamp
		FROM %s
		WHERE id = $1
	`, r.tables.Blogs)

	var blog models.Blog
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, blogID).Scan(
		&blog.ID,
		&blog.UserID,
		&blog.ChatID,
		&blog.Topic,
		&blog.Content,
		&blog.Timestamp,
	)
	if err != nil {
		if nf := postgres.NotFound(err, "blog", blogID); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("get blog: %w", err)
	}

	return &blog, nil
}

// ListByUser retrieves all blogs for a user, newest first
func (r *PostgresBlogRepository) ListByUser(ctx context.Context, userID string) ([]models.Blog, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, chat_id, topic, content, timestamp
		FROM %s
		WHERE user_id = $1
		ORDER BY timestamp DESC
	`, r.tables.Blogs)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		if postgres.IsPgInvalidTextError(err) {
			return []models.Blog{}, nil
		}
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	blogs := []models.Blog{}
	for rows.Next() {
		var blog models.Blog
		if err := rows.Scan(
			&blog.ID,
			&blog.UserID,
			&blog.ChatID,
			&blog.Topic,
			&blog.Content,
			&blog.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blogs: %w", err)
	}

	return blogs, nil
}

// DeleteByChat removes every blog attached to a chat
func (r *PostgresBlogRepository) DeleteByChat(ctx context.Context, chatID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE chat_id = $1`, r.tables.Blogs)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, chatID)
	if err != nil {
		return fmt.Errorf("delete chat blogs: %w", err)
	}

	r.logger.Debug("chat blogs deleted", "chat_id", chatID, "count", tag.RowsAffected())
	return nil
}
