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

// PostgresMessageRepository implements repositories.MessageRepository using PostgreSQL
type PostgresMessageRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewMessageRepository creates a new PostgresMessageRepository
func NewMessageRepository(config *postgres.RepositoryConfig) repositories.MessageRepository {
	return &PostgresMessageRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create appends a message to its chat
func (r *PostgresMessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (chat_id, role, content, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, r.tables.Messages)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		msg.ChatID,
		msg.Role,
		msg.Content,
		msg.ImageURL,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("chat %s: %w", msg.ChatID, domain.ErrNotFound)
		}
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

// Get retrieves a message by ID
func (r *PostgresMessageRepository) Get(ctx context.Context, messageID string) (*models.Message, error) {
	query := fmt.Sprintf(`
		SELECT id, chat_id, role, content, image_url, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Messages)

	var msg models.Message
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, messageID).Scan(
		&msg.ID,
		&msg.ChatID,
		&msg.Role,
		&msg.Content,
		&msg.ImageURL,
		&msg.CreatedAt,
	)
	if err != nil {
		if nf := postgres.NotFound(err, "message", messageID); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("get message: %w", err)
	}

	return &msg, nil
}

// ListByChat retrieves a chat's messages in the order they were written
func (r *PostgresMessageRepository) ListByChat(ctx context.Context, chatID string) ([]models.Message, error) {
	query := fmt.Sprintf(`
		SELECT id, chat_id, role, content, image_url, created_at
		FROM %s
		WHERE chat_id = $1
		ORDER BY created_at ASC, id ASC
	`, r.tables.Messages)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, chatID)
	if err != nil {
		if postgres.IsPgInvalidTextError(err) {
			return []models.Message{}, nil
		}
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ChatID,
			&msg.Role,
			&msg.Content,
			&msg.ImageURL,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// UpdateContent replaces a message's content
func (r *PostgresMessageRepository) UpdateContent(ctx context.Context, messageID, content string) error {
	query := fmt.Sprintf(`UPDATE %s SET content = $2 WHERE id = $1`, r.tables.Messages)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, messageID, content)
	if err != nil {
		if nf := postgres.NotFound(err, "message", messageID); nf != nil {
			return nf
		}
		return fmt.Errorf("update message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("message %s: %w", messageID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a single message
func (r *PostgresMessageRepository) Delete(ctx context.Context, messageID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Messages)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, messageID)
	if err != nil {
		if nf := postgres.NotFound(err, "message", messageID); nf != nil {
			return nf
		}
		return fmt.Errorf("delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("message %s: %w", messageID, domain.ErrNotFound)
	}

	return nil
}

// DeleteByChat removes every message in a chat
func (r *PostgresMessageRepository) DeleteByChat(ctx context.Context, chatID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE chat_id = $1`, r.tables.Messages)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, chatID)
	if err != nil {
		return fmt.Errorf("delete chat messages: %w", err)
	}

	r.logger.Debug("chat messages deleted", "chat_id", chatID, "count", tag.RowsAffected())
	return nil
}
