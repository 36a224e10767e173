package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the users, chats, messages and blogs tables if they do not exist
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				username VARCHAR(100) NOT NULL UNIQUE,
				email VARCHAR(100) NOT NULL UNIQUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				title VARCHAR(200) NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Chats, tables.Users),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_user_updated_idx ON %s (user_id, updated_at DESC)`, tables.Chats, tables.Chats),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				chat_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				role VARCHAR(20) NOT NULL CHECK (role IN ('user', 'assistant')),
				content TEXT NOT NULL,
				image_url TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Messages, tables.Chats),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_chat_created_idx ON %s (chat_id, created_at)`, tables.Messages, tables.Messages),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				chat_id UUID REFERENCES %s(id) ON DELETE SET NULL,
				topic VARCHAR(500) NOT NULL,
				content TEXT NOT NULL,
				timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Blogs, tables.Users, tables.Chats),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_user_timestamp_idx ON %s (user_id, timestamp DESC)`, tables.Blogs, tables.Blogs),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// DropTables drops every prefixed table, children first
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	all := tables.All()
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, all[i])); err != nil {
			return fmt.Errorf("drop %s: %w", all[i], err)
		}
	}
	return nil
}
