package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupSchema creates the messages and prompts tables if they do not exist.
// Table names carry the environment prefix so dev/test/prod data stay apart
// in a shared database.
func SetupSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				content TEXT NOT NULL,
				parent_id UUID REFERENCES %s(id),
				role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
				version INTEGER NOT NULL DEFAULT 1 CHECK (version >= 1),
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`, tables.Messages, tables.Messages),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS idx_%s_parent_id ON %s(parent_id)
		`, tables.Messages, tables.Messages),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS idx_%s_created_at ON %s(created_at)
		`, tables.Messages, tables.Messages),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				message_id UUID NOT NULL REFERENCES %s(id),
				content TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`, tables.Prompts, tables.Messages),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS idx_%s_message_id ON %s(message_id)
		`, tables.Prompts, tables.Prompts),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("setup schema: %w", err)
		}
	}

	return nil
}

// DropTables removes both tables. Destructive; the seed CLI refuses to run
// this against the prod prefix.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tables.Prompts),
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tables.Messages),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}

	return nil
}
