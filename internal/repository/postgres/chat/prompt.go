package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"arbor/internal/domain"
	chatModels "arbor/internal/domain/models/chat"
	chatRepo "arbor/internal/domain/repositories/chat"
	"arbor/internal/repository/postgres"
)

// PostgresPromptRepository implements the PromptRepository interface using PostgreSQL
type PostgresPromptRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewPromptRepository creates a new PostgresPromptRepository
func NewPromptRepository(config *postgres.RepositoryConfig) chatRepo.PromptRepository {
	return &PostgresPromptRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a prompt audit row
func (r *PostgresPromptRepository) Create(ctx context.Context, prompt *chatModels.Prompt) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (message_id, content)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, r.tables.Prompts)

	err := r.pool.QueryRow(ctx, query,
		prompt.MessageID,
		prompt.Content,
	).Scan(&prompt.ID, &prompt.CreatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("message %s: %w", prompt.MessageID, domain.ErrNotFound)
		}
		return fmt.Errorf("create prompt: %w: %v", domain.ErrStore, err)
	}

	return nil
}

// ListForMessage returns the prompts submitted for a message, oldest first
func (r *PostgresPromptRepository) ListForMessage(ctx context.Context, messageID string) ([]chatModels.Prompt, error) {
	query := fmt.Sprintf(`
		SELECT id, message_id, content, created_at
		FROM %s
		WHERE message_id = $1
		ORDER BY created_at ASC
	`, r.tables.Prompts)

	rows, err := r.pool.Query(ctx, query, messageID)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w: %v", domain.ErrStore, err)
	}
	defer rows.Close()

	var prompts []chatModels.Prompt
	for rows.Next() {
		var p chatModels.Prompt
		if err := rows.Scan(&p.ID, &p.MessageID, &p.Content, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prompt: %w: %v", domain.ErrStore, err)
		}
		prompts = append(prompts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prompts: %w: %v", domain.ErrStore, err)
	}

	return prompts, nil
}
