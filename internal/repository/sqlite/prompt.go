package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"arbor/internal/domain"
	chatModels "arbor/internal/domain/models/chat"
	chatRepo "arbor/internal/domain/repositories/chat"
)

// PromptRepository implements the chat PromptRepository over sqlite
type PromptRepository struct {
	store *Store
}

// NewPromptRepository creates a prompt repository backed by the store
func NewPromptRepository(store *Store) chatRepo.PromptRepository {
	return &PromptRepository{store: store}
}

// Create inserts a prompt audit row with a generated id
func (r *PromptRepository) Create(ctx context.Context, prompt *chatModels.Prompt) error {
	prompt.ID = uuid.New().String()
	prompt.CreatedAt = time.Now().UTC()

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO prompts (id, message_id, content, created_at)
		VALUES (?, ?, ?, ?)`,
		prompt.ID, prompt.MessageID, prompt.Content, prompt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create prompt: %w: %v", domain.ErrStore, err)
	}

	return nil
}

// ListForMessage returns the prompts submitted for a message, oldest first
func (r *PromptRepository) ListForMessage(ctx context.Context, messageID string) ([]chatModels.Prompt, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, message_id, content, created_at
		FROM prompts WHERE message_id = ? ORDER BY created_at ASC, id ASC`,
		messageID,
	)
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
