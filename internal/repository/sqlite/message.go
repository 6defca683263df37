package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"arbor/internal/domain"
	chatModels "arbor/internal/domain/models/chat"
	chatRepo "arbor/internal/domain/repositories/chat"
)

// MessageRepository implements the chat MessageRepository over sqlite.
// Unlike the Postgres variant, ids and timestamps are assigned app-side.
type MessageRepository struct {
	store *Store
}

// NewMessageRepository creates a message repository backed by the store
func NewMessageRepository(store *Store) chatRepo.MessageRepository {
	return &MessageRepository{store: store}
}

// Create inserts a new message row with a generated id
func (r *MessageRepository) Create(ctx context.Context, msg *chatModels.Message) error {
	msg.ID = uuid.New().String()
	msg.CreatedAt = time.Now().UTC()

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO messages (id, content, parent_id, role, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.Content, msg.ParentID, msg.Role, msg.Version, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create message: %w: %v", domain.ErrStore, err)
	}

	return nil
}

// Get retrieves a message by ID
func (r *MessageRepository) Get(ctx context.Context, id string) (*chatModels.Message, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, content, parent_id, role, version, created_at
		FROM messages WHERE id = ?`, id)

	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("message %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get message: %w: %v", domain.ErrStore, err)
	}

	return msg, nil
}

// IncrementVersion overwrites content and bumps version on the same row
func (r *MessageRepository) IncrementVersion(ctx context.Context, id, content string) (*chatModels.Message, error) {
	res, err := r.store.db.ExecContext(ctx, `
		UPDATE messages SET content = ?, version = version + 1 WHERE id = ?`,
		content, id,
	)
	if err != nil {
		return nil, fmt.Errorf("increment version: %w: %v", domain.ErrStore, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("increment version: %w: %v", domain.ErrStore, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("message %s: %w", id, domain.ErrNotFound)
	}

	return r.Get(ctx, id)
}

// ListAll returns every message ordered by creation time ascending
func (r *MessageRepository) ListAll(ctx context.Context) ([]chatModels.Message, error) {
	return r.queryMessages(ctx, `
		SELECT id, content, parent_id, role, version, created_at
		FROM messages ORDER BY created_at ASC, id ASC`)
}

// ListChildren returns the messages whose parent_id equals parentID
func (r *MessageRepository) ListChildren(ctx context.Context, parentID string) ([]chatModels.Message, error) {
	return r.queryMessages(ctx, `
		SELECT id, content, parent_id, role, version, created_at
		FROM messages WHERE parent_id = ?`, parentID)
}

// ListByParentOrderedByVersion returns children of parentID ordered by version
func (r *MessageRepository) ListByParentOrderedByVersion(ctx context.Context, parentID string) ([]chatModels.Message, error) {
	return r.queryMessages(ctx, `
		SELECT id, content, parent_id, role, version, created_at
		FROM messages WHERE parent_id = ? ORDER BY version ASC`, parentID)
}

func (r *MessageRepository) queryMessages(ctx context.Context, query string, args ...interface{}) ([]chatModels.Message, error) {
	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w: %v", domain.ErrStore, err)
	}
	defer rows.Close()

	var messages []chatModels.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w: %v", domain.ErrStore, err)
		}
		messages = append(messages, *msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w: %v", domain.ErrStore, err)
	}

	return messages, nil
}

// scanner is implemented by both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMessage(row scanner) (*chatModels.Message, error) {
	var msg chatModels.Message
	err := row.Scan(
		&msg.ID,
		&msg.Content,
		&msg.ParentID,
		&msg.Role,
		&msg.Version,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
