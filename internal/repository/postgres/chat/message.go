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

// PostgresMessageRepository implements the MessageRepository interface using PostgreSQL
type PostgresMessageRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewMessageRepository creates a new PostgresMessageRepository
func NewMessageRepository(config *postgres.RepositoryConfig) chatRepo.MessageRepository {
	return &PostgresMessageRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// scanner defines the interface for row scanning (implemented by both pgx.Row and pgx.Rows)
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanMessageRow scans a database row into a Message struct
func scanMessageRow(row scanner) (*chatModels.Message, error) {
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

// Create inserts a new message row; id and created_at come back from the store
func (r *PostgresMessageRepository) Create(ctx context.Context, msg *chatModels.Message) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (content, parent_id, role, version)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, r.tables.Messages)

	err := r.pool.QueryRow(ctx, query,
		msg.Content,
		msg.ParentID,
		msg.Role,
		msg.Version,
	).Scan(&msg.ID, &msg.CreatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("parent message %s: %w", derefOrEmpty(msg.ParentID), domain.ErrNotFound)
		}
		return fmt.Errorf("create message: %w: %v", domain.ErrStore, err)
	}

	return nil
}

// Get retrieves a message by ID
func (r *PostgresMessageRepository) Get(ctx context.Context, id string) (*chatModels.Message, error) {
	query := fmt.Sprintf(`
		SELECT id, content, parent_id, role, version, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Messages)

	msg, err := scanMessageRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("message %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get message: %w: %v", domain.ErrStore, err)
	}

	return msg, nil
}

// IncrementVersion overwrites the row's content and bumps its version in a
// single statement, so the read-modify-write cannot race another edit.
func (r *PostgresMessageRepository) IncrementVersion(ctx context.Context, id, content string) (*chatModels.Message, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $2, version = version + 1
		WHERE id = $1
		RETURNING id, content, parent_id, role, version, created_at
	`, r.tables.Messages)

	msg, err := scanMessageRow(r.pool.QueryRow(ctx, query, id, content))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("message %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("increment version: %w: %v", domain.ErrStore, err)
	}

	return msg, nil
}

// ListAll returns every message ordered by creation time ascending
func (r *PostgresMessageRepository) ListAll(ctx context.Context) ([]chatModels.Message, error) {
	query := fmt.Sprintf(`
		SELECT id, content, parent_id, role, version, created_at
		FROM %s
		ORDER BY created_at ASC
	`, r.tables.Messages)

	return r.queryMessages(ctx, query)
}

// ListChildren returns the messages whose parent_id equals parentID
func (r *PostgresMessageRepository) ListChildren(ctx context.Context, parentID string) ([]chatModels.Message, error) {
	query := fmt.Sprintf(`
		SELECT id, content, parent_id, role, version, created_at
		FROM %s
		WHERE parent_id = $1
	`, r.tables.Messages)

	return r.queryMessages(ctx, query, parentID)
}

// ListByParentOrderedByVersion returns children of parentID ordered by version
func (r *PostgresMessageRepository) ListByParentOrderedByVersion(ctx context.Context, parentID string) ([]chatModels.Message, error) {
	query := fmt.Sprintf(`
		SELECT id, content, parent_id, role, version, created_at
		FROM %s
		WHERE parent_id = $1
		ORDER BY version ASC
	`, r.tables.Messages)

	return r.queryMessages(ctx, query, parentID)
}

func (r *PostgresMessageRepository) queryMessages(ctx context.Context, query string, args ...interface{}) ([]chatModels.Message, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w: %v", domain.ErrStore, err)
	}
	defer rows.Close()

	var messages []chatModels.Message
	for rows.Next() {
		msg, err := scanMessageRow(rows)
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

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
