// Package chat defines the store adapter contract for conversation state.
// Repositories are the sole point of contact with the external row store;
// services interact with messages and prompts only through these interfaces.
package chat

import (
	"context"

	chatModels "arbor/internal/domain/models/chat"
)

// MessageRepository persists and queries the conversation tree.
//
// No operation is transactional with any other: a message insert followed by a
// prompt insert is two independent calls, and callers must tolerate the second
// failing while the first succeeded.
type MessageRepository interface {
	// Create inserts a new message row. The store assigns ID and CreatedAt
	// and the returned values are written back into msg.
	Create(ctx context.Context, msg *chatModels.Message) error

	// Get retrieves a single message by ID.
	Get(ctx context.Context, id string) (*chatModels.Message, error)

	// IncrementVersion overwrites content and bumps version on the same row,
	// returning the updated record. The edit is not applied if the row does
	// not exist or the write is rejected.
	IncrementVersion(ctx context.Context, id, content string) (*chatModels.Message, error)

	// ListAll returns every message ordered by created_at ascending.
	ListAll(ctx context.Context) ([]chatModels.Message, error)

	// ListChildren returns the messages whose parent_id equals parentID,
	// any role. Used for the follow-up (branch) view.
	ListChildren(ctx context.Context, parentID string) ([]chatModels.Message, error)

	// ListByParentOrderedByVersion returns children of parentID ordered by
	// version ascending. This is the historical "previous versions" child
	// query; revision history proper comes from the prompt audit trail.
	ListByParentOrderedByVersion(ctx context.Context, parentID string) ([]chatModels.Message, error)
}

// PromptRepository persists the append-only prompt audit trail.
type PromptRepository interface {
	// Create inserts a prompt audit row. Failure never rolls back the
	// message write it accompanies; callers log and continue.
	Create(ctx context.Context, prompt *chatModels.Prompt) error

	// ListForMessage returns the prompts submitted for a message ordered by
	// created_at ascending.
	ListForMessage(ctx context.Context, messageID string) ([]chatModels.Prompt, error)
}
