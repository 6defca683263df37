package chat

import (
	"time"
)

// Prompt is an immutable audit record of a raw user submission.
// One row is written per send or edit attempt, so the full edit history of a
// message survives even though the message row itself is mutated in place.
// Prompts are append-only; they are never updated or deleted.
type Prompt struct {
	ID        string    `json:"id" db:"id"`
	MessageID string    `json:"message_id" db:"message_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
