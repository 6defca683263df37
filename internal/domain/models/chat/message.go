package chat

import (
	"time"
)

// Message roles. Fixed at creation, never changed afterwards.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a node in the conversation tree.
// Messages branch via ParentID: an assistant reply is a child of the user
// message whose prompt produced it, and follow-up branches are additional
// children of the same parent. Editing a user message overwrites Content and
// bumps Version on the same row; it never creates a new Message.
type Message struct {
	ID        string    `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	ParentID  *string   `json:"parent_id,omitempty" db:"parent_id"`
	Role      string    `json:"role" db:"role"`
	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsRoot reports whether the message has no parent.
func (m *Message) IsRoot() bool {
	return m.ParentID == nil
}

// Editable reports whether the message may be revised in place.
// Only user messages are ever edited; assistant rows stay at version 1.
func (m *Message) Editable() bool {
	return m.Role == RoleUser
}
