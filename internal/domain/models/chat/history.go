package chat

import (
	"sort"
	"time"
)

// Version history entry kinds.
const (
	EntryKindMessage = "message"
	EntryKindPrompt  = "prompt"
)

// VersionHistoryEntry is one row of the combined "previous versions" view.
// The view mixes two entity types: message rows reachable by parent reference
// and the prompt audit records for the viewed message. The tagged-union shape
// keeps the two distinguishable for rendering while allowing a single
// chronologically sorted list.
type VersionHistoryEntry struct {
	Kind      string    `json:"kind"`
	Message   *Message  `json:"message,omitempty"`
	Prompt    *Prompt   `json:"prompt,omitempty"`
	Content   string    `json:"content"`
	Version   int       `json:"version,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessageEntry wraps a message row as a history entry.
func NewMessageEntry(m Message) VersionHistoryEntry {
	msg := m
	return VersionHistoryEntry{
		Kind:      EntryKindMessage,
		Message:   &msg,
		Content:   m.Content,
		Version:   m.Version,
		CreatedAt: m.CreatedAt,
	}
}

// NewPromptEntry wraps a prompt audit record as a history entry.
func NewPromptEntry(p Prompt) VersionHistoryEntry {
	prm := p
	return VersionHistoryEntry{
		Kind:      EntryKindPrompt,
		Prompt:    &prm,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}
}

// MergeHistory combines message versions and prompt records into one list
// sorted by creation time. Sorting is stable so same-timestamp entries keep
// messages-before-prompts order.
func MergeHistory(versions []Message, prompts []Prompt) []VersionHistoryEntry {
	entries := make([]VersionHistoryEntry, 0, len(versions)+len(prompts))
	for _, m := range versions {
		entries = append(entries, NewMessageEntry(m))
	}
	for _, p := range prompts {
		entries = append(entries, NewPromptEntry(p))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries
}
