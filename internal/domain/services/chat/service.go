// Package chat defines the service contracts for conversation orchestration.
package chat

import (
	"context"

	chatModels "arbor/internal/domain/models/chat"
)

// SubmitRequest is the payload for a send-or-edit submission.
type SubmitRequest struct {
	Content          string `json:"content"`
	EditingMessageID string `json:"editing_message_id,omitempty"`
}

// SubmitResult reports what one submission produced.
// AssistantMessage is nil when the provider call failed or the reply insert
// was rejected; the user message is still durably persisted in that case.
type SubmitResult struct {
	UserMessage      *chatModels.Message  `json:"user_message"`
	AssistantMessage *chatModels.Message  `json:"assistant_message,omitempty"`
	Edited           bool                 `json:"edited"`
	Transcript       []chatModels.Message `json:"transcript"`
}

// Orchestrator drives one conversation session. A single instance holds the
// session's visible state (transcript, follow-up panel, version history,
// pending edit target) and serializes user actions through a busy flag: a
// second submission while one is in flight is rejected, not queued.
type Orchestrator interface {
	// Submit persists text as a new root user message, or as a new version
	// of the pending edit target, records the prompt audit row, invokes the
	// completion provider, persists the assistant reply as a child of the
	// user message and refreshes the transcript.
	Submit(ctx context.Context, text string) (*SubmitResult, error)

	// BeginEdit marks a user message as the pending edit target and returns
	// it so the caller can prefill the input with the current content.
	BeginEdit(ctx context.Context, messageID string) (*chatModels.Message, error)

	// CancelEdit clears the pending edit target.
	CancelEdit()

	// Refresh reloads the visible transcript from the store. On read failure
	// the previously loaded transcript is kept, not cleared.
	Refresh(ctx context.Context) ([]chatModels.Message, error)

	// ViewFollowUps loads the follow-up panel: all children of the message,
	// any role.
	ViewFollowUps(ctx context.Context, messageID string) ([]chatModels.Message, error)

	// ViewPreviousVersions loads the combined version history for a message:
	// child rows by version plus the prompt audit records, sorted by time.
	ViewPreviousVersions(ctx context.Context, messageID string) ([]chatModels.VersionHistoryEntry, error)

	// Transcript returns the currently visible transcript without touching
	// the store.
	Transcript() []chatModels.Message

	// Busy reports whether a submission is in flight.
	Busy() bool
}
