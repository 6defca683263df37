package config

const (
	// MaxMessageLength is the maximum length for a submitted message.
	// Matches the TEXT column but keeps a single submission well under the
	// request body cap so the failure surfaces as a validation error.
	MaxMessageLength = 32000

	// MaxCompletionLength caps the stored assistant reply. Replies longer
	// than this are truncated before persisting.
	MaxCompletionLength = 128000
)
