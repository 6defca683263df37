package chat

import (
	"context"
)

// Provider defines the interface that all completion providers implement.
// The abstraction keeps the orchestration layer independent of which vendor
// SDK produces the reply.
type Provider interface {
	// Generate produces a completion for the request. Each call is stateless
	// from the provider's perspective: no prior transcript is forwarded.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider name (e.g. "gemini", "anthropic")
	Name() string

	// SupportsModel returns true if the provider serves the given model.
	SupportsModel(model string) bool
}

// GenerateRequest contains the parameters for a completion request.
type GenerateRequest struct {
	// Prompt is the single text prompt. The most recent human input is sent
	// verbatim as the entire prompt.
	Prompt string

	// Model is the model identifier (e.g. "gemini-1.5-flash")
	Model string
}

// GenerateResponse contains the provider's completion.
type GenerateResponse struct {
	// Text is the completion text.
	Text string

	// Model is the model that actually served the request.
	Model string

	// Token accounting, zero when the provider does not report usage.
	InputTokens  int
	OutputTokens int
}
