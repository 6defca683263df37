package lorem

import (
	"context"
	"fmt"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"

	chatSvc "arbor/internal/domain/services/chat"
)

// Provider is a mock completion provider that generates lorem ipsum text.
// Used for development and tests without requiring real API keys.
type Provider struct {
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// SupportsModel returns true if the model name starts with "lorem-".
// Example models: "lorem-fast", "lorem-slow"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// Generate produces a short lorem ipsum paragraph. "lorem-slow" models add a
// delay to simulate a blocking provider call; the context cancels the wait.
func (p *Provider) Generate(ctx context.Context, req *chatSvc.GenerateRequest) (*chatSvc.GenerateResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by lorem provider", req.Model)
	}

	if delay := getDelay(req.Model); delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	text := p.generator.Paragraph(2, 4)

	return &chatSvc.GenerateResponse{
		Text:         text,
		Model:        req.Model,
		InputTokens:  len(strings.Fields(req.Prompt)),
		OutputTokens: len(strings.Fields(text)),
	}, nil
}

func getDelay(model string) time.Duration {
	if strings.Contains(model, "slow") {
		return 2 * time.Second
	}
	return 0
}
