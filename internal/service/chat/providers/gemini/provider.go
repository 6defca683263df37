package gemini

import (
	"context"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	chatSvc "arbor/internal/domain/services/chat"
)

// Provider implements the completion Provider interface for Google Gemini
// models via the Generative Language API.
type Provider struct {
	client *genai.Client
}

// NewProvider creates a new Gemini provider with the given API key.
func NewProvider(ctx context.Context, apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Provider{client: client}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "gemini"
}

// SupportsModel returns true if this provider serves the given model.
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "gemini-")
}

// Generate sends the prompt as a single user content and returns the
// completion text. No conversation history is forwarded; each call is
// stateless from the provider's perspective.
func (p *Provider) Generate(ctx context.Context, req *chatSvc.GenerateRequest) (*chatSvc.GenerateResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by gemini provider", req.Model)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	resp, err := p.client.Models.GenerateContent(ctx, req.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini returned an empty completion")
	}

	out := &chatSvc.GenerateResponse{
		Text:  text,
		Model: req.Model,
	}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return out, nil
}
