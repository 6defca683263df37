package chat

import (
	"context"
	"fmt"
	"log/slog"

	"arbor/internal/catalog"
	"arbor/internal/config"
	chatSvc "arbor/internal/domain/services/chat"
	"arbor/internal/service/chat/providers/anthropic"
	"arbor/internal/service/chat/providers/gemini"
	"arbor/internal/service/chat/providers/lorem"
)

// ProviderRegistry routes a model id to the provider that serves it, using
// the embedded model catalog first and SupportsModel as a fallback.
type ProviderRegistry struct {
	providers map[string]chatSvc.Provider
	catalog   *catalog.Registry
}

// NewProviderRegistry creates an empty registry backed by the catalog
func NewProviderRegistry(cat *catalog.Registry) *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]chatSvc.Provider),
		catalog:   cat,
	}
}

// Register adds a provider under its own name
func (r *ProviderRegistry) Register(p chatSvc.Provider) {
	r.providers[p.Name()] = p
}

// Resolve returns the provider serving the given model
func (r *ProviderRegistry) Resolve(model string) (chatSvc.Provider, error) {
	if name, err := r.catalog.ProviderFor(model); err == nil {
		if p, ok := r.providers[name]; ok {
			return p, nil
		}
		return nil, fmt.Errorf("provider %q for model %q is not configured", name, model)
	}

	// Catalog miss: fall back to asking each provider directly
	for _, p := range r.providers {
		if p.SupportsModel(model) {
			return p, nil
		}
	}

	return nil, fmt.Errorf("no provider serves model %q", model)
}

// SetupProviders instantiates every provider the config has credentials for.
// The lorem mock is always registered so dev environments work without keys.
func SetupProviders(ctx context.Context, cfg *config.Config, cat *catalog.Registry, logger *slog.Logger) (*ProviderRegistry, error) {
	registry := NewProviderRegistry(cat)

	registry.Register(lorem.NewProvider())

	if cfg.GeminiAPIKey != "" {
		p, err := gemini.NewProvider(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("setup gemini provider: %w", err)
		}
		registry.Register(p)
		logger.Info("provider available", "name", "gemini", "models", "gemini-*")
	} else {
		logger.Warn("GEMINI_API_KEY not set - Gemini provider not available")
	}

	if cfg.AnthropicAPIKey != "" {
		p, err := anthropic.NewProvider(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("setup anthropic provider: %w", err)
		}
		registry.Register(p)
		logger.Info("provider available", "name", "anthropic", "models", "claude-*")
	}

	if _, err := registry.Resolve(cfg.DefaultModel); err != nil {
		logger.Warn("default model is not routable with current credentials",
			"model", cfg.DefaultModel,
			"error", err,
		)
	}

	return registry, nil
}
