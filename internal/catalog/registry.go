// Package catalog maps model identifiers to the provider that serves them.
// The catalog ships embedded in the binary so routing never depends on a
// network fetch at startup.
package catalog

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// ModelInfo describes one model surfaced to clients
type ModelInfo struct {
	ID          string `yaml:"id" json:"id"`
	DisplayName string `yaml:"display_name" json:"display_name"`
}

// ProviderModels lists a provider's models and its routing prefix
type ProviderModels struct {
	Name        string      `yaml:"name" json:"name"`
	ModelPrefix string      `yaml:"model_prefix" json:"model_prefix"`
	Models      []ModelInfo `yaml:"models" json:"models"`
}

type catalogFile struct {
	Providers []ProviderModels `yaml:"providers"`
}

// Registry resolves model ids to provider names
type Registry struct {
	providers []ProviderModels
	mu        sync.RWMutex
}

// NewRegistry creates a registry from the embedded catalog YAML
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/models.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read model catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model catalog: %w", err)
	}

	if len(file.Providers) == 0 {
		return nil, fmt.Errorf("model catalog lists no providers")
	}

	return &Registry{providers: file.Providers}, nil
}

// ProviderFor returns the provider name serving the given model id
func (r *Registry) ProviderFor(model string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers {
		if p.ModelPrefix != "" && strings.HasPrefix(model, p.ModelPrefix) {
			return p.Name, nil
		}
	}

	return "", fmt.Errorf("no provider serves model %q", model)
}

// ListModels returns every model in catalog order
func (r *Registry) ListModels() []ModelInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var models []ModelInfo
	for _, p := range r.providers {
		models = append(models, p.Models...)
	}
	return models
}
