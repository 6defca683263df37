package catalog

import (
	"testing"
)

func TestProviderFor_RoutesByPrefix(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}

	tests := []struct {
		model string
		want  string
	}{
		{"gemini-1.5-flash", "gemini"},
		{"gemini-2.0-experimental", "gemini"}, // prefix match, not exact catalog entry
		{"claude-sonnet-4-5-20250929", "anthropic"},
		{"lorem-fast", "lorem"},
	}

	for _, tt := range tests {
		name, err := registry.ProviderFor(tt.model)
		if err != nil {
			t.Errorf("ProviderFor(%q) failed: %v", tt.model, err)
			continue
		}
		if name != tt.want {
			t.Errorf("ProviderFor(%q) = %q, want %q", tt.model, name, tt.want)
		}
	}
}

func TestProviderFor_UnknownModel(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}

	if _, err := registry.ProviderFor("gpt-4"); err == nil {
		t.Error("expected an error for a model no provider serves")
	}
}

func TestListModels_ReturnsCatalogOrder(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}

	models := registry.ListModels()
	if len(models) == 0 {
		t.Fatal("expected a non-empty catalog")
	}
	for _, m := range models {
		if m.ID == "" || m.DisplayName == "" {
			t.Errorf("catalog entry incomplete: %+v", m)
		}
	}
}
