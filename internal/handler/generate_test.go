package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"arbor/internal/catalog"
	"arbor/internal/config"
	chatSvc "arbor/internal/domain/services/chat"
	serviceChat "arbor/internal/service/chat"
)

type stubProvider struct {
	text string
	err  error
}

func (s *stubProvider) Name() string              { return "stub" }
func (s *stubProvider) SupportsModel(string) bool { return true }
func (s *stubProvider) Generate(ctx context.Context, req *chatSvc.GenerateRequest) (*chatSvc.GenerateResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &chatSvc.GenerateResponse{Text: s.text, Model: req.Model}, nil
}

func newGenerateHandler(t *testing.T, provider *stubProvider) *GenerateHandler {
	t.Helper()

	cat, err := catalog.NewRegistry()
	if err != nil {
		t.Fatalf("Failed to create catalog: %v", err)
	}
	registry := serviceChat.NewProviderRegistry(cat)
	registry.Register(provider)

	cfg := &config.Config{
		DefaultModel:    "stub-model",
		ProviderTimeout: 5 * time.Second,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewGenerateHandler(registry, cfg, logger)
}

func postGenerate(h *GenerateHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)
	return rec
}

func TestGenerate_RelaysCompletion(t *testing.T) {
	h := newGenerateHandler(t, &stubProvider{text: "A fine answer"})

	rec := postGenerate(h, `{"message": "What is Go?"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Response != "A fine answer" {
		t.Errorf("expected the provider text relayed, got %q", resp.Response)
	}
}

func TestGenerate_EmptyMessage(t *testing.T) {
	h := newGenerateHandler(t, &stubProvider{text: "unused"})

	for _, body := range []string{`{"message": ""}`, `{"message": "   "}`, `{}`} {
		rec := postGenerate(h, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
			continue
		}

		var resp struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Error != "Message content is required" {
			t.Errorf("expected the required-content error, got %q", resp.Error)
		}
	}
}

func TestGenerate_ProviderFailure(t *testing.T) {
	h := newGenerateHandler(t, &stubProvider{err: errors.New("upstream down")})

	rec := postGenerate(h, `{"message": "What is Go?"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Error != "Internal Server Error" {
		t.Errorf("expected the opaque relay error, got %q", resp.Error)
	}
}
