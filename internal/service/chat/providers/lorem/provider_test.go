package lorem

import (
	"context"
	"testing"
	"time"

	chatSvc "arbor/internal/domain/services/chat"
)

func TestSupportsModel(t *testing.T) {
	p := NewProvider()

	if !p.SupportsModel("lorem-fast") {
		t.Error("expected lorem-fast supported")
	}
	if p.SupportsModel("gemini-1.5-flash") {
		t.Error("expected gemini model not supported")
	}
}

func TestGenerate_ProducesText(t *testing.T) {
	p := NewProvider()

	resp, err := p.Generate(context.Background(), &chatSvc.GenerateRequest{
		Prompt: "Say something",
		Model:  "lorem-fast",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp.Text == "" {
		t.Error("expected non-empty text")
	}
	if resp.Model != "lorem-fast" {
		t.Errorf("expected model echoed back, got %q", resp.Model)
	}
	if resp.OutputTokens == 0 {
		t.Error("expected an output token estimate")
	}
}

func TestGenerate_UnsupportedModel(t *testing.T) {
	p := NewProvider()

	_, err := p.Generate(context.Background(), &chatSvc.GenerateRequest{
		Prompt: "Say something",
		Model:  "gpt-4",
	})
	if err == nil {
		t.Error("expected an error for an unsupported model")
	}
}

func TestGenerate_SlowModelHonorsCancellation(t *testing.T) {
	p := NewProvider()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.Generate(ctx, &chatSvc.GenerateRequest{
		Prompt: "Say something",
		Model:  "lorem-slow",
	})
	if err == nil {
		t.Fatal("expected a context error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("expected the wait to abort promptly, took %v", elapsed)
	}
}
