package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"arbor/internal/config"
	"arbor/internal/domain"
	chatModels "arbor/internal/domain/models/chat"
	chatRepo "arbor/internal/domain/repositories/chat"
	chatSvc "arbor/internal/domain/services/chat"
	"arbor/internal/metrics"
)

// Session implements the Orchestrator interface. One instance exists per
// conversation session and holds the session's visible state; user actions
// are serialized through the busy flag, a second submission while one is in
// flight is rejected rather than queued.
//
// The submit flow is a saga of independent steps (persist message, persist
// prompt, generate, persist reply, refresh). None of them is transactional
// with another; each failure is logged with its step name so a retry can
// resume with durable state intact.
type Session struct {
	messageRepo chatRepo.MessageRepository
	promptRepo  chatRepo.PromptRepository
	providers   *ProviderRegistry
	cfg         *config.Config
	metrics     *metrics.Metrics
	logger      *slog.Logger

	mu         sync.Mutex
	busy       bool
	editTarget *chatModels.Message
	transcript []chatModels.Message
}

// NewSession creates a session orchestrator over the given repositories and
// provider registry.
func NewSession(
	messageRepo chatRepo.MessageRepository,
	promptRepo chatRepo.PromptRepository,
	providers *ProviderRegistry,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Session {
	return &Session{
		messageRepo: messageRepo,
		promptRepo:  promptRepo,
		providers:   providers,
		cfg:         cfg,
		metrics:     m,
		logger:      logger,
	}
}

var _ chatSvc.Orchestrator = (*Session)(nil)

// Submit runs the full send-or-edit flow. The returned error is nil when the
// user message and its reply both persisted; a provider failure surfaces as
// domain.ErrProvider with the user message already durable.
func (s *Session) Submit(ctx context.Context, text string) (*chatSvc.SubmitResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		s.metrics.SubmissionsRejected.WithLabelValues("empty").Inc()
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, domain.ErrEmptySubmission)
	}

	s.mu.Lock()
	if s.busy {
		// A rejected submission must not leave its pending edit behind, or
		// the next unrelated submit would silently run the edit branch.
		s.editTarget = nil
		s.mu.Unlock()
		s.metrics.SubmissionsRejected.WithLabelValues("busy").Inc()
		return nil, domain.ErrSessionBusy
	}
	s.busy = true
	// Consume the edit target with the busy claim: once a submission owns
	// it, no later failure can leak it into a subsequent submit.
	target := s.editTarget
	s.editTarget = nil
	s.mu.Unlock()

	// Busy clears on every terminal path so the user can retry.
	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	userMsg, edited, err := s.persistUserMessage(ctx, target, trimmed)
	if err != nil {
		s.metrics.SubmissionFailuresTotal.WithLabelValues("persist_message").Inc()
		return nil, err
	}
	kind := "create"
	if edited {
		kind = "edit"
	}
	s.metrics.SubmissionsTotal.WithLabelValues(kind).Inc()

	// Audit trail write, recording the literal submission before trimming.
	// The message content is already durable, so a failure here is logged
	// and never aborts the submission.
	prompt := &chatModels.Prompt{MessageID: userMsg.ID, Content: text}
	if err := s.promptRepo.Create(ctx, prompt); err != nil {
		s.metrics.PromptWriteFailuresTotal.Inc()
		s.logger.Warn("prompt audit write failed",
			"step", "persist_prompt",
			"message_id", userMsg.ID,
			"error", err,
		)
	}

	reply, err := s.generate(ctx, trimmed)
	if err != nil {
		s.metrics.SubmissionFailuresTotal.WithLabelValues("generate").Inc()
		s.logger.Error("completion failed",
			"step", "generate",
			"message_id", userMsg.ID,
			"model", s.cfg.DefaultModel,
			"error", err,
		)
		// The user message stays persisted without a reply; not rolled back.
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}

	result := &chatSvc.SubmitResult{UserMessage: userMsg, Edited: edited}

	assistant := &chatModels.Message{
		Content:  truncate(reply.Text, config.MaxCompletionLength),
		ParentID: &userMsg.ID,
		Role:     chatModels.RoleAssistant,
		Version:  1,
	}
	if err := s.messageRepo.Create(ctx, assistant); err != nil {
		s.metrics.SubmissionFailuresTotal.WithLabelValues("persist_reply").Inc()
		s.logger.Error("reply persist failed",
			"step", "persist_reply",
			"message_id", userMsg.ID,
			"error", err,
		)
		// Refresh below simply shows no reply.
	} else {
		result.AssistantMessage = assistant
	}

	if transcript, err := s.messageRepo.ListAll(ctx); err != nil {
		s.metrics.SubmissionFailuresTotal.WithLabelValues("refresh").Inc()
		s.logger.Error("transcript refresh failed",
			"step", "refresh",
			"error", err,
		)
		// Keep the previously visible transcript rather than clearing it.
	} else {
		s.mu.Lock()
		s.transcript = transcript
		s.mu.Unlock()
	}

	result.Transcript = s.Transcript()

	s.logger.Info("submission complete",
		"message_id", userMsg.ID,
		"edited", edited,
		"version", userMsg.Version,
		"reply", result.AssistantMessage != nil,
	)

	return result, nil
}

// persistUserMessage creates a root user message, or revises the edit target
// in place (same id, version+1, no new row).
func (s *Session) persistUserMessage(ctx context.Context, target *chatModels.Message, text string) (*chatModels.Message, bool, error) {
	if target != nil {
		msg, err := s.messageRepo.IncrementVersion(ctx, target.ID, text)
		if err != nil {
			return nil, false, err
		}
		return msg, true, nil
	}

	msg := &chatModels.Message{
		Content: text,
		Role:    chatModels.RoleUser,
		Version: 1,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, false, err
	}
	return msg, false, nil
}

// generate calls the completion provider under the configured timeout, so a
// hung call returns the session to idle instead of wedging the busy flag.
func (s *Session) generate(ctx context.Context, prompt string) (*chatSvc.GenerateResponse, error) {
	provider, err := s.providers.Resolve(s.cfg.DefaultModel)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()

	start := time.Now()
	resp, err := provider.Generate(ctx, &chatSvc.GenerateRequest{
		Prompt: prompt,
		Model:  s.cfg.DefaultModel,
	})
	s.metrics.ProviderRequestDuration.WithLabelValues(provider.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.ProviderRequestsTotal.WithLabelValues(provider.Name(), "error").Inc()
		return nil, err
	}
	s.metrics.ProviderRequestsTotal.WithLabelValues(provider.Name(), "ok").Inc()

	if strings.TrimSpace(resp.Text) == "" {
		return nil, fmt.Errorf("provider %s returned an empty completion", provider.Name())
	}

	return resp, nil
}

// BeginEdit marks a user message as the pending edit target. The returned
// copy carries the current content for prefilling the input.
func (s *Session) BeginEdit(ctx context.Context, messageID string) (*chatModels.Message, error) {
	msg, err := s.messageRepo.Get(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if !msg.Editable() {
		return nil, fmt.Errorf("%w: only user messages can be edited", domain.ErrValidation)
	}

	s.mu.Lock()
	s.editTarget = msg
	s.mu.Unlock()

	return msg, nil
}

// CancelEdit clears the pending edit target.
func (s *Session) CancelEdit() {
	s.mu.Lock()
	s.editTarget = nil
	s.mu.Unlock()
}

// Refresh reloads the visible transcript. On read failure the previously
// loaded transcript is kept and the error returned.
func (s *Session) Refresh(ctx context.Context) ([]chatModels.Message, error) {
	transcript, err := s.messageRepo.ListAll(ctx)
	if err != nil {
		return s.Transcript(), err
	}

	s.mu.Lock()
	s.transcript = transcript
	s.mu.Unlock()

	return transcript, nil
}

// ViewFollowUps returns all children of the message, any role.
func (s *Session) ViewFollowUps(ctx context.Context, messageID string) ([]chatModels.Message, error) {
	if _, err := s.messageRepo.Get(ctx, messageID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListChildren(ctx, messageID)
}

// ViewPreviousVersions returns the combined version history for a message:
// the historical child-by-version rows plus the prompt audit records, merged
// into one list sorted by creation time. The prompt trail is what actually
// carries revision history, since edits mutate the message row in place.
func (s *Session) ViewPreviousVersions(ctx context.Context, messageID string) ([]chatModels.VersionHistoryEntry, error) {
	if _, err := s.messageRepo.Get(ctx, messageID); err != nil {
		return nil, err
	}

	versions, err := s.messageRepo.ListByParentOrderedByVersion(ctx, messageID)
	if err != nil {
		return nil, err
	}

	prompts, err := s.promptRepo.ListForMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}

	return chatModels.MergeHistory(versions, prompts), nil
}

// Transcript returns a copy of the currently visible transcript.
func (s *Session) Transcript() []chatModels.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]chatModels.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Busy reports whether a submission is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// truncate caps text at max bytes without splitting a multi-byte rune.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
