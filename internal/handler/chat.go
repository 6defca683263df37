package handler

import (
	"log/slog"
	"net/http"

	chatModels "arbor/internal/domain/models/chat"
	chatSvc "arbor/internal/domain/services/chat"
	"arbor/internal/httputil"
	serviceChat "arbor/internal/service/chat"
)

// ChatHandler handles conversation HTTP requests.
// Handlers only talk to the orchestrator, never to repositories.
type ChatHandler struct {
	orchestrator chatSvc.Orchestrator
	logger       *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(orchestrator chatSvc.Orchestrator, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// ListMessages returns the full transcript ascending by creation time
// GET /api/messages
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	transcript, err := h.orchestrator.Refresh(r.Context())
	if err != nil {
		// Stale transcript beats an empty panel; surface the cached copy.
		h.logger.Error("transcript refresh failed", "error", err)
		httputil.RespondJSON(w, http.StatusOK, messagesResponse{Messages: h.orchestrator.Transcript(), Stale: true})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, messagesResponse{Messages: transcript})
}

// SubmitMessage runs the full send-or-edit orchestration
// POST /api/messages
func (h *ChatHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	var req chatSvc.SubmitRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := serviceChat.ValidateSubmitRequest(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.EditingMessageID != "" {
		if _, err := h.orchestrator.BeginEdit(r.Context(), req.EditingMessageID); err != nil {
			handleError(w, err)
			return
		}
	}

	result, err := h.orchestrator.Submit(r.Context(), req.Content)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// GetFollowUps returns the branch view: all children of a message, any role
// GET /api/messages/{id}/followups
func (h *ChatHandler) GetFollowUps(w http.ResponseWriter, r *http.Request) {
	messageID, ok := PathParam(w, r, "id", "Message ID")
	if !ok {
		return
	}

	followUps, err := h.orchestrator.ViewFollowUps(r.Context(), messageID)
	if err != nil {
		handleError(w, err)
		return
	}

	if followUps == nil {
		followUps = []chatModels.Message{}
	}
	httputil.RespondJSON(w, http.StatusOK, followUps)
}

// GetVersionHistory returns the combined previous-versions view for a message
// GET /api/messages/{id}/versions
func (h *ChatHandler) GetVersionHistory(w http.ResponseWriter, r *http.Request) {
	messageID, ok := PathParam(w, r, "id", "Message ID")
	if !ok {
		return
	}

	entries, err := h.orchestrator.ViewPreviousVersions(r.Context(), messageID)
	if err != nil {
		handleError(w, err)
		return
	}

	if entries == nil {
		entries = []chatModels.VersionHistoryEntry{}
	}
	httputil.RespondJSON(w, http.StatusOK, entries)
}

// HealthCheck reports liveness
// GET /health
func (h *ChatHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type messagesResponse struct {
	Messages []chatModels.Message `json:"messages"`
	Stale    bool                 `json:"stale,omitempty"`
}
