package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"arbor/internal/config"
	chatSvc "arbor/internal/domain/services/chat"
	"arbor/internal/httputil"
	serviceChat "arbor/internal/service/chat"
)

// GenerateHandler is the completion relay endpoint. It accepts a single text
// prompt and forwards it to the configured provider; the wire contract is
// {"message": ...} in, {"response": ...} or {"error": ...} out.
type GenerateHandler struct {
	providers *serviceChat.ProviderRegistry
	cfg       *config.Config
	logger    *slog.Logger
}

// NewGenerateHandler creates a new generate relay handler
func NewGenerateHandler(providers *serviceChat.ProviderRegistry, cfg *config.Config, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{
		providers: providers,
		cfg:       cfg,
		logger:    logger,
	}
}

type generateRequest struct {
	Message string `json:"message"`
	Model   string `json:"model,omitempty"`
}

type generateResponse struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Generate relays one prompt to the completion provider
// POST /api/generate
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondJSON(w, http.StatusBadRequest, generateResponse{Error: "Message content is required"})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		httputil.RespondJSON(w, http.StatusBadRequest, generateResponse{Error: "Message content is required"})
		return
	}

	model := req.Model
	if model == "" {
		model = h.cfg.DefaultModel
	}

	provider, err := h.providers.Resolve(model)
	if err != nil {
		h.logger.Error("no provider for model", "model", model, "error", err)
		httputil.RespondJSON(w, http.StatusInternalServerError, generateResponse{Error: "Internal Server Error"})
		return
	}

	ctx, cancel := contextWithTimeout(r, h.cfg.ProviderTimeout)
	defer cancel()

	resp, err := provider.Generate(ctx, &chatSvc.GenerateRequest{
		Prompt: req.Message,
		Model:  model,
	})
	if err != nil {
		h.logger.Error("completion relay failed",
			"provider", provider.Name(),
			"model", model,
			"error", err,
		)
		httputil.RespondJSON(w, http.StatusInternalServerError, generateResponse{Error: "Internal Server Error"})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, generateResponse{Response: resp.Text})
}
