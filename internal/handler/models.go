package handler

import (
	"log/slog"
	"net/http"

	"arbor/internal/catalog"
	"arbor/internal/config"
	"arbor/internal/httputil"
)

// ModelsHandler serves the model catalog
type ModelsHandler struct {
	catalog *catalog.Registry
	cfg     *config.Config
	logger  *slog.Logger
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(cat *catalog.Registry, cfg *config.Config, logger *slog.Logger) *ModelsHandler {
	return &ModelsHandler{
		catalog: cat,
		cfg:     cfg,
		logger:  logger,
	}
}

type modelsResponse struct {
	DefaultModel string              `json:"default_model"`
	Models       []catalog.ModelInfo `json:"models"`
}

// ListModels returns the catalog and the configured default
// GET /api/models
func (h *ModelsHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, modelsResponse{
		DefaultModel: h.cfg.DefaultModel,
		Models:       h.catalog.ListModels(),
	})
}
