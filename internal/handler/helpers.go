package handler

import (
	"errors"
	"net/http"

	"arbor/internal/domain"
	"arbor/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrSessionBusy):
		httputil.RespondError(w, http.StatusConflict, "a submission is already in flight")
	case errors.Is(err, domain.ErrProvider):
		httputil.RespondError(w, http.StatusBadGateway, "completion provider failed")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// PathParam extracts a required path parameter, writing a 400 if missing
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return value, true
}
