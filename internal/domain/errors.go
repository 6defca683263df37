package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// ConflictError indicates the operation collides with current state
	// (e.g. a submission while another one is still in flight)
	ConflictError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }
func (e *ConflictError) Error() string   { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *ConflictError) StatusCode() int   { return http.StatusConflict }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")

	// ErrStore marks a row-store read/write failure. A failed write aborts
	// the in-flight submission; a failed read leaves the previously loaded
	// transcript stale rather than clearing it.
	ErrStore = errors.New("store failure")

	// ErrProvider marks a completion-provider failure. The user message from
	// the same submission stays persisted without a reply.
	ErrProvider = errors.New("provider failure")

	// ErrEmptySubmission rejects blank input before any network call.
	ErrEmptySubmission = errors.New("empty submission")

	// ErrSessionBusy rejects a submission while another one is in flight.
	// Submissions are rejected, never queued.
	ErrSessionBusy = errors.New("session busy")
)
