package handler

import (
	"context"
	"net/http"
	"time"
)

// contextWithTimeout derives a deadline-bound context from the request
func contextWithTimeout(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeout)
}
