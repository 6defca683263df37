package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxBodyBytes caps request bodies at 1MB; chat submissions are text only.
const maxBodyBytes = 1 << 20

// ParseJSON decodes JSON from the request body into the given destination.
// The body size is limited so oversized submissions fail with 413 rather
// than being buffered; field-level validation happens downstream.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
