package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Mohakgarg5/littlescreen-v2/internal/services"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Cache policies for public listings.
const (
	catalogCache   = "public, s-maxage=1800"
	referenceCache = "public, s-maxage=3600, stale-while-revalidate=86400"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads r's body into v. A malformed body is a validation error on "body".
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return shared.Invalid("body", "Invalid JSON body")
	}
	return nil
}

// fail writes the response for err. Unexpected errors are logged and reported generically.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		fe *shared.FieldError
		ue *shared.UpstreamError
	)

	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fe.Message, "field": fe.Field})
	case errors.Is(err, shared.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, shared.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, shared.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.As(err, &ue):
		status := ue.Status
		if status < 400 {
			status = http.StatusBadGateway
		}
		writeError(w, status, ue.Message)
	case errors.Is(err, services.ErrUnexpectedReply), errors.Is(err, services.ErrUnparsableReply):
		a.logger.Error("classifier reply rejected", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, shared.ErrServiceUnavailable):
		a.logger.Warn("service unavailable", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, "Service unavailable")
	default:
		a.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
