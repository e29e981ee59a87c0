package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"vegist/internal/storefront"
	"vegist/internal/telemetry"
)

var (
	errBadRequest  = errors.New("bad request")
	errRateLimited = errors.New("too many requests")
)

const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", errBadRequest, err)
	}
	if len(body) > maxBodyBytes {
		return fmt.Errorf("%w: request body too large", errBadRequest)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return fmt.Errorf("%w: empty request body", errBadRequest)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: invalid JSON payload", errBadRequest)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("JSON encode error", "error", err)
	}
}

// statusFor is the single place where operation errors become statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, storefront.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, storefront.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storefront.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"request_id", telemetry.RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, code, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
