package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"finanse/internal/core"
	applog "finanse/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps service errors to responses. Validation failures
// are 400 with a fixed message; storage failures are 500 carrying the
// engine's own message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrMissingFields) {
		writeError(w, http.StatusBadRequest, core.ErrMissingFields.Error())
		return
	}

	applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", applog.FieldError, err.Error())

	var se *core.StorageError
	if errors.As(err, &se) {
		writeError(w, http.StatusInternalServerError, se.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeRateLimited(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
}
