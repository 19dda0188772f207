package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/recallstack/recall/pkg/recall"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// Encoding failures after the header is written can only be logged by the
	// caller; the response is already committed.
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto the wire: validation errors become
// 400 with the message, everything else is a 500 carrying the underlying
// message. Storage errors are not retried or recovered.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, recall.ErrValidation) {
		status = http.StatusBadRequest
	}

	if status >= 500 && logger != nil {
		logger.Error("request failed", zap.Error(err))
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}

// decodeJSON decodes a request body, treating malformed JSON as a 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Body == nil {
		writeBadRequest(w, "request body is empty")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return false
	}
	return true
}
