package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gyaneshwarpardhi/roomgraph/internal/engine"
	"github.com/gyaneshwarpardhi/roomgraph/internal/event"
	"github.com/gyaneshwarpardhi/roomgraph/internal/world"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps domain and engine errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, world.ErrInvalidRoom), errors.Is(err, event.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, world.ErrUnknownRoom), errors.Is(err, world.ErrNoRoute), errors.Is(err, world.ErrNoExit):
		return http.StatusNotFound
	case errors.Is(err, world.ErrLayoutFull), errors.Is(err, world.ErrDuplicateRoom):
		return http.StatusConflict
	case errors.Is(err, engine.ErrQueueFull):
		return http.StatusTooManyRequests
	case errors.Is(err, engine.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
