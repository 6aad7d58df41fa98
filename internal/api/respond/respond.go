// Package respond writes JSON responses in the {result} / {error} envelope
// used by the delayed-notifier API.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/wb-go/wbf/zlog"
)

type envelope struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to encode response")
	}
}

// OK writes a 200 response with v as the result.
func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, envelope{Result: v})
}

// Created writes a 201 response with v as the result.
func Created(w http.ResponseWriter, v any) {
	JSON(w, http.StatusCreated, envelope{Result: v})
}

// Accepted writes a 202 response with v as the result.
func Accepted(w http.ResponseWriter, v any) {
	JSON(w, http.StatusAccepted, envelope{Result: v})
}

// Fail writes an error response.
func Fail(w http.ResponseWriter, status int, err error) {
	JSON(w, status, envelope{Error: err.Error()})
}
