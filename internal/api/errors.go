// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wizsmith/odoo-bridge/internal/bridge"
	"github.com/wizsmith/odoo-bridge/internal/odoo"
)

// errorEnvelope is the uniform shape for unhandled failures (HTTP 500).
type errorEnvelope struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the uniform 500 envelope.
func writeError(w http.ResponseWriter, msg, errType string) {
	writeJSON(w, http.StatusInternalServerError, errorEnvelope{
		Success:   false,
		Error:     msg,
		ErrorType: errType,
	})
}

// errorType names the failure kind for the error_type field.
func errorType(err error) string {
	switch {
	case errors.Is(err, odoo.ErrConfiguration):
		return "ConfigurationError"
	case errors.Is(err, odoo.ErrAuthFailed):
		return "AuthenticationError"
	case errors.Is(err, odoo.ErrUnavailable):
		return "TransportError"
	case errors.Is(err, odoo.ErrBadResponse), errors.Is(err, bridge.ErrUnexpectedPayload):
		return "TransportError"
	case errors.Is(err, odoo.ErrBackend):
		return "BackendError"
	default:
		return "InternalError"
	}
}
