// SPDX-License-Identifier: MIT

// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"github.com/go-chi/chi/v5"

	"github.com/wizsmith/odoo-bridge/internal/log"
)

// NewRouter constructs a chi router with the canonical middleware stack
// applied.
func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	// 1. Recoverer (outermost safety net)
	r.Use(Recoverer)
	// 2. RequestID (correlation early)
	r.Use(RequestID)
	// 3. CORS (so OPTIONS and browser clients behave)
	r.Use(CORS())
	// 4. Metrics (track all requests)
	r.Use(Metrics())
	// 5. Logging (wraps handlers, captures full latency)
	r.Use(log.Middleware())
	return r
}
