// SPDX-License-Identifier: MIT

// Package api provides the HTTP surface of the bridge: the action endpoint,
// the health endpoint and the metrics endpoint.
package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wizsmith/odoo-bridge/internal/api/middleware"
	"github.com/wizsmith/odoo-bridge/internal/bridge"
	"github.com/wizsmith/odoo-bridge/internal/config"
	"github.com/wizsmith/odoo-bridge/internal/odoo"
)

// ServiceName identifies the bridge in health responses.
const ServiceName = "Odoo API Bridge"

// Server holds the HTTP handler dependencies. It keeps no per-request state;
// every action request establishes its own backend session.
type Server struct {
	cfg     config.Config
	backend *odoo.Client

	// connectFn allows tests to stub session establishment; defaults to the
	// backend client's Connect.
	connectFn func(ctx context.Context) (bridge.Executor, error)
}

// New constructs the API server and its backend client.
func New(cfg config.Config) (*Server, error) {
	client, err := odoo.New(odoo.Config{
		URL:      cfg.OdooURL,
		Database: cfg.OdooDB,
		Username: cfg.OdooUsername,
		Password: cfg.OdooPassword,
		Timeout:  cfg.OdooTimeout,
	})
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, backend: client}
	s.connectFn = func(ctx context.Context) (bridge.Executor, error) {
		return client.Connect(ctx)
	}
	return s, nil
}

// SetConnectFunc overrides session establishment (for tests).
func (s *Server) SetConnectFunc(fn func(ctx context.Context) (bridge.Executor, error)) {
	s.connectFn = fn
}

// Router assembles the middleware stack and routes. Any GET answers the
// health payload and any POST dispatches an action, mirroring the
// single-endpoint contract the bridge's clients were built against.
func (s *Server) Router() http.Handler {
	r := middleware.NewRouter()

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/*", s.handleHealth)
	r.Post("/*", s.handleAction)

	return r
}
