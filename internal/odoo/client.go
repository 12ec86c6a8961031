// SPDX-License-Identifier: MIT

// Package odoo is a thin client for the Odoo XML-RPC external API. It speaks
// to the two endpoints the backend exposes: /xmlrpc/2/common (authenticate)
// and /xmlrpc/2/object (execute_kw on business models).
package odoo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/kolo/xmlrpc"

	"github.com/wizsmith/odoo-bridge/internal/log"
)

// Config carries the settings the client needs to reach the backend.
type Config struct {
	URL      string
	Database string
	Username string
	Password string

	// Timeout bounds a single call. Zero means no timeout.
	Timeout time.Duration
}

// Client is a stateless proxy for the backend. It holds no session; callers
// obtain a Session via Connect for each unit of work.
type Client struct {
	cfg    Config
	common *xmlrpc.Client
	object *xmlrpc.Client
}

// Session bundles an authenticated uid with the client that produced it. The
// backend protocol requires the password to be resent on every object call,
// so the session keeps a reference to the client's credentials.
type Session struct {
	UID    int64
	client *Client
}

// New constructs a Client for the given backend. It does not dial; the first
// network traffic happens on Connect.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.URL, "/")

	common, err := xmlrpc.NewClient(base+"/xmlrpc/2/common", nil)
	if err != nil {
		return nil, fmt.Errorf("odoo: common endpoint: %w", err)
	}
	object, err := xmlrpc.NewClient(base+"/xmlrpc/2/object", nil)
	if err != nil {
		return nil, fmt.Errorf("odoo: object endpoint: %w", err)
	}

	cfg.URL = base
	return &Client{cfg: cfg, common: common, object: object}, nil
}

// Connect authenticates against the backend and returns a Session. Missing
// credentials fail before any network traffic.
func (c *Client) Connect(ctx context.Context) (*Session, error) {
	if strings.TrimSpace(c.cfg.Username) == "" || strings.TrimSpace(c.cfg.Password) == "" {
		missing := "ODOO_USERNAME"
		if strings.TrimSpace(c.cfg.Username) != "" {
			missing = "ODOO_PASSWORD"
		}
		return nil, &Error{Sentinel: ErrConfiguration, Op: "connect", Detail: missing + " is not set"}
	}

	raw, err := c.call(ctx, c.common, "common", "authenticate", []any{
		c.cfg.Database, c.cfg.Username, c.cfg.Password, map[string]any{},
	})
	if err != nil {
		return nil, err
	}

	uid, ok := asInt64(raw)
	if !ok || uid == 0 {
		// The backend answers false (not a fault) for bad credentials.
		backendCallsTotal.WithLabelValues("common", "authenticate", "auth_failed").Inc()
		return nil, &Error{
			Sentinel: ErrAuthFailed,
			Op:       "authenticate",
			Detail:   fmt.Sprintf("user %q on database %q", c.cfg.Username, c.cfg.Database),
		}
	}

	logger := log.WithComponentFromContext(ctx, "odoo")
	logger.Debug().
		Str(log.FieldEvent, "backend.authenticated").
		Str(log.FieldDatabase, c.cfg.Database).
		Int64("uid", uid).
		Msg("authenticated against backend")

	return &Session{UID: uid, client: c}, nil
}

// ExecuteKw invokes execute_kw(db, uid, password, model, method, args, kwargs)
// on the object endpoint.
func (s *Session) ExecuteKw(ctx context.Context, model, method string, args []any, kwargs map[string]any) (any, error) {
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	c := s.client
	return c.call(ctx, c.object, "object", "execute_kw", []any{
		c.cfg.Database, s.UID, c.cfg.Password, model, method, args, kwargs,
	})
}

// call performs one XML-RPC method call with context cancellation and
// metrics. The underlying transport has no cancellation hook, so the call
// runs in a goroutine and is abandoned if ctx ends first.
func (c *Client) call(ctx context.Context, endpoint *xmlrpc.Client, endpointName, method string, params []any) (any, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()

	type result struct {
		raw any
		err error
	}
	done := make(chan result, 1)
	go func() {
		var raw any
		err := endpoint.Call(method, params, &raw)
		done <- result{raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		observeCall(endpointName, method, "unavailable", time.Since(start).Seconds())
		return nil, &Error{Sentinel: ErrUnavailable, Op: method, Err: ctx.Err()}
	case res := <-done:
		elapsed := time.Since(start).Seconds()
		if res.err != nil {
			classified := classify(method, res.err)
			var oerr *Error
			outcome := "bad_response"
			if errors.As(classified, &oerr) {
				switch {
				case errors.Is(oerr.Sentinel, ErrBackend):
					outcome = "fault"
				case errors.Is(oerr.Sentinel, ErrUnavailable):
					outcome = "unavailable"
				}
			}
			observeCall(endpointName, method, outcome, elapsed)
			return nil, classified
		}
		observeCall(endpointName, method, "success", elapsed)
		return res.raw, nil
	}
}

// classify maps transport-level errors onto the package sentinels.
func classify(op string, err error) error {
	var fault xmlrpc.FaultError
	if errors.As(err, &fault) {
		return &Error{Sentinel: ErrBackend, Op: op, Detail: fault.String}
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return &Error{Sentinel: ErrUnavailable, Op: op, Err: err}
	}

	return &Error{Sentinel: ErrBadResponse, Op: op, Err: err}
}

// asInt64 extracts an integer uid from the dynamic authenticate response.
// The backend returns an int on success and boolean false on rejection.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
