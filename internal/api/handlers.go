// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wizsmith/odoo-bridge/internal/bridge"
	"github.com/wizsmith/odoo-bridge/internal/log"
	"github.com/wizsmith/odoo-bridge/internal/odoo"
)

// authTest reports the outcome of the health endpoint's live credential
// probe. The password itself never appears in the payload.
type authTest struct {
	Authenticated bool   `json:"authenticated"`
	UID           int64  `json:"uid,omitempty"`
	Error         string `json:"error,omitempty"`
}

// healthResponse is the GET payload.
type healthResponse struct {
	Status         string    `json:"status"`
	Service        string    `json:"service"`
	OdooURL        string    `json:"odoo_url"`
	OdooDB         string    `json:"odoo_db"`
	CredentialsSet bool      `json:"credentials_set"`
	HasUsername    bool      `json:"has_username"`
	HasPassword    bool      `json:"has_password"`
	AuthTest       *authTest `json:"auth_test"`
}

// handleHealth reports service identity and backend configuration. When
// credentials are configured it additionally probes authentication and
// reports the outcome as data; the response itself is always 200.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:         "ok",
		Service:        ServiceName,
		OdooURL:        s.cfg.OdooURL,
		OdooDB:         s.cfg.OdooDB,
		CredentialsSet: s.cfg.CredentialsSet(),
		HasUsername:    s.cfg.HasUsername(),
		HasPassword:    s.cfg.HasPassword(),
	}

	if resp.CredentialsSet {
		probe := &authTest{}
		if sess, err := s.backend.Connect(r.Context()); err != nil {
			probe.Error = err.Error()
			logger := log.WithComponentFromContext(r.Context(), "api")
			logger.Warn().
				Err(err).
				Str(log.FieldEvent, "health.auth_probe_failed").
				Msg("authentication probe failed")
		} else {
			probe.Authenticated = true
			probe.UID = sess.UID
		}
		resp.AuthTest = probe
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleAction parses the action envelope, establishes a backend session and
// dispatches. Validation failures and unknown actions are routine outcomes
// (200); everything else is a 500 with an error_type.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.WithComponentFromContext(ctx, "api")

	var req bridge.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().
			Err(err).
			Str(log.FieldEvent, "action.bad_body").
			Msg("request body is not a JSON object")
		writeError(w, "invalid JSON body: "+err.Error(), "RequestParseError")
		return
	}

	if strings.TrimSpace(req.Action) == "" {
		writeError(w, "missing 'action' parameter", "RequestError")
		return
	}

	sess, err := s.connectFn(ctx)
	if err != nil {
		logConnectFailure(logger, err)
		writeError(w, err.Error(), errorType(err))
		return
	}

	out, err := bridge.Dispatch(ctx, req, sess)
	if err != nil {
		writeError(w, err.Error(), errorType(err))
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func logConnectFailure(logger zerolog.Logger, err error) {
	evt := logger.Error()
	if errors.Is(err, odoo.ErrAuthFailed) || errors.Is(err, odoo.ErrConfiguration) {
		evt = logger.Warn()
	}
	evt.Err(err).
		Str(log.FieldEvent, "action.connect_failed").
		Msg("backend connection failed")
}
