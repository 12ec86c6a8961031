// SPDX-License-Identifier: MIT

package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wizsmith/odoo-bridge/internal/api"
	"github.com/wizsmith/odoo-bridge/internal/bridge"
	"github.com/wizsmith/odoo-bridge/internal/config"
	"github.com/wizsmith/odoo-bridge/internal/odoo"
)

func testConfig(backendURL string) config.Config {
	return config.Config{
		OdooURL:      backendURL,
		OdooDB:       "testdb",
		OdooUsername: "api@example.com",
		OdooPassword: "secret",
		ListenAddr:   ":0",
	}
}

func newTestServer(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	srv, err := api.New(cfg)
	require.NoError(t, err)
	return srv.Router()
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var payload map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			payload = nil
		}
	}
	return w, payload
}

func TestOptionsPreflight(t *testing.T) {
	t.Parallel()

	mock := odoo.NewMockServer()
	defer mock.Close()
	handler := newTestServer(t, testConfig(mock.URL))

	w, _ := doJSON(t, handler, http.MethodOptions, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-API-Key")
	assert.Zero(t, w.Body.Len(), "preflight response must have an empty body")
}

func TestHealthWithoutCredentials(t *testing.T) {
	t.Parallel()

	mock := odoo.NewMockServer()
	defer mock.Close()

	cfg := testConfig(mock.URL)
	cfg.OdooUsername = ""
	cfg.OdooPassword = ""
	handler := newTestServer(t, cfg)

	w, payload := doJSON(t, handler, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	require.NotNil(t, payload)
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, api.ServiceName, payload["service"])
	assert.Equal(t, "testdb", payload["odoo_db"])
	assert.Equal(t, false, payload["credentials_set"])
	assert.Equal(t, false, payload["has_username"])
	assert.Equal(t, false, payload["has_password"])

	authTest, present := payload["auth_test"]
	assert.True(t, present, "auth_test key must be present")
	assert.Nil(t, authTest, "auth_test must be null without credentials")
	assert.Empty(t, mock.CommonBodies(), "no probe without credentials")
}

func TestHealthAuthProbe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		uid    int64
		wantOK bool
	}{
		{name: "authenticated", uid: 9, wantOK: true},
		{name: "rejected", uid: 0, wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := odoo.NewMockServer()
			defer mock.Close()
			mock.SetAuthUID(tt.uid)
			handler := newTestServer(t, testConfig(mock.URL))

			w, payload := doJSON(t, handler, http.MethodGet, "/health", "")

			// Authentication failure is data, never a request failure.
			assert.Equal(t, http.StatusOK, w.Code)
			require.NotNil(t, payload)
			assert.Equal(t, true, payload["credentials_set"])

			probe, ok := payload["auth_test"].(map[string]any)
			require.True(t, ok, "auth_test must be an object, got %T", payload["auth_test"])
			if tt.wantOK {
				assert.Equal(t, true, probe["authenticated"])
				assert.Equal(t, float64(9), probe["uid"])
			} else {
				assert.Equal(t, false, probe["authenticated"])
				assert.NotEmpty(t, probe["error"])
			}
		})
	}
}

func TestPostSearchCustomerRoundTrip(t *testing.T) {
	t.Parallel()

	mock := odoo.NewMockServer()
	defer mock.Close()
	mock.EnqueueObjectValue(`<array><data>` +
		`<value><struct>` +
		`<member><name>id</name><value><int>1</int></value></member>` +
		`<member><name>name</name><value><string>Ana</string></value></member>` +
		`</struct></value>` +
		`<value><struct>` +
		`<member><name>id</name><value><int>2</int></value></member>` +
		`<member><name>name</name><value><string>Ben</string></value></member>` +
		`</struct></value>` +
		`</data></array>`)

	handler := newTestServer(t, testConfig(mock.URL))
	w, payload := doJSON(t, handler, http.MethodPost, "/", `{"action":"search_customer","phone":"555"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, payload)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "search_customer", payload["action"])
	assert.Equal(t, float64(2), payload["count"])

	customers, ok := payload["customers"].([]any)
	require.True(t, ok)
	assert.Len(t, customers, 2)
}

func TestPostValidationFailureIs200(t *testing.T) {
	t.Parallel()

	mock := odoo.NewMockServer()
	defer mock.Close()
	handler := newTestServer(t, testConfig(mock.URL))

	w, payload := doJSON(t, handler, http.MethodPost, "/", `{"action":"search_customer","phone":"  "}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, payload)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "Phone number is required", payload["error"])
	assert.Empty(t, mock.ObjectBodies(), "validation failures must not reach the backend")
}

func TestPostUnknownAction(t *testing.T) {
	t.Parallel()

	mock := odoo.NewMockServer()
	defer mock.Close()
	handler := newTestServer(t, testConfig(mock.URL))

	w, payload := doJSON(t, handler, http.MethodPost, "/", `{"action":"make_coffee"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, payload)
	assert.Equal(t, false, payload["success"])
	assert.Contains(t, payload["error"], "make_coffee")

	names, ok := payload["available_actions"].([]any)
	require.True(t, ok)
	require.Len(t, names, 7)
	assert.Equal(t, "search_customer", names[0])
	assert.Equal(t, "get_lead_stages", names[6])
}

func TestPostMissingAction(t *testing.T) {
	t.Parallel()

	mock := odoo.NewMockServer()
	defer mock.Close()
	handler := newTestServer(t, testConfig(mock.URL))

	w, payload := doJSON(t, handler, http.MethodPost, "/", `{"phone":"555"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, payload)
	assert.Equal(t, false, payload["success"])
	assert.Contains(t, payload["error"], "action")
	assert.NotEmpty(t, payload["error_type"])
}

func TestPostMalformedBody(t *testing.T) {
	t.Parallel()

	mock := odoo.NewMockServer()
	defer mock.Close()
	handler := newTestServer(t, testConfig(mock.URL))

	w, payload := doJSON(t, handler, http.MethodPost, "/", `{"action":`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, payload)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "RequestParseError", payload["error_type"])
}

func TestPostConnectFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		connectErr    error
		wantErrorType string
	}{
		{
			name:          "authentication rejected",
			connectErr:    &odoo.Error{Sentinel: odoo.ErrAuthFailed, Op: "authenticate"},
			wantErrorType: "AuthenticationError",
		},
		{
			name:          "credentials missing",
			connectErr:    &odoo.Error{Sentinel: odoo.ErrConfiguration, Op: "connect"},
			wantErrorType: "ConfigurationError",
		},
		{
			name:          "backend unreachable",
			connectErr:    &odoo.Error{Sentinel: odoo.ErrUnavailable, Op: "authenticate"},
			wantErrorType: "TransportError",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := odoo.NewMockServer()
			defer mock.Close()

			srv, err := api.New(testConfig(mock.URL))
			require.NoError(t, err)
			srv.SetConnectFunc(func(ctx context.Context) (bridge.Executor, error) {
				return nil, tt.connectErr
			})

			w, payload := doJSON(t, srv.Router(), http.MethodPost, "/", `{"action":"list_leads"}`)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			require.NotNil(t, payload)
			assert.Equal(t, false, payload["success"])
			assert.Equal(t, tt.wantErrorType, payload["error_type"])
		})
	}
}

func TestEveryResponseCarriesCORSHeader(t *testing.T) {
	t.Parallel()

	mock := odoo.NewMockServer()
	defer mock.Close()
	handler := newTestServer(t, testConfig(mock.URL))

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/", ""},
		{http.MethodPost, "/", `{"action":"get_lead_stages"}`},
		{http.MethodOptions, "/anything", ""},
	} {
		w, _ := doJSON(t, handler, tc.method, tc.path, tc.body)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"),
			"%s %s must allow all origins", tc.method, tc.path)
	}
}
