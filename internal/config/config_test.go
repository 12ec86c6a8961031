// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearBridgeEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ODOO_URL", "ODOO_DB", "ODOO_USERNAME", "ODOO_PASSWORD",
		"ODOO_TIMEOUT", "BRIDGE_LISTEN", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearBridgeEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultOdooURL, cfg.OdooURL)
	assert.Equal(t, DefaultOdooDB, cfg.OdooDB)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Empty(t, cfg.OdooUsername)
	assert.Empty(t, cfg.OdooPassword)
	assert.Zero(t, cfg.OdooTimeout)
	assert.False(t, cfg.CredentialsSet())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearBridgeEnv(t)
	t.Setenv("ODOO_URL", "https://erp.example.com/")
	t.Setenv("ODOO_DB", "prod")
	t.Setenv("ODOO_USERNAME", "api@example.com")
	t.Setenv("ODOO_PASSWORD", "secret")
	t.Setenv("ODOO_TIMEOUT", "30s")
	t.Setenv("BRIDGE_LISTEN", ":9090")

	cfg, err := Load("")
	require.NoError(t, err)

	// Trailing slash is normalised away.
	assert.Equal(t, "https://erp.example.com", cfg.OdooURL)
	assert.Equal(t, "prod", cfg.OdooDB)
	assert.Equal(t, "api@example.com", cfg.OdooUsername)
	assert.Equal(t, "secret", cfg.OdooPassword)
	assert.Equal(t, 30*time.Second, cfg.OdooTimeout)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.True(t, cfg.CredentialsSet())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFilePrecedence(t *testing.T) {
	clearBridgeEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
odoo:
  url: https://file.example.com
  database: filedb
  username: file@example.com
server:
  listenAddr: ":7070"
`), 0o600))

	// ENV beats file, file beats defaults.
	t.Setenv("ODOO_DB", "envdb")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com", cfg.OdooURL)
	assert.Equal(t, "envdb", cfg.OdooDB)
	assert.Equal(t, "file@example.com", cfg.OdooUsername)
	assert.Equal(t, ":7070", cfg.ListenAddr)
}

func TestLoadBadFile(t *testing.T) {
	clearBridgeEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("odoo: [not a mapping"), 0o600))

	_, err := Load(path)
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidateNamesMissingCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		want     string
	}{
		{name: "both missing", want: "ODOO_USERNAME and ODOO_PASSWORD must be set"},
		{name: "username missing", password: "secret", want: "ODOO_USERNAME must be set"},
		{name: "password missing", username: "api@example.com", want: "ODOO_PASSWORD must be set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{OdooUsername: tt.username, OdooPassword: tt.password}
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrMissingCredential)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseHelpers(t *testing.T) {
	clearBridgeEnv(t)

	t.Setenv("BRIDGE_TEST_STR", "value")
	assert.Equal(t, "value", ParseString("BRIDGE_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", ParseString("BRIDGE_TEST_UNSET", "fallback"))

	t.Setenv("BRIDGE_TEST_INT", "17")
	assert.Equal(t, 17, ParseInt("BRIDGE_TEST_INT", 3))
	t.Setenv("BRIDGE_TEST_INT", "seventeen")
	assert.Equal(t, 3, ParseInt("BRIDGE_TEST_INT", 3))

	t.Setenv("BRIDGE_TEST_DUR", "250ms")
	assert.Equal(t, 250*time.Millisecond, ParseDuration("BRIDGE_TEST_DUR", time.Second))
	t.Setenv("BRIDGE_TEST_DUR", "fast")
	assert.Equal(t, time.Second, ParseDuration("BRIDGE_TEST_DUR", time.Second))

	t.Setenv("BRIDGE_TEST_BOOL", "yes")
	assert.True(t, ParseBool("BRIDGE_TEST_BOOL", false))
	t.Setenv("BRIDGE_TEST_BOOL", "0")
	assert.False(t, ParseBool("BRIDGE_TEST_BOOL", true))
	t.Setenv("BRIDGE_TEST_BOOL", "maybe")
	assert.True(t, ParseBool("BRIDGE_TEST_BOOL", true))
}
