// SPDX-License-Identifier: MIT

// Package config loads the bridge configuration with precedence
// ENV > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Defaults for optional settings.
const (
	DefaultOdooURL    = "https://wizsmith.com"
	DefaultOdooDB     = "Wiz"
	DefaultListenAddr = ":8080"
)

// ErrMissingCredential indicates a mandatory credential variable is absent.
var ErrMissingCredential = errors.New("config: missing credential")

// Config holds the runtime configuration. It is loaded once at process start
// and read-only thereafter.
type Config struct {
	OdooURL      string
	OdooDB       string
	OdooUsername string
	OdooPassword string

	// OdooTimeout bounds a single backend call. Zero means no timeout,
	// matching the backend contract the bridge was built against.
	OdooTimeout time.Duration

	ListenAddr string
	LogLevel   string
}

// Load builds the configuration from defaults, an optional YAML file and the
// process environment, in increasing order of precedence.
func Load(path string) (Config, error) {
	cfg := Config{
		OdooURL:    DefaultOdooURL,
		OdooDB:     DefaultOdooDB,
		ListenAddr: DefaultListenAddr,
	}

	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	cfg.OdooURL = strings.TrimRight(ParseString("ODOO_URL", cfg.OdooURL), "/")
	cfg.OdooDB = ParseString("ODOO_DB", cfg.OdooDB)
	cfg.OdooUsername = ParseString("ODOO_USERNAME", cfg.OdooUsername)
	cfg.OdooPassword = ParseString("ODOO_PASSWORD", cfg.OdooPassword)
	cfg.OdooTimeout = ParseDuration("ODOO_TIMEOUT", cfg.OdooTimeout)
	cfg.ListenAddr = ParseString("BRIDGE_LISTEN", cfg.ListenAddr)
	cfg.LogLevel = ParseString("LOG_LEVEL", cfg.LogLevel)

	return cfg, nil
}

// Validate reports which mandatory credential settings are absent. The daemon
// logs the result and keeps serving; connection attempts fail instead.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.OdooUsername) == "" {
		missing = append(missing, "ODOO_USERNAME")
	}
	if strings.TrimSpace(c.OdooPassword) == "" {
		missing = append(missing, "ODOO_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s must be set", ErrMissingCredential, strings.Join(missing, " and "))
	}
	return nil
}

// HasUsername reports whether a username is configured.
func (c Config) HasUsername() bool {
	return strings.TrimSpace(c.OdooUsername) != ""
}

// HasPassword reports whether a password is configured.
func (c Config) HasPassword() bool {
	return strings.TrimSpace(c.OdooPassword) != ""
}

// CredentialsSet reports whether both credentials are configured.
func (c Config) CredentialsSet() bool {
	return c.HasUsername() && c.HasPassword()
}
