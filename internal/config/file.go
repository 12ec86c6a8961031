// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the optional YAML config file. Every field is optional;
// unset fields keep their current (default) value.
type fileConfig struct {
	Odoo struct {
		URL      string `yaml:"url"`
		Database string `yaml:"database"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"odoo"`
	Server struct {
		ListenAddr string `yaml:"listenAddr"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator-provided via -config
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	if fc.Odoo.URL != "" {
		cfg.OdooURL = fc.Odoo.URL
	}
	if fc.Odoo.Database != "" {
		cfg.OdooDB = fc.Odoo.Database
	}
	if fc.Odoo.Username != "" {
		cfg.OdooUsername = fc.Odoo.Username
	}
	if fc.Odoo.Password != "" {
		cfg.OdooPassword = fc.Odoo.Password
	}
	if fc.Odoo.Timeout != "" {
		d, err := time.ParseDuration(fc.Odoo.Timeout)
		if err != nil {
			return fmt.Errorf("config: parse %s: invalid odoo.timeout %q: %w", path, fc.Odoo.Timeout, err)
		}
		cfg.OdooTimeout = d
	}
	if fc.Server.ListenAddr != "" {
		cfg.ListenAddr = fc.Server.ListenAddr
	}
	if fc.Log.Level != "" {
		cfg.LogLevel = fc.Log.Level
	}

	return nil
}
