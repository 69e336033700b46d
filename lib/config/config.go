// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the Altrium
// client.
//
// Configuration is optional: with no file the client talks to the
// default local server. When a file is wanted it is specified by
// either the ALTRIUM_CONFIG environment variable (via [Load]) or a
// --config flag (via [LoadFile]); there is no automatic file search.
//
// The configuration file supports environment-specific sections
// (development, staging, production) that override base values when
// [Config].Environment matches. Variable expansion is performed on
// path fields after loading: ${HOME} and ${VAR:-default} patterns are
// expanded. No other environment variables override config values.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the client configuration.
type Config struct {
	// Environment identifies the deployment type (development,
	// staging, production).
	Environment Environment `yaml:"environment"`

	// Server configures the credential platform endpoint.
	Server ServerConfig `yaml:"server"`

	// Session configures local session persistence.
	Session SessionConfig `yaml:"session"`

	// Per-environment overrides, applied after the base config is
	// loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per
// environment.
type ConfigOverrides struct {
	Server  *ServerConfig  `yaml:"server,omitempty"`
	Session *SessionConfig `yaml:"session,omitempty"`
}

// ServerConfig configures the platform endpoint.
type ServerConfig struct {
	// URL is the base URL of the platform API, including the
	// version prefix.
	// Default: http://localhost:8000/api/v1
	URL string `yaml:"url"`

	// Timeout is the per-request timeout as a duration string.
	// Default: 30s
	Timeout string `yaml:"timeout"`
}

// SessionConfig configures local session persistence.
type SessionConfig struct {
	// File is where the token pair is stored between runs. Empty
	// means the default XDG location.
	File string `yaml:"file"`

	// Persist disables durable sessions when false: tokens are held
	// in memory only and the session ends with the process.
	// Default: true
	Persist *bool `yaml:"persist,omitempty"`
}

// Default returns the default configuration. The client is fully
// functional with these values and no config file.
func Default() *Config {
	return &Config{
		Environment: Development,
		Server: ServerConfig{
			URL:     "http://localhost:8000/api/v1",
			Timeout: "30s",
		},
		Session: SessionConfig{},
	}
}

// Load loads configuration from the path in the ALTRIUM_CONFIG
// environment variable. With the variable unset the defaults are
// returned; a set-but-unreadable path is an error.
func Load() (*Config, error) {
	configPath := os.Getenv("ALTRIUM_CONFIG")
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. The file is
// merged over the defaults, then the matching environment section is
// applied, then ${VAR} patterns in path fields are expanded.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnvironmentOverrides applies the environment-specific section.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if overrides.Server != nil {
		if overrides.Server.URL != "" {
			c.Server.URL = overrides.Server.URL
		}
		if overrides.Server.Timeout != "" {
			c.Server.Timeout = overrides.Server.Timeout
		}
	}
	if overrides.Session != nil {
		if overrides.Session.File != "" {
			c.Session.File = overrides.Session.File
		}
		if overrides.Session.Persist != nil {
			c.Session.Persist = overrides.Session.Persist
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in path
// and URL fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Server.URL = expandVars(c.Server.URL, vars)
	c.Session.File = expandVars(c.Session.File, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Server.URL == "" {
		errs = append(errs, fmt.Errorf("server.url is required"))
	} else if parsed, err := url.Parse(c.Server.URL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("server.url must be an absolute URL: %q", c.Server.URL))
	}

	if c.Server.Timeout != "" {
		if _, err := time.ParseDuration(c.Server.Timeout); err != nil {
			errs = append(errs, fmt.Errorf("server.timeout: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// RequestTimeout returns Server.Timeout as a duration. Unset or
// unparseable values fall back to 30 seconds; Validate has already
// reported the latter on any config that came through LoadFile.
func (c *Config) RequestTimeout() time.Duration {
	if c.Server.Timeout == "" {
		return 30 * time.Second
	}
	timeout, err := time.ParseDuration(c.Server.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return timeout
}

// PersistSession reports whether the session should survive the
// process.
func (c *Config) PersistSession() bool {
	return c.Session.Persist == nil || *c.Session.Persist
}
