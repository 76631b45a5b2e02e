// Package config provides application configuration management for tripchat.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Defaults used when the config file or a field is missing.
const (
	DefaultBaseURL         = "http://localhost:4111"
	DefaultResourceID      = "tripchat-user"
	DefaultAgentID         = "travelAgent"
	DefaultInvalidateDelay = time.Second
	DefaultRequestTimeout  = 30 * time.Second
)

// Environment overrides. They win over the file and are never persisted.
const (
	EnvHome       = "TRIPCHAT_HOME"
	EnvBaseURL    = "TRIPCHAT_BASE_URL"
	EnvResourceID = "TRIPCHAT_RESOURCE_ID"
	EnvAgentID    = "TRIPCHAT_AGENT_ID"
)

// Config holds the tripchat configuration.
type Config struct {
	BaseURL         string `json:"base_url"`                   // Agent server root, e.g. http://localhost:4111
	ResourceID      string `json:"resource_id"`                // Owner of every thread this client creates
	AgentID         string `json:"agent_id"`                   // Agent serving the conversation
	Theme           string `json:"theme"`                      // dark or light
	Language        string `json:"language,omitempty"`         // BCP 47 tag; empty follows the environment
	InvalidateDelay string `json:"invalidate_delay,omitempty"` // Wait before refreshing the thread list after a send
	RequestTimeout  string `json:"request_timeout,omitempty"`  // Timeout for non-streaming requests
	CacheTTL        string `json:"cache_ttl,omitempty"`        // How long reads are served from cache; empty = until invalidated
}

// Identity scopes every thread operation.
type Identity struct {
	ResourceID string
	AgentID    string
}

// Identity returns the resource/agent pair threads are scoped to.
func (c Config) Identity() Identity {
	return Identity{ResourceID: c.ResourceID, AgentID: c.AgentID}
}

// InvalidateDelayDuration returns the parsed delay (default: 1s).
func (c Config) InvalidateDelayDuration() time.Duration {
	return parseDuration(c.InvalidateDelay, DefaultInvalidateDelay)
}

// RequestTimeoutDuration returns the parsed request timeout (default: 30s).
func (c Config) RequestTimeoutDuration() time.Duration {
	return parseDuration(c.RequestTimeout, DefaultRequestTimeout)
}

// CacheTTLDuration returns the parsed cache TTL (default: 0, no expiry).
func (c Config) CacheTTLDuration() time.Duration {
	return parseDuration(c.CacheTTL, 0)
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s != "" {
		if d, err := time.ParseDuration(s); err == nil && d >= 0 {
			return d
		}
	}
	return def
}

// Dir returns the path to the .tripchat directory. TRIPCHAT_HOME overrides it.
func Dir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tripchat"), nil
}

// Path returns the path to the main config file.
func Path() (string, error) {
	configDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// Load loads the configuration from ~/.tripchat/config.json, writing the
// defaults there on first run, then applies environment overrides.
func Load() (Config, error) {
	configPath, err := Path()
	if err != nil {
		return Config{}, err
	}

	cfg, err := LoadFrom(configPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		// Persist the initial config so users have a file to edit.
		_ = Save(cfg)
	} else if err != nil {
		return Config{}, err
	}

	applyEnv(&cfg)
	return cfg, nil
}

// LoadFrom reads a config file without applying environment overrides.
// Missing keys keep their default values.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Default returns a default configuration with all defaults set.
func Default() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		ResourceID:      DefaultResourceID,
		AgentID:         DefaultAgentID,
		Theme:           "dark",
		InvalidateDelay: DefaultInvalidateDelay.String(),
		RequestTimeout:  DefaultRequestTimeout.String(),
	}
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.ResourceID == "" {
		c.ResourceID = DefaultResourceID
	}
	if c.AgentID == "" {
		c.AgentID = DefaultAgentID
	}
	if c.Theme == "" {
		c.Theme = "dark"
	}
}

func applyEnv(c *Config) {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvResourceID); v != "" {
		c.ResourceID = v
	}
	if v := os.Getenv(EnvAgentID); v != "" {
		c.AgentID = v
	}
	c.normalize()
}

// Save saves the configuration to ~/.tripchat/config.json.
func Save(config Config) error {
	configPath, err := Path()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}
