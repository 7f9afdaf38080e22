package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the top-level engine configuration, read from config.toml.
type Config struct {
	Dir   string      `toml:"-"` // Set by the CLI, not from the file.
	API   APIConfig   `toml:"api"`
	Local LocalConfig `toml:"local"`
	Tools ToolsConfig `toml:"tools"`
}

// APIConfig configures the primary backend. The credential itself is not
// part of Config; it is resolved on every call.
type APIConfig struct {
	BaseURL      string `toml:"base_url"`
	Model        string `toml:"model"`
	SystemPrompt string `toml:"system_prompt"`
	MaxTokens    int    `toml:"max_tokens"`
}

// LocalConfig configures the local fallback backend.
type LocalConfig struct {
	BaseURL  string `toml:"base_url"`
	Model    string `toml:"model"`
	Disabled bool   `toml:"disabled"`
}

// ToolsConfig configures the tools offered to the model.
type ToolsConfig struct {
	// ProvidersFile overrides the tool-provider list location. Empty means
	// mcp-servers.toml next to config.toml.
	ProvidersFile string `toml:"providers_file"`
	// DisableBuiltin drops launch_app and system_command.
	DisableBuiltin bool `toml:"disable_builtin"`
	// DisableProviders skips starting external tool providers.
	DisableProviders bool `toml:"disable_providers"`
}

// LoadConfig reads a TOML file and returns a Config. A missing file yields
// the zero Config, which selects every default.
// Environment variables referenced as ${VAR} or $VAR in the file are
// expanded before parsing.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("engine: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if _, err := toml.Decode(expanded, &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values that can never work.
func (c Config) Validate() error {
	if err := validateURL("api.base_url", c.API.BaseURL); err != nil {
		return err
	}
	if err := validateURL("local.base_url", c.Local.BaseURL); err != nil {
		return err
	}
	if c.API.MaxTokens < 0 {
		return fmt.Errorf("engine: config: api.max_tokens must not be negative")
	}
	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("engine: config: %s: %w", field, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("engine: config: %s: %q is not an http(s) URL", field, raw)
	}
	return nil
}
