package toolprovider

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config describes one external tool provider process.
type Config struct {
	Name    string   `toml:"name"    yaml:"name"`
	Command string   `toml:"command" yaml:"command"`
	Args    []string `toml:"args"    yaml:"args"`
	Enabled bool     `toml:"enabled" yaml:"enabled"`
}

// Validate reports a config that could never be started.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Command) == "" {
		return fmt.Errorf("%w: provider %q has no command", ErrInvalidConfig, c.Name)
	}
	return nil
}

type configFile struct {
	Servers []Config `toml:"servers" yaml:"servers"`
}

// LoadConfigs reads the provider list at path. The file is TOML unless its
// extension is .yaml or .yml. A missing, unreadable or malformed file yields
// an empty list; everything but a missing file is logged as a warning.
func LoadConfigs(path string, logger *slog.Logger) []Config {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("no tool provider config", "path", path)
		return []Config{}
	}
	if err != nil {
		logger.Warn("failed to read tool provider config", "path", path, "error", err)
		return []Config{}
	}

	cfgs, err := parseConfigs(path, data)
	if err != nil {
		logger.Warn("failed to parse tool provider config", "path", path, "error", err)
		return []Config{}
	}

	return cfgs
}

func parseConfigs(path string, data []byte) ([]Config, error) {
	var file configFile

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, err
		}
	default:
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, err
		}
	}

	if file.Servers == nil {
		return []Config{}, nil
	}
	return file.Servers, nil
}
