package credential

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileSource reads api.anthropic_key from a TOML config file.
type FileSource struct {
	Path string
}

type fileConfig struct {
	API struct {
		AnthropicKey string `toml:"anthropic_key"`
	} `toml:"api"`
}

// Name implements Source.
func (s FileSource) Name() string { return "file:" + s.Path }

// Lookup implements Source. A missing file is ErrNotFound; an unreadable or
// malformed one is an error.
func (s FileSource) Lookup() (string, error) {
	var cfg fileConfig
	if _, err := toml.DecodeFile(s.Path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", wrap("read config", err)
	}

	v := strings.TrimSpace(cfg.API.AnthropicKey)
	if v == "" {
		return "", ErrNotFound
	}
	return v, nil
}
