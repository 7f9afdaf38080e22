// Package appdir encapsulates all path knowledge for the per-user ai-ui
// configuration directory. It provides a Dir value object with accessors for
// the config file and the tool-provider list.
package appdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// Name is the directory name under the user config directory.
const Name = "ai-ui"

// Dir is a value object that resolves paths within the ai-ui directory.
type Dir struct {
	root string
}

// New creates a Dir rooted at the given path. The path is converted to an
// absolute path. No I/O is performed; use EnsureStructure to create it.
func New(root string) Dir {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	return Dir{root: abs}
}

// Default returns the Dir under the user config directory
// (for example ~/.config/ai-ui on Linux).
func Default() (Dir, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return Dir{}, fmt.Errorf("appdir: %w", err)
	}

	return New(filepath.Join(base, Name)), nil
}

// Root returns the absolute path to the directory.
func (d Dir) Root() string { return d.root }

// ConfigPath returns the path to the main config file. It also holds the
// fallback API credential under api.anthropic_key.
func (d Dir) ConfigPath() string { return filepath.Join(d.root, "config.toml") }

// ToolProvidersPath returns the path to the tool-provider list.
func (d Dir) ToolProvidersPath() string { return filepath.Join(d.root, "mcp-servers.toml") }

// HistoryPath returns the chat prompt history file.
func (d Dir) HistoryPath() string { return filepath.Join(d.root, "chat_history") }

// EnvPath returns the path to an optional .env file loaded by the CLI.
func (d Dir) EnvPath() string { return filepath.Join(d.root, ".env") }

// Exists reports whether the root directory exists on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.root)

	return err == nil && info.IsDir()
}
