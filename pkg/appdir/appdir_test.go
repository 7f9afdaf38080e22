package appdir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_PathAccessors(t *testing.T) {
	d := New("/home/u/.config/ai-ui")

	assert.Equal(t, "/home/u/.config/ai-ui", d.Root())
	assert.Equal(t, "/home/u/.config/ai-ui/config.toml", d.ConfigPath())
	assert.Equal(t, "/home/u/.config/ai-ui/mcp-servers.toml", d.ToolProvidersPath())
	assert.Equal(t, "/home/u/.config/ai-ui/.env", d.EnvPath())
	assert.Equal(t, "/home/u/.config/ai-ui/chat_history", d.HistoryPath())
}

func TestDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	d, err := Default()
	require.NoError(t, err)
	assert.Equal(t, Name, filepath.Base(d.Root()))
}

func TestDir_Exists(t *testing.T) {
	tmp := t.TempDir()

	d := New(filepath.Join(tmp, "missing"))
	assert.False(t, d.Exists())

	d = New(tmp)
	assert.True(t, d.Exists())
}

func TestEnsureStructure(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "ai-ui"))

	require.NoError(t, EnsureStructure(d))
	assert.True(t, d.Exists())

	// Templates are valid TOML with nothing set.
	var cfg map[string]any
	_, err := toml.DecodeFile(d.ConfigPath(), &cfg)
	require.NoError(t, err)

	var providers map[string]any
	_, err = toml.DecodeFile(d.ToolProvidersPath(), &providers)
	require.NoError(t, err)
	assert.Empty(t, providers)
}

func TestEnsureStructure_KeepsExistingFiles(t *testing.T) {
	d := New(t.TempDir())
	require.NoError(t, os.WriteFile(d.ConfigPath(), []byte("[api]\nmodel = \"x\"\n"), 0o600))

	require.NoError(t, EnsureStructure(d))
	require.NoError(t, EnsureStructure(d))

	data, err := os.ReadFile(d.ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, "[api]\nmodel = \"x\"\n", string(data))

	_, err = os.Stat(d.ToolProvidersPath())
	require.NoError(t, err)
}
