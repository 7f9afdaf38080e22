package credential

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestResolve_EnvWinsOverEverything(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvVar, "abc")
	require.NoError(t, Store("xyz"))
	path := writeConfig(t, "[api]\nanthropic_key = \"from-file\"\n")

	key, ok := NewResolver(path, nil).Resolve()
	require.True(t, ok)
	assert.Equal(t, "abc", key)
}

func TestResolve_KeyringWinsOverFile(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvVar, "")
	require.NoError(t, Store("xyz"))
	path := writeConfig(t, "[api]\nanthropic_key = \"from-file\"\n")

	key, source, ok := NewResolver(path, nil).ResolveWithSource()
	require.True(t, ok)
	assert.Equal(t, "xyz", key)
	assert.Equal(t, "keyring:ai-ui/anthropic-api-key", source)
}

func TestResolve_FileLast(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvVar, "")
	path := writeConfig(t, "[api]\nanthropic_key = \"from-file\"\n")

	key, source, ok := NewResolver(path, nil).ResolveWithSource()
	require.True(t, ok)
	assert.Equal(t, "from-file", key)
	assert.Equal(t, "file:"+path, source)
}

func TestResolve_NothingFound(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvVar, "")

	_, ok := NewResolver(filepath.Join(t.TempDir(), "missing.toml"), nil).Resolve()
	assert.False(t, ok)

	_, ok = NewResolver("", nil).Resolve()
	assert.False(t, ok)
}

func TestResolve_EmptyValuesAreNotFound(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvVar, "   ")
	require.NoError(t, keyring.Set(KeyringService, KeyringAccount, ""))
	path := writeConfig(t, "[api]\nanthropic_key = \"\"\n")

	_, ok := NewResolver(path, nil).Resolve()
	assert.False(t, ok)
}

func TestResolve_FailingSourceIsLoggedAndSkipped(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	t.Setenv(EnvVar, "")
	path := writeConfig(t, "[api]\nanthropic_key = \"from-file\"\n")

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	key, ok := NewResolver(path, logger).Resolve()
	require.True(t, ok)
	assert.Equal(t, "from-file", key)
	assert.Contains(t, logs.String(), "credential source failed")
	assert.Contains(t, logs.String(), "no secret service")
}

func TestResolve_MalformedFileIsSkipped(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvVar, "")
	path := writeConfig(t, "[api\nanthropic_key = ")

	_, ok := NewResolver(path, nil).Resolve()
	assert.False(t, ok)
}

func TestResolve_CustomSources(t *testing.T) {
	t.Setenv("OTHER_KEY", "other")

	r := &Resolver{Sources: []Source{EnvSource{Var: "UNSET_FOR_TEST_" + t.Name()}, EnvSource{Var: "OTHER_KEY"}}}
	key, source, ok := r.ResolveWithSource()
	require.True(t, ok)
	assert.Equal(t, "other", key)
	assert.Equal(t, "env:OTHER_KEY", source)
}

func TestStore_WritesOnlyToKeyring(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvVar, "")
	path := writeConfig(t, "[api]\nanthropic_key = \"from-file\"\n")

	require.NoError(t, Store("  new-key \n"))

	v, err := keyring.Get(KeyringService, KeyringAccount)
	require.NoError(t, err)
	assert.Equal(t, "new-key", v)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "from-file")
	assert.Empty(t, os.Getenv(EnvVar))
}

func TestStore_RejectsEmpty(t *testing.T) {
	keyring.MockInit()
	require.Error(t, Store(" "))
}

func TestDelete(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, Store("k"))

	require.NoError(t, Delete())
	_, err := KeyringSource{}.Lookup()
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting again is fine.
	require.NoError(t, Delete())
}
