package appdir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

const configTemplate = `# ai-ui configuration.

[api]
# model = "claude-sonnet-4-5-20250929"
# system_prompt = "..."
# anthropic_key = "" # prefer the keyring: aiui key set

[local]
# base_url = "http://localhost:11434"
# model = "llama3.2:latest"
`

const providersTemplate = `# External tool providers, started on demand.
#
# [[servers]]
# name = "files"
# command = "mcp-files"
# args = ["--root", "~"]
# enabled = true
`

// EnsureStructure creates the directory and commented templates for the
// config and tool-provider files when they are missing. Existing files are
// never touched. It is safe to call multiple times.
func EnsureStructure(d Dir) error {
	if err := os.MkdirAll(d.root, 0o700); err != nil {
		return fmt.Errorf("appdir: create dir: %w", err)
	}

	if err := writeIfMissing(d.ConfigPath(), configTemplate); err != nil {
		return fmt.Errorf("appdir: config: %w", err)
	}

	if err := writeIfMissing(d.ToolProvidersPath(), providersTemplate); err != nil {
		return fmt.Errorf("appdir: tool providers: %w", err)
	}

	return nil
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
