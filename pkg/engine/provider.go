package engine

import (
	"log/slog"
	"net/http"

	"github.com/germanamz/aiui/pkg/assistant"
	"github.com/germanamz/aiui/pkg/providers/anthropic"
	"github.com/germanamz/aiui/pkg/providers/ollama"
)

// PrimaryFactory creates the primary backend for one credential.
type PrimaryFactory func(credential string) assistant.Primary

// newPrimaryFactory returns a factory building an Anthropic adapter from cfg
// for each call. A fresh adapter per credential keeps the key out of any
// long-lived state.
func newPrimaryFactory(cfg APIConfig, client *http.Client, logger *slog.Logger) PrimaryFactory {
	return func(credential string) assistant.Primary {
		a := anthropic.New(cfg.BaseURL, credential, cfg.Model)
		if cfg.SystemPrompt != "" {
			a.WithSystemPrompt(cfg.SystemPrompt)
		}
		if cfg.MaxTokens > 0 {
			a.MaxTokens = cfg.MaxTokens
		}
		a.Client = client
		a.Logger = logger

		return a
	}
}

// newLocal builds the fallback backend, or nil when it is disabled.
func newLocal(cfg LocalConfig, client *http.Client, logger *slog.Logger) *ollama.Adapter {
	if cfg.Disabled {
		return nil
	}

	a := ollama.New(cfg.BaseURL, cfg.Model)
	a.Client = client
	a.Logger = logger

	return a
}
