package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/germanamz/aiui/pkg/appdir"
	"github.com/germanamz/aiui/pkg/assistant"
	"github.com/germanamz/aiui/pkg/credential"
	"github.com/germanamz/aiui/pkg/providers/ollama"
	"github.com/germanamz/aiui/pkg/toolprovider"
	"github.com/germanamz/aiui/pkg/tools/builtin"
	"github.com/germanamz/aiui/pkg/tools/toolbox"
	"github.com/google/uuid"
)

// CredentialResolver finds the primary backend's credential. It is called
// once per operation so a key stored mid-session takes effect immediately.
type CredentialResolver interface {
	Resolve() (string, bool)
}

// Deps are the collaborators New builds by default. Tests and embedders
// replace them; every field is optional.
type Deps struct {
	Logger      *slog.Logger
	HTTPClient  *http.Client
	Credentials CredentialResolver
	Actions     builtin.ActionHandler
	Registry    *toolprovider.Registry
	NewPrimary  PrimaryFactory
	Local       assistant.LocalBackend
}

// Engine is the composition root that assembles all components from
// configuration and exposes them through a frontend-agnostic API.
type Engine struct {
	cfg          Config
	logger       *slog.Logger
	events       *EventBus
	credentials  CredentialResolver
	orchestrator *assistant.Orchestrator
	local        *ollama.Adapter
	tools        *toolbox.ToolBox
	registry     *toolprovider.Registry

	mu       sync.Mutex
	sessions map[string]*Session
}

// New creates an Engine from the given configuration. It validates the
// config, builds both backends, registers the built-in tools and starts the
// enabled tool providers. A provider whose tool names collide with an
// already registered tool is rejected and stopped; the rest keep running.
func New(ctx context.Context, cfg Config, deps Deps) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	e := &Engine{
		cfg:         cfg,
		logger:      logger,
		events:      NewEventBus(),
		credentials: deps.Credentials,
		tools:       toolbox.New(),
		registry:    deps.Registry,
		sessions:    make(map[string]*Session),
	}

	if e.credentials == nil {
		configPath := ""
		if cfg.Dir != "" {
			configPath = appdir.New(cfg.Dir).ConfigPath()
		}
		e.credentials = credential.NewResolver(configPath, logger)
	}

	newPrimary := deps.NewPrimary
	if newPrimary == nil {
		newPrimary = newPrimaryFactory(cfg.API, deps.HTTPClient, logger)
	}

	e.orchestrator = &assistant.Orchestrator{
		NewPrimary: newPrimary,
		Logger:     logger,
		Hooks: assistant.Hooks{
			OnFallback: func(reason error) { e.events.emit(EventFallback, "", reason) },
		},
	}

	switch {
	case deps.Local != nil:
		e.orchestrator.Local = deps.Local
	default:
		if local := newLocal(cfg.Local, deps.HTTPClient, logger); local != nil {
			e.local = local
			e.orchestrator.Local = local
		}
	}

	if !cfg.Tools.DisableBuiltin {
		actions := deps.Actions
		if actions == nil {
			actions = builtin.LogHandler{Logger: logger}
		}
		if err := e.tools.Register(builtin.Tools(actions)...); err != nil {
			return nil, fmt.Errorf("engine: builtin tools: %w", err)
		}
	}

	if !cfg.Tools.DisableProviders {
		e.connectProviders(ctx)
	}

	return e, nil
}

func (e *Engine) connectProviders(ctx context.Context) {
	path := e.providersPath()
	if path == "" {
		return
	}

	if e.registry == nil {
		e.registry = toolprovider.NewRegistry(e.logger)
	}

	cfgs := toolprovider.LoadConfigs(path, e.logger)
	for _, p := range e.registry.ConnectAll(ctx, cfgs) {
		if err := e.tools.Register(p.Tools...); err != nil {
			e.logger.Warn("tool provider rejected", "provider", p.Config.Name, "error", err)
			_ = e.registry.Disconnect(p.Config.Name)
		}
	}
}

func (e *Engine) providersPath() string {
	if e.cfg.Tools.ProvidersFile != "" {
		return e.cfg.Tools.ProvidersFile
	}
	if e.cfg.Dir == "" {
		return ""
	}
	return filepath.Clean(appdir.New(e.cfg.Dir).ToolProvidersPath())
}

// Events returns the engine's event bus.
func (e *Engine) Events() *EventBus { return e.events }

// Tools returns every tool offered to the model, sorted by name.
func (e *Engine) Tools() []toolbox.Tool { return e.tools.Tools() }

// Providers returns the connected tool providers.
func (e *Engine) Providers() []*toolprovider.Provider {
	if e.registry == nil {
		return nil
	}
	return e.registry.Providers()
}

func (e *Engine) credential() string {
	key, _ := e.credentials.Resolve()
	return key
}

// Ask returns a buffered completion for prompt using the fallback policy.
func (e *Engine) Ask(ctx context.Context, prompt string) (string, error) {
	text, err := e.orchestrator.GenerateResponse(ctx, prompt, e.credential())
	if err != nil {
		e.events.emit(EventError, "", err)
		return "", err
	}
	return text, nil
}

// Stream delivers a completion for prompt fragment by fragment to onChunk
// and returns the collected text. Every fragment is also published as an
// EventFragment tagged with a fresh stream ID. On failure the partial text
// is returned together with the error.
func (e *Engine) Stream(ctx context.Context, prompt string, onChunk func(string)) (string, error) {
	id := uuid.NewString()

	text, err := e.orchestrator.StreamResponse(ctx, prompt, e.credential(), func(chunk string) {
		e.events.emit(EventFragment, id, chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	})
	if err != nil {
		e.events.emit(EventError, id, err)
	}
	return text, err
}

// Models lists the models installed on the local backend.
func (e *Engine) Models(ctx context.Context) ([]string, error) {
	if e.local == nil {
		return nil, fmt.Errorf("engine: local backend disabled")
	}
	return e.local.ListModels(ctx)
}

// LocalAvailable reports whether the local backend answers.
func (e *Engine) LocalAvailable(ctx context.Context) bool {
	return e.orchestrator.Local != nil && e.orchestrator.Local.IsAvailable(ctx)
}

// NewSession starts a multi-turn conversation with tool calling.
func (e *Engine) NewSession() *Session {
	s := newSession(uuid.NewString(), e)

	e.mu.Lock()
	e.sessions[s.ID()] = s
	e.mu.Unlock()

	return s
}

// Session returns an existing session by ID.
func (e *Engine) Session(id string) (*Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[id]
	return s, ok
}

// Close stops every tool provider.
func (e *Engine) Close() error {
	if e.registry == nil {
		return nil
	}
	return e.registry.Close()
}
