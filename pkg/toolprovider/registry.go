// Package toolprovider starts the external tool providers listed in the
// user's configuration and keeps their sessions open so the tools they
// advertise can be called.
package toolprovider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/germanamz/aiui/pkg/tools/mcpclient"
	"github.com/germanamz/aiui/pkg/tools/toolbox"
)

// DefaultConnectTimeout bounds the handshake and tool listing of one provider.
const DefaultConnectTimeout = 10 * time.Second

var (
	// ErrDisabled is returned by Connect for a provider whose config has
	// enabled = false. Nothing is spawned.
	ErrDisabled = errors.New("toolprovider: provider disabled")
	// ErrInvalidConfig is returned for a config missing its name or command.
	ErrInvalidConfig = errors.New("toolprovider: invalid config")
	// ErrAlreadyConnected is returned when a provider name is connected twice.
	ErrAlreadyConnected = errors.New("toolprovider: already connected")
)

// Dialer starts a provider and completes the MCP handshake.
type Dialer func(ctx context.Context, cfg Config) (*mcpclient.MCPClient, error)

// CommandDialer spawns cfg.Command with cfg.Args and speaks MCP over its
// stdin and stdout.
func CommandDialer(ctx context.Context, cfg Config) (*mcpclient.MCPClient, error) {
	return mcpclient.New(ctx, cfg.Name, cfg.Command, cfg.Args...)
}

// Provider is a connected tool provider.
type Provider struct {
	Config Config
	Info   mcpclient.ServerInfo
	Tools  []toolbox.Tool

	client *mcpclient.MCPClient
}

// Registry owns the sessions of every connected provider. It is safe for
// concurrent use.
type Registry struct {
	Dial           Dialer
	ConnectTimeout time.Duration
	Logger         *slog.Logger

	mu        sync.Mutex
	providers []*Provider
}

// NewRegistry returns a Registry that spawns providers as subprocesses.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{Dial: CommandDialer, ConnectTimeout: DefaultConnectTimeout, Logger: logger}
}

func (r *Registry) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// Connect starts the provider, completes the MCP handshake and lists
// its tools. Every tool is tagged with cfg.Name and calls back into the
// provider's session, which stays open until Close.
func (r *Registry) Connect(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("%w: %s", ErrDisabled, cfg.Name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if r.lookup(cfg.Name) != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyConnected, cfg.Name)
	}

	connectCtx := ctx
	if r.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, r.ConnectTimeout)
		defer cancel()
	}

	r.logger().Info("connecting tool provider", "provider", cfg.Name, "command", cfg.Command, "args", cfg.Args)

	dial := r.Dial
	if dial == nil {
		dial = CommandDialer
	}

	client, err := dial(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("toolprovider: %s: %w", cfg.Name, err)
	}

	tools, err := client.ListTools(connectCtx)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("toolprovider: %s: %w", cfg.Name, err)
	}

	p := &Provider{Config: cfg, Info: client.ServerInfo(), Tools: tools, client: client}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.providers {
		if existing.Config.Name == cfg.Name {
			_ = client.Close()
			return nil, fmt.Errorf("%w: %s", ErrAlreadyConnected, cfg.Name)
		}
	}
	r.providers = append(r.providers, p)

	r.logger().Info("tool provider connected", "provider", cfg.Name,
		"server", p.Info.Name, "version", p.Info.Version, "tools", len(tools))

	return p, nil
}

// ConnectAll connects every enabled config in order. Disabled providers are
// skipped and failing ones are logged and skipped.
func (r *Registry) ConnectAll(ctx context.Context, cfgs []Config) []*Provider {
	connected := make([]*Provider, 0, len(cfgs))
	for _, cfg := range cfgs {
		p, err := r.Connect(ctx, cfg)
		if errors.Is(err, ErrDisabled) {
			r.logger().Debug("tool provider disabled", "provider", cfg.Name)
			continue
		}
		if err != nil {
			r.logger().Warn("tool provider unavailable", "provider", cfg.Name, "error", err)
			continue
		}
		connected = append(connected, p)
	}
	return connected
}

// Providers returns the connected providers in connection order.
func (r *Registry) Providers() []*Provider {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// Tools returns the tools of every connected provider in connection order.
func (r *Registry) Tools() []toolbox.Tool {
	var tools []toolbox.Tool
	for _, p := range r.Providers() {
		tools = append(tools, p.Tools...)
	}
	return tools
}

// Disconnect closes one provider's session and forgets it.
func (r *Registry) Disconnect(name string) error {
	r.mu.Lock()
	var target *Provider
	for i, p := range r.providers {
		if p.Config.Name == name {
			target = p
			r.providers = append(r.providers[:i], r.providers[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	if target == nil {
		return nil
	}
	return target.client.Close()
}

// Close terminates every provider session.
func (r *Registry) Close() error {
	r.mu.Lock()
	providers := r.providers
	r.providers = nil
	r.mu.Unlock()

	var errs []error
	for _, p := range providers {
		if err := p.client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("toolprovider: close %s: %w", p.Config.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) lookup(name string) *Provider {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.providers {
		if p.Config.Name == name {
			return p
		}
	}
	return nil
}
