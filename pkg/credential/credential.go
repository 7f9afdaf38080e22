// Package credential resolves the primary backend's API key.
//
// Sources are checked in a fixed order and the first non-empty value wins:
//  1. The ANTHROPIC_API_KEY environment variable.
//  2. The OS keyring (Linux: Secret Service, macOS: Keychain, Windows:
//     Credential Manager), service "ai-ui", account "anthropic-api-key".
//  3. The api.anthropic_key field of the per-user config.toml.
//
// Storing a key only ever writes to the keyring. Resolution holds no state
// of its own; the key is returned to the caller and threaded explicitly.
package credential

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	// EnvVar is the environment variable checked first.
	EnvVar = "ANTHROPIC_API_KEY"
	// KeyringService is the keyring service name.
	KeyringService = "ai-ui"
	// KeyringAccount is the keyring account name.
	KeyringAccount = "anthropic-api-key"
)

// ErrNotFound is returned by a Source that holds no value. Empty values are
// reported as not found.
var ErrNotFound = errors.New("credential: not found")

// Source is one place a credential can come from.
type Source interface {
	Name() string
	Lookup() (string, error)
}

// EnvSource reads an environment variable.
type EnvSource struct {
	Var string
}

// Name implements Source.
func (s EnvSource) Name() string { return "env:" + s.variable() }

// Lookup implements Source.
func (s EnvSource) Lookup() (string, error) {
	v := strings.TrimSpace(os.Getenv(s.variable()))
	if v == "" {
		return "", ErrNotFound
	}
	return v, nil
}

func (s EnvSource) variable() string {
	if s.Var == "" {
		return EnvVar
	}
	return s.Var
}

// Resolver walks its sources in order.
type Resolver struct {
	Sources []Source
	Logger  *slog.Logger
}

// NewResolver returns a Resolver with the standard chain: environment,
// keyring, then the config file at configPath. An empty configPath drops the
// file source.
func NewResolver(configPath string, logger *slog.Logger) *Resolver {
	sources := []Source{EnvSource{}, KeyringSource{}}
	if configPath != "" {
		sources = append(sources, FileSource{Path: configPath})
	}

	return &Resolver{Sources: sources, Logger: logger}
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// Resolve returns the first credential found, or false when no source holds
// one. A source that fails for any reason other than ErrNotFound is logged
// and skipped.
func (r *Resolver) Resolve() (string, bool) {
	key, _, ok := r.ResolveWithSource()
	return key, ok
}

// ResolveWithSource is Resolve that also names the source that won.
func (r *Resolver) ResolveWithSource() (key, source string, ok bool) {
	for _, s := range r.Sources {
		v, err := s.Lookup()
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				r.logger().Warn("credential source failed", "source", s.Name(), "error", err)
			}
			continue
		}

		r.logger().Debug("credential resolved", "source", s.Name())
		return v, s.Name(), true
	}

	return "", "", false
}

// Store saves key in the default keyring entry.
func Store(key string) error {
	return KeyringSource{}.Store(key)
}

// Delete removes the default keyring entry. Deleting a missing entry is not
// an error.
func Delete() error {
	return KeyringSource{}.Delete()
}

func wrap(op string, err error) error {
	return fmt.Errorf("credential: %s: %w", op, err)
}
