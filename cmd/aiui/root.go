package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/germanamz/aiui/pkg/appdir"
	"github.com/germanamz/aiui/pkg/engine"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// options holds the persistent flags shared by every command.
type options struct {
	configDir string
	envFile   string
	verbose   bool

	stderr io.Writer
}

func newRootCmd() *cobra.Command {
	opts := &options{stderr: os.Stderr}

	root := &cobra.Command{
		Use:   "aiui",
		Short: "Desktop assistant backed by Claude with a local Ollama fallback",
		Long: `aiui answers prompts with the Anthropic API and falls back to a local
Ollama model when the API is unreachable or no key is configured.

Examples:
  aiui ask "what is the capital of France?"
  aiui stream "write a haiku about terminals"
  aiui chat
  aiui key set`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.stderr = cmd.ErrOrStderr()
			return opts.loadDotEnv()
		},
	}

	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", "configuration directory (default: <user config dir>/ai-ui)")
	root.PersistentFlags().StringVar(&opts.envFile, "env", "", "path to .env file (default: .env in the configuration directory, ignored if missing)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newAskCmd(opts),
		newStreamCmd(opts),
		newChatCmd(opts),
		newKeyCmd(opts),
		newToolsCmd(opts),
		newServeToolsCmd(opts),
		newModelsCmd(opts),
		newInitCmd(opts),
	)

	return root
}

// dir returns the configuration directory selected by --config-dir.
func (o *options) dir() (appdir.Dir, error) {
	if o.configDir != "" {
		return appdir.New(o.configDir), nil
	}
	return appdir.Default()
}

// logger writes to stderr so stdout stays clean for answers and the MCP
// stream of serve-tools.
func (o *options) logger() *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(o.stderr, &slog.HandlerOptions{Level: level}))
}

func (o *options) loadDotEnv() error {
	path := o.envFile
	if path == "" {
		d, err := o.dir()
		if err != nil {
			return nil //nolint:nilerr // no config dir means no default .env
		}
		path = d.EnvPath()
	}
	return loadDotEnv(path)
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// engineOptions tweak how a command builds its engine.
type engineOptions struct {
	noProviders bool
}

// openEngine loads config.toml from the configuration directory and builds
// an engine. The caller must Close it.
func (o *options) openEngine(cmd *cobra.Command, eo engineOptions) (*engine.Engine, error) {
	d, err := o.dir()
	if err != nil {
		return nil, err
	}

	cfg, err := engine.LoadConfig(d.ConfigPath())
	if err != nil {
		return nil, err
	}
	cfg.Dir = d.Root()
	if eo.noProviders {
		cfg.Tools.DisableProviders = true
	}

	return engine.New(cmd.Context(), cfg, engine.Deps{Logger: o.logger()})
}
