package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/germanamz/aiui/cmd/aiui/internal/styles"
	"github.com/germanamz/aiui/pkg/credential"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newKeyCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the Anthropic API key in the system keyring",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set [key]",
			Short: "Store the API key in the system keyring",
			Long: `Store the API key in the system keyring. Without an argument the key
is prompted for on a terminal, or read from the first line of stdin.`,
			Args: cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				key := ""
				if len(args) == 1 {
					key = args[0]
				} else {
					var err error
					if key, err = promptKey(cmd); err != nil {
						return err
					}
				}

				if err := credential.Store(key); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessStyle.Render("API key stored in the system keyring"))
				return err
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show where the API key is resolved from",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				d, err := opts.dir()
				if err != nil {
					return err
				}

				resolver := credential.NewResolver(d.ConfigPath(), opts.logger())
				_, source, ok := resolver.ResolveWithSource()
				if !ok {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), styles.FallbackStyle.Render("no API key configured, only the local model is used"))
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "API key found in "+source)
				return err
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the API key from the system keyring",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := credential.Delete(); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "API key removed from the system keyring")
				return err
			},
		},
	)

	return cmd
}

// promptKey asks for the key with a masked huh input when stdin is a
// terminal, and reads one line otherwise.
func promptKey(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		var key string
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Anthropic API key").
				EchoMode(huh.EchoModePassword).
				Value(&key),
		)).Run()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(key), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("no API key on stdin")
	}
	return strings.TrimSpace(line), nil
}
