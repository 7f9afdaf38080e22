package main

import (
	"fmt"

	"github.com/germanamz/aiui/cmd/aiui/internal/styles"
	"github.com/spf13/cobra"
)

func newModelsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models installed on the local Ollama backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := opts.openEngine(cmd, engineOptions{noProviders: true})
			if err != nil {
				return err
			}
			defer func() { _ = eng.Close() }()

			out := cmd.OutOrStdout()
			if !eng.LocalAvailable(cmd.Context()) {
				_, err = fmt.Fprintln(out, styles.FallbackStyle.Render("local backend not reachable"))
				return err
			}

			models, err := eng.Models(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range models {
				if _, err := fmt.Fprintln(out, m); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
