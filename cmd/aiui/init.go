package main

import (
	"fmt"

	"github.com/germanamz/aiui/pkg/appdir"
	"github.com/spf13/cobra"
)

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration directory with commented defaults",
		Long: `Create config.toml and mcp-servers.toml in the configuration directory.
Existing files are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := opts.dir()
			if err != nil {
				return err
			}
			if err := appdir.EnsureStructure(d); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", d.Root())
			return err
		},
	}
}
