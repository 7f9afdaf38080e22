package main

import (
	"github.com/germanamz/aiui/pkg/tools/builtin"
	"github.com/germanamz/aiui/pkg/tools/mcpserver"
	"github.com/spf13/cobra"
)

func newServeToolsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve-tools",
		Short: "Serve the built-in tools over MCP on stdin/stdout",
		Long: `Serve launch_app and system_command as an MCP tool provider on
stdin/stdout, so other MCP hosts can use them. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := opts.logger()

			srv := mcpserver.New("aiui-tools", version, logger)
			if err := srv.Register(builtin.Tools(builtin.LogHandler{Logger: logger})...); err != nil {
				return err
			}

			return srv.ServeStdio(cmd.Context())
		},
	}
}
