package main

import (
	"fmt"
	"io"

	"github.com/germanamz/aiui/cmd/aiui/internal/format"
	"github.com/germanamz/aiui/cmd/aiui/internal/styles"
	"github.com/germanamz/aiui/pkg/toolprovider"
	"github.com/germanamz/aiui/pkg/tools/toolbox"
	"github.com/spf13/cobra"
)

const (
	toolNameWidth  = 24
	toolRouteWidth = 20
	toolDescWidth  = 60
)

func newToolsCmd(opts *options) *cobra.Command {
	var noProviders bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools offered to the model and the providers behind them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := opts.openEngine(cmd, engineOptions{noProviders: noProviders})
			if err != nil {
				return err
			}
			defer func() { _ = eng.Close() }()

			out := cmd.OutOrStdout()
			printTools(out, eng.Tools())
			printProviders(out, eng.Providers())
			return nil
		},
	}

	cmd.Flags().BoolVar(&noProviders, "no-providers", false, "do not start external tool providers")
	return cmd
}

func printTools(w io.Writer, tools []toolbox.Tool) {
	_, _ = fmt.Fprintln(w, styles.HeaderStyle.Render(
		format.Column("NAME", toolNameWidth)+" "+format.Column("ROUTE", toolRouteWidth)+" DESCRIPTION"))

	for _, t := range tools {
		_, _ = fmt.Fprintln(w,
			format.Column(t.Name, toolNameWidth)+" "+
				styles.ToolRouteStyle.Render(format.Column(t.Route().String(), toolRouteWidth))+" "+
				styles.DimStyle.Render(format.Truncate(t.Description, toolDescWidth)))
	}
}

func printProviders(w io.Writer, providers []*toolprovider.Provider) {
	if len(providers) == 0 {
		return
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.HeaderStyle.Render("PROVIDERS"))
	for _, p := range providers {
		server := p.Info.Name
		if p.Info.Version != "" {
			server += " " + p.Info.Version
		}
		_, _ = fmt.Fprintf(w, "%s %s %s\n",
			format.Column(p.Config.Name, toolNameWidth),
			styles.DimStyle.Render(format.Column(server, toolRouteWidth)),
			fmt.Sprintf("%d tools", len(p.Tools)))
	}
}
