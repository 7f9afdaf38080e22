package main

import (
	"fmt"
	"strings"

	"github.com/germanamz/aiui/cmd/aiui/internal/format"
	"github.com/spf13/cobra"
)

func newAskCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Answer a prompt and print the complete reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.openEngine(cmd, engineOptions{noProviders: true})
			if err != nil {
				return err
			}
			defer func() { _ = eng.Close() }()

			prompt := strings.Join(args, " ")
			stop := watchEvents(eng.Events(), cmd.ErrOrStderr())
			text, err := withSpinner(cmd.Context(), cmd.ErrOrStderr(), func() (string, error) {
				return eng.Ask(cmd.Context(), prompt)
			})
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if width, ok := terminalWidth(out); ok {
				format.InitMarkdownRenderer(width)
				text = format.RenderMarkdown(text)
			}
			_, err = fmt.Fprintln(out, text)
			return err
		},
	}
}

func newStreamCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stream <prompt>",
		Short: "Answer a prompt, printing the reply as it arrives",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.openEngine(cmd, engineOptions{noProviders: true})
			if err != nil {
				return err
			}
			defer func() { _ = eng.Close() }()

			out := cmd.OutOrStdout()
			stop := watchEvents(eng.Events(), cmd.ErrOrStderr())
			_, err = eng.Stream(cmd.Context(), strings.Join(args, " "), func(chunk string) {
				_, _ = fmt.Fprint(out, chunk)
			})
			stop()
			_, _ = fmt.Fprintln(out)
			return err
		},
	}
}
