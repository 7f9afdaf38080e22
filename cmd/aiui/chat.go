package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/germanamz/aiui/cmd/aiui/internal/format"
	"github.com/germanamz/aiui/cmd/aiui/internal/styles"
	"github.com/germanamz/aiui/pkg/engine"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newChatCmd(opts *options) *cobra.Command {
	var noProviders bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start a multi-turn conversation with tool calling",
		Long: `Start an interactive conversation. The model may call the built-in
tools and the tools of every enabled provider. Type /exit or press Ctrl-D to
quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := opts.openEngine(cmd, engineOptions{noProviders: noProviders})
			if err != nil {
				return err
			}
			defer func() { _ = eng.Close() }()

			out := cmd.OutOrStdout()
			if width, ok := terminalWidth(out); ok {
				format.InitMarkdownRenderer(width)
			}

			lines, err := opts.lineReader(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = lines.Close() }()

			stop := watchEvents(eng.Events(), cmd.ErrOrStderr())
			defer stop()

			return chatLoop(cmd, eng.NewSession(), lines, out)
		},
	}

	cmd.Flags().BoolVar(&noProviders, "no-providers", false, "do not start external tool providers")
	return cmd
}

// lineReader yields one prompt per call. io.EOF ends the conversation.
type lineReader interface {
	Readline() (string, error)
	Close() error
}

// lineReader returns a readline editor with persistent history when stdin
// is a terminal, and a plain line scanner otherwise.
func (o *options) lineReader(cmd *cobra.Command) (lineReader, error) {
	in := cmd.InOrStdin()
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return newScanReader(in), nil
	}

	history := ""
	if d, err := o.dir(); err == nil && d.Exists() {
		history = d.HistoryPath()
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          styles.UserPrefixStyle.Render("You > "),
		HistoryFile:     history,
		InterruptPrompt: "^C",
		EOFPrompt:       "/exit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("chat: line editor: %w", err)
	}
	return rl, nil
}

// scanReader reads prompts from a non-interactive stream.
type scanReader struct {
	scanner *bufio.Scanner
}

func newScanReader(r io.Reader) *scanReader {
	return &scanReader{scanner: bufio.NewScanner(r)}
}

func (s *scanReader) Readline() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *scanReader) Close() error { return nil }

// chatLoop sends every line to sess until EOF or /exit. Ctrl-C on an empty
// line quits; on a partial line it only clears the line. A failed turn is
// reported and the loop continues.
func chatLoop(cmd *cobra.Command, sess *engine.Session, lines lineReader, out io.Writer) error {
	for {
		line, err := lines.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		}

		reply, err := sess.Send(cmd.Context(), line)
		if err != nil {
			if ctxErr := cmd.Context().Err(); ctxErr != nil {
				return ctxErr
			}
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), styles.ErrorBlockStyle.Render(err.Error()))
			continue
		}

		_, _ = fmt.Fprintln(out, format.RenderMarkdown(reply.TextContent()))
	}
}
