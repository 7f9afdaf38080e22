package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/aiui/cmd/aiui/internal/format"
	"github.com/germanamz/aiui/cmd/aiui/internal/styles"
	"golang.org/x/term"
)

// replyMsg carries the finished call into the spinner program.
type replyMsg struct {
	text string
	err  error
}

// waitModel draws a spinner with a thinking message until a replyMsg
// arrives.
type waitModel struct {
	spinner spinner.Model
	label   string
	done    bool
}

func newWaitModel() waitModel {
	return waitModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Spinner{Frames: format.SpinnerFrames, FPS: 100 * time.Millisecond}),
			spinner.WithStyle(styles.SpinnerStyle),
		),
		label: format.RandomThinkingMessage(),
	}
}

func (m waitModel) Init() tea.Cmd { return m.spinner.Tick }

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m waitModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + styles.DimStyle.Render(m.label)
}

// withSpinner runs fn while a spinner is drawn on w. When w is not a
// terminal fn runs without one.
func withSpinner(ctx context.Context, w io.Writer, fn func() (string, error)) (string, error) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return fn()
	}

	p := tea.NewProgram(newWaitModel(),
		tea.WithContext(ctx),
		tea.WithOutput(w),
		tea.WithInput(nil),
	)

	results := make(chan replyMsg, 1)
	go func() {
		text, err := fn()
		r := replyMsg{text: text, err: err}
		results <- r
		p.Send(r)
	}()

	// The program ends on its own once the reply arrives or ctx is done;
	// either way fn's result is authoritative.
	_, _ = p.Run()
	r := <-results
	return r.text, r.err
}
