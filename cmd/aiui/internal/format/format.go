package format

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
)

// ThinkingMessages are displayed while waiting for a reply.
var ThinkingMessages = []string{
	"Thinking...",
	"Asking the model...",
	"Brewing a response...",
	"Connecting synapses...",
	"Assembling words...",
	"Crunching tokens...",
	"Warming up neurons...",
}

// SpinnerFrames are braille characters for smooth animation.
var SpinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// RandomThinkingMessage returns a random entry of ThinkingMessages.
func RandomThinkingMessage() string {
	return ThinkingMessages[rand.IntN(len(ThinkingMessages))] //nolint:gosec // cosmetic randomness
}

// mdRenderer renders markdown to terminal-formatted output.
var (
	mdRenderer      *glamour.TermRenderer
	mdRendererMu    sync.Mutex
	mdRendererWidth int
)

// InitMarkdownRenderer initializes the glamour renderer at the given width.
func InitMarkdownRenderer(width int) {
	if width <= 0 {
		width = 100
	}
	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()
	if width == mdRendererWidth && mdRenderer != nil {
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return
	}
	mdRenderer = r
	mdRendererWidth = width
}

// RenderMarkdown converts markdown text to terminal-formatted output. Text
// is returned unchanged until InitMarkdownRenderer succeeds.
func RenderMarkdown(text string) string {
	mdRendererMu.Lock()
	r := mdRenderer
	mdRendererMu.Unlock()

	if r == nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// Truncate shortens s to at most width terminal cells, appending "…" when
// cut. Newlines are replaced with spaces for single-line display.
func Truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// Column pads or truncates s to exactly width terminal cells.
func Column(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// Tokens formats a token count for display, using k/M suffixes.
func Tokens(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
