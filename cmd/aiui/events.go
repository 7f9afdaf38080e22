package main

import (
	"fmt"
	"io"
	"os"

	"github.com/germanamz/aiui/cmd/aiui/internal/format"
	"github.com/germanamz/aiui/cmd/aiui/internal/styles"
	"github.com/germanamz/aiui/pkg/engine"
	"golang.org/x/term"
)

const toolResultWidth = 80

// watchEvents prints fallback notices, tool activity and token usage from
// bus to w until the returned stop function is called. Fragments and messages are printed
// by the commands themselves.
func watchEvents(bus *engine.EventBus, w io.Writer) (stop func()) {
	sub := bus.Subscribe(64)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for e := range sub.C {
			if line := describeEvent(e); line != "" {
				_, _ = fmt.Fprintln(w, line)
			}
		}
	}()

	return func() {
		bus.Unsubscribe(sub)
		<-done
	}
}

// describeEvent returns the terminal line for e, or "" for events that are
// not shown.
func describeEvent(e engine.Event) string {
	switch e.Kind {
	case engine.EventFallback:
		reason := "primary backend unavailable"
		if err, ok := e.Data.(error); ok && err != nil {
			reason = err.Error()
		}
		return styles.FallbackStyle.Render("falling back to the local model: " + format.Truncate(reason, toolResultWidth))
	case engine.EventToolCallStart:
		d, ok := e.Data.(engine.ToolCallData)
		if !ok {
			return ""
		}
		return styles.ToolNameStyle.Render("⚙ "+d.Call.Name) + " " + styles.ToolRouteStyle.Render(d.Route.String()) +
			" " + styles.DimStyle.Render(format.Truncate(d.Call.Arguments, toolResultWidth))
	case engine.EventToolCallEnd:
		d, ok := e.Data.(engine.ToolCallData)
		if !ok || d.Result == nil {
			return ""
		}
		text := styles.TreeCorner + format.Truncate(d.Result.Content, toolResultWidth)
		if d.Result.IsError {
			return styles.ToolErrorStyle.Render(text)
		}
		return styles.ToolResultStyle.Render(text)
	case engine.EventUsage:
		d, ok := e.Data.(engine.UsageData)
		if !ok {
			return ""
		}
		return styles.DimStyle.Render(describeUsage(d))
	default:
		return ""
	}
}

// describeUsage renders one turn's tokens, the session total and, when
// known, the remaining request budget.
func describeUsage(d engine.UsageData) string {
	line := fmt.Sprintf("tokens: %s in, %s out (session %s)",
		format.Tokens(d.Turn.InputTokens), format.Tokens(d.Turn.OutputTokens), format.Tokens(d.Session.Total()))
	if d.RateLimit != nil && d.RateLimit.RemainingRequests >= 0 {
		line += fmt.Sprintf(", %d requests left", d.RateLimit.RemainingRequests)
	}
	return line
}

// terminalWidth reports the width of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 100, true
	}
	return width, true
}
