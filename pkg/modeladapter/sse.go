package modeladapter

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// ErrStopEvents may be returned by a ReadEvents callback to end the stream
// early without reporting an error.
var ErrStopEvents = errors.New("stop reading events")

// Event is one server-sent event: its name (empty when the server sent no
// "event:" field) and its data lines joined with newlines.
type Event struct {
	Name string
	Data string
}

// ReadEvents parses a server-sent events stream from r and calls fn once per
// event, in arrival order, on the calling goroutine. It returns nil when r is
// exhausted or fn returns ErrStopEvents, ctx.Err() once ctx is done, and the
// read error otherwise. Comment lines are skipped.
func ReadEvents(ctx context.Context, r io.Reader, fn func(Event) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		name string
		data strings.Builder
		seen bool
	)

	dispatch := func() error {
		if !seen {
			name = ""
			return nil
		}
		ev := Event{Name: name, Data: data.String()}
		name, seen = "", false
		data.Reset()
		return fn(ev)
	}

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Text()
		switch {
		case line == "":
			if err := dispatch(); err != nil {
				return stopIsNil(err)
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(line[len("event:"):])
		case strings.HasPrefix(line, "data:"):
			if seen {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(line[len("data:"):], " "))
			seen = true
		}
	}

	if err := scanner.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}

	return stopIsNil(dispatch())
}

func stopIsNil(err error) error {
	if errors.Is(err, ErrStopEvents) {
		return nil
	}
	return err
}
