package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/oshokin/alarm-scheduler/internal/parser"
)

const (
	prompt    = "Alarm> "
	usageHint = "usage: Start_Alarm(id): Group(id) seconds message (or Change_Alarm)"
)

// Submitter accepts alarm requests parsed from console input.
type Submitter interface {
	SubmitStart(ctx context.Context, id, group, seconds int64, message string) error
	SubmitChange(ctx context.Context, id, group, seconds int64, message string) error
}

// Console is the interactive request reader. It prompts on out, reads request
// lines from in and reports malformed or rejected requests on errOut.
type Console struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	engine Submitter
}

// New returns a console reading from in and submitting to engine.
func New(in io.Reader, out, errOut io.Writer, engine Submitter) *Console {
	return &Console{
		in:     in,
		out:    out,
		errOut: errOut,
		engine: engine,
	}
}

// Run prompts and handles request lines until the input ends or the context
// is canceled. A closed input means the session is over and is not an error.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	// The reader goroutine stays blocked in Scan if the context is canceled
	// mid-read; it dies with the process.
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		scanErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(c.out, prompt)

		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("failed to read console input: %w", err)
					}
				default:
				}

				return nil
			}

			c.handle(ctx, line)
		}
	}
}

func (c *Console) handle(ctx context.Context, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}

	cmd, err := parser.Parse(line)
	if err != nil {
		fmt.Fprintf(c.errOut, "%v\n%s\n", err, usageHint)

		return
	}

	switch cmd := cmd.(type) {
	case parser.Start:
		err = c.engine.SubmitStart(ctx, cmd.AlarmID, cmd.Group, cmd.Seconds, cmd.Message)
	case parser.Change:
		err = c.engine.SubmitChange(ctx, cmd.AlarmID, cmd.Group, cmd.Seconds, cmd.Message)
	}

	if err != nil {
		fmt.Fprintf(c.errOut, "request rejected: %v\n", err)
	}
}
