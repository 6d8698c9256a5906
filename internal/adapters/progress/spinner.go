package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// SpinnerSink shows a spinner for long running stages and prints colored messages
type SpinnerSink struct {
	mu             sync.Mutex
	out            io.Writer
	spinner        *spinner.Spinner
	currentStage   string
	stageStartTime time.Time
}

// NewSpinnerSink creates a sink writing to stdout
func NewSpinnerSink() *SpinnerSink {
	return NewSpinnerSinkTo(os.Stdout)
}

// NewSpinnerSinkTo creates a sink writing to out
func NewSpinnerSinkTo(out io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerSink{
		out:     out,
		spinner: s,
	}
}

// OnProgress starts, updates or stops the spinner
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Stage != r.currentStage {
		r.currentStage = event.Stage
		r.stageStartTime = time.Now()
	}

	if event.Spinner {
		r.spinner.Suffix = " " + event.Message
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	} else if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Info prints an info message
func (r *SpinnerSink) Info(message string) {
	r.print(color.New(color.FgCyan), "", message)
}

// Warn prints a warning
func (r *SpinnerSink) Warn(message string) {
	r.print(color.New(color.FgYellow), "⚠️  ", message)
}

// Success prints a success message
func (r *SpinnerSink) Success(message string) {
	r.print(color.New(color.FgGreen), "✅ ", message)
}

// Error prints an error message
func (r *SpinnerSink) Error(message string) {
	r.print(color.New(color.FgRed), "❌ ", message)
}

// Stop stops the spinner and reports how long the last stage took
func (r *SpinnerSink) Stop() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner.Active() {
		r.spinner.Stop()
	}
	if r.stageStartTime.IsZero() {
		return 0
	}
	return time.Since(r.stageStartTime).Round(time.Millisecond)
}

// print stops the spinner while the message is written
func (r *SpinnerSink) print(c *color.Color, prefix, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	fmt.Fprintln(r.out, c.Sprint(prefix+message))

	if wasActive {
		r.spinner.Start()
	}
}

var _ usecase.ProgressSink = (*SpinnerSink)(nil)
