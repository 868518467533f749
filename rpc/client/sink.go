package client

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// --------------------------------------------------------------------------
// Severity
// --------------------------------------------------------------------------

// Severity is a display hint for sinks
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// SeverityOf derives the severity of a server output from its prefix
func SeverityOf(output string) Severity {
	switch {
	case strings.HasPrefix(output, "ERROR"):
		return SeverityError
	case strings.HasPrefix(output, "SUCCESS"):
		return SeveritySuccess
	default:
		return SeverityInfo
	}
}

// --------------------------------------------------------------------------
// Sink Interfaces
// --------------------------------------------------------------------------

// OutputSink receives the output of every command. Output must not block.
type OutputSink interface {
	Output(text string, severity Severity)
}

// StatusSink receives connection status changes ("Waiting", "Connected", "Disconnected").
// Status must not block.
type StatusSink interface {
	Status(status string, severity Severity)
}

// discardSink drops everything, used when no sink is given
type discardSink struct{}

func (discardSink) Output(string, Severity) {}
func (discardSink) Status(string, Severity) {}

// --------------------------------------------------------------------------
// Console Sink
// --------------------------------------------------------------------------

// ConsoleSink prints output and status lines to a writer.
// Errors are printed red and successes green if colors are enabled.
type ConsoleSink struct {
	mu      sync.Mutex
	w       io.Writer
	red     func(a ...interface{}) string
	green   func(a ...interface{}) string
	faint   func(a ...interface{}) string
	colored bool
}

// NewConsoleSink creates a sink writing to f. Colors are enabled if f is a terminal.
func NewConsoleSink(f *os.File) *ConsoleSink {
	return NewWriterSink(f, isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// NewWriterSink creates a sink writing to w with colors switched on or off explicitly
func NewWriterSink(w io.Writer, colored bool) *ConsoleSink {
	return &ConsoleSink{
		w:       w,
		red:     colorFunc(colored, color.FgRed),
		green:   colorFunc(colored, color.FgGreen),
		faint:   colorFunc(colored, color.Faint),
		colored: colored,
	}
}

func (c *ConsoleSink) Output(text string, severity Severity) {
	if text == "" {
		return
	}
	c.print(strings.TrimRight(text, "\n"), severity)
}

func (c *ConsoleSink) Status(status string, severity Severity) {
	if severity == SeverityInfo {
		c.mu.Lock()
		defer c.mu.Unlock()
		_, _ = fmt.Fprintln(c.w, c.faint("["+status+"]"))
		return
	}
	c.print("["+status+"]", severity)
}

func (c *ConsoleSink) print(text string, severity Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch severity {
	case SeverityError:
		text = c.red(text)
	case SeveritySuccess:
		text = c.green(text)
	}
	_, _ = fmt.Fprintln(c.w, text)
}

// colorFunc returns a function coloring its arguments, or plain fmt.Sprint if colors are off
func colorFunc(enabled bool, attr color.Attribute) func(a ...interface{}) string {
	if !enabled {
		return fmt.Sprint
	}
	c := color.New(attr)
	// color disables itself globally when stdout is not a terminal
	c.EnableColor()
	return c.SprintFunc()
}
