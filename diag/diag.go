// Package diag provides a small shared diagnostics context — named timers
// plus a bounded ring of progress/warning/error messages — used by the
// evaluator, scene controller and navmesh builder instead of three bespoke
// loggers. It follows recast.BuildContext's shape (log categories,
// enable/disable flags, named timers) generalized to string-keyed timers
// since this package's callers don't share a fixed timer enum.
package diag

import (
	"fmt"
	"time"
)

const maxMessages = 1000

// Category discriminates a logged message's severity.
type Category int

const (
	Progress Category = iota
	Warning
	Error
)

func (c Category) String() string {
	switch c {
	case Progress:
		return "PROG"
	case Warning:
		return "WARN"
	case Error:
		return "ERR"
	default:
		return "?"
	}
}

// Message is one recorded log entry.
type Message struct {
	Category Category
	Text     string
}

// Context accumulates timers and log messages across one build/evaluation
// pass. The zero value has logging and timing disabled; New enables both.
type Context struct {
	logEnabled   bool
	timerEnabled bool

	messages []Message

	starts map[string]time.Time
	totals map[string]time.Duration
}

// New returns a Context with logging and timing both enabled.
func New() *Context {
	return &Context{
		logEnabled:   true,
		timerEnabled: true,
		starts:       make(map[string]time.Time),
		totals:       make(map[string]time.Duration),
	}
}

// EnableLog toggles whether Log appends messages.
func (c *Context) EnableLog(state bool) { c.logEnabled = state }

// EnableTimer toggles whether StartTimer/StopTimer record durations.
func (c *Context) EnableTimer(state bool) { c.timerEnabled = state }

// Reset clears accumulated messages, keeping timer totals.
func (c *Context) Reset() { c.messages = c.messages[:0] }

// Progressf logs a progress message.
func (c *Context) Progressf(format string, args ...interface{}) { c.Log(Progress, format, args...) }

// Warningf logs a warning message.
func (c *Context) Warningf(format string, args ...interface{}) { c.Log(Warning, format, args...) }

// Errorf logs an error message.
func (c *Context) Errorf(format string, args ...interface{}) { c.Log(Error, format, args...) }

// Log appends a formatted message, dropping it once the ring is full rather
// than growing without bound during a runaway build.
func (c *Context) Log(cat Category, format string, args ...interface{}) {
	if !c.logEnabled || len(c.messages) >= maxMessages {
		return
	}
	c.messages = append(c.messages, Message{Category: cat, Text: fmt.Sprintf(format, args...)})
}

// Messages returns every message logged since the last Reset.
func (c *Context) Messages() []Message { return c.messages }

// StartTimer marks the start of the named timer.
func (c *Context) StartTimer(name string) {
	if c.timerEnabled {
		c.starts[name] = time.Now()
	}
}

// StopTimer accumulates elapsed time since the matching StartTimer into the
// named timer's running total.
func (c *Context) StopTimer(name string) {
	if !c.timerEnabled {
		return
	}
	start, ok := c.starts[name]
	if !ok {
		return
	}
	c.totals[name] += time.Since(start)
}

// Elapsed returns the named timer's accumulated duration.
func (c *Context) Elapsed(name string) time.Duration { return c.totals[name] }
