// Package logging builds the structured loggers shared by every component.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Prefix tags every line written by the device.
const Prefix = "flow-touch"

// ParseLevel maps a config level name to a log level. Unknown names fall
// back to info.
func ParseLevel(name string) log.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// New creates a logger writing to w. Verbose forces debug output.
func New(w io.Writer, level string, verbose bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl := ParseLevel(level)
	if verbose {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
