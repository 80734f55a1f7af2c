// Package logging provides the logger interface shared across snapkeeper.
package logging

import (
	"os"

	charm "github.com/charmbracelet/log"
)

type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// New builds a logger for the configured level and format ("text" or "json").
// Unknown values fall back to info/text.
func New(level, format string) Logger {
	opts := charm.Options{ReportTimestamp: true}
	if format == "json" {
		opts.Formatter = charm.JSONFormatter
	}
	l := charm.NewWithOptions(os.Stderr, opts)
	if lv, err := charm.ParseLevel(level); err == nil {
		l.SetLevel(lv)
	}
	return charmLogger{l}
}

type charmLogger struct {
	l *charm.Logger
}

func (c charmLogger) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }
func (c charmLogger) Info(msg string, keyvals ...any)  { c.l.Info(msg, keyvals...) }
func (c charmLogger) Warn(msg string, keyvals ...any)  { c.l.Warn(msg, keyvals...) }
func (c charmLogger) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }

// Nop discards everything. Used in tests.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
