// Package logging builds the launcher's logger.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"modlauncher/internal/errors"
	"modlauncher/internal/model"
)

// Options controls where and how much the launcher logs.
type Options struct {
	Level string
	File  string
	// Quiet discards output when no file is set. The TUI owns the terminal.
	Quiet bool
}

// New returns a logger and a closer for its output.
func New(opts Options) (*log.Logger, io.Closer, error) {
	level := log.WarnLevel
	if opts.Level != "" {
		l, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, errors.WithStackTraceAndPrefix(err, "log level %q", opts.Level)
		}
		level = l
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	switch {
	case opts.File != "":
		f, err := os.OpenFile(model.ExpandTilde(opts.File), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, errors.WithStackTraceAndPrefix(err, "opening log file")
		}
		w, closer = f, f
	case opts.Quiet:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "modlauncher",
		ReportTimestamp: true,
	})
	return logger, closer, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
