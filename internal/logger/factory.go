package logger

import (
	"io"

	"github.com/charmbracelet/log"
)

// Default creates a logger without timestamps for interactive output
func Default(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// Discard is a logger that drops everything, handy in tests
func Discard() *log.Logger {
	return NewWithConfig("", log.FatalLevel, false, false, log.TextFormatter)
}
