// Package logging sets up the process-wide structured logger.
package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Setup builds an slog.Logger backed by a charmbracelet handler, with the
// level and format taken from config. verbose forces debug level.
func Setup(level, format string, verbose bool) *slog.Logger {
	var formatter log.Formatter
	switch format {
	case "json":
		formatter = log.JSONFormatter
	case "text":
		formatter = log.TextFormatter
	default:
		formatter = log.LogfmtFormatter
	}

	logLevel := log.InfoLevel
	switch level {
	case "debug":
		logLevel = log.DebugLevel
	case "warn":
		logLevel = log.WarnLevel
	case "error":
		logLevel = log.ErrorLevel
	}
	if verbose {
		logLevel = log.DebugLevel
	}

	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "playlog",
		Formatter:       formatter,
		Level:           logLevel,
	})

	return slog.New(handler)
}
