package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a slog logger writing JSON to stdout. LOG_LEVEL controls
// verbosity (debug, info, warn, error); anything else means info.
func New() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
