package logger

import (
	"log/slog"
	"os"
	"strings"
)

var Log *slog.Logger = slog.Default()

// Init installs the JSON logger used by every package. level is one of
// debug, info, warn, error; anything else means debug.
func Init(level string) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	Log = slog.New(handler)
	slog.SetDefault(Log)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
