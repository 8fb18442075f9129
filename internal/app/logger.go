package app

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process logger the services share. LOG_FORMAT=json
// selects the JSON handler for production; anything else gets readable
// text output. LOG_LEVEL=debug surfaces the posting engine's skipped-row
// records and the report cache miss/rebuild traffic, which stay hidden at
// the default info level.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true, Level: logLevel(cfg)}
	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func logLevel(cfg *Config) slog.Level {
	if cfg == nil {
		return slog.LevelInfo
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
