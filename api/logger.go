package api

import (
	"io"
	"log/slog"
	"strings"

	"github.com/go-chi/httplog/v3"
	"github.com/warp/holiday-pay/config"
)

// NewLogger returns a JSON slog logger using the ECS field names httplog
// writes request logs with, tagged with the app's version and environment.
func NewLogger(w io.Writer, app config.AppConfig) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(app.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "holiday-pay"),
		slog.String("version", app.Version),
		slog.String("env", app.Env),
	)
}

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
