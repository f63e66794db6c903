package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var levelVar = new(slog.LevelVar)

var L = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: levelVar}))

// SetLevel configures the global log level (debug, info, warn, error).
func SetLevel(lvl string) {
	switch strings.ToLower(lvl) {
	case "debug":
		levelVar.Set(slog.LevelDebug)
	case "warn":
		levelVar.Set(slog.LevelWarn)
	case "error":
		levelVar.Set(slog.LevelError)
	default:
		levelVar.Set(slog.LevelInfo)
	}
}

// SetOutput redirects the global logger to a rotated log file. An empty path
// keeps logging on stdout.
func SetOutput(path string) {
	var w io.Writer = os.Stdout
	if path != "" {
		w = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
	}
	L = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: levelVar}))
	slog.SetDefault(L)
}
