package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/lmittmann/tint"
)

type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string, err error)
	Debug(msg string)
	With(key string, value any) Logger
}

type DuelboardLogger struct {
	logger *slog.Logger
}

var (
	mu     sync.RWMutex
	level  = slog.LevelDebug
	format = "text"
	output = io.Writer(os.Stdout)
)

// Configure sets the level ("debug", "info", "warn", "error") and format
// ("text" or "json") used by loggers created afterwards.
func Configure(lvl, logFormat string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(lvl)
	if strings.EqualFold(logFormat, "json") {
		format = "json"
	} else {
		format = "text"
	}
}

// SetOutput redirects loggers created afterwards, mostly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func ParseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

func New(loggerName string) Logger {
	mu.RLock()
	defer mu.RUnlock()
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(output, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})
	} else {
		handler = tint.NewHandler(output, &tint.Options{
			Level:     level,
			AddSource: true,
		})
	}
	attrs := []slog.Attr{slog.String("logger", loggerName)}
	h := handler.WithAttrs(attrs)
	return DuelboardLogger{slog.New(h)}
}

func (dl DuelboardLogger) Info(msg string) {
	dl.logger.Info(msg)
}

func (dl DuelboardLogger) Warn(msg string) {
	dl.logger.Warn(msg)
}

func (dl DuelboardLogger) Error(msg string, err error) {
	if err != nil {
		e := slog.String("error", err.Error())
		dl.logger.Error(msg, e)
		return
	}
	dl.logger.Error(msg)
}

func (dl DuelboardLogger) Debug(msg string) {
	dl.logger.Debug(msg)
}

func (dl DuelboardLogger) With(key string, value any) Logger {
	return DuelboardLogger{dl.logger.With(key, value)}
}
