// Package logging configures the engine's structured logger (spec.md §6,
// C12 — observability is carried as an ambient concern regardless of the
// spec's Non-goals on outer surfaces).
package logging

import (
	"io"
	"log"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotatingFile returns a lumberjack-backed writer for Setup's dest
// parameter: 100MB per file, 7 days retention, 10 old files kept.
func RotatingFile(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100,
		MaxAge:     7,
		MaxBackups: 10,
		Compress:   true,
	}
}

// Setup configures slog to emit structured JSON for the engine, tagging
// every line with the service (and env, when set); ForMarket adds the
// market index so a multi-market deployment can demux logs downstream. dest is typically os.Stdout or a RotatingFile
// writer.
func Setup(service, env string, dest io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(dest, &slog.HandlerOptions{
		AddSource: false,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey {
				return slog.Attr{Key: "timestamp", Value: attr.Value}
			}
			if attr.Key == slog.LevelKey {
				return slog.String("severity", strings.ToUpper(attr.Value.String()))
			}
			if attr.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		},
	})

	attrs := []slog.Attr{slog.String("service", strings.TrimSpace(service))}
	if env = strings.TrimSpace(env); env != "" {
		attrs = append(attrs, slog.String("env", env))
	}

	withArgs := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		withArgs = append(withArgs, attr)
	}

	base := slog.New(handler).With(withArgs...)
	slog.SetDefault(base)

	stdBridge := slog.NewLogLogger(handler.WithAttrs(attrs), slog.LevelInfo)
	stdBridge.SetFlags(0)
	log.SetOutput(stdBridge.Writer())
	log.SetFlags(0)
	log.SetPrefix("")

	return base
}

// ForMarket returns a child logger scoped to a single market, the unit
// every core operation runs against.
func ForMarket(base *slog.Logger, marketIndex uint16) *slog.Logger {
	return base.With(slog.Int("market_index", int(marketIndex)))
}
