package logger

import "log/slog"

func newStdHandler(cfg Config) slog.Handler {
	return slog.NewTextHandler(cfg.Output, &slog.HandlerOptions{
		Level:     effectiveLevel(cfg),
		AddSource: cfg.AddSource,
	})
}
