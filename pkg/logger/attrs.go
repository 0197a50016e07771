package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// instanceID: явный из конфига, затем INSTANCE_ID, иначе hostname + кусок uuid.
func instanceID(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv("INSTANCE_ID"); v != "" {
		return v
	}
	hn, err := os.Hostname()
	if err != nil || hn == "" {
		hn = "chat"
	}
	return hn + "-" + uuid.NewString()[:8]
}

// baseAttrs пишутся в каждую запись.
func baseAttrs(cfg Config) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("service", cfg.Service),
		slog.String("env", string(cfg.Env)),
		slog.String("instance_id", cfg.InstanceID),
		slog.Time("started_at", time.Now()),
	}
	if cfg.Version != "" {
		attrs = append(attrs, slog.String("version", cfg.Version))
	}
	return attrs
}
