// Package pg открывает пул соединений с Postgres по секции postgres из конфига.
package pg

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwrk-planet/chat-service/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

const pingTimeout = 5 * time.Second

// Open создаёт пул и проверяет его Ping(); при ошибке пул закрыт.
func Open(ctx context.Context, cfg config.Postgres, log *slog.Logger) (*pgxpool.Pool, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("pg: new pool: %w", err)
	}
	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}

	if log != nil {
		log.Info("postgres connected",
			slog.String("host", pc.ConnConfig.Host),
			slog.String("database", pc.ConnConfig.Database),
			slog.Int("max_conns", int(pc.MaxConns)),
		)
	}
	return pool, nil
}

func poolConfig(cfg config.Postgres) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if pc.MinConns > pc.MaxConns {
		pc.MinConns = pc.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.HealthCheckPeriod > 0 {
		pc.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	if cfg.ApplicationName != "" {
		if pc.ConnConfig.RuntimeParams == nil {
			pc.ConnConfig.RuntimeParams = map[string]string{}
		}
		pc.ConnConfig.RuntimeParams["application_name"] = cfg.ApplicationName
	}
	return pc, nil
}

func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return pool.Ping(ctx)
}

// RegisterPoolMetrics публикует статистику пула как chat_pg_pool_*.
func RegisterPoolMetrics(reg prometheus.Registerer, pool *pgxpool.Pool) error {
	gauges := map[string]func(*pgxpool.Stat) float64{
		"total_conns":    func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) },
		"idle_conns":     func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) },
		"acquired_conns": func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) },
		"max_conns":      func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) },
	}
	for name, fn := range gauges {
		fn := fn
		g := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "chat",
			Subsystem: "pg_pool",
			Name:      name,
			Help:      "pgxpool " + name,
		}, func() float64 { return fn(pool.Stat()) })
		if err := reg.Register(g); err != nil {
			return err
		}
	}
	return nil
}
