package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cwrk-planet/chat-service/config"
	"github.com/cwrk-planet/chat-service/internal/pg"
	"github.com/cwrk-planet/chat-service/internal/realtime"
	"github.com/cwrk-planet/chat-service/internal/repository/postgres"
	"github.com/cwrk-planet/chat-service/internal/security"
	httpserver "github.com/cwrk-planet/chat-service/internal/server/http"
	"github.com/cwrk-planet/chat-service/internal/service"
	transport "github.com/cwrk-planet/chat-service/internal/transport/http"
	"github.com/cwrk-planet/chat-service/internal/transport/ws"
	"github.com/cwrk-planet/chat-service/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("chat-service stopped with error", slog.Any("err", err))
		os.Exit(1)
	}
}

func run() error {
	// 1) config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2) logger (slog.Default)
	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		Level:     logger.ParseLevel(cfg.Logging.Level),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting chat-service", "version", cfg.Logging.Version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3) postgres
	pool, err := pg.Open(ctx, cfg.Postgres, logger.Component("pg"))
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Postgres.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		slog.Info("schema is up to date")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := pg.RegisterPoolMetrics(reg, pool); err != nil {
		return err
	}

	// 4) repos + services
	usersRepo := postgres.NewUserRepoFromPool(pool)
	groupsRepo := postgres.NewGroupRepoFromPool(pool)
	messagesRepo := postgres.NewMessageRepoFromPool(pool)

	signer, err := newSigner(cfg.Security.JWT)
	if err != nil {
		return err
	}
	authSvc := service.NewAuthService(usersRepo, signer, security.BcryptConfig{
		Cost:      cfg.Security.Password.BcryptCost,
		MinLength: cfg.Security.Password.MinLength,
	}, time.Now)
	authSvc.Reserve(cfg.Realtime.MonitorUsername)
	if cfg.Realtime.MonitorPassword != "" {
		if _, err := authSvc.EnsureUser(ctx, cfg.Realtime.MonitorUsername, cfg.Realtime.MonitorPassword); err != nil {
			return fmt.Errorf("seed monitor user: %w", err)
		}
	}
	userSvc := service.NewUserService(usersRepo)
	groupSvc := service.NewGroupService(groupsRepo, usersRepo, time.Now)
	chatSvc, err := service.NewChatService(messagesRepo, groupsRepo, usersRepo, cfg.Realtime.MonitorUsername, 0)
	if err != nil {
		return err
	}

	// 5) realtime gateway
	gw := realtime.NewGateway(chatSvc, authSvc, realtime.Options{
		MonitorUsername: cfg.Realtime.MonitorUsername,
		MultiConnection: cfg.Realtime.MultiConnection,
		Metrics:         realtime.NewMetrics(reg),
		Logger:          logger.L(),
	})
	gw.Start()

	wsSrv := ws.NewServer(gw, ws.Options{
		PingEvery:       cfg.WS.PingEvery,
		WriteTimeout:    cfg.WS.WriteTimeout,
		ReadLimit:       cfg.WS.ReadLimit,
		EventsPerSecond: cfg.WS.EventsPerSecond,
		Burst:           cfg.WS.Burst,
		SendBuffer:      cfg.Realtime.SendBuffer,
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
	}, logger.L())

	// 6) router + server
	router := transport.NewRouter(transport.Deps{
		Auth:           authSvc,
		Users:          userSvc,
		Groups:         groupSvc,
		Messages:       gw,
		History:        chatSvc,
		WS:             http.HandlerFunc(wsSrv.HandleWS),
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})

	srv := httpserver.New(cfg.HTTP, router)
	// Stop идемпотентен: из хука при Shutdown, из defer если Run упал на Listen
	defer func() { _ = gw.Stop() }()
	srv.OnShutdown(func() {
		if err := gw.Stop(); err != nil {
			slog.Warn("closing websocket connections", slog.Any("err", err))
		}
	})

	// 7) graceful shutdown
	slog.Info("listening", "addr", cfg.HTTP.Addr)
	if err := srv.Run(ctx); err != nil {
		return err
	}

	slog.Info("chat-service stopped")
	return nil
}

func newSigner(cfg config.JWT) (*security.JWTSigner, error) {
	if strings.EqualFold(cfg.Alg, "RS256") {
		private, err := security.LoadRSAPrivateKeyFromPEM(cfg.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read private key: %w", err)
		}
		public, err := security.LoadRSAPublicKeyFromPEM(cfg.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read public key: %w", err)
		}
		return security.NewRS256Signer(private, public, cfg.Issuer, cfg.Audience, cfg.AccessTTL, cfg.ClockSkew), nil
	}
	return security.NewHS256Signer([]byte(cfg.Secret), cfg.Issuer, cfg.Audience, cfg.AccessTTL, cfg.ClockSkew), nil
}
