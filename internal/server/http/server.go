package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cwrk-planet/chat-service/config"
)

type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
}

func New(cfg config.HTTP, handler http.Handler) *Server {
	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Server{srv: s, shutdownTimeout: timeout}
}

// OnShutdown: hijacked websocket-соединения Shutdown не ждёт, их закрывает f.
func (s *Server) OnShutdown(f func()) {
	s.srv.RegisterOnShutdown(f)
}

// Run запускает HTTP-сервер и блокирует до завершения ctx.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(shCtx)
	case err := <-errCh:
		return err
	}
}
