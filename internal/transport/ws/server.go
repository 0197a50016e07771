package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/realtime"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

type Gateway interface {
	Authenticate(token string) (domain.Identity, error)
	Attach(conn realtime.Conn, id domain.Identity) (realtime.Session, error)
	Detach(id realtime.ConnID) error
	Dispatch(ctx context.Context, id realtime.ConnID, event string, payload json.RawMessage) error
}

type Options struct {
	PingEvery       time.Duration
	WriteTimeout    time.Duration
	ReadLimit       int64
	EventsPerSecond float64
	Burst           int
	SendBuffer      int
	// пусто: пускаем любой Origin
	AllowedOrigins []string
}

func (o *Options) setDefaults() {
	if o.PingEvery <= 0 {
		o.PingEvery = 15 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 5 * time.Second
	}
	if o.ReadLimit <= 0 {
		o.ReadLimit = 1 << 20
	}
	if o.EventsPerSecond <= 0 {
		o.EventsPerSecond = 20
	}
	if o.Burst <= 0 {
		o.Burst = 40
	}
}

type Server struct {
	upgrader websocket.Upgrader
	gw       Gateway
	opts     Options
	log      *slog.Logger
}

func NewServer(gw Gateway, opts Options, log *slog.Logger) *Server {
	opts.setDefaults()
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		gw:   gw,
		opts: opts,
		log:  log.With("component", "ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
	}
}

// WS endpoint: GET /ws, токен в Authorization: Bearer или ?token=
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := tokenFromRequest(r)
	if token == "" {
		http.Error(w, "Authentication error: No token provided", http.StatusUnauthorized)
		return
	}
	id, err := s.gw.Authenticate(token)
	if err != nil {
		s.log.Debug("ws auth failed", slog.Any("err", err))
		http.Error(w, "Authentication error: Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		s.log.Warn("ws upgrade failed", slog.Any("err", err))
		return
	}

	c := newWsConn(conn, s.opts.SendBuffer, s.opts.WriteTimeout, s.opts.PingEvery)
	sess, err := s.gw.Attach(c, id)
	if err != nil {
		s.log.Warn("ws attach failed", slog.Int64("user_id", int64(id.UserID)), slog.Any("err", err))
		_ = c.Close()
		return
	}
	log := s.log.With(slog.String("conn_id", string(sess.ID)), slog.Int64("user_id", int64(id.UserID)))
	log.Info("ws connected", slog.String("username", id.Username))

	defer func() {
		if err := s.gw.Detach(sess.ID); err != nil && !errors.Is(err, realtime.ErrGatewayStopped) {
			log.Warn("ws detach failed", slog.Any("err", err))
		}
		_ = c.Close()
		log.Info("ws disconnected")
	}()

	go c.writeLoop()
	s.readLoop(r.Context(), c, log)
}

// readLoop обрабатывает события строго по одному, в порядке поступления.
func (s *Server) readLoop(ctx context.Context, c *wsConn, log *slog.Logger) {
	limiter := rate.NewLimiter(rate.Limit(s.opts.EventsPerSecond), s.opts.Burst)

	c.conn.SetReadLimit(s.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * s.opts.PingEvery))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * s.opts.PingEvery))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("ws read failed", slog.Any("err", err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(2 * s.opts.PingEvery))

		if !limiter.Allow() {
			s.sendError(c, "rate limit exceeded")
			continue
		}

		event, payload, err := parseFrame(data)
		if err != nil {
			s.sendError(c, "Invalid frame: "+err.Error())
			continue
		}

		if err := s.gw.Dispatch(ctx, c.ID(), event, payload); err != nil {
			if errors.Is(err, realtime.ErrGatewayStopped) || errors.Is(err, realtime.ErrUnknownConnection) {
				return
			}
			log.Warn("ws dispatch failed", slog.String("event", event), slog.Any("err", err))
		}
	}
}

func (s *Server) sendError(c *wsConn, msg string) {
	_ = c.Send(realtime.Frame{Type: realtime.EventError, Payload: realtime.ErrorPayload{Message: msg}})
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if rest, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(rest)
		}
	}
	q := r.URL.Query()
	if t := strings.TrimSpace(q.Get("token")); t != "" {
		return t
	}
	return strings.TrimSpace(q.Get("access_token"))
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(o, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
