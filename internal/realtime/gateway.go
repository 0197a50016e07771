package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/errs"

	"go.uber.org/multierr"
)

var (
	ErrGatewayStopped      = errors.New("realtime: gateway stopped")
	ErrGatewayNotStarted   = errors.New("realtime: gateway not started")
	ErrUnknownConnection   = errors.New("realtime: unknown connection")
	ErrDuplicateConnection = errors.New("realtime: connection already attached")
)

type Options struct {
	// Username whose connections receive monitor_message for every message.
	MonitorUsername string
	// false: one connection per user, the newest wins. true: every open connection.
	MultiConnection bool
	Metrics         *Metrics
	Logger          *slog.Logger
}

type connEntry struct {
	conn    Conn
	session Session
}

// Gateway owns the registry and rooms. All reads and writes of that state happen
// on one loop goroutine; anything that suspends (token checks, store calls) runs
// on the caller's goroutine before or after a hop into the loop.
type Gateway struct {
	deps      Deps
	verifier  IdentityVerifier
	monitor   string
	monitorID domain.UserID

	registry Registry
	rooms    *Rooms
	conns    map[ConnID]*connEntry

	ops  chan func()
	quit chan struct{}
	done chan struct{}

	started   atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
	closeErr  error

	metrics *Metrics
	log     *slog.Logger
}

func NewGateway(store Persistence, verifier IdentityVerifier, opts Options) *Gateway {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{
		deps:     Deps{Store: store},
		verifier: verifier,
		monitor:  strings.TrimSpace(opts.MonitorUsername),
		registry: NewRegistry(opts.MultiConnection),
		rooms:    NewRooms(),
		conns:    make(map[ConnID]*connEntry),
		ops:      make(chan func()),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		metrics:  opts.Metrics,
		log:      log.With("component", "realtime"),
	}
}

func (g *Gateway) Start() {
	g.startOnce.Do(func() {
		g.started.Store(true)
		go g.loop()
	})
}

// Stop closes every live connection and stops the loop. It is idempotent; after it
// returns, every other Gateway call fails with ErrGatewayStopped.
func (g *Gateway) Stop() error {
	g.stopOnce.Do(func() {
		close(g.quit)
		if g.started.Load() {
			<-g.done
		}
	})
	return g.closeErr
}

func (g *Gateway) loop() {
	defer close(g.done)
	for {
		select {
		case op := <-g.ops:
			op()
		case <-g.quit:
			var err error
			for id, e := range g.conns {
				multierr.AppendInto(&err, e.conn.Close())
				g.detach(id)
			}
			g.closeErr = err
			g.log.Info("realtime gateway stopped")
			return
		}
	}
}

// exec runs fn on the loop and waits for it.
func (g *Gateway) exec(fn func()) error {
	if !g.started.Load() {
		return ErrGatewayNotStarted
	}
	done := make(chan struct{})
	op := func() {
		defer close(done)
		fn()
	}
	select {
	case g.ops <- op:
	case <-g.quit:
		return ErrGatewayStopped
	}
	select {
	case <-done:
		return nil
	case <-g.done:
		select {
		case <-done:
			return nil
		default:
			return ErrGatewayStopped
		}
	}
}

// Authenticate is the Connecting → Authenticated step. It runs before any state is touched.
func (g *Gateway) Authenticate(token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, errs.Authentication("Authentication token required", nil)
	}
	id, err := g.verifier.VerifyToken(token)
	if err != nil {
		if !errors.Is(err, errs.ErrAuthentication) {
			err = errs.Authentication("Invalid token", err)
		}
		return domain.Identity{}, err
	}
	return id, nil
}

// Attach is the Authenticated → Active step: register the connection, subscribe it to
// its personal room and send it a connected frame.
func (g *Gateway) Attach(conn Conn, id domain.Identity) (Session, error) {
	var (
		s    Session
		aerr error
	)
	if err := g.exec(func() { s, aerr = g.activate(conn, id) }); err != nil {
		return Session{ID: conn.ID(), Identity: id, State: StateClosed}, err
	}
	return s, aerr
}

// Connect runs the whole handshake for transports that carry the token in-band.
func (g *Gateway) Connect(token string, conn Conn) (Session, error) {
	id, err := g.Authenticate(token)
	if err != nil {
		return Session{ID: conn.ID(), State: StateClosed}, err
	}
	return g.Attach(conn, id)
}

// Detach is the Active → Closed step. It is safe to call more than once; cleanup runs once.
func (g *Gateway) Detach(id ConnID) error {
	return g.exec(func() { g.detach(id) })
}

// Dispatch handles one inbound event. Callers must not call Dispatch concurrently
// for the same connection; that is what keeps per-connection arrival order.
func (g *Gateway) Dispatch(ctx context.Context, id ConnID, event string, payload json.RawMessage) error {
	var (
		s     Session
		found bool
	)
	if err := g.exec(func() {
		if e, ok := g.conns[id]; ok {
			s, found = e.session, true
		}
	}); err != nil {
		return err
	}
	if !found || s.State != StateActive {
		return ErrUnknownConnection
	}

	res := lookupHandler(event)(ctx, g.deps, s, payload)
	g.metrics.event(event, res)
	if res.Err != nil {
		g.logRejected(s, event, res.Err)
	}

	return g.exec(func() { g.apply(id, res.Effects) })
}

// SendMessage persists a message on behalf of from and fans it out exactly like the
// socket send events. Used by the HTTP API.
func (g *Gateway) SendMessage(ctx context.Context, from domain.Identity, in domain.NewMessage) (*domain.MessageDetails, error) {
	m, effects, err := sendMessage(ctx, g.deps, from, in)
	if err != nil {
		return nil, err
	}
	if err := g.exec(func() { g.apply("", effects) }); err != nil {
		g.log.Warn("message stored but not broadcast", slog.Int64("message_id", int64(m.ID)), slog.Any("err", err))
	}
	return m, nil
}

// BroadcastToUser sends to the user's registered connection(s).
func (g *Gateway) BroadcastToUser(user domain.UserID, event string, payload any) error {
	return g.exec(func() { g.apply("", []Effect{emitToUser(user, event, payload)}) })
}

func (g *Gateway) BroadcastToRoom(room RoomID, event string, payload any) error {
	return g.exec(func() { g.apply("", []Effect{emitToRoom(room, event, payload)}) })
}

// BroadcastToMonitor mirrors a message to the monitor identity regardless of rooms.
func (g *Gateway) BroadcastToMonitor(m *domain.MessageDetails) error {
	return g.exec(func() { g.apply("", []Effect{emitToMonitor(m)}) })
}

// Lookup, RoomMembers and Connections are read-only introspection. Before Start and
// after Stop the loop is gone and they report an empty state ("", false / nil / 0);
// operations that change state return ErrGatewayNotStarted or ErrGatewayStopped instead.
func (g *Gateway) Lookup(user domain.UserID) (ConnID, bool) {
	var (
		id ConnID
		ok bool
	)
	_ = g.exec(func() { id, ok = g.registry.Lookup(user) })
	return id, ok
}

func (g *Gateway) RoomMembers(room RoomID) []ConnID {
	var out []ConnID
	_ = g.exec(func() { out = g.rooms.Members(room) })
	return out
}

func (g *Gateway) Connections() int {
	var n int
	_ = g.exec(func() { n = len(g.conns) })
	return n
}

// --- loop-only helpers ---

func (g *Gateway) activate(conn Conn, id domain.Identity) (Session, error) {
	cid := conn.ID()
	if _, dup := g.conns[cid]; dup {
		return Session{}, ErrDuplicateConnection
	}

	s := Session{ID: cid, Identity: id, State: StateActive}
	g.conns[cid] = &connEntry{conn: conn, session: s}
	g.registry.Register(id.UserID, cid)
	g.rooms.Subscribe(cid, UserRoom(id.UserID))
	if g.monitor != "" && id.Username == g.monitor {
		g.monitorID = id.UserID
	}
	g.metrics.connOpened()

	g.log.Debug("connection active",
		slog.String("conn_id", string(cid)),
		slog.Int64("user_id", int64(id.UserID)),
		slog.String("username", id.Username),
	)
	g.deliver(cid, Frame{Type: EventConnected, Payload: ConnectedPayload{UserID: id.UserID, Username: id.Username}})
	return s, nil
}

func (g *Gateway) detach(cid ConnID) {
	e, ok := g.conns[cid]
	if !ok {
		return
	}
	delete(g.conns, cid)
	e.session.State = StateClosed
	g.registry.Unregister(e.session.Identity.UserID, cid)
	left := g.rooms.RemoveConn(cid)
	g.metrics.connClosed()

	g.log.Debug("connection closed",
		slog.String("conn_id", string(cid)),
		slog.Int64("user_id", int64(e.session.Identity.UserID)),
		slog.Int("rooms_left", left),
	)
}

// apply runs effects in order. Effects aimed at origin are skipped if it closed
// while the handler was running; room and user fan-out still happens.
func (g *Gateway) apply(origin ConnID, effects []Effect) {
	for _, ef := range effects {
		switch ef.Kind {
		case EffectSubscribe:
			if _, open := g.conns[origin]; open {
				g.rooms.Subscribe(origin, ef.Room)
			}
		case EffectUnsubscribe:
			if !isPersonalRoom(ef.Room) {
				g.rooms.Unsubscribe(origin, ef.Room)
			}
		case EffectEmitConn:
			g.deliver(ef.Conn, ef.Frame)
		case EffectEmitUser:
			for _, cid := range g.registry.Targets(ef.User) {
				g.deliver(cid, ef.Frame)
			}
		case EffectEmitRoom:
			for _, cid := range g.rooms.Members(ef.Room) {
				if cid != ef.Except {
					g.deliver(cid, ef.Frame)
				}
			}
		case EffectEmitMonitor:
			if g.monitorID == 0 {
				continue
			}
			for _, cid := range g.registry.Targets(g.monitorID) {
				g.deliver(cid, ef.Frame)
			}
		}
	}
}

// deliver never blocks: a connection that cannot take the frame is closed and
// detached, and fan-out carries on with the other targets.
func (g *Gateway) deliver(cid ConnID, f Frame) {
	e, ok := g.conns[cid]
	if !ok {
		return
	}
	if err := e.conn.Send(f); err != nil {
		g.metrics.droppedFrame()
		g.log.Warn("dropping connection",
			slog.String("conn_id", string(cid)),
			slog.String("event", f.Type),
			slog.Any("err", err),
		)
		_ = e.conn.Close()
		g.detach(cid)
		return
	}
	g.metrics.delivered(f.Type)
}

func (g *Gateway) logRejected(s Session, event string, err error) {
	level := slog.LevelDebug
	if errors.Is(err, errs.ErrPersistence) {
		level = slog.LevelError
	}
	g.log.Log(context.Background(), level, "event rejected",
		slog.String("conn_id", string(s.ID)),
		slog.Int64("user_id", int64(s.Identity.UserID)),
		slog.String("event", event),
		slog.Any("err", err),
	)
}
