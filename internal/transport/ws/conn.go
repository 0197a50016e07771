package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/cwrk-planet/chat-service/internal/realtime"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	ErrConnClosed     = errors.New("ws: connection closed")
	ErrSendQueueFull  = errors.New("ws: send queue full")
	defaultSendBuffer = 64
)

// wsConn implements realtime.Conn. Send only enqueues; writeLoop is the single writer.
type wsConn struct {
	id   realtime.ConnID
	conn *websocket.Conn

	send      chan realtime.Frame
	closed    chan struct{}
	closeOnce sync.Once
	closeErr  error

	writeTimeout time.Duration
	pingEvery    time.Duration
}

func newWsConn(c *websocket.Conn, sendBuffer int, writeTimeout, pingEvery time.Duration) *wsConn {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	return &wsConn{
		id:           realtime.ConnID(uuid.NewString()),
		conn:         c,
		send:         make(chan realtime.Frame, sendBuffer),
		closed:       make(chan struct{}),
		writeTimeout: writeTimeout,
		pingEvery:    pingEvery,
	}
}

func (c *wsConn) ID() realtime.ConnID { return c.id }

func (c *wsConn) Send(f realtime.Frame) error {
	select {
	case <-c.closed:
		return ErrConnClosed
	default:
	}
	select {
	case c.send <- f:
		return nil
	default:
		return ErrSendQueueFull
	}
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *wsConn) writeLoop() {
	ticker := time.NewTicker(c.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case f := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteJSON(f); err != nil {
				_ = c.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout)); err != nil {
				_ = c.Close()
				return
			}
		case <-c.closed:
			return
		}
	}
}
