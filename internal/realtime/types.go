// Package realtime is the message delivery and presence layer: connection registry,
// room subscriptions, the per-connection event state machine and fan-out.
package realtime

import (
	"context"
	"fmt"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

// ConnID identifies one live transport connection.
type ConnID string

// RoomID is either a personal room (user_<id>) or a group room (group_<id>).
type RoomID string

func UserRoom(id domain.UserID) RoomID   { return RoomID(fmt.Sprintf("user_%d", id)) }
func GroupRoom(id domain.GroupID) RoomID { return RoomID(fmt.Sprintf("group_%d", id)) }

// Frame is the wire envelope in both directions.
type Frame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Conn is the transport side of a connection. Send and Close are called from the
// gateway loop and must not block: Send only enqueues.
type Conn interface {
	ID() ConnID
	Send(f Frame) error
	Close() error
}

// Persistence is the durable store the gateway validates and writes against.
type Persistence interface {
	CreateMessage(ctx context.Context, in domain.NewMessage) (*domain.MessageDetails, error)
	IsGroupMember(ctx context.Context, groupID domain.GroupID, userID domain.UserID) (bool, error)
	FindUserByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	FindGroupByID(ctx context.Context, id domain.GroupID) (*domain.Group, error)
}

type IdentityVerifier interface {
	VerifyToken(token string) (domain.Identity, error)
}

type ConnState int

const (
	StateConnecting ConnState = iota
	StateAuthenticated
	StateActive
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is the per-connection record handed to event handlers.
type Session struct {
	ID       ConnID
	Identity domain.Identity
	State    ConnState
}
