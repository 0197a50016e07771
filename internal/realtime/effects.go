package realtime

import (
	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/errs"
)

type EffectKind int

const (
	EffectSubscribe EffectKind = iota + 1
	EffectUnsubscribe
	EffectEmitConn
	EffectEmitUser
	EffectEmitRoom
	EffectEmitMonitor
)

// Effect is an instruction produced by a handler and applied by the gateway loop.
// Subscribe and Unsubscribe act on the originating connection.
type Effect struct {
	Kind   EffectKind
	Room   RoomID
	Conn   ConnID
	User   domain.UserID
	Except ConnID
	Frame  Frame
}

// Result is what a handler returns: effects to apply, plus the error that caused a rejection.
type Result struct {
	Effects []Effect
	Err     error
	Ignored bool
}

func subscribe(room RoomID) Effect   { return Effect{Kind: EffectSubscribe, Room: room} }
func unsubscribe(room RoomID) Effect { return Effect{Kind: EffectUnsubscribe, Room: room} }

func emitToConn(id ConnID, event string, payload any) Effect {
	return Effect{Kind: EffectEmitConn, Conn: id, Frame: Frame{Type: event, Payload: payload}}
}

func emitToUser(user domain.UserID, event string, payload any) Effect {
	return Effect{Kind: EffectEmitUser, User: user, Frame: Frame{Type: event, Payload: payload}}
}

func emitToRoom(room RoomID, event string, payload any) Effect {
	return Effect{Kind: EffectEmitRoom, Room: room, Frame: Frame{Type: event, Payload: payload}}
}

func emitToRoomExcept(room RoomID, except ConnID, event string, payload any) Effect {
	e := emitToRoom(room, event, payload)
	e.Except = except
	return e
}

func emitToMonitor(m *domain.MessageDetails) Effect {
	return Effect{Kind: EffectEmitMonitor, Frame: Frame{Type: EventMonitorMessage, Payload: m}}
}

func accept(effects ...Effect) Result { return Result{Effects: effects} }

func ignored() Result { return Result{Ignored: true} }

// reject answers the originating connection only.
func reject(s Session, err error) Result {
	return Result{
		Err:     err,
		Effects: []Effect{emitToConn(s.ID, EventError, ErrorPayload{Message: errs.PublicMessage(err)})},
	}
}

// messageEffects fans out a persisted message: direct messages go to sender and
// recipient, group messages to the group room, and every message to the monitor.
func messageEffects(m *domain.MessageDetails) []Effect {
	out := make([]Effect, 0, 3)
	switch {
	case m.GroupID != nil:
		out = append(out, emitToRoom(GroupRoom(*m.GroupID), EventNewGroupMessage, m))
	case m.RecipientID != nil:
		out = append(out, emitToUser(m.SenderID, EventNewDirectMessage, m))
		if *m.RecipientID != m.SenderID {
			out = append(out, emitToUser(*m.RecipientID, EventNewDirectMessage, m))
		}
	}
	return append(out, emitToMonitor(m))
}
