package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/errs"
)

type Deps struct {
	Store Persistence
}

// Handler is a step of the connection state machine: it reads the session and the
// event payload and returns the effects to apply. Handlers do not touch the
// registry or rooms; room changes come back as effects.
type Handler func(ctx context.Context, deps Deps, s Session, payload json.RawMessage) Result

var handlers = map[string]Handler{
	EventJoinGroup:         handleJoinGroup,
	EventLeaveGroup:        handleLeaveGroup,
	EventSendDirectMessage: handleSendDirect,
	EventSendGroupMessage:  handleSendGroup,
	EventTypingStart:       handleTypingStart,
	EventTypingStop:        handleTypingStop,
}

func lookupHandler(event string) Handler {
	if h, ok := handlers[event]; ok {
		return h
	}
	return func(_ context.Context, _ Deps, s Session, _ json.RawMessage) Result {
		return reject(s, errs.Validation("Unknown event: "+event))
	}
}

var errEmptyPayload = errors.New("empty payload")

func decodePayload(raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return errEmptyPayload
	}
	return json.Unmarshal(raw, dst)
}

// join_group / leave_group without a usable id are ignored.

func handleJoinGroup(_ context.Context, _ Deps, _ Session, raw json.RawMessage) Result {
	var p groupRef
	if err := decodePayload(raw, &p); err != nil || p.GroupID <= 0 {
		return ignored()
	}
	return accept(subscribe(GroupRoom(p.GroupID)))
}

func handleLeaveGroup(_ context.Context, _ Deps, _ Session, raw json.RawMessage) Result {
	var p groupRef
	if err := decodePayload(raw, &p); err != nil || p.GroupID <= 0 {
		return ignored()
	}
	return accept(unsubscribe(GroupRoom(p.GroupID)))
}

func handleSendDirect(ctx context.Context, deps Deps, s Session, raw json.RawMessage) Result {
	var p directMessageIn
	if err := decodePayload(raw, &p); err != nil || p.RecipientID <= 0 || p.Content == "" {
		return reject(s, errs.Validation("Recipient ID and content are required"))
	}
	recipient := p.RecipientID
	_, effects, err := sendMessage(ctx, deps, s.Identity, domain.NewMessage{
		Content:     p.Content,
		RecipientID: &recipient,
	})
	if err != nil {
		return reject(s, err)
	}
	return accept(effects...)
}

func handleSendGroup(ctx context.Context, deps Deps, s Session, raw json.RawMessage) Result {
	var p groupMessageIn
	if err := decodePayload(raw, &p); err != nil || p.GroupID <= 0 || p.Content == "" {
		return reject(s, errs.Validation("Group ID and content are required"))
	}
	group := p.GroupID
	_, effects, err := sendMessage(ctx, deps, s.Identity, domain.NewMessage{
		Content: p.Content,
		GroupID: &group,
	})
	if err != nil {
		return reject(s, err)
	}
	return accept(effects...)
}

// sendMessage is the single validate → persist → fan-out routine shared by socket
// events and Gateway.SendMessage. Nothing is written unless validation passes, and
// effects are only produced after the store confirms the write.
func sendMessage(ctx context.Context, deps Deps, from domain.Identity, in domain.NewMessage) (*domain.MessageDetails, []Effect, error) {
	in.SenderID = from.UserID
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	switch {
	case in.RecipientID != nil:
		if _, err := deps.Store.FindUserByID(ctx, *in.RecipientID); err != nil {
			return nil, nil, err
		}
	case in.GroupID != nil:
		if _, err := deps.Store.FindGroupByID(ctx, *in.GroupID); err != nil {
			return nil, nil, err
		}
		member, err := deps.Store.IsGroupMember(ctx, *in.GroupID, from.UserID)
		if err != nil {
			return nil, nil, err
		}
		if !member {
			return nil, nil, errs.Authorization("You are not a member of this group")
		}
	}

	m, err := deps.Store.CreateMessage(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	return m, messageEffects(m), nil
}
