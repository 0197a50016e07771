package realtime

import (
	"context"
	"encoding/json"

	"github.com/cwrk-planet/chat-service/internal/errs"
)

// Typing indicators are relayed, never stored. Direct typing goes to the
// recipient's registered connection(s); group typing to every other subscriber
// of the group room.

func handleTypingStart(_ context.Context, _ Deps, s Session, raw json.RawMessage) Result {
	return relayTyping(s, raw, EventUserTyping, TypingPayload{
		UserID:   s.Identity.UserID,
		Username: s.Identity.Username,
	})
}

func handleTypingStop(_ context.Context, _ Deps, s Session, raw json.RawMessage) Result {
	return relayTyping(s, raw, EventUserStopTyping, StopTypingPayload{UserID: s.Identity.UserID})
}

func relayTyping(s Session, raw json.RawMessage, event string, payload any) Result {
	var p typingIn
	if err := decodePayload(raw, &p); err != nil {
		return reject(s, errs.Validation("Invalid typing payload"))
	}

	switch p.Type {
	case TypingDirect:
		if p.RecipientID <= 0 {
			return reject(s, errs.Validation("recipient_id is required for direct typing"))
		}
		return accept(emitToUser(p.RecipientID, event, payload))
	case TypingGroup:
		if p.GroupID <= 0 {
			return reject(s, errs.Validation("group_id is required for group typing"))
		}
		return accept(emitToRoomExcept(GroupRoom(p.GroupID), s.ID, event, payload))
	default:
		return reject(s, errs.Validation("type must be direct or group"))
	}
}
