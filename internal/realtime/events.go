package realtime

import "github.com/cwrk-planet/chat-service/internal/domain"

// Inbound events.
const (
	EventJoinGroup         = "join_group"
	EventLeaveGroup        = "leave_group"
	EventSendDirectMessage = "send_direct_message"
	EventSendGroupMessage  = "send_group_message"
	EventTypingStart       = "typing_start"
	EventTypingStop        = "typing_stop"
)

// Outbound events.
const (
	EventConnected        = "connected"
	EventError            = "error"
	EventNewDirectMessage = "new_direct_message"
	EventNewGroupMessage  = "new_group_message"
	EventUserTyping       = "user_typing"
	EventUserStopTyping   = "user_stop_typing"
	EventMonitorMessage   = "monitor_message"
)

const (
	TypingDirect = "direct"
	TypingGroup  = "group"
)

type groupRef struct {
	GroupID domain.GroupID `json:"group_id"`
}

type directMessageIn struct {
	RecipientID domain.UserID `json:"recipient_id"`
	Content     string        `json:"content"`
}

type groupMessageIn struct {
	GroupID domain.GroupID `json:"group_id"`
	Content string         `json:"content"`
}

type typingIn struct {
	Type        string         `json:"type"`
	RecipientID domain.UserID  `json:"recipient_id"`
	GroupID     domain.GroupID `json:"group_id"`
}

type ConnectedPayload struct {
	UserID   domain.UserID `json:"user_id"`
	Username string        `json:"username"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type TypingPayload struct {
	UserID   domain.UserID `json:"user_id"`
	Username string        `json:"username"`
}

type StopTypingPayload struct {
	UserID domain.UserID `json:"user_id"`
}
