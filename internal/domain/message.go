package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cwrk-planet/chat-service/internal/errs"
)

type MessageID int64

// MaxContentLength caps message content in runes.
const MaxContentLength = 4000

// Message has exactly one of RecipientID / GroupID set.
type Message struct {
	ID          MessageID `json:"id"`
	Content     string    `json:"content"`
	SenderID    UserID    `json:"sender_id"`
	RecipientID *UserID   `json:"recipient_id,omitempty"`
	GroupID     *GroupID  `json:"group_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (m Message) IsDirect() bool { return m.RecipientID != nil }

// MessageDetails is a message enriched with display names; it is what gets fanned out.
type MessageDetails struct {
	Message
	SenderUsername    string  `json:"sender_username"`
	RecipientUsername *string `json:"recipient_username,omitempty"`
	GroupName         *string `json:"group_name,omitempty"`
}

type NewMessage struct {
	Content     string
	SenderID    UserID
	RecipientID *UserID
	GroupID     *GroupID
}

// Validate проверяет XOR recipient/group и контент до любого обращения к БД.
func (m *NewMessage) Validate() error {
	m.Content = strings.TrimSpace(m.Content)
	if m.Content == "" {
		return errs.Validation("Content is required")
	}
	if utf8.RuneCountInString(m.Content) > MaxContentLength {
		return errs.Validation("Content is too long")
	}
	if m.RecipientID != nil && *m.RecipientID <= 0 {
		m.RecipientID = nil
	}
	if m.GroupID != nil && *m.GroupID <= 0 {
		m.GroupID = nil
	}
	if (m.RecipientID == nil) == (m.GroupID == nil) {
		return errs.Validation("Either recipient_id (for direct message) or group_id (for group message) must be provided, but not both")
	}
	if m.SenderID <= 0 {
		return errs.Validation("sender is required")
	}
	return nil
}

type ConversationType string

const (
	ConversationDirect ConversationType = "direct"
	ConversationGroup  ConversationType = "group"
)

type Conversation struct {
	ID            int64            `json:"other_user_id"`
	Name          string           `json:"other_username"`
	Description   *string          `json:"group_description,omitempty"`
	LastMessageAt time.Time        `json:"last_message_at"`
	Type          ConversationType `json:"type"`
}
