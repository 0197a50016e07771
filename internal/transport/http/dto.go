package http

import (
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      *domain.User `json:"user"`
}

type createGroupRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	MemberIDs   []domain.UserID `json:"member_ids"`
}

type addMemberRequest struct {
	UserID domain.UserID `json:"user_id"`
}

type sendMessageRequest struct {
	Content     string          `json:"content"`
	RecipientID *domain.UserID  `json:"recipient_id"`
	GroupID     *domain.GroupID `json:"group_id"`
}

func (r sendMessageRequest) toDomain(sender domain.UserID) domain.NewMessage {
	return domain.NewMessage{
		Content:     r.Content,
		SenderID:    sender,
		RecipientID: r.RecipientID,
		GroupID:     r.GroupID,
	}
}

func expiresIn(ttl time.Duration) int64 { return int64(ttl / time.Second) }
