package repository

import (
	"context"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

// Page: курсорная пагинация истории: Before пустой = с самых свежих.
type Page struct {
	Limit  int
	Before string
}

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

func (p Page) Normalized() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

type MessageRepository interface {
	// Create сохраняет сообщение и возвращает его вместе с именами отправителя/получателя/группы.
	Create(ctx context.Context, m domain.NewMessage) (*domain.MessageDetails, error)
	GetDetails(ctx context.Context, id domain.MessageID) (*domain.MessageDetails, error)
	// Direct и Group возвращают страницу в хронологическом порядке и курсор на более старые сообщения.
	Direct(ctx context.Context, a, b domain.UserID, page Page) ([]domain.MessageDetails, string, error)
	Group(ctx context.Context, groupID domain.GroupID, page Page) ([]domain.MessageDetails, string, error)
	Conversations(ctx context.Context, userID domain.UserID) ([]domain.Conversation, error)
	All(ctx context.Context, limit int) ([]domain.MessageDetails, error)
}
