package repository

import (
	"context"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

type GroupRepository interface {
	// CreateWithMembers атомарно создаёт группу, добавляет создателя и существующих пользователей из memberIDs.
	CreateWithMembers(ctx context.Context, g *domain.Group, memberIDs []domain.UserID) error
	GetByID(ctx context.Context, id domain.GroupID) (*domain.Group, error)
	List(ctx context.Context) ([]domain.Group, error)
	ListByUser(ctx context.Context, userID domain.UserID) ([]domain.Group, error)
	AddMember(ctx context.Context, groupID domain.GroupID, userID domain.UserID) error
	RemoveMember(ctx context.Context, groupID domain.GroupID, userID domain.UserID) error
	Members(ctx context.Context, groupID domain.GroupID) ([]domain.GroupMember, error)
	IsMember(ctx context.Context, groupID domain.GroupID, userID domain.UserID) (bool, error)
}
