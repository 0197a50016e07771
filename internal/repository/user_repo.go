package repository

import (
	"context"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (domain.UserID, error)
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
	// Search ищет по подстроке username (ILIKE), exclude=0: никого не исключать.
	Search(ctx context.Context, query string, exclude domain.UserID, limit int) ([]domain.User, error)
}
