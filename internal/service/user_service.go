package service

import (
	"context"
	"strings"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/errs"
	"github.com/cwrk-planet/chat-service/internal/repository"
)

const searchLimit = 10

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	out, err := s.users.List(ctx)
	if err != nil {
		return nil, mapRepoErr("list users", "", err)
	}
	return out, nil
}

// Search исключает самого ищущего из выдачи.
func (s *UserService) Search(ctx context.Context, query string, me domain.UserID) ([]domain.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errs.Validation("Search query is required")
	}
	out, err := s.users.Search(ctx, query, me, searchLimit)
	if err != nil {
		return nil, mapRepoErr("search users", "", err)
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id domain.UserID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr("get user", "User not found", err)
	}
	return u, nil
}
