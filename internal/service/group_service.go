package service

import (
	"context"
	"errors"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/errs"
	"github.com/cwrk-planet/chat-service/internal/repository"
)

type GroupService struct {
	groups repository.GroupRepository
	users  repository.UserRepository
	now    func() time.Time
}

func NewGroupService(groups repository.GroupRepository, users repository.UserRepository, now func() time.Time) *GroupService {
	if now == nil {
		now = time.Now
	}
	return &GroupService{groups: groups, users: users, now: now}
}

type GroupWithMembers struct {
	domain.Group
	Members []domain.GroupMember `json:"members"`
}

// Create создаёт группу; создатель добавляется автоматически, несуществующие memberIDs пропускаются.
func (s *GroupService) Create(ctx context.Context, creator domain.UserID, name string, description *string, memberIDs []domain.UserID) (*GroupWithMembers, error) {
	g, err := domain.NewGroup(name, description, creator, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.groups.CreateWithMembers(ctx, g, memberIDs); err != nil {
		return nil, mapRepoErr("create group", "User not found", err)
	}
	return s.withMembers(ctx, g)
}

func (s *GroupService) List(ctx context.Context) ([]domain.Group, error) {
	out, err := s.groups.List(ctx)
	if err != nil {
		return nil, mapRepoErr("list groups", "", err)
	}
	return out, nil
}

func (s *GroupService) ListMine(ctx context.Context, userID domain.UserID) ([]domain.Group, error) {
	out, err := s.groups.ListByUser(ctx, userID)
	if err != nil {
		return nil, mapRepoErr("list user groups", "", err)
	}
	return out, nil
}

func (s *GroupService) Get(ctx context.Context, id domain.GroupID) (*GroupWithMembers, error) {
	g, err := s.group(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withMembers(ctx, g)
}

func (s *GroupService) Join(ctx context.Context, groupID domain.GroupID, userID domain.UserID) error {
	if _, err := s.group(ctx, groupID); err != nil {
		return err
	}
	err := s.groups.AddMember(ctx, groupID, userID)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return errs.Conflict("Already a member of this group")
	}
	return mapRepoErr("join group", "User not found", err)
}

// Leave: создатель группы выйти не может.
func (s *GroupService) Leave(ctx context.Context, groupID domain.GroupID, userID domain.UserID) error {
	g, err := s.group(ctx, groupID)
	if err != nil {
		return err
	}
	if g.CreatedBy == userID {
		return errs.Validation("Group creator cannot leave the group")
	}
	return mapRepoErr("leave group", "Not a member of this group", s.groups.RemoveMember(ctx, groupID, userID))
}

// AddMember доступен только создателю группы.
func (s *GroupService) AddMember(ctx context.Context, groupID domain.GroupID, actor, userID domain.UserID) error {
	g, err := s.group(ctx, groupID)
	if err != nil {
		return err
	}
	if g.CreatedBy != actor {
		return errs.Authorization("Only the group creator can add members")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return mapRepoErr("get user", "User not found", err)
	}
	err = s.groups.AddMember(ctx, groupID, userID)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return errs.Conflict("User is already a member of this group")
	}
	return mapRepoErr("add member", "User not found", err)
}

func (s *GroupService) group(ctx context.Context, id domain.GroupID) (*domain.Group, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr("get group", "Group not found", err)
	}
	return g, nil
}

func (s *GroupService) withMembers(ctx context.Context, g *domain.Group) (*GroupWithMembers, error) {
	members, err := s.groups.Members(ctx, g.ID)
	if err != nil {
		return nil, mapRepoErr("list members", "", err)
	}
	return &GroupWithMembers{Group: *g, Members: members}, nil
}
