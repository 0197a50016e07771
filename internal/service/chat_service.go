package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/errs"
	"github.com/cwrk-planet/chat-service/internal/repository"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultUserCacheSize = 1024

// ChatService: хранилище сообщений для realtime-шлюза и HTTP-истории.
// Пользователи не удаляются и не переименовываются, поэтому найденные кэшируются.
type ChatService struct {
	messages repository.MessageRepository
	groups   repository.GroupRepository
	users    repository.UserRepository
	cache    *lru.Cache[domain.UserID, domain.User]
	monitor  string
	log      *slog.Logger
}

func NewChatService(
	messages repository.MessageRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	monitorUsername string,
	cacheSize int,
) (*ChatService, error) {
	if cacheSize <= 0 {
		cacheSize = defaultUserCacheSize
	}
	cache, err := lru.New[domain.UserID, domain.User](cacheSize)
	if err != nil {
		return nil, err
	}
	return &ChatService{
		messages: messages,
		groups:   groups,
		users:    users,
		cache:    cache,
		monitor:  monitorUsername,
		log:      slog.Default().With("component", "chat"),
	}, nil
}

func (s *ChatService) CreateMessage(ctx context.Context, in domain.NewMessage) (*domain.MessageDetails, error) {
	m, err := s.messages.Create(ctx, in)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if in.GroupID != nil {
				return nil, errs.NotFound("Group not found")
			}
			return nil, errs.NotFound("Recipient not found")
		}
		s.log.Error("chat.createMessage failed", slog.Any("err", err))
		return nil, mapRepoErr("create message", "", err)
	}
	return m, nil
}

func (s *ChatService) IsGroupMember(ctx context.Context, groupID domain.GroupID, userID domain.UserID) (bool, error) {
	ok, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return false, errs.Persistence("check membership", err)
	}
	return ok, nil
}

func (s *ChatService) FindUserByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	if u, ok := s.cache.Get(id); ok {
		return &u, nil
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr("get user", "User not found", err)
	}
	pub := *u
	pub.PasswordHash = ""
	s.cache.Add(id, pub)
	return &pub, nil
}

func (s *ChatService) FindGroupByID(ctx context.Context, id domain.GroupID) (*domain.Group, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr("get group", "Group not found", err)
	}
	return g, nil
}

// History: страница переписки плюс собеседник (direct) или группа (group).
type History struct {
	OtherUser  *domain.User            `json:"other_user,omitempty"`
	Group      *domain.Group           `json:"group,omitempty"`
	Messages   []domain.MessageDetails `json:"messages"`
	NextCursor string                  `json:"next_cursor,omitempty"`
}

func (s *ChatService) DirectHistory(ctx context.Context, me, other domain.UserID, page repository.Page) (*History, error) {
	peer, err := s.FindUserByID(ctx, other)
	if err != nil {
		return nil, err
	}
	msgs, next, err := s.messages.Direct(ctx, me, other, page)
	if err != nil {
		return nil, mapRepoErr("direct history", "", err)
	}
	return &History{OtherUser: peer, Messages: msgs, NextCursor: next}, nil
}

// GroupHistory доступна только участникам группы.
func (s *ChatService) GroupHistory(ctx context.Context, me domain.UserID, groupID domain.GroupID, page repository.Page) (*History, error) {
	g, err := s.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ok, err := s.IsGroupMember(ctx, groupID, me)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Authorization("You are not a member of this group")
	}
	msgs, next, err := s.messages.Group(ctx, groupID, page)
	if err != nil {
		return nil, mapRepoErr("group history", "", err)
	}
	return &History{Group: g, Messages: msgs, NextCursor: next}, nil
}

type ConversationMeta struct {
	Type        domain.ConversationType `json:"type"`
	OtherUserID *domain.UserID          `json:"other_user_id,omitempty"`
	GroupID     *domain.GroupID         `json:"group_id,omitempty"`
	GroupName   string                  `json:"group_name,omitempty"`
}

type ConversationMessages struct {
	Messages   []domain.MessageDetails `json:"messages"`
	Metadata   ConversationMeta        `json:"metadata"`
	Total      int                     `json:"total"`
	NextCursor string                  `json:"next_cursor,omitempty"`
}

// ConversationMessages читает переписку по id из списка Conversations. Для direct id это
// собеседник, и он обязан уже быть среди диалогов me; для group действует членство.
func (s *ChatService) ConversationMessages(ctx context.Context, me domain.UserID, kind domain.ConversationType, id int64, page repository.Page) (*ConversationMessages, error) {
	switch kind {
	case domain.ConversationDirect:
		convs, err := s.Conversations(ctx, me)
		if err != nil {
			return nil, err
		}
		if !slices.ContainsFunc(convs, func(c domain.Conversation) bool {
			return c.Type == domain.ConversationDirect && c.ID == id
		}) {
			return nil, errs.Authorization("You are not part of this conversation")
		}
		other := domain.UserID(id)
		msgs, next, err := s.messages.Direct(ctx, me, other, page)
		if err != nil {
			return nil, mapRepoErr("direct history", "", err)
		}
		return &ConversationMessages{
			Messages:   msgs,
			Metadata:   ConversationMeta{Type: kind, OtherUserID: &other},
			Total:      len(msgs),
			NextCursor: next,
		}, nil

	case domain.ConversationGroup:
		h, err := s.GroupHistory(ctx, me, domain.GroupID(id), page)
		if err != nil {
			return nil, err
		}
		gid := h.Group.ID
		return &ConversationMessages{
			Messages:   h.Messages,
			Metadata:   ConversationMeta{Type: kind, GroupID: &gid, GroupName: h.Group.Name},
			Total:      len(h.Messages),
			NextCursor: h.NextCursor,
		}, nil
	}
	return nil, errs.Validation(`Type must be either "direct" or "group"`)
}

func (s *ChatService) Conversations(ctx context.Context, me domain.UserID) ([]domain.Conversation, error) {
	out, err := s.messages.Conversations(ctx, me)
	if err != nil {
		return nil, mapRepoErr("conversations", "", err)
	}
	return out, nil
}

// AllMessages: лента мониторинга, только для monitor-пользователя.
func (s *ChatService) AllMessages(ctx context.Context, who domain.Identity, limit int) ([]domain.MessageDetails, error) {
	if s.monitor == "" || who.Username != s.monitor {
		return nil, errs.Authorization("Access denied")
	}
	out, err := s.messages.All(ctx, limit)
	if err != nil {
		return nil, mapRepoErr("all messages", "", err)
	}
	return out, nil
}
