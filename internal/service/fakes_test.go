package service

import (
	"context"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository"
)

// memUsers: in-memory UserRepository; getCalls считает обращения к GetByID.
type memUsers struct {
	byID     map[domain.UserID]*domain.User
	next     domain.UserID
	getCalls int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[domain.UserID]*domain.User{}}
}

func (m *memUsers) Create(_ context.Context, u *domain.User) (domain.UserID, error) {
	for _, x := range m.byID {
		if x.Username == u.Username {
			return 0, repository.ErrAlreadyExists
		}
	}
	m.next++
	cp := *u
	cp.ID = m.next
	m.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memUsers) GetByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	m.getCalls++
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range m.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.GetByUsername(ctx, username)
	return err == nil, nil
}

func (m *memUsers) List(context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) Search(context.Context, string, domain.UserID, int) ([]domain.User, error) {
	return nil, nil
}

type fakeGroups struct {
	groups  map[domain.GroupID]*domain.Group
	members map[domain.GroupID]map[domain.UserID]bool
	err     error
}

func newFakeGroups() *fakeGroups {
	return &fakeGroups{
		groups:  map[domain.GroupID]*domain.Group{},
		members: map[domain.GroupID]map[domain.UserID]bool{},
	}
}

func (f *fakeGroups) CreateWithMembers(_ context.Context, g *domain.Group, ids []domain.UserID) error {
	g.ID = domain.GroupID(len(f.groups) + 1)
	cp := *g
	f.groups[g.ID] = &cp
	f.members[g.ID] = map[domain.UserID]bool{g.CreatedBy: true}
	for _, id := range ids {
		f.members[g.ID][id] = true
	}
	return nil
}

func (f *fakeGroups) GetByID(_ context.Context, id domain.GroupID) (*domain.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return g, nil
}

func (f *fakeGroups) List(context.Context) ([]domain.Group, error) { return nil, nil }
func (f *fakeGroups) ListByUser(context.Context, domain.UserID) ([]domain.Group, error) {
	return nil, nil
}

func (f *fakeGroups) AddMember(_ context.Context, g domain.GroupID, u domain.UserID) error {
	if f.members[g][u] {
		return repository.ErrAlreadyExists
	}
	if f.members[g] == nil {
		f.members[g] = map[domain.UserID]bool{}
	}
	f.members[g][u] = true
	return nil
}

func (f *fakeGroups) RemoveMember(_ context.Context, g domain.GroupID, u domain.UserID) error {
	if !f.members[g][u] {
		return repository.ErrNotFound
	}
	delete(f.members[g], u)
	return nil
}

func (f *fakeGroups) Members(_ context.Context, g domain.GroupID) ([]domain.GroupMember, error) {
	out := make([]domain.GroupMember, 0, len(f.members[g]))
	for id := range f.members[g] {
		out = append(out, domain.GroupMember{UserID: id})
	}
	return out, nil
}

func (f *fakeGroups) IsMember(_ context.Context, g domain.GroupID, u domain.UserID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.members[g][u], nil
}

type fakeMessages struct {
	CreateFunc func(ctx context.Context, m domain.NewMessage) (*domain.MessageDetails, error)
	GroupFunc  func(ctx context.Context, g domain.GroupID, p repository.Page) ([]domain.MessageDetails, string, error)
	AllFunc    func(ctx context.Context, limit int) ([]domain.MessageDetails, error)
	DirectFunc func(ctx context.Context, a, b domain.UserID, p repository.Page) ([]domain.MessageDetails, string, error)
	convs      []domain.Conversation
}

func (f *fakeMessages) Create(ctx context.Context, m domain.NewMessage) (*domain.MessageDetails, error) {
	return f.CreateFunc(ctx, m)
}

func (f *fakeMessages) GetDetails(context.Context, domain.MessageID) (*domain.MessageDetails, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeMessages) Direct(ctx context.Context, a, b domain.UserID, p repository.Page) ([]domain.MessageDetails, string, error) {
	if f.DirectFunc == nil {
		return nil, "", nil
	}
	return f.DirectFunc(ctx, a, b, p)
}

func (f *fakeMessages) Group(ctx context.Context, g domain.GroupID, p repository.Page) ([]domain.MessageDetails, string, error) {
	return f.GroupFunc(ctx, g, p)
}

func (f *fakeMessages) Conversations(context.Context, domain.UserID) ([]domain.Conversation, error) {
	return f.convs, nil
}

func (f *fakeMessages) All(ctx context.Context, limit int) ([]domain.MessageDetails, error) {
	return f.AllFunc(ctx, limit)
}
