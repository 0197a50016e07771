package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/errs"
)

type fakeConn struct {
	id ConnID

	mu      sync.Mutex
	frames  []Frame
	closed  bool
	sendErr error
}

func newFakeConn(id string) *fakeConn { return &fakeConn{id: ConnID(id)} }

func (c *fakeConn) ID() ConnID { return c.id }

func (c *fakeConn) Send(f Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("closed")
	}
	if c.sendErr != nil {
		return c.sendErr
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// events returns frame types received, skipping the connected greeting.
func (c *fakeConn) events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.frames))
	for _, f := range c.frames {
		if f.Type != EventConnected {
			out = append(out, f.Type)
		}
	}
	return out
}

func (c *fakeConn) last() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames[len(c.frames)-1]
}

func (c *fakeConn) count(event string) int {
	n := 0
	for _, e := range c.events() {
		if e == event {
			n++
		}
	}
	return n
}

// fakeStore keeps users, groups and memberships in memory and counts writes.
type fakeStore struct {
	mu          sync.Mutex
	users       map[domain.UserID]string
	groups      map[domain.GroupID]string
	members     map[domain.GroupID]map[domain.UserID]bool
	created     []domain.NewMessage
	createErr   error
	beforeWrite func()
	nextID      domain.MessageID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   map[domain.UserID]string{1: "alice", 2: "bob", 3: "carol", 99: "superadmin"},
		groups:  map[domain.GroupID]string{},
		members: map[domain.GroupID]map[domain.UserID]bool{},
	}
}

func (s *fakeStore) addGroup(id domain.GroupID, name string, members ...domain.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[id] = name
	s.members[id] = map[domain.UserID]bool{}
	for _, m := range members {
		s.members[id][m] = true
	}
}

func (s *fakeStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created)
}

func (s *fakeStore) CreateMessage(_ context.Context, in domain.NewMessage) (*domain.MessageDetails, error) {
	if s.beforeWrite != nil {
		s.beforeWrite()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, in)
	s.nextID++

	d := &domain.MessageDetails{
		Message: domain.Message{
			ID:          s.nextID,
			Content:     in.Content,
			SenderID:    in.SenderID,
			RecipientID: in.RecipientID,
			GroupID:     in.GroupID,
			CreatedAt:   time.Now(),
		},
		SenderUsername: s.users[in.SenderID],
	}
	if in.RecipientID != nil {
		name := s.users[*in.RecipientID]
		d.RecipientUsername = &name
	}
	if in.GroupID != nil {
		name := s.groups[*in.GroupID]
		d.GroupName = &name
	}
	return d, nil
}

func (s *fakeStore) IsGroupMember(_ context.Context, g domain.GroupID, u domain.UserID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members[g][u], nil
}

func (s *fakeStore) FindUserByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.users[id]
	if !ok {
		return nil, errs.NotFound("User not found")
	}
	return &domain.User{ID: id, Username: name}, nil
}

func (s *fakeStore) FindGroupByID(_ context.Context, id domain.GroupID) (*domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.groups[id]
	if !ok {
		return nil, errs.NotFound("Group not found")
	}
	return &domain.Group{ID: id, Name: name}, nil
}

// tokenVerifier treats the token as a username from the fake store's user table.
type tokenVerifier struct {
	ids map[string]domain.Identity
}

func (v tokenVerifier) VerifyToken(token string) (domain.Identity, error) {
	id, ok := v.ids[token]
	if !ok {
		return domain.Identity{}, errs.Authentication("Invalid token", nil)
	}
	return id, nil
}

var (
	alice = domain.Identity{UserID: 1, Username: "alice"}
	bob   = domain.Identity{UserID: 2, Username: "bob"}
	carol = domain.Identity{UserID: 3, Username: "carol"}
	admin = domain.Identity{UserID: 99, Username: "superadmin"}
)

func testVerifier() tokenVerifier {
	return tokenVerifier{ids: map[string]domain.Identity{
		"tok-alice": alice,
		"tok-bob":   bob,
		"tok-carol": carol,
		"tok-admin": admin,
	}}
}

func uid(v int64) *domain.UserID  { id := domain.UserID(v); return &id }
func gid(v int64) *domain.GroupID { id := domain.GroupID(v); return &id }
