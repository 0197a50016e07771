package realtime

import (
	"slices"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

// Registry maps a user to live connections. It is owned by the gateway loop and
// has no locking of its own.
type Registry interface {
	// Register records id as the user's newest connection.
	Register(user domain.UserID, id ConnID)
	// Unregister removes id for the user; a stale id that was already replaced is a no-op.
	Unregister(user domain.UserID, id ConnID)
	// Lookup returns the newest connection.
	Lookup(user domain.UserID) (ConnID, bool)
	// Targets returns every connection a user-addressed event goes to.
	Targets(user domain.UserID) []ConnID
	Len() int
}

// NewRegistry returns the latest-wins registry unless multi is set.
func NewRegistry(multi bool) Registry {
	if multi {
		return &multiRegistry{m: make(map[domain.UserID][]ConnID)}
	}
	return &latestRegistry{m: make(map[domain.UserID]ConnID)}
}

// latestRegistry keeps one connection per user. A newer connection replaces the
// mapping; the older one stays open but is no longer reachable by user.
type latestRegistry struct {
	m map[domain.UserID]ConnID
}

func (r *latestRegistry) Register(user domain.UserID, id ConnID) {
	r.m[user] = id
}

func (r *latestRegistry) Unregister(user domain.UserID, id ConnID) {
	if cur, ok := r.m[user]; ok && cur == id {
		delete(r.m, user)
	}
}

func (r *latestRegistry) Lookup(user domain.UserID) (ConnID, bool) {
	id, ok := r.m[user]
	return id, ok
}

func (r *latestRegistry) Targets(user domain.UserID) []ConnID {
	if id, ok := r.m[user]; ok {
		return []ConnID{id}
	}
	return nil
}

func (r *latestRegistry) Len() int { return len(r.m) }

// multiRegistry keeps every open connection per user, oldest first.
type multiRegistry struct {
	m map[domain.UserID][]ConnID
}

func (r *multiRegistry) Register(user domain.UserID, id ConnID) {
	ids := r.m[user]
	if slices.Contains(ids, id) {
		return
	}
	r.m[user] = append(ids, id)
}

func (r *multiRegistry) Unregister(user domain.UserID, id ConnID) {
	ids := slices.DeleteFunc(r.m[user], func(x ConnID) bool { return x == id })
	if len(ids) == 0 {
		delete(r.m, user)
		return
	}
	r.m[user] = ids
}

func (r *multiRegistry) Lookup(user domain.UserID) (ConnID, bool) {
	ids := r.m[user]
	if len(ids) == 0 {
		return "", false
	}
	return ids[len(ids)-1], true
}

func (r *multiRegistry) Targets(user domain.UserID) []ConnID {
	return slices.Clone(r.m[user])
}

func (r *multiRegistry) Len() int { return len(r.m) }
