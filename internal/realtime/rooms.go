package realtime

import (
	"slices"
	"strings"
)

// Rooms tracks room subscriptions in both directions so a closing connection
// can be removed from every room it joined. Owned by the gateway loop.
type Rooms struct {
	members map[RoomID]map[ConnID]struct{}
	byConn  map[ConnID]map[RoomID]struct{}
}

func NewRooms() *Rooms {
	return &Rooms{
		members: make(map[RoomID]map[ConnID]struct{}),
		byConn:  make(map[ConnID]map[RoomID]struct{}),
	}
}

// Subscribe is idempotent; it reports whether the subscription is new.
func (r *Rooms) Subscribe(id ConnID, room RoomID) bool {
	rs, ok := r.members[room]
	if !ok {
		rs = make(map[ConnID]struct{})
		r.members[room] = rs
	}
	if _, ok := rs[id]; ok {
		return false
	}
	rs[id] = struct{}{}

	cs, ok := r.byConn[id]
	if !ok {
		cs = make(map[RoomID]struct{})
		r.byConn[id] = cs
	}
	cs[room] = struct{}{}
	return true
}

// Unsubscribe of a non-member is a no-op.
func (r *Rooms) Unsubscribe(id ConnID, room RoomID) bool {
	rs, ok := r.members[room]
	if !ok {
		return false
	}
	if _, ok := rs[id]; !ok {
		return false
	}
	delete(rs, id)
	if len(rs) == 0 {
		delete(r.members, room)
	}
	if cs, ok := r.byConn[id]; ok {
		delete(cs, room)
		if len(cs) == 0 {
			delete(r.byConn, id)
		}
	}
	return true
}

// Members returns the subscribers of room in a stable order.
func (r *Rooms) Members(room RoomID) []ConnID {
	rs := r.members[room]
	out := make([]ConnID, 0, len(rs))
	for id := range rs {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (r *Rooms) IsMember(id ConnID, room RoomID) bool {
	_, ok := r.members[room][id]
	return ok
}

func (r *Rooms) RoomsOf(id ConnID) []RoomID {
	cs := r.byConn[id]
	out := make([]RoomID, 0, len(cs))
	for room := range cs {
		out = append(out, room)
	}
	slices.Sort(out)
	return out
}

// RemoveConn drops id from every room and returns how many it left.
func (r *Rooms) RemoveConn(id ConnID) int {
	cs := r.byConn[id]
	for room := range cs {
		if rs, ok := r.members[room]; ok {
			delete(rs, id)
			if len(rs) == 0 {
				delete(r.members, room)
			}
		}
	}
	delete(r.byConn, id)
	return len(cs)
}

func (r *Rooms) Len() int { return len(r.members) }

func isPersonalRoom(room RoomID) bool {
	return strings.HasPrefix(string(room), "user_")
}
