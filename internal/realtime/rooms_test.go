package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRooms_SubscribeIdempotent(t *testing.T) {
	r := NewRooms()

	require.True(t, r.Subscribe("c1", "group_42"))
	require.False(t, r.Subscribe("c1", "group_42"))
	require.True(t, r.Subscribe("c2", "group_42"))
	require.Equal(t, []ConnID{"c1", "c2"}, r.Members("group_42"))

	require.False(t, r.Unsubscribe("c3", "group_42"))
	require.False(t, r.Unsubscribe("c1", "group_7"))
	require.True(t, r.Unsubscribe("c1", "group_42"))
	require.Equal(t, []ConnID{"c2"}, r.Members("group_42"))
}

func TestRooms_RemoveConnClearsEveryRoom(t *testing.T) {
	r := NewRooms()
	r.Subscribe("c1", "user_1")
	r.Subscribe("c1", "group_1")
	r.Subscribe("c1", "group_2")
	r.Subscribe("c2", "group_1")

	require.Equal(t, []RoomID{"group_1", "group_2", "user_1"}, r.RoomsOf("c1"))
	require.Equal(t, 3, r.RemoveConn("c1"))

	require.Empty(t, r.RoomsOf("c1"))
	require.Empty(t, r.Members("group_2"))
	require.Equal(t, []ConnID{"c2"}, r.Members("group_1"))
	require.False(t, r.IsMember("c1", "group_1"))
	require.Equal(t, 1, r.Len())
	require.Zero(t, r.RemoveConn("c1"))
}

func TestRoomNames(t *testing.T) {
	require.Equal(t, RoomID("user_5"), UserRoom(5))
	require.Equal(t, RoomID("group_42"), GroupRoom(42))
	require.True(t, isPersonalRoom(UserRoom(5)))
	require.False(t, isPersonalRoom(GroupRoom(5)))
}
