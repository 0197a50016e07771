package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/errs"

	"github.com/stretchr/testify/require"
)

var aliceSession = Session{ID: "c-alice", Identity: alice, State: StateActive}

func run(t *testing.T, store *fakeStore, event, payload string) Result {
	t.Helper()
	var raw json.RawMessage
	if payload != "" {
		raw = json.RawMessage(payload)
	}
	return lookupHandler(event)(context.Background(), Deps{Store: store}, aliceSession, raw)
}

func requireRejected(t *testing.T, res Result, kind error) {
	t.Helper()
	require.ErrorIs(t, res.Err, kind)
	require.Len(t, res.Effects, 1)
	require.Equal(t, EffectEmitConn, res.Effects[0].Kind)
	require.Equal(t, aliceSession.ID, res.Effects[0].Conn)
	require.Equal(t, EventError, res.Effects[0].Frame.Type)
}

func TestJoinLeaveGroup(t *testing.T) {
	store := newFakeStore()

	res := run(t, store, EventJoinGroup, `{"group_id":42}`)
	require.NoError(t, res.Err)
	require.Equal(t, []Effect{subscribe("group_42")}, res.Effects)

	res = run(t, store, EventLeaveGroup, `{"group_id":42}`)
	require.Equal(t, []Effect{unsubscribe("group_42")}, res.Effects)
}

func TestJoinLeaveGroup_MissingIDIgnored(t *testing.T) {
	store := newFakeStore()
	for _, payload := range []string{"", `{}`, `{"group_id":0}`, `{"group_id":"x"}`, `null`} {
		for _, ev := range []string{EventJoinGroup, EventLeaveGroup} {
			res := run(t, store, ev, payload)
			require.True(t, res.Ignored, "%s %q", ev, payload)
			require.Empty(t, res.Effects)
			require.NoError(t, res.Err)
		}
	}
}

func TestUnknownEventRejected(t *testing.T) {
	requireRejected(t, run(t, newFakeStore(), "dance", `{}`), errs.ErrValidation)
}

func TestSendDirect_MissingFields(t *testing.T) {
	store := newFakeStore()
	for _, payload := range []string{`{"content":"hi"}`, `{"recipient_id":2}`, `{"recipient_id":2,"content":"   "}`, `[]`} {
		requireRejected(t, run(t, store, EventSendDirectMessage, payload), errs.ErrValidation)
	}
	require.Zero(t, store.writes())
}

func TestSendDirect_UnknownRecipient(t *testing.T) {
	store := newFakeStore()
	requireRejected(t, run(t, store, EventSendDirectMessage, `{"recipient_id":404,"content":"hi"}`), errs.ErrNotFound)
	require.Zero(t, store.writes())
}

func TestSendDirect_Effects(t *testing.T) {
	store := newFakeStore()
	res := run(t, store, EventSendDirectMessage, `{"recipient_id":2,"content":"hi"}`)
	require.NoError(t, res.Err)
	require.Equal(t, 1, store.writes())

	require.Len(t, res.Effects, 3)
	require.Equal(t, EffectEmitUser, res.Effects[0].Kind)
	require.Equal(t, domain.UserID(1), res.Effects[0].User)
	require.Equal(t, EffectEmitUser, res.Effects[1].Kind)
	require.Equal(t, domain.UserID(2), res.Effects[1].User)
	require.Equal(t, EventNewDirectMessage, res.Effects[1].Frame.Type)
	require.Equal(t, EffectEmitMonitor, res.Effects[2].Kind)

	m := res.Effects[1].Frame.Payload.(*domain.MessageDetails)
	require.Equal(t, "hi", m.Content)
	require.Equal(t, domain.UserID(1), m.SenderID)
	require.Equal(t, domain.UserID(2), *m.RecipientID)
}

func TestSendDirect_ToSelfDeliversOnce(t *testing.T) {
	res := run(t, newFakeStore(), EventSendDirectMessage, `{"recipient_id":1,"content":"note"}`)
	require.NoError(t, res.Err)
	users := 0
	for _, e := range res.Effects {
		if e.Kind == EffectEmitUser {
			users++
		}
	}
	require.Equal(t, 1, users)
}

func TestSendGroup_NonMemberRejected(t *testing.T) {
	store := newFakeStore()
	store.addGroup(42, "team", 2, 3)

	requireRejected(t, run(t, store, EventSendGroupMessage, `{"group_id":42,"content":"yo"}`), errs.ErrAuthorization)
	require.Zero(t, store.writes())
}

func TestSendGroup_Effects(t *testing.T) {
	store := newFakeStore()
	store.addGroup(42, "team", 1, 2)

	res := run(t, store, EventSendGroupMessage, `{"group_id":42,"content":"yo"}`)
	require.NoError(t, res.Err)
	require.Len(t, res.Effects, 2)
	require.Equal(t, EffectEmitRoom, res.Effects[0].Kind)
	require.Equal(t, RoomID("group_42"), res.Effects[0].Room)
	require.Empty(t, res.Effects[0].Except)
	require.Equal(t, EventNewGroupMessage, res.Effects[0].Frame.Type)
	require.Equal(t, EffectEmitMonitor, res.Effects[1].Kind)
}

func TestSendGroup_UnknownGroup(t *testing.T) {
	requireRejected(t, run(t, newFakeStore(), EventSendGroupMessage, `{"group_id":7,"content":"yo"}`), errs.ErrNotFound)
}

func TestSend_PersistenceFailureIsGeneric(t *testing.T) {
	store := newFakeStore()
	store.createErr = errs.Persistence("create message", errors.New("disk full"))

	res := run(t, store, EventSendDirectMessage, `{"recipient_id":2,"content":"hi"}`)
	requireRejected(t, res, errs.ErrPersistence)
	payload := res.Effects[0].Frame.Payload.(ErrorPayload)
	require.NotContains(t, payload.Message, "disk full")
}

func TestSendMessage_RecipientXorGroup(t *testing.T) {
	store := newFakeStore()
	store.addGroup(42, "team", 1)
	deps := Deps{Store: store}

	cases := []domain.NewMessage{
		{Content: "x", RecipientID: uid(2), GroupID: gid(42)},
		{Content: "x"},
	}
	for _, in := range cases {
		_, effects, err := sendMessage(context.Background(), deps, alice, in)
		require.ErrorIs(t, err, errs.ErrValidation)
		require.Empty(t, effects)
	}
	require.Zero(t, store.writes())
}

func TestTyping_Direct(t *testing.T) {
	res := run(t, newFakeStore(), EventTypingStart, `{"type":"direct","recipient_id":2}`)
	require.NoError(t, res.Err)
	require.Equal(t, []Effect{emitToUser(2, EventUserTyping, TypingPayload{UserID: 1, Username: "alice"})}, res.Effects)

	res = run(t, newFakeStore(), EventTypingStop, `{"type":"direct","recipient_id":2}`)
	require.Equal(t, []Effect{emitToUser(2, EventUserStopTyping, StopTypingPayload{UserID: 1})}, res.Effects)
}

func TestTyping_GroupExcludesSender(t *testing.T) {
	res := run(t, newFakeStore(), EventTypingStart, `{"type":"group","group_id":42}`)
	require.NoError(t, res.Err)
	require.Len(t, res.Effects, 1)
	require.Equal(t, EffectEmitRoom, res.Effects[0].Kind)
	require.Equal(t, RoomID("group_42"), res.Effects[0].Room)
	require.Equal(t, aliceSession.ID, res.Effects[0].Except)
}

func TestTyping_Invalid(t *testing.T) {
	store := newFakeStore()
	for _, payload := range []string{`{"type":"broadcast"}`, `{"type":"direct"}`, `{"type":"group"}`, ``} {
		requireRejected(t, run(t, store, EventTypingStart, payload), errs.ErrValidation)
	}
}
