package ws

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFrame(t *testing.T) {
	ev, payload, err := parseFrame([]byte(`{"type":"join_group","payload":{"group_id":42}}`))
	require.NoError(t, err)
	require.Equal(t, "join_group", ev)
	require.JSONEq(t, `{"group_id":42}`, string(payload))

	ev, payload, err = parseFrame([]byte(`{"type":"typing_stop"}`))
	require.NoError(t, err)
	require.Equal(t, "typing_stop", ev)
	require.Nil(t, payload)

	for _, bad := range []string{`nope`, `[]`, `{"type":1}`, `{"type":""}`, `{"payload":{}}`} {
		_, _, err := parseFrame([]byte(bad))
		require.ErrorIs(t, err, errBadFrame, bad)
	}
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws?token=q", nil)
	require.Equal(t, "q", tokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer h")
	require.Equal(t, "h", tokenFromRequest(r))

	r = httptest.NewRequest("GET", "/ws?access_token=legacy", nil)
	require.Equal(t, "legacy", tokenFromRequest(r))

	require.Empty(t, tokenFromRequest(httptest.NewRequest("GET", "/ws", nil)))
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:5173/"})

	r := httptest.NewRequest("GET", "/ws", nil)
	require.True(t, check(r))
	r.Header.Set("Origin", "http://localhost:5173")
	require.True(t, check(r))
	r.Header.Set("Origin", "http://evil.example")
	require.False(t, check(r))

	require.True(t, originChecker(nil)(r))
}
