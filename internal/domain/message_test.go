package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/cwrk-planet/chat-service/internal/errs"
)

func uid(v int64) *UserID  { id := UserID(v); return &id }
func gid(v int64) *GroupID { id := GroupID(v); return &id }

func TestNewMessage_Validate(t *testing.T) {
	cases := []struct {
		name string
		in   NewMessage
		ok   bool
	}{
		{"direct", NewMessage{Content: "hi", SenderID: 1, RecipientID: uid(2)}, true},
		{"group", NewMessage{Content: "yo", SenderID: 1, GroupID: gid(42)}, true},
		{"both set", NewMessage{Content: "x", SenderID: 1, RecipientID: uid(2), GroupID: gid(3)}, false},
		{"neither set", NewMessage{Content: "x", SenderID: 1}, false},
		{"zero ids count as unset", NewMessage{Content: "x", SenderID: 1, RecipientID: uid(0), GroupID: gid(0)}, false},
		{"blank content", NewMessage{Content: "   ", SenderID: 1, RecipientID: uid(2)}, false},
		{"too long", NewMessage{Content: strings.Repeat("a", MaxContentLength+1), SenderID: 1, RecipientID: uid(2)}, false},
		{"no sender", NewMessage{Content: "x", RecipientID: uid(2)}, false},
	}
	for _, c := range cases {
		in := c.in
		err := in.Validate()
		if c.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", c.name, err)
		}
		if !c.ok && !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", c.name, err)
		}
	}
}

func TestNewMessage_TrimsContent(t *testing.T) {
	in := NewMessage{Content: "  hi  ", SenderID: 1, RecipientID: uid(2)}
	if err := in.Validate(); err != nil {
		t.Fatal(err)
	}
	if in.Content != "hi" {
		t.Fatalf("content = %q", in.Content)
	}
}
