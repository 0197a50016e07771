package repository

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"
)

func TestCursor_ParseOwnString(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("MSK", 3*3600))
	out, err := ParseCursor(CursorAfter(at, 99).String())
	if err != nil {
		t.Fatal(err)
	}
	if !out.CreatedAt.Equal(at) || out.ID != 99 {
		t.Fatalf("got %+v", out)
	}
}

func TestParseCursor_Rejects(t *testing.T) {
	if c, err := ParseCursor(""); c != nil || err != nil {
		t.Fatalf("empty cursor: %v %v", c, err)
	}
	bad := []string{
		"%%%",
		base64.RawURLEncoding.EncodeToString([]byte("not json")),
		base64.RawURLEncoding.EncodeToString([]byte(`{"t":"2026-01-02T00:00:00Z","id":0}`)),
		base64.RawURLEncoding.EncodeToString([]byte(`{"id":5}`)),
	}
	for _, s := range bad {
		if _, err := ParseCursor(s); !errors.Is(err, ErrInvalidCursor) {
			t.Fatalf("%q: expected ErrInvalidCursor, got %v", s, err)
		}
	}
}

func TestPageNormalized(t *testing.T) {
	if p := (Page{}).Normalized(); p.Limit != DefaultPageLimit {
		t.Fatalf("limit = %d", p.Limit)
	}
	if p := (Page{Limit: 10_000}).Normalized(); p.Limit != MaxPageLimit {
		t.Fatalf("limit = %d", p.Limit)
	}
}
