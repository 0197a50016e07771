package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cwrk-planet/chat-service/internal/errs"
)

func TestRequestID_GeneratedAndPropagated(t *testing.T) {
	var seen string
	h := MiddlewareRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if seen == "" || rec.Header().Get(HeaderRequestID) != seen {
		t.Fatalf("request id not generated: ctx=%q header=%q", seen, rec.Header().Get(HeaderRequestID))
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderRequestID, "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc" {
		t.Fatalf("incoming request id not kept: %q", seen)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", 500))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if len(seen) != 36 {
		t.Fatalf("oversized request id must be replaced, got %d chars", len(seen))
	}
}

func TestFail_HidesPersistenceCause(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(context.Background(), rec, errs.Persistence("create message", errors.New("password=hunter2")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Message != "Internal server error" {
		t.Fatalf("message = %q", body.Error.Message)
	}
}

func TestFail_ClientErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(context.Background(), rec, errs.Authorization("You are not a member of this group"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestLogging_RecordsStatus(t *testing.T) {
	h := MiddlewareRequestID(MiddlewareLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/brew", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestStatusWriter_HijackUnsupported(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}
	if _, _, err := sw.Hijack(); err == nil {
		t.Fatal("recorder cannot be hijacked")
	}
}
