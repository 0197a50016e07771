package http

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/cwrk-planet/chat-service/config"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	addr := freeAddr(t)
	s := New(config.HTTP{Addr: addr, ShutdownTimeout: time.Second}, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	hookCalled := make(chan struct{})
	s.OnShutdown(func() { close(hookCalled) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusNoContent {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	select {
	case <-hookCalled:
	case <-time.After(time.Second):
		t.Fatal("shutdown hook not called")
	}
}

func TestServer_ListenError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	s := New(config.HTTP{Addr: l.Addr().String()}, http.NotFoundHandler())
	if err := s.Run(context.Background()); err == nil {
		t.Fatal("expected address-in-use error")
	}
}
