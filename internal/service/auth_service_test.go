package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cwrk-planet/chat-service/internal/errs"
	"github.com/cwrk-planet/chat-service/internal/security"

	"golang.org/x/crypto/bcrypt"
)

func newAuth(users *memUsers) *AuthService {
	signer := security.NewHS256Signer([]byte("secret"), "chat-service", "", time.Hour, 0)
	return NewAuthService(users, signer, security.BcryptConfig{Cost: bcrypt.MinCost, MinLength: 6}, nil)
}

func TestAuth_RegisterLoginVerify(t *testing.T) {
	ctx := context.Background()
	s := newAuth(newMemUsers())

	reg, err := s.Register(ctx, " alice ", "password1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.User.Username != "alice" || reg.User.ID == 0 {
		t.Fatalf("unexpected user %+v", reg.User)
	}

	login, err := s.Login(ctx, "alice", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	id, err := s.VerifyToken(login.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != reg.User.ID || id.Username != "alice" {
		t.Fatalf("identity = %+v", id)
	}
}

func TestAuth_RegisterErrors(t *testing.T) {
	ctx := context.Background()
	s := newAuth(newMemUsers())

	if _, err := s.Register(ctx, "", "password1"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := s.Register(ctx, "bob", "123"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
	if _, err := s.Register(ctx, "bob", "password1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Register(ctx, "bob", "password2"); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAuth_ReservedUsernameOnlyViaEnsureUser(t *testing.T) {
	ctx := context.Background()
	s := newAuth(newMemUsers())
	s.Reserve("superadmin")

	_, err := s.Register(ctx, " superadmin ", "password1")
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected conflict for reserved name, got %v", err)
	}

	created, err := s.EnsureUser(ctx, "superadmin", "password1")
	if err != nil || !created {
		t.Fatalf("ensure: created=%v err=%v", created, err)
	}
	created, err = s.EnsureUser(ctx, "superadmin", "other-pass")
	if err != nil || created {
		t.Fatalf("second ensure: created=%v err=%v", created, err)
	}

	login, err := s.Login(ctx, "superadmin", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.Username != "superadmin" {
		t.Fatalf("user = %+v", login.User)
	}
	if _, err := s.EnsureUser(ctx, "ops", "123"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
}

func TestAuth_LoginErrors(t *testing.T) {
	ctx := context.Background()
	s := newAuth(newMemUsers())
	if _, err := s.Register(ctx, "carol", "password1"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Login(ctx, "carol", "wrong-pass"); !errors.Is(err, errs.ErrAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if _, err := s.Login(ctx, "nobody", "password1"); !errors.Is(err, errs.ErrAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestAuth_VerifyTokenRejectsGarbage(t *testing.T) {
	s := newAuth(newMemUsers())
	_, err := s.VerifyToken("garbage")
	if !errors.Is(err, errs.ErrAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if !errors.Is(err, security.ErrInvalidToken) {
		t.Fatalf("expected cause ErrInvalidToken, got %v", err)
	}
}
