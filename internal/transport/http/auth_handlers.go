package http

import (
	"context"
	"net/http"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/service"
	"github.com/cwrk-planet/chat-service/pkg/httputil"
)

type AuthAPI interface {
	Register(ctx context.Context, username, password string) (*service.AuthResult, error)
	Login(ctx context.Context, username, password string) (*service.AuthResult, error)
	Me(ctx context.Context, userID domain.UserID) (*domain.User, error)
	VerifyToken(token string) (domain.Identity, error)
	AccessTTL() time.Duration
}

type AuthHandlers struct {
	Auth AuthAPI
}

func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.Auth.Register(r.Context(), in.Username, in.Password)
	if err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.Created(w, h.response(out))
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.Auth.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.OK(w, h.response(out))
}

func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Auth.Me(r.Context(), identity(r).UserID)
	if err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.OK(w, u)
}

func (h *AuthHandlers) response(res *service.AuthResult) authResponse {
	return authResponse{
		Token:     res.AccessToken,
		ExpiresIn: expiresIn(h.Auth.AccessTTL()),
		User:      res.User,
	}
}
