package http

import (
	"context"
	"net/http"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/pkg/httputil"
)

type UsersAPI interface {
	List(ctx context.Context) ([]domain.User, error)
	Search(ctx context.Context, query string, me domain.UserID) ([]domain.User, error)
	Get(ctx context.Context, id domain.UserID) (*domain.User, error)
}

type UserHandlers struct {
	Users UsersAPI
}

func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.Users.List(r.Context())
	if err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.OK(w, out)
}

func (h *UserHandlers) Search(w http.ResponseWriter, r *http.Request) {
	out, err := h.Users.Search(r.Context(), r.URL.Query().Get("q"), identity(r).UserID)
	if err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.OK(w, out)
}

func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	u, err := h.Users.Get(r.Context(), domain.UserID(id))
	if err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.OK(w, u)
}
