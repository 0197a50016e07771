package http

import (
	"context"
	"net/http"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/service"
	"github.com/cwrk-planet/chat-service/pkg/httputil"
)

type GroupsAPI interface {
	Create(ctx context.Context, creator domain.UserID, name string, description *string, memberIDs []domain.UserID) (*service.GroupWithMembers, error)
	List(ctx context.Context) ([]domain.Group, error)
	ListMine(ctx context.Context, userID domain.UserID) ([]domain.Group, error)
	Get(ctx context.Context, id domain.GroupID) (*service.GroupWithMembers, error)
	Join(ctx context.Context, groupID domain.GroupID, userID domain.UserID) error
	Leave(ctx context.Context, groupID domain.GroupID, userID domain.UserID) error
	AddMember(ctx context.Context, groupID domain.GroupID, actor, userID domain.UserID) error
}

type GroupHandlers struct {
	Groups GroupsAPI
}

func (h *GroupHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var in createGroupRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.Groups.Create(r.Context(), identity(r).UserID, in.Name, in.Description, in.MemberIDs)
	if err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.Created(w, out)
}

func (h *GroupHandlers) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.Groups.List(r.Context())
	if err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.OK(w, out)
}

func (h *GroupHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	out, err := h.Groups.ListMine(r.Context(), identity(r).UserID)
	if err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.OK(w, out)
}

func (h *GroupHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	out, err := h.Groups.Get(r.Context(), domain.GroupID(id))
	if err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.OK(w, out)
}

func (h *GroupHandlers) Join(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.Groups.Join(r.Context(), domain.GroupID(id), identity(r).UserID); err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.OK(w, map[string]string{"message": "Joined group"})
}

func (h *GroupHandlers) Leave(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.Groups.Leave(r.Context(), domain.GroupID(id), identity(r).UserID); err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.OK(w, map[string]string{"message": "Left group"})
}

func (h *GroupHandlers) AddMember(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var in addMemberRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.UserID <= 0 {
		httputil.Error(r.Context(), w, http.StatusBadRequest, "user_id is required", nil)
		return
	}
	if err := h.Groups.AddMember(r.Context(), domain.GroupID(id), identity(r).UserID, in.UserID); err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.OK(w, map[string]string{"message": "Member added"})
}
