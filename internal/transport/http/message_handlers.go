package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository"
	"github.com/cwrk-planet/chat-service/internal/service"
	"github.com/cwrk-planet/chat-service/pkg/httputil"
)

// MessageSender: тот же путь validate → persist → broadcast, что и у ws-событий.
type MessageSender interface {
	SendMessage(ctx context.Context, from domain.Identity, in domain.NewMessage) (*domain.MessageDetails, error)
}

type HistoryAPI interface {
	DirectHistory(ctx context.Context, me, other domain.UserID, page repository.Page) (*service.History, error)
	GroupHistory(ctx context.Context, me domain.UserID, groupID domain.GroupID, page repository.Page) (*service.History, error)
	Conversations(ctx context.Context, me domain.UserID) ([]domain.Conversation, error)
	ConversationMessages(ctx context.Context, me domain.UserID, kind domain.ConversationType, id int64, page repository.Page) (*service.ConversationMessages, error)
	AllMessages(ctx context.Context, who domain.Identity, limit int) ([]domain.MessageDetails, error)
}

type MessageHandlers struct {
	Sender  MessageSender
	History HistoryAPI
}

// SendDirect: POST /messages/direct {recipient_id, content}
func (h *MessageHandlers) SendDirect(w http.ResponseWriter, r *http.Request) {
	var in sendMessageRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.RecipientID == nil || *in.RecipientID <= 0 || in.Content == "" {
		httputil.Error(r.Context(), w, http.StatusBadRequest, "Recipient ID and content are required", nil)
		return
	}
	in.GroupID = nil
	h.send(w, r, in)
}

// SendGroup: POST /messages/group {group_id, content}
func (h *MessageHandlers) SendGroup(w http.ResponseWriter, r *http.Request) {
	var in sendMessageRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.GroupID == nil || *in.GroupID <= 0 || in.Content == "" {
		httputil.Error(r.Context(), w, http.StatusBadRequest, "Group ID and content are required", nil)
		return
	}
	in.RecipientID = nil
	h.send(w, r, in)
}

// Send: POST /messages, ровно один из recipient_id/group_id.
func (h *MessageHandlers) Send(w http.ResponseWriter, r *http.Request) {
	var in sendMessageRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	h.send(w, r, in)
}

func (h *MessageHandlers) send(w http.ResponseWriter, r *http.Request, in sendMessageRequest) {
	me := identity(r)
	msg, err := h.Sender.SendMessage(r.Context(), me, in.toDomain(me.UserID))
	if err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.Created(w, msg)
}

func (h *MessageHandlers) Direct(w http.ResponseWriter, r *http.Request) {
	other, ok := idParam(w, r, "userId")
	if !ok {
		return
	}
	out, err := h.History.DirectHistory(r.Context(), identity(r).UserID, domain.UserID(other), pageParams(r))
	if err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.OK(w, out)
}

func (h *MessageHandlers) Group(w http.ResponseWriter, r *http.Request) {
	gid, ok := idParam(w, r, "groupId")
	if !ok {
		return
	}
	out, err := h.History.GroupHistory(r.Context(), identity(r).UserID, domain.GroupID(gid), pageParams(r))
	if err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.OK(w, out)
}

func (h *MessageHandlers) Conversations(w http.ResponseWriter, r *http.Request) {
	out, err := h.History.Conversations(r.Context(), identity(r).UserID)
	if err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.OK(w, out)
}

// ConversationMessages: GET /conversations/{id}/messages?type=direct|group (по умолчанию direct).
func (h *MessageHandlers) ConversationMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	kind := domain.ConversationType(r.URL.Query().Get("type"))
	if kind == "" {
		kind = domain.ConversationDirect
	}
	if kind != domain.ConversationDirect && kind != domain.ConversationGroup {
		httputil.Error(r.Context(), w, http.StatusBadRequest, `Type must be either "direct" or "group"`, nil)
		return
	}
	out, err := h.History.ConversationMessages(r.Context(), identity(r).UserID, kind, id, pageParams(r))
	if err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.OK(w, out)
}

// All: лента для monitor-пользователя.
func (h *MessageHandlers) All(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > repository.MaxPageLimit {
		limit = repository.MaxPageLimit
	}
	out, err := h.History.AllMessages(r.Context(), identity(r), limit)
	if err != nil {
		httputil.Fail(r.Context(), w, err)
		return
	}
	httputil.OK(w, out)
}
