package postgres

import (
	"context"
	"slices"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository"
	"github.com/cwrk-planet/chat-service/internal/repository/queries"

	"github.com/jackc/pgx/v5"
)

type MessageRepo struct {
	q querier
}

func NewMessageRepoFromPool(q querier) *MessageRepo {
	return &MessageRepo{q: q}
}

func NewMessageRepoFromTx(tx pgx.Tx) *MessageRepo {
	return &MessageRepo{q: tx}
}

func (r *MessageRepo) Create(ctx context.Context, m domain.NewMessage) (*domain.MessageDetails, error) {
	row := r.q.QueryRow(ctx, queries.QueryCreateMessage,
		m.Content, int64(m.SenderID), int64Ptr(m.RecipientID), int64Ptr(m.GroupID),
	)
	d, err := scanDetails(row)
	if err != nil {
		return nil, mapPgError(err)
	}
	return d, nil
}

func (r *MessageRepo) GetDetails(ctx context.Context, id domain.MessageID) (*domain.MessageDetails, error) {
	d, err := scanDetails(r.q.QueryRow(ctx, queries.QueryGetMessageDetails, int64(id)))
	if err != nil {
		return nil, mapPgError(err)
	}
	return d, nil
}

func (r *MessageRepo) Direct(ctx context.Context, a, b domain.UserID, page repository.Page) ([]domain.MessageDetails, string, error) {
	page = page.Normalized()
	createdAt, id, err := cursorArgs(page.Before)
	if err != nil {
		return nil, "", err
	}
	rows, err := r.q.Query(ctx, queries.QueryDirectMessages, int64(a), int64(b), createdAt, id, page.Limit)
	if err != nil {
		return nil, "", mapPgError(err)
	}
	return pageOf(rows, page.Limit)
}

func (r *MessageRepo) Group(ctx context.Context, groupID domain.GroupID, page repository.Page) ([]domain.MessageDetails, string, error) {
	page = page.Normalized()
	createdAt, id, err := cursorArgs(page.Before)
	if err != nil {
		return nil, "", err
	}
	rows, err := r.q.Query(ctx, queries.QueryGroupMessages, int64(groupID), createdAt, id, page.Limit)
	if err != nil {
		return nil, "", mapPgError(err)
	}
	return pageOf(rows, page.Limit)
}

func (r *MessageRepo) All(ctx context.Context, limit int) ([]domain.MessageDetails, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.q.Query(ctx, queries.QueryAllMessages, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	return collectDetails(rows)
}

// Conversations: сначала личные диалоги, потом группы; внутри по свежести.
func (r *MessageRepo) Conversations(ctx context.Context, userID domain.UserID) ([]domain.Conversation, error) {
	out := make([]domain.Conversation, 0, 16)

	rows, err := r.q.Query(ctx, queries.QueryDirectConversations, int64(userID))
	if err != nil {
		return nil, mapPgError(err)
	}
	for rows.Next() {
		c := domain.Conversation{Type: domain.ConversationDirect}
		if err := rows.Scan(&c.ID, &c.Name, &c.LastMessageAt); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err)
	}

	rows, err = r.q.Query(ctx, queries.QueryGroupConversations, int64(userID))
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	for rows.Next() {
		c := domain.Conversation{Type: domain.ConversationGroup}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.LastMessageAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, mapPgError(rows.Err())
}

func cursorArgs(before string) (any, any, error) {
	cur, err := repository.ParseCursor(before)
	if err != nil {
		return nil, nil, err
	}
	if cur == nil {
		return nil, nil, nil
	}
	return cur.CreatedAt, cur.ID, nil
}

// pageOf читает страницу (DESC), разворачивает в хронологический порядок и строит курсор.
func pageOf(rows pgx.Rows, limit int) ([]domain.MessageDetails, string, error) {
	out, err := collectDetails(rows)
	if err != nil {
		return nil, "", err
	}

	var next string
	if len(out) == limit {
		oldest := out[len(out)-1]
		next = repository.CursorAfter(oldest.CreatedAt, int64(oldest.ID)).String()
	}
	slices.Reverse(out)
	return out, next, nil
}

func collectDetails(rows pgx.Rows) ([]domain.MessageDetails, error) {
	defer rows.Close()

	out := make([]domain.MessageDetails, 0, 32)
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, mapPgError(rows.Err())
}

func scanDetails(row pgx.Row) (*domain.MessageDetails, error) {
	var (
		id          int64
		senderID    int64
		recipientID *int64
		groupID     *int64
		createdAt   time.Time
		d           domain.MessageDetails
	)
	if err := row.Scan(
		&id,
		&d.Content,
		&senderID,
		&recipientID,
		&groupID,
		&createdAt,
		&d.SenderUsername,
		&d.RecipientUsername,
		&d.GroupName,
	); err != nil {
		return nil, err
	}

	d.ID = domain.MessageID(id)
	d.SenderID = domain.UserID(senderID)
	d.CreatedAt = createdAt
	if recipientID != nil {
		v := domain.UserID(*recipientID)
		d.RecipientID = &v
	}
	if groupID != nil {
		v := domain.GroupID(*groupID)
		d.GroupID = &v
	}
	return &d, nil
}
