package postgres

import (
	"context"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository"
	"github.com/cwrk-planet/chat-service/internal/repository/queries"

	"github.com/jackc/pgx/v5"
)

type GroupRepo struct {
	q txQuerier
}

func NewGroupRepoFromPool(q txQuerier) *GroupRepo {
	return &GroupRepo{q: q}
}

func NewGroupRepoFromTx(tx pgx.Tx) *GroupRepo {
	return &GroupRepo{q: tx}
}

func (r *GroupRepo) CreateWithMembers(ctx context.Context, g *domain.Group, memberIDs []domain.UserID) error {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx, queries.QueryCreateGroup,
		g.Name, g.Description, int64(g.CreatedBy), g.CreatedAt, g.UpdatedAt,
	).Scan(&id); err != nil {
		return mapPgError(err)
	}

	ids := make([]int64, 0, len(memberIDs)+1)
	ids = append(ids, int64(g.CreatedBy))
	for _, m := range memberIDs {
		if m > 0 {
			ids = append(ids, int64(m))
		}
	}
	if _, err := tx.Exec(ctx, queries.QueryAddGroupMembers, id, ids); err != nil {
		return mapPgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	g.ID = domain.GroupID(id)
	return nil
}

func (r *GroupRepo) GetByID(ctx context.Context, id domain.GroupID) (*domain.Group, error) {
	var (
		gid       int64
		createdBy *int64
		g         domain.Group
	)
	err := r.q.QueryRow(ctx, queries.QueryGetGroupByID, int64(id)).Scan(
		&gid, &g.Name, &g.Description, &createdBy, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	g.ID = domain.GroupID(gid)
	if createdBy != nil {
		g.CreatedBy = domain.UserID(*createdBy)
	}
	return &g, nil
}

func (r *GroupRepo) List(ctx context.Context) ([]domain.Group, error) {
	rows, err := r.q.Query(ctx, queries.QueryListGroups)
	if err != nil {
		return nil, mapPgError(err)
	}
	return scanGroups(rows)
}

func (r *GroupRepo) ListByUser(ctx context.Context, userID domain.UserID) ([]domain.Group, error) {
	rows, err := r.q.Query(ctx, queries.QueryListGroupsByUser, int64(userID))
	if err != nil {
		return nil, mapPgError(err)
	}
	return scanGroups(rows)
}

func (r *GroupRepo) AddMember(ctx context.Context, groupID domain.GroupID, userID domain.UserID) error {
	if _, err := r.q.Exec(ctx, queries.QueryAddGroupMember, int64(groupID), int64(userID)); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *GroupRepo) RemoveMember(ctx context.Context, groupID domain.GroupID, userID domain.UserID) error {
	tag, err := r.q.Exec(ctx, queries.QueryRemoveGroupMember, int64(groupID), int64(userID))
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *GroupRepo) Members(ctx context.Context, groupID domain.GroupID) ([]domain.GroupMember, error) {
	rows, err := r.q.Query(ctx, queries.QueryListGroupMembers, int64(groupID))
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	out := make([]domain.GroupMember, 0, 16)
	for rows.Next() {
		var (
			id int64
			m  domain.GroupMember
		)
		if err := rows.Scan(&id, &m.Username, &m.JoinedAt); err != nil {
			return nil, err
		}
		m.UserID = domain.UserID(id)
		out = append(out, m)
	}
	return out, mapPgError(rows.Err())
}

func (r *GroupRepo) IsMember(ctx context.Context, groupID domain.GroupID, userID domain.UserID) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, queries.QueryIsGroupMember, int64(groupID), int64(userID)).Scan(&ok); err != nil {
		return false, mapPgError(err)
	}
	return ok, nil
}

func scanGroups(rows pgx.Rows) ([]domain.Group, error) {
	defer rows.Close()

	out := make([]domain.Group, 0, 16)
	for rows.Next() {
		var (
			id        int64
			createdBy *int64
			g         domain.Group
		)
		if err := rows.Scan(&id, &g.Name, &g.Description, &createdBy, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		g.ID = domain.GroupID(id)
		if createdBy != nil {
			g.CreatedBy = domain.UserID(*createdBy)
		}
		out = append(out, g)
	}
	return out, mapPgError(rows.Err())
}
