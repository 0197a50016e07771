package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository/queries"

	"github.com/jackc/pgx/v5"
)

type UserRepo struct {
	q querier
}

// NewUserRepoFromPool - конструктор от пула (*pgxpool.Pool)
func NewUserRepoFromPool(q querier) *UserRepo {
	return &UserRepo{q: q}
}

// NewUserRepoFromTx - конструктор от транзакции (pgx.Tx), удобно для составных операций
func NewUserRepoFromTx(tx pgx.Tx) *UserRepo {
	return &UserRepo{q: tx}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) (domain.UserID, error) {
	var id int64
	err := r.q.QueryRow(
		ctx,
		queries.QueryCreateUser,
		u.Username,
		u.PasswordHash,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}

	return domain.UserID(id), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return r.getOne(ctx, queries.QueryGetUserByID, int64(id))
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, queries.QueryGetUserByUsername, strings.TrimSpace(username))
}

func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var one int
	err := r.q.QueryRow(ctx, queries.QueryExistsUserByUsername, strings.TrimSpace(username)).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, mapPgError(err)
	}

	return true, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.Query(ctx, queries.QueryListUsers)
	if err != nil {
		return nil, mapPgError(err)
	}
	return scanPublicUsers(rows)
}

func (r *UserRepo) Search(ctx context.Context, query string, exclude domain.UserID, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"
	rows, err := r.q.Query(ctx, queries.QuerySearchUsers, pattern, int64(exclude), limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	return scanPublicUsers(rows)
}

func (r *UserRepo) getOne(ctx context.Context, sql string, arg any) (*domain.User, error) {
	var (
		id int64
		u  domain.User
	)
	err := r.q.QueryRow(ctx, sql, arg).Scan(
		&id,
		&u.Username,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	u.ID = domain.UserID(id)

	return &u, nil
}

// scanPublicUsers читает строки без хеша пароля.
func scanPublicUsers(rows pgx.Rows) ([]domain.User, error) {
	defer rows.Close()

	out := make([]domain.User, 0, 16)
	for rows.Next() {
		var (
			id int64
			u  domain.User
		)
		if err := rows.Scan(&id, &u.Username, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.ID = domain.UserID(id)
		out = append(out, u)
	}
	return out, mapPgError(rows.Err())
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
