package postgres

import (
	"context"
	"errors"

	"github.com/cwrk-planet/chat-service/internal/repository"

	"github.com/jackc/pgx/v5"
	pgconn "github.com/jackc/pgx/v5/pgconn"
)

/*
абстрактный слой над *pgxpool.Pool / pgx.Tx
чтобы запросы можно было делать атомарно а не по одному
*/
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// txQuerier умеет открывать транзакцию: пул или уже открытая pgx.Tx (savepoint).
type txQuerier interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return repository.ErrAlreadyExists
		case "23503": // foreign_key_violation
			return repository.ErrNotFound
		case "23514", "22001": // check_violation, string_data_right_truncation
			return repository.ErrInvalidInput
		}
	}

	return err
}

func int64Ptr[T ~int64](p *T) *int64 {
	if p == nil {
		return nil
	}
	v := int64(*p)
	return &v
}
