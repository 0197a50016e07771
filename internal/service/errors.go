package service

import (
	"errors"

	"github.com/cwrk-planet/chat-service/internal/errs"
	"github.com/cwrk-planet/chat-service/internal/repository"
)

// mapRepoErr переводит ошибки хранилища в таксономию errs.
func mapRepoErr(op, notFound string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return errs.NotFound(notFound)
	case errors.Is(err, repository.ErrAlreadyExists):
		return errs.Conflict(op + ": already exists")
	case errors.Is(err, repository.ErrInvalidCursor):
		return errs.Validation("invalid cursor")
	case errors.Is(err, repository.ErrInvalidInput):
		return errs.Validation("invalid input")
	default:
		return errs.Persistence(op, err)
	}
}
