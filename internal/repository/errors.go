package repository

import "errors"

// Ошибки хранилища; сервисный слой переводит их в errs.
var (
	ErrNotFound      = errors.New("repository: not found")
	ErrAlreadyExists = errors.New("repository: already exists")
	ErrInvalidInput  = errors.New("repository: invalid input")
	ErrInvalidCursor = errors.New("repository: invalid cursor")
)
