package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultMinPasswordLength = 6
	// bcrypt смотрит только на первые 72 байта
	maxPasswordBytes = 72
)

// BcryptConfig: политика паролей; нули означают дефолты.
type BcryptConfig struct {
	Cost      int
	MinLength int
}

func (c BcryptConfig) MinLen() int {
	if c.MinLength > 0 {
		return c.MinLength
	}
	return defaultMinPasswordLength
}

func (c BcryptConfig) cost() int {
	if c.Cost > 0 {
		return c.Cost
	}
	return bcrypt.DefaultCost
}

// Hash проверяет длину и возвращает bcrypt-хеш.
func (c BcryptConfig) Hash(plain string) (string, error) {
	switch {
	case len([]rune(plain)) < c.MinLen():
		return "", ErrPasswordTooShort
	case len(plain) > maxPasswordBytes:
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), c.cost())
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func ComparePassword(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
