package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cwrk-planet/chat-service/internal/errs"
)

type UserID int64

type User struct {
	ID           UserID    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is resolved once per connection (or request) from a verified token.
type Identity struct {
	UserID   UserID `json:"user_id"`
	Username string `json:"username"`
}

func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username}
}

const maxUsernameLen = 100

// NewUser ожидает уже посчитанный хеш пароля.
func NewUser(username, passwordHash string, now time.Time) (*User, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return nil, errs.Validation("username is required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return nil, errs.Validation("username is too long")
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, errs.Validation("empty password hash")
	}

	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func NormalizeUsername(s string) string {
	return strings.TrimSpace(s)
}
