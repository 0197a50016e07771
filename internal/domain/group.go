package domain

import (
	"strings"
	"time"

	"github.com/cwrk-planet/chat-service/internal/errs"
)

type GroupID int64

type Group struct {
	ID          GroupID   `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   UserID    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type GroupMember struct {
	UserID   UserID    `json:"id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

func NewGroup(name string, description *string, createdBy UserID, now time.Time) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Validation("Group name is required")
	}
	if description != nil {
		d := strings.TrimSpace(*description)
		if d == "" {
			description = nil
		} else {
			description = &d
		}
	}
	return &Group{
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
