package repository

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// Cursor указывает на самое старое сообщение страницы: следующая страница строго старше (created_at, id).
type Cursor struct {
	CreatedAt time.Time `json:"t"`
	ID        int64     `json:"id"`
}

func CursorAfter(m time.Time, id int64) Cursor {
	return Cursor{CreatedAt: m.UTC(), ID: id}
}

// String: непрозрачный токен для клиента (?before=).
func (c Cursor) String() string {
	data, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(data)
}

// ParseCursor: пустая строка означает первую страницу (nil, nil).
func ParseCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil || c.ID <= 0 || c.CreatedAt.IsZero() {
		return nil, ErrInvalidCursor
	}
	return &c, nil
}
