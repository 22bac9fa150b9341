package models

import "time"

// Session — серверная запись сессии, ключ которой уходит клиенту
// в HTTP-only cookie. Роль дублируется в записи, чтобы не ходить
// за пользователем на каждый запрос.
type Session struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
