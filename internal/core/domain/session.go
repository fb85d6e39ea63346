package domain

import "time"

// Session - текущий пользователь. Создается при входе, удаляется при выходе,
// во всех остальных местах только читается. nil означает анонимного посетителя.
type Session struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// CurrentUserID безопасно вызывать на nil.
func (s *Session) CurrentUserID() (string, bool) {
	if s == nil || s.UserID == "" {
		return "", false
	}
	return s.UserID, true
}

// IssuedSession - результат входа или регистрации.
type IssuedSession struct {
	Session   Session
	Token     string
	ExpiresAt time.Time
}

// SessionFromClaims собирает сессию из проверенного токена.
func SessionFromClaims(c *Claims) *Session {
	return &Session{
		UserID: c.UserID.String(),
		Email:  c.Email,
		Name:   c.Name,
		Role:   c.Role,
	}
}
