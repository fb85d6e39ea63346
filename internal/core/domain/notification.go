package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
)

// Notification - одно всплывающее сообщение для пользователя.
type Notification struct {
	Level   NotificationLevel
	Message string
}

func SuccessNotification(msg string) *Notification {
	return &Notification{Level: NotificationSuccess, Message: msg}
}

// ErrorNotification берет текст из UserMessage, чтобы разные виды ошибок
// давали разные сообщения.
func ErrorNotification(err error) *Notification {
	return &Notification{Level: NotificationError, Message: UserMessage(err)}
}

// PasswordResetRequest - заявка на письмо со ссылкой сброса пароля.
// Само письмо отправляет внешний mailer.
type PasswordResetRequest struct {
	UserID      uuid.UUID
	Email       string
	ResetLink   string
	ExpiresAt   time.Time
	RequestedAt time.Time
}
