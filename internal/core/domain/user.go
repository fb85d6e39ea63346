package domain

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser       = "user"
	MinPasswordLen = 6
)

// User - учетная запись владельца или покупателя.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// TokenPurpose разделяет токены сессии и токены сброса пароля,
// чтобы один нельзя было предъявить вместо другого.
type TokenPurpose string

const (
	PurposeSession       TokenPurpose = "session"
	PurposePasswordReset TokenPurpose = "password_reset"
)

// Claims - полезная нагрузка токена.
type Claims struct {
	UserID  uuid.UUID
	Email   string
	Name    string
	Role    string
	Purpose TokenPurpose
	// PasswordFingerprint есть только у токенов сброса пароля.
	PasswordFingerprint string
}

// NormalizeEmail приводит адрес к каноническому виду и проверяет его формат.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// NewUser создает пользователя и хэширует пароль.
func NewUser(name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, ErrMissingFields
	}
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        normalized,
		PasswordHash: hash,
		Role:         RoleUser,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// CheckPassword сравнивает пароль с сохраненным хэшем.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword заменяет хэш пароля.
func (u *User) SetPassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// MaskEmail оставляет от адреса первый символ и домен: c***@example.com.
// Адрес в таком виде можно писать в логи.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	_, size := utf8.DecodeRuneInString(email)
	return email[:size] + "***" + email[at:]
}

// PasswordFingerprint - отпечаток текущего хэша пароля. Токен сброса
// несет его в себе и перестает действовать после смены пароля.
func (u *User) PasswordFingerprint() string {
	sum := sha256.Sum256([]byte(u.PasswordHash))
	return hex.EncodeToString(sum[:16])
}

// MatchesPasswordFingerprint сравнивает отпечаток за постоянное время.
func (u *User) MatchesPasswordFingerprint(fingerprint string) bool {
	return fingerprint != "" && subtle.ConstantTimeCompare([]byte(fingerprint), []byte(u.PasswordFingerprint())) == 1
}

func hashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Contact - публичные данные владельца, которые показываются на странице связи.
type Contact struct {
	UserID uuid.UUID
	Name   string
	Email  string
}
