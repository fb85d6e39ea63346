package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"

	"github.com/google/uuid"
)

type fakeStore struct {
	mu     sync.Mutex
	docs   map[string][]byte
	err    error
	putErr error
	reads  int
}

func (s *fakeStore) Read(_ context.Context, collection, id string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.err != nil {
		return nil, s.err
	}
	data, ok := s.docs[collection+"/"+id]
	return &domain.Document{Collection: collection, ID: id, Exists: ok, Data: data}, nil
}

func (s *fakeStore) Put(_ context.Context, collection, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	if s.docs == nil {
		s.docs = map[string][]byte{}
	}
	s.docs[collection+"/"+id] = data
	return nil
}

type fakeUserRepo struct {
	byEmail   map[string]*domain.User
	findErr   error
	createErr error
	updateErr error
	updated   map[uuid.UUID]string
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{byEmail: map[string]*domain.User{}, updated: map[uuid.UUID]string{}}
	for _, u := range users {
		r.byEmail[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.byEmail[email], nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated[id] = hash
	return nil
}

// fakeTokenSvc кодирует цель и id пользователя прямо в строку токена,
// а полезную нагрузку запоминает на момент выпуска.
type fakeTokenSvc struct {
	claims map[string]domain.Claims
	err    error
}

func newFakeTokenSvc() *fakeTokenSvc {
	return &fakeTokenSvc{claims: map[string]domain.Claims{}}
}

func (f *fakeTokenSvc) GenerateToken(_ context.Context, user *domain.User, purpose domain.TokenPurpose, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	token := fmt.Sprintf("%s:%s", purpose, user.ID)
	claims := domain.Claims{UserID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role, Purpose: purpose}
	if purpose == domain.PurposePasswordReset {
		claims.PasswordFingerprint = user.PasswordFingerprint()
	}
	f.claims[token] = claims
	return token, nil
}

func (f *fakeTokenSvc) ValidateToken(_ context.Context, token string, purpose domain.TokenPurpose) (*domain.Claims, error) {
	claims, ok := f.claims[token]
	if !ok || claims.Purpose != purpose {
		return nil, domain.ErrTokenInvalid
	}
	return &claims, nil
}

type fakeQueue struct {
	requests []domain.PasswordResetRequest
	err      error
}

func (q *fakeQueue) EnqueuePasswordReset(_ context.Context, req domain.PasswordResetRequest) error {
	if q.err != nil {
		return q.err
	}
	q.requests = append(q.requests, req)
	return nil
}

// fieldsLogger собирает все поля, с которыми писались записи.
type fieldsLogger struct {
	mu      *sync.Mutex
	entries *[]port.Fields
	base    port.Fields
}

func newFieldsLogger() fieldsLogger {
	return fieldsLogger{mu: &sync.Mutex{}, entries: &[]port.Fields{}}
}

func (l fieldsLogger) record(fields port.Fields) {
	merged := port.Fields{}
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, merged)
}

func (l fieldsLogger) Info(_ string, f port.Fields)           { l.record(f) }
func (l fieldsLogger) Warn(_ string, f port.Fields)           { l.record(f) }
func (l fieldsLogger) Error(_ string, _ error, f port.Fields) { l.record(f) }
func (l fieldsLogger) Debug(_ string, f port.Fields)          { l.record(f) }
func (l fieldsLogger) WithFields(f port.Fields) port.LoggerPort {
	merged := port.Fields{}
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range f {
		merged[k] = v
	}
	return fieldsLogger{mu: l.mu, entries: l.entries, base: merged}
}

func (l fieldsLogger) all() []port.Fields {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]port.Fields(nil), *l.entries...)
}
