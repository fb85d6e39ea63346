package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// UserRepository - реализация UserRepositoryPort для PostgreSQL.
type UserRepository struct {
	db dbtx
}

func NewUserRepository(db dbtx) (*UserRepository, error) {
	if db == nil {
		return nil, errors.New("user repository: db cannot be nil")
	}
	return &UserRepository{db: db}, nil
}

const userColumns = `id, name, email, password_hash, role, created_at`

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "UserRepository",
		"method":    "Create",
		"user_id":   user.ID.String(),
	})

	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			logger.Warn("Email already registered", nil)
			return domain.ErrEmailInUse
		}
		logger.Error("Failed to create user", err, port.Fields{"query": query})
		return fmt.Errorf("failed to create user: %w", err)
	}

	logger.Debug("User created", nil)
	return nil
}

// FindByEmail возвращает (nil, nil), если пользователь не найден.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "FindByEmail", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, "FindByID", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) findOne(ctx context.Context, method, query string, arg any) (*domain.User, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "UserRepository",
		"method":    method,
	})

	var user domain.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Debug("User not found", nil)
			return nil, nil
		}
		logger.Error("Failed to query user", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	logger.Debug("User found", port.Fields{"user_id": user.ID.String()})
	return &user, nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "UserRepository",
		"method":    "UpdatePasswordHash",
		"user_id":   id.String(),
	})

	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		logger.Error("Failed to update password hash", err, nil)
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		logger.Warn("No user row updated", nil)
		return domain.ErrUserNotFound
	}

	logger.Info("Password hash updated", nil)
	return nil
}
