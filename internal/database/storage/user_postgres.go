package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/InviteLink/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// код ошибки PostgreSQL unique_violation
const uniqueViolationCode pq.ErrorCode = "23505"

const userColumns = `id, username, password_hash, profile_picture, referal, created_at, updated_at`

// UserStorage реализует интерфейс ports.UserStorage с использованием sqlx
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// FindByUsername получает пользователя по username
func (s *UserStorage) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	start := time.Now()

	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1`

	err := s.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("user not found by username", "username", username)
			return nil, fmt.Errorf("пользователь %q: %w", username, domain.ErrNotFound)
		}
		s.logger.Error("failed to get user by username", "username", username, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	s.logger.Debug("user retrieved by username",
		"username", username,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}

// Insert сохраняет нового пользователя. Повторный username отклоняется уникальным индексом.
func (s *UserStorage) Insert(ctx context.Context, user *domain.User) error {
	start := time.Now()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
	INSERT INTO users (id, username, password_hash, profile_picture, referal, created_at, updated_at)
	VALUES (:id, :username, :password_hash, :profile_picture, :referal, :created_at, :updated_at)
	`

	_, err := s.db.NamedExecContext(ctx, query, user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			s.logger.Warn("username already taken", "username", user.Username)
			return fmt.Errorf("пользователь %q: %w", user.Username, domain.ErrConflict)
		}
		s.logger.Error("failed to insert user", "username", user.Username, "error", err)
		return fmt.Errorf("ошибка при сохранении пользователя: %w", err)
	}

	s.logger.Info("user inserted",
		"id", user.ID,
		"username", user.Username,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// FindAllReferredBy получает всех пользователей, пришедших по ссылке username, в порядке регистрации
func (s *UserStorage) FindAllReferredBy(ctx context.Context, username string) ([]domain.User, error) {
	start := time.Now()

	q := `SELECT ` + userColumns + ` FROM users WHERE referal = $1 ORDER BY created_at ASC, username ASC`

	users := make([]domain.User, 0)
	if err := s.db.SelectContext(ctx, &users, q, username); err != nil {
		s.logger.Error("failed to list referred users", "referal", username, "error", err)
		return nil, fmt.Errorf("ошибка при получении приглашенных пользователей: %w", err)
	}

	s.logger.Debug("referred users listed",
		"referal", username,
		"count", len(users),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, nil
}

// UpdateProfilePicture обновляет аватар пользователя
func (s *UserStorage) UpdateProfilePicture(ctx context.Context, username, picture string) error {
	q := `UPDATE users SET profile_picture = $1, updated_at = $2 WHERE username = $3`

	res, err := s.db.ExecContext(ctx, q, picture, time.Now().UTC(), username)
	if err != nil {
		s.logger.Error("failed to update profile picture", "username", username, "error", err)
		return fmt.Errorf("ошибка при обновлении аватара: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при обновлении аватара: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("пользователь %q: %w", username, domain.ErrNotFound)
	}

	s.logger.Info("profile picture updated", "username", username)
	return nil
}
