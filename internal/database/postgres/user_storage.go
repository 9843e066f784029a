package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/InviteLink/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserStorage реализует интерфейс ports.UserStorage с использованием GORM
type GormUserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormUserStorage создает новый экземпляр GormUserStorage
func NewGormUserStorage(db *gorm.DB, logger *slog.Logger) *GormUserStorage {
	return &GormUserStorage{db: db, logger: logger}
}

// FindByUsername получает пользователя по username с помощью GORM
func (s *GormUserStorage) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	result := s.db.WithContext(ctx).Where("username = ?", username).Take(&user)
	if result.Error != nil {
		return nil, mapGormError(result.Error, username)
	}
	return &user, nil
}

// Insert сохраняет нового пользователя с помощью GORM
func (s *GormUserStorage) Insert(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	result := s.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		err := mapGormError(result.Error, user.Username)
		if !errors.Is(err, domain.ErrConflict) {
			s.logger.Error("failed to insert user with GORM", "username", user.Username, "error", result.Error)
		}
		return err
	}

	s.logger.Info("user inserted with GORM", "id", user.ID, "username", user.Username)
	return nil
}

// FindAllReferredBy получает приглашенных пользователей в порядке регистрации
func (s *GormUserStorage) FindAllReferredBy(ctx context.Context, username string) ([]domain.User, error) {
	users := make([]domain.User, 0)
	result := s.db.WithContext(ctx).
		Where("referal = ?", username).
		Order("created_at ASC").
		Order("username ASC").
		Find(&users)
	if result.Error != nil {
		return nil, fmt.Errorf("ошибка при получении приглашенных пользователей с помощью GORM: %w", result.Error)
	}
	return users, nil
}

// UpdateProfilePicture обновляет аватар, отсутствие строки означает неизвестного пользователя
func (s *GormUserStorage) UpdateProfilePicture(ctx context.Context, username, picture string) error {
	result := s.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("username = ?", username).
		Updates(map[string]any{
			"profile_picture": picture,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("ошибка при обновлении аватара с помощью GORM: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("пользователь %q: %w", username, domain.ErrNotFound)
	}
	return nil
}

// Close закрывает пул соединений под GORM
func (s *GormUserStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func mapGormError(err error, username string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("пользователь %q: %w", username, domain.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("пользователь %q: %w", username, domain.ErrConflict)
	default:
		return fmt.Errorf("ошибка GORM: %w", err)
	}
}
