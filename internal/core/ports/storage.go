package ports

import (
	"context"

	"github.com/GoArmGo/InviteLink/internal/domain"
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей.
// Отсутствие записи возвращается как domain.ErrNotFound,
// нарушение уникальности username как domain.ErrConflict.
type UserStorage interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) error
	FindAllReferredBy(ctx context.Context, username string) ([]domain.User, error)
	UpdateProfilePicture(ctx context.Context, username, picture string) error
}

// StorageCloser хранилище с явным жизненным циклом, закрывается при остановке приложения
type StorageCloser interface {
	UserStorage
	Close() error
}
