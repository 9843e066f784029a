// Package memory хранит пользователей в памяти процесса.
// Используется для локального запуска (STORE_DRIVER=memory) и в тестах.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/GoArmGo/InviteLink/internal/domain"
	"github.com/google/uuid"
)

// UserStorage реализует ports.UserStorage поверх map с ключом username
type UserStorage struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserStorage создает пустое хранилище
func NewUserStorage() *UserStorage {
	return &UserStorage{users: make(map[string]domain.User)}
}

func (s *UserStorage) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
	}
	return &user, nil
}

func (s *UserStorage) Insert(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Username]; exists {
		return fmt.Errorf("user %q: %w", user.Username, domain.ErrConflict)
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	s.users[user.Username] = *user
	return nil
}

// FindAllReferredBy возвращает приглашенных в порядке регистрации
func (s *UserStorage) FindAllReferredBy(ctx context.Context, username string) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0)
	for _, u := range s.users {
		if u.Referal == username {
			users = append(users, u)
		}
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].Username < users[j].Username
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (s *UserStorage) UpdateProfilePicture(ctx context.Context, username, picture string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
	}

	user.ProfilePicture = picture
	user.UpdatedAt = time.Now().UTC()
	s.users[username] = user
	return nil
}

// Count количество записей, удобно для проверок "ничего не записано"
func (s *UserStorage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *UserStorage) Close() error {
	return nil
}
