package usecase

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/GoArmGo/InviteLink/internal/domain"
	"github.com/GoArmGo/InviteLink/internal/messaging/payloads"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []payloads.UserRegisteredPayload
	err    error
}

func (p *fakePublisher) PublishUserRegistered(_ context.Context, payload payloads.UserRegisteredPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, payload)
	return p.err
}

type uploaded struct {
	key         string
	data        []byte
	contentType string
}

type fakeFileStorage struct {
	uploads []uploaded
	err     error
}

func (f *fakeFileStorage) UploadFile(_ context.Context, key string, r io.Reader, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, uploaded{key: key, data: data, contentType: contentType})
	return "https://cdn.example.com/avatars/" + key, nil
}

// failingStorage возвращает заданную ошибку на любую операцию
type failingStorage struct {
	err error
}

func (s failingStorage) FindByUsername(context.Context, string) (*domain.User, error) {
	return nil, s.err
}

func (s failingStorage) Insert(context.Context, *domain.User) error { return s.err }

func (s failingStorage) FindAllReferredBy(context.Context, string) ([]domain.User, error) {
	return nil, s.err
}

func (s failingStorage) UpdateProfilePicture(context.Context, string, string) error { return s.err }

var errDBDown = errors.New("db down")

// 1x1 png
const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
