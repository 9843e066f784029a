package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/InviteLink/internal/domain"
	"github.com/GoArmGo/InviteLink/internal/messaging/payloads"
)

// AuthenticateInput данные формы входа.
// Inviter берется из ссылки-приглашения, Avatar из формы регистрации.
type AuthenticateInput struct {
	Username string
	Password string
	Inviter  string
	Avatar   string
}

// AuthResult результат входа. Created = true, если пользователь был зарегистрирован этим вызовом
type AuthResult struct {
	Created bool
	User    *domain.User
}

// Profile пользователь вместе с реферальной цепочкой.
// Inviter равен nil, если пользователь пришел без приглашения или пригласивший не найден.
type Profile struct {
	User     *domain.User
	Inviter  *domain.User
	Invitees []domain.User
}

// ProfileUpdate изменяемые поля профиля. Username и реферал не меняются никогда.
type ProfileUpdate struct {
	ProfilePicture *string
}

// IdentityUseCase определяет интерфейс входа и регистрации при первом входе
type IdentityUseCase interface {
	// Authenticate ищет пользователя по username.
	// Неизвестный username регистрируется, известный проверяется по хэшу пароля.
	Authenticate(ctx context.Context, in AuthenticateInput) (*AuthResult, error)
}

// ProfileUseCase определяет интерфейс чтения профиля и реферальных связей
type ProfileUseCase interface {
	// ResolveProfile возвращает пользователя, пригласившего его и приглашенных им
	ResolveProfile(ctx context.Context, username string) (*Profile, error)

	// GetByUsername получает пользователя по username (данные пригласившего для страницы входа)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// ListReferredBy получает всех пользователей, зарегистрированных по ссылке username
	ListReferredBy(ctx context.Context, username string) ([]domain.User, error)

	// UpdateProfile обновляет аватар и возвращает актуальную запись
	UpdateProfile(ctx context.Context, username string, upd ProfileUpdate) (*domain.User, error)
}

// AvatarUseCase переносит аватары в виде data URI в файловое хранилище
type AvatarUseCase interface {
	// Offload загружает data URI аватар пользователя в хранилище и заменяет его ссылкой.
	// Возвращает актуальное значение profilePicture.
	Offload(ctx context.Context, username string) (string, error)

	// HandleUserRegistered обработчик события регистрации для воркера
	HandleUserRegistered(ctx context.Context, payload payloads.UserRegisteredPayload) error
}

// FileStorage определяет интерфейс для работы с файловым хранилищем (AWS S3, MinIO)
type FileStorage interface {
	// UploadFile загружает файл в хранилище и возвращает его публичный URL.
	// `key` - уникальное имя файла в хранилище.
	// `contentType` - MIME-тип файла (например, "image/png").
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}
