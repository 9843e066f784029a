package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/InviteLink/internal/core/ports"
	"github.com/GoArmGo/InviteLink/internal/domain"
	"github.com/GoArmGo/InviteLink/internal/messaging/payloads"
	"golang.org/x/crypto/bcrypt"
)

// identityUseCase implements IdentityUseCase
type identityUseCase struct {
	userStorage ports.UserStorage
	publisher   ports.UserEventPublisher
	avatars     AvatarUseCase
	bcryptCost  int
	logger      *slog.Logger
}

// NewIdentityUseCase создает новый экземпляр IdentityUseCase.
// publisher и avatars могут быть nil, тогда соответствующий шаг после регистрации пропускается.
func NewIdentityUseCase(
	userStorage ports.UserStorage,
	publisher ports.UserEventPublisher,
	avatars AvatarUseCase,
	bcryptCost int,
	logger *slog.Logger,
) IdentityUseCase {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &identityUseCase{
		userStorage: userStorage,
		publisher:   publisher,
		avatars:     avatars,
		bcryptCost:  bcryptCost,
		logger:      logger,
	}
}

func (uc *identityUseCase) Authenticate(ctx context.Context, in AuthenticateInput) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username и password обязательны", domain.ErrBadRequest)
	}

	if err := ValidateAvatar(in.Avatar); err != nil {
		return nil, err
	}

	inviter := strings.TrimSpace(in.Inviter)
	if inviter == username {
		uc.logger.Warn("self-referral dropped", "username", username)
		inviter = ""
	}

	user, err := uc.userStorage.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return uc.register(ctx, username, in.Password, inviter, in.Avatar)
	case err != nil:
		return nil, fmt.Errorf("%w: поиск пользователя: %v", domain.ErrInternal, err)
	}

	if err := uc.verifyPassword(user, in.Password); err != nil {
		return nil, err
	}

	uc.logger.Info("user logged in", "username", username)
	return &AuthResult{Created: false, User: user}, nil
}

func (uc *identityUseCase) register(ctx context.Context, username, password, inviter, avatar string) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: пароль длиннее 72 байт", domain.ErrBadRequest)
		}
		return nil, fmt.Errorf("%w: хэширование пароля: %v", domain.ErrInternal, err)
	}

	user := &domain.User{
		Username:       username,
		PasswordHash:   string(hash),
		ProfilePicture: avatar,
		Referal:        inviter,
	}

	err = uc.userStorage.Insert(ctx, user)
	if errors.Is(err, domain.ErrConflict) {
		// параллельная регистрация с тем же username уже победила, проверяем пароль по ее записи
		uc.logger.Warn("registration race lost, verifying against existing record", "username", username)
		existing, findErr := uc.userStorage.FindByUsername(ctx, username)
		if findErr != nil {
			return nil, fmt.Errorf("%w: повторный поиск пользователя: %v", domain.ErrInternal, findErr)
		}
		if err := uc.verifyPassword(existing, password); err != nil {
			return nil, err
		}
		return &AuthResult{Created: false, User: existing}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: сохранение пользователя: %v", domain.ErrInternal, err)
	}

	uc.logger.Info("user registered", "username", username, "referal", inviter)
	uc.afterRegister(ctx, user)

	return &AuthResult{Created: true, User: user}, nil
}

// afterRegister публикует событие, а без брокера выгружает аватар сразу.
// Ошибки только логируются, регистрация уже состоялась.
func (uc *identityUseCase) afterRegister(ctx context.Context, user *domain.User) {
	if uc.publisher != nil {
		payload := payloads.UserRegisteredPayload{
			Username:     user.Username,
			Referal:      user.Referal,
			HasAvatar:    IsDataURI(user.ProfilePicture),
			RegisteredAt: time.Now().UTC(),
		}
		if err := uc.publisher.PublishUserRegistered(ctx, payload); err != nil {
			uc.logger.Error("failed to publish user registered event", "username", user.Username, "error", err)
		}
		return
	}

	if uc.avatars != nil && IsDataURI(user.ProfilePicture) {
		picture, err := uc.avatars.Offload(ctx, user.Username)
		if err != nil {
			uc.logger.Error("failed to offload avatar", "username", user.Username, "error", err)
			return
		}
		user.ProfilePicture = picture
	}
}

func (uc *identityUseCase) verifyPassword(user *domain.User, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		uc.logger.Warn("wrong password", "username", user.Username)
		return fmt.Errorf("%w: password wrong", domain.ErrUnauthorized)
	default:
		return fmt.Errorf("%w: проверка пароля: %v", domain.ErrInternal, err)
	}
}
