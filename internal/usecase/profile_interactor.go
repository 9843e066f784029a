package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/InviteLink/internal/core/ports"
	"github.com/GoArmGo/InviteLink/internal/domain"
)

// profileUseCase implements ProfileUseCase
type profileUseCase struct {
	userStorage ports.UserStorage
	avatars     AvatarUseCase
	logger      *slog.Logger
}

// NewProfileUseCase создает новый экземпляр ProfileUseCase.
// avatars может быть nil, тогда data URI аватары остаются в записи как есть.
func NewProfileUseCase(userStorage ports.UserStorage, avatars AvatarUseCase, logger *slog.Logger) ProfileUseCase {
	return &profileUseCase{
		userStorage: userStorage,
		avatars:     avatars,
		logger:      logger,
	}
}

func (uc *profileUseCase) ResolveProfile(ctx context.Context, username string) (*Profile, error) {
	user, err := uc.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: user}

	if user.HasInviter() {
		inviter, err := uc.userStorage.FindByUsername(ctx, user.Referal)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			uc.logger.Warn("inviter not found", "username", username, "referal", user.Referal)
		case err != nil:
			return nil, storageError("поиск пригласившего", err)
		default:
			profile.Inviter = inviter
		}
	}

	profile.Invitees, err = uc.ListReferredBy(ctx, username)
	if err != nil {
		return nil, err
	}

	return profile, nil
}

func (uc *profileUseCase) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username обязателен", domain.ErrBadRequest)
	}

	user, err := uc.userStorage.FindByUsername(ctx, username)
	if err != nil {
		return nil, storageError("поиск пользователя", err)
	}
	return user, nil
}

func (uc *profileUseCase) ListReferredBy(ctx context.Context, username string) ([]domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username обязателен", domain.ErrBadRequest)
	}

	users, err := uc.userStorage.FindAllReferredBy(ctx, username)
	if err != nil {
		return nil, storageError("поиск приглашенных", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (uc *profileUseCase) UpdateProfile(ctx context.Context, username string, upd ProfileUpdate) (*domain.User, error) {
	if upd.ProfilePicture == nil {
		return nil, fmt.Errorf("%w: нечего обновлять", domain.ErrBadRequest)
	}
	if err := ValidateAvatar(*upd.ProfilePicture); err != nil {
		return nil, err
	}

	if err := uc.userStorage.UpdateProfilePicture(ctx, username, *upd.ProfilePicture); err != nil {
		return nil, storageError("обновление аватара", err)
	}
	uc.logger.Info("profile updated", "username", username)

	if uc.avatars != nil && IsDataURI(*upd.ProfilePicture) {
		if _, err := uc.avatars.Offload(ctx, username); err != nil {
			uc.logger.Error("failed to offload avatar", "username", username, "error", err)
		}
	}

	return uc.GetByUsername(ctx, username)
}

// storageError пропускает ErrNotFound/ErrConflict, остальное сводит к ErrInternal
func storageError(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrInternal, op, err)
}
