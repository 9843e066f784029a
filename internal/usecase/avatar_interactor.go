package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/InviteLink/internal/core/ports"
	"github.com/GoArmGo/InviteLink/internal/messaging/payloads"
	"github.com/google/uuid"
)

// avatarUseCase implements AvatarUseCase
type avatarUseCase struct {
	userStorage ports.UserStorage
	fileStorage FileStorage
	logger      *slog.Logger
}

// NewAvatarUseCase создает новый экземпляр AvatarUseCase
func NewAvatarUseCase(userStorage ports.UserStorage, fileStorage FileStorage, logger *slog.Logger) AvatarUseCase {
	return &avatarUseCase{
		userStorage: userStorage,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func (uc *avatarUseCase) Offload(ctx context.Context, username string) (string, error) {
	start := time.Now()

	user, err := uc.userStorage.FindByUsername(ctx, username)
	if err != nil {
		return "", storageError("поиск пользователя", err)
	}
	if !IsDataURI(user.ProfilePicture) {
		return user.ProfilePicture, nil
	}

	d, err := decodeAvatar(user.ProfilePicture)
	if err != nil {
		return "", err
	}

	contentType := avatarContentType(d)
	key := fmt.Sprintf("%s/%s%s", user.Username, uuid.NewString(), allowedAvatarTypes[contentType])

	url, err := uc.fileStorage.UploadFile(ctx, key, bytes.NewReader(d.Data), contentType)
	if err != nil {
		return "", fmt.Errorf("usecase: ошибка загрузки аватара в хранилище: %w", err)
	}

	if err := uc.userStorage.UpdateProfilePicture(ctx, user.Username, url); err != nil {
		return "", storageError("сохранение ссылки на аватар", err)
	}

	uc.logger.Info("avatar offloaded",
		"username", user.Username,
		"key", key,
		"size", len(d.Data),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return url, nil
}

func (uc *avatarUseCase) HandleUserRegistered(ctx context.Context, payload payloads.UserRegisteredPayload) error {
	if !payload.HasAvatar {
		uc.logger.Debug("no avatar to offload", "username", payload.Username)
		return nil
	}
	_, err := uc.Offload(ctx, payload.Username)
	return err
}
