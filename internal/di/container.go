package di

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/GoArmGo/InviteLink/internal/adapter/storage/minio"
	"github.com/GoArmGo/InviteLink/internal/app"
	"github.com/GoArmGo/InviteLink/internal/auth"
	"github.com/GoArmGo/InviteLink/internal/config"
	"github.com/GoArmGo/InviteLink/internal/core/ports"
	"github.com/GoArmGo/InviteLink/internal/database/client"
	"github.com/GoArmGo/InviteLink/internal/database/memory"
	"github.com/GoArmGo/InviteLink/internal/database/mongo"
	"github.com/GoArmGo/InviteLink/internal/database/postgres"
	"github.com/GoArmGo/InviteLink/internal/database/storage"
	"github.com/GoArmGo/InviteLink/internal/logger"
	"github.com/GoArmGo/InviteLink/internal/rabbitmq"
	"github.com/GoArmGo/InviteLink/internal/usecase"
)

// closableStorage связывает sqlx-хранилище с клиентом, который владеет соединением
type closableStorage struct {
	ports.UserStorage
	closer io.Closer
}

func (s closableStorage) Close() error {
	return s.closer.Close()
}

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. Хранилище пользователей
	userStorage, err := openStorage(ctx, cfg, slogger)
	if err != nil {
		return nil, err
	}

	deps := app.Deps{
		Storage: userStorage,
		Sessions: auth.NewSessionIssuer(auth.SessionConfig{
			Secret:       cfg.JWTSecret,
			Issuer:       cfg.JWTIssuer,
			TTL:          cfg.SessionTTL,
			CookieSecure: cfg.CookieSecure,
		}),
	}

	// 3. S3 / MinIO для аватаров, опционально
	if cfg.AvatarStorageEnabled() {
		fileStorage, err := minio.NewMinioClient(ctx, cfg, slogger)
		if err != nil {
			_ = userStorage.Close()
			return nil, err
		}
		deps.Avatars = usecase.NewAvatarUseCase(userStorage, fileStorage, slogger)
	}

	// 4. RabbitMQ, опционально
	var publisher ports.UserEventPublisher
	if cfg.MessagingEnabled() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			_ = userStorage.Close()
			return nil, err
		}
		publisher = rabbitMQClient
		deps.Consumer = rabbitMQClient
		deps.Closers = append(deps.Closers, rabbitMQClient)
	}

	// 5. Бизнес-логика
	deps.Identity = usecase.NewIdentityUseCase(userStorage, publisher, deps.Avatars, cfg.BcryptCost, slogger)
	deps.Profiles = usecase.NewProfileUseCase(userStorage, deps.Avatars, slogger)

	slogger.Info("dependencies initialized",
		"store_driver", cfg.StoreDriver,
		"avatar_storage", cfg.AvatarStorageEnabled(),
		"messaging", cfg.MessagingEnabled(),
	)
	return app.NewApp(cfg, slogger, deps), nil
}

// openStorage открывает хранилище, выбранное STORE_DRIVER
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.StorageCloser, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		dbClient, err := client.NewClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		return closableStorage{
			UserStorage: storage.NewUserStorage(dbClient.DB, logger),
			closer:      dbClient,
		}, nil
	case config.StoreDriverGorm:
		s, err := postgres.Open(cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreDriverMongo:
		s, err := mongo.Open(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreDriverMemory:
		logger.Warn("using in-memory user storage, data is lost on restart")
		return memory.NewUserStorage(), nil
	default:
		return nil, fmt.Errorf("неизвестный STORE_DRIVER: %q", cfg.StoreDriver)
	}
}
