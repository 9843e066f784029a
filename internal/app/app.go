package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/InviteLink/internal/auth"
	"github.com/GoArmGo/InviteLink/internal/config"
	"github.com/GoArmGo/InviteLink/internal/core/ports"
	"github.com/GoArmGo/InviteLink/internal/usecase"
)

// Режимы запуска
const (
	ModeServer = "server"
	ModeWorker = "worker"
)

// Deps зависимости приложения, собираются в di.BuildApp.
// Avatars и Consumer равны nil, если MinIO или RabbitMQ не настроены.
type Deps struct {
	Storage  ports.StorageCloser
	Identity usecase.IdentityUseCase
	Profiles usecase.ProfileUseCase
	Avatars  usecase.AvatarUseCase
	Sessions *auth.SessionIssuer
	Consumer ports.UserEventConsumer
	// закрываются при остановке после хранилища, например клиент RabbitMQ
	Closers []io.Closer
}

type App struct {
	Config *config.Config
	logger *slog.Logger
	deps   Deps
}

func NewApp(cfg *config.Config, logger *slog.Logger, deps Deps) *App {
	return &App{
		Config: cfg,
		logger: logger,
		deps:   deps,
	}
}

// LoggerIns основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и блокируется до SIGINT/SIGTERM или отмены ctx
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = runServer(ctx, a.Config, a.deps, a.logger)
	case ModeWorker:
		err = runWorker(ctx, a.deps, a.logger)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", mode)
	}

	a.logger.Info("shutting down")
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
	}

	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error

	if a.deps.Storage != nil {
		if err := a.deps.Storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ошибка закрытия хранилища: %w", err))
		}
	}

	for _, c := range a.deps.Closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
