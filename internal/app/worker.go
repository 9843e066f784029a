package app

import (
	"context"
	"fmt"
	"log/slog"
)

// runWorker потребляет события регистрации из RabbitMQ и выгружает аватары в MinIO
func runWorker(ctx context.Context, deps Deps, logger *slog.Logger) error {
	if deps.Consumer == nil {
		return fmt.Errorf("режим worker требует RABBITMQ_URL")
	}
	if deps.Avatars == nil {
		return fmt.Errorf("режим worker требует MINIO_ENDPOINT")
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if err := deps.Consumer.StartConsumingUserRegistered(workerCtx, deps.Avatars.HandleUserRegistered); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	logger.Info("worker started, waiting for user registered events")
	<-ctx.Done()

	logger.Info("shutdown signal received, stopping worker")
	return nil
}
