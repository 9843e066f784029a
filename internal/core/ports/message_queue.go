package ports

import (
	"context"

	"github.com/GoArmGo/InviteLink/internal/messaging/payloads"
)

// UserEventPublisher определяет методы для публикации событий о регистрации пользователей
// Этот интерфейс используется сервисом идентификации после создания записи
type UserEventPublisher interface {
	PublishUserRegistered(ctx context.Context, payload payloads.UserRegisteredPayload) error
}

// UserEventConsumer определяет методы для потребления событий о регистрации
// будет использоваться воркером для получения задач из очереди
type UserEventConsumer interface {
	// StartConsumingUserRegistered начинает прослушивание очереди
	// принимает функцию-обработчик, которая будет вызываться для каждого полученного сообщения
	StartConsumingUserRegistered(ctx context.Context, handler func(context.Context, payloads.UserRegisteredPayload) error) error
}
