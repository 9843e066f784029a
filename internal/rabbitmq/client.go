package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/InviteLink/internal/config"
	"github.com/GoArmGo/InviteLink/internal/messaging/payloads"

	amqp "github.com/rabbitmq/amqp091-go"
)

// сколько неподтвержденных сообщений воркер держит одновременно
const prefetchCount = 10

// Client представляет собой клиент RabbitMQ.
// Реализует ports.UserEventPublisher и ports.UserEventConsumer.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient подключается к RabbitMQ и объявляет очередь событий регистрации
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к RabbitMQ: %w", err)
	}
	logger.Info("connected to RabbitMQ")

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("не удалось открыть канал: %w", err)
	}

	// очередь durable, объявление идемпотентно
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("не удалось объявить очередь: %w", err)
	}
	logger.Info("queue declared", "queue", q.Name, "messages", q.Messages)

	return &Client{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

// Close закрывает канал и соединение RabbitMQ
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("закрытие канала: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("закрытие соединения: %w", err))
		}
	}
	if len(errs) == 0 {
		c.logger.Info("RabbitMQ connection closed")
	}
	return errors.Join(errs...)
}

// PublishUserRegistered публикует событие о регистрации пользователя
func (c *Client) PublishUserRegistered(ctx context.Context, payload payloads.UserRegisteredPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("не удалось сериализовать событие: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",
		c.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    payload.RegisteredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("не удалось опубликовать событие: %w", err)
	}

	c.logger.Debug("user registered event published", "queue", c.queue.Name, "username", payload.Username)
	return nil
}

// StartConsumingUserRegistered начинает потребление событий регистрации.
// Обработка идет в отдельной горутине до отмены ctx или закрытия канала.
func (c *Client) StartConsumingUserRegistered(ctx context.Context, handler func(context.Context, payloads.UserRegisteredPayload) error) error {
	if err := c.channel.Qos(prefetchCount, 0, false); err != nil {
		return fmt.Errorf("не удалось настроить prefetch: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.queue.Name,
		"",
		false, // подтверждаем вручную
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("не удалось зарегистрировать потребителя: %w", err)
	}

	c.logger.Info("consumer registered", "queue", c.queue.Name)

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Info("RabbitMQ delivery channel closed, stopping consumer")
					return
				}
				handleDelivery(ctx, msg, handler, c.logger)
			case <-ctx.Done():
				c.logger.Info("context cancelled, stopping RabbitMQ consumer")
				return
			}
		}
	}()

	return nil
}

// handleDelivery разбирает сообщение и подтверждает его.
// Битое сообщение отбрасывается, ошибка обработки возвращает его в очередь один раз.
func handleDelivery(
	ctx context.Context,
	msg amqp.Delivery,
	handler func(context.Context, payloads.UserRegisteredPayload) error,
	logger *slog.Logger,
) {
	var payload payloads.UserRegisteredPayload
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		logger.Error("failed to unmarshal message, dropping", "error", err)
		if err := msg.Nack(false, false); err != nil {
			logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := handler(ctx, payload); err != nil {
		requeue := !msg.Redelivered
		logger.Error("failed to process message",
			"username", payload.Username,
			"requeue", requeue,
			"error", err,
		)
		if err := msg.Nack(false, requeue); err != nil {
			logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("failed to ack message", "error", err)
		return
	}
	logger.Debug("message processed", "username", payload.Username)
}
