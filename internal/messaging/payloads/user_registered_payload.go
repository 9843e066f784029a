package payloads

import "time"

// UserRegisteredPayload представляет событие о создании нового пользователя,
// публикуется в RabbitMQ после успешной регистрации.
type UserRegisteredPayload struct {
	Username     string    `json:"username"`
	Referal      string    `json:"referal,omitempty"`
	HasAvatar    bool      `json:"has_avatar"`
	RegisteredAt time.Time `json:"registered_at"`
}
