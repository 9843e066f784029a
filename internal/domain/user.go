// internal/domain/user.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User представляет модель пользователя в системе.
// Соответствует таблице (коллекции) 'users' в хранилище.
// Referal хранит username пригласившего пользователя, пустая строка если регистрация без инвайта.
type User struct {
	ID             uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Username       string    `json:"username" db:"username" gorm:"uniqueIndex;not null"`
	PasswordHash   string    `json:"-" db:"password_hash" gorm:"not null"`
	ProfilePicture string    `json:"profilePicture,omitempty" db:"profile_picture"`
	Referal        string    `json:"referal,omitempty" db:"referal" gorm:"index"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasInviter сообщает, пришел ли пользователь по инвайт-ссылке
func (u *User) HasInviter() bool {
	return u.Referal != ""
}
