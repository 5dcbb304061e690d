// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля, адрес кошелька и флаги
// одобрения и администратора. Структура используется в бизнес-логике
// и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// Хэш пароля никогда не сериализуется в JSON-ответы.
// WalletAddress опционален и уникален среди заполненных значений.
type User struct {
	ID            string    `json:"id"`            // Уникальный идентификатор пользователя (UUID)
	Name          string    `json:"name"`          // Отображаемое имя
	Email         string    `json:"email"`         // Электронная почта, ключ для входа
	PasswordHash  string    `json:"-"`             // Хэш пароля пользователя
	WalletAddress *string   `json:"walletAddress"` // Адрес блокчейн-кошелька, nil если не привязан
	IsApproved    bool      `json:"isApproved"`    // Одобрен ли пользователь администратором
	IsAdmin       bool      `json:"isAdmin"`       // Является ли пользователь администратором
	CreatedAt     time.Time `json:"createdAt"`     // Момент регистрации
}

// PublicProfile возвращает поля пользователя, отдаваемые в ответах
// login и by-wallet, вместе с токеном.
type PublicProfile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Public формирует публичный профиль пользователя.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		Name:    u.Name,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	}
}
