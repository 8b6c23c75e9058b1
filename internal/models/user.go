// Package models содержит доменные структуры пользователя и радиостанции,
// а также вспомогательные Dummy-типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя сервиса.
// Email — ключ пользователя во всех хранилищах; отдельного ID нет.
type User struct {
	Email               string     `json:"email"`                         // Электронная почта (уникальный ключ)
	PasswordHash        string     `json:"-"`                             // Bcrypt-хэш пароля, наружу не отдается
	Confirmed           bool       `json:"confirmed"`                     // Подтверждён ли email
	Tier                string     `json:"tier"`                          // Тариф: Free, Silver или Gold
	SubscriptionEndDate *time.Time `json:"subscriptionEndDate,omitempty"` // Дата окончания платной подписки, nil для Free
	UpdatesUsed         int        `json:"updatesUsed"`                   // Сколько обновлений станции израсходовано за сутки
	Disabled            bool       `json:"disabled"`                      // Аккаунт заблокирован за нарушение политики
}

// DummyCredentials используется для приёма данных регистрации и входа.
// Пароль может содержать любые символы, кроме пробела.
type DummyCredentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,excludesall= "`
}

// DummyTierChange используется для приёма запроса смены тарифа.
type DummyTierChange struct {
	Tier string `json:"tier" validate:"required,oneof=Free Silver Gold"`
}

// ConfirmationMessage — сообщение для очереди уведомлений о регистрации.
// Потребитель отправляет письмо со ссылкой подтверждения.
type ConfirmationMessage struct {
	Email           string `json:"email"`
	ConfirmationURL string `json:"confirmation_url"`
}
