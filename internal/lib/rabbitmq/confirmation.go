package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/radio-hosting/internal/models"
)

// ConfirmationPublisher публикует сообщения для писем подтверждения
// в обменник уведомлений.
type ConfirmationPublisher struct {
	ch *amqp.Channel
}

// NewConfirmationPublisher создает новый экземпляр ConfirmationPublisher.
func NewConfirmationPublisher(ch *amqp.Channel) *ConfirmationPublisher {
	return &ConfirmationPublisher{ch: ch}
}

// PublishConfirmation отправляет сообщение подтверждения регистрации.
func (p *ConfirmationPublisher) PublishConfirmation(msg models.ConfirmationMessage) error {
	return PublishMessage(p.ch, "notifications", "confirmation", msg)
}
