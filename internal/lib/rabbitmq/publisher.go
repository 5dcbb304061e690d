package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// AuditExchange имя exchange, в который публикуются события аудита.
const AuditExchange = "audit"

// Routing keys событий аудита.
const (
	KeyUserRegistered   = "user.registered"
	KeyUserApproved     = "user.approved"
	KeyAdminTransferred = "admin.transferred"
)

// AuditEvent описывает запись аудита, отправляемую в очередь.
//
// Actor — инициатор действия (email либо идентификатор администратора),
// Subject — затронутый пользователь.
type AuditEvent struct {
	Action     string    `json:"action"`
	Actor      string    `json:"actor,omitempty"`
	Subject    string    `json:"subject"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher публикует события аудита в RabbitMQ.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// Publish сериализует событие в JSON и публикует его с заданным routing key.
func (p *Publisher) Publish(routingKey string, event AuditEvent) error {
	const op = "rabbitmq.Publish"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		AuditExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
