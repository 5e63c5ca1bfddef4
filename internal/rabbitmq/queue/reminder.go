package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/retry"

	"github.com/aliskhannn/reminder-notifier/internal/config"
	"github.com/aliskhannn/reminder-notifier/internal/model"
)

// ReminderSentMessage is published once a reminder has been pushed to the live subscribers
// and marked SENT.
type ReminderSentMessage struct {
	ID      uuid.UUID    `json:"id"`
	DueAt   time.Time    `json:"due_at"`
	Message string       `json:"message"`
	Method  model.Method `json:"method"`
	SentAt  time.Time    `json:"sent_at"`
}

// NewReminderSentMessage builds the message for a reminder that has just transitioned to SENT.
func NewReminderSentMessage(r model.Reminder) ReminderSentMessage {
	return ReminderSentMessage{
		ID:      r.ID,
		DueAt:   r.DueAt,
		Message: r.Message,
		Method:  r.Method,
		SentAt:  r.UpdatedAt,
	}
}

// ReminderQueue publishes sent-reminder events to a direct exchange with one durable queue bound to it.
type ReminderQueue struct {
	Publisher  *rabbitmq.Publisher
	routingKey string
}

// NewReminderQueue declares the exchange and queue from cfg and returns a publisher bound to them.
func NewReminderQueue(ch *rabbitmq.Channel, cfg *config.Config) (*ReminderQueue, error) {
	exchange := rabbitmq.NewExchange(cfg.RabbitMQ.Exchange, "direct")
	if err := exchange.BindToChannel(ch); err != nil {
		return nil, fmt.Errorf("failed to bind to exchange: %w", err)
	}

	qm := rabbitmq.NewQueueManager(ch)

	q, err := qm.DeclareQueue(cfg.RabbitMQ.Queue, rabbitmq.QueueConfig{Durable: true})
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, cfg.RabbitMQ.RoutingKey, exchange.Name(), false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind the exchange to the queue: %w", err)
	}

	pub := rabbitmq.NewPublisher(ch, exchange.Name())

	return &ReminderQueue{Publisher: pub, routingKey: cfg.RabbitMQ.RoutingKey}, nil
}

// Publish sends msg as JSON using the configured routing key.
func (q *ReminderQueue) Publish(msg ReminderSentMessage, strategy retry.Strategy) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.Publisher.PublishWithRetry(body, q.routingKey, "application/json", strategy)
}
