package notifier

//go:generate go run go.uber.org/mock/mockgen -source=./notifier.go -destination=../mocks/notifier_mock.go -package=mocks

import (
	"context"
	"fmt"
	"homefix/config"
	"homefix/infras/kafka"
	"homefix/infras/rabbitmq"
	"homefix/internal/domains/notification/model"

	"github.com/rs/zerolog/log"
)

// Notifier hands an event to the delivery service. It does not wait for delivery.
type Notifier interface {
	Notify(ctx context.Context, event model.Event) error
}

type kafkaNotifier struct {
	client kafka.Client
	topic  string
}

// NewKafka publishes events keyed by booking id so one booking's events stay ordered.
func NewKafka(client kafka.Client, cfg *config.Config) Notifier {
	return &kafkaNotifier{client: client, topic: cfg.Notification.Topic}
}

func (n *kafkaNotifier) Notify(ctx context.Context, event model.Event) error {
	if err := n.client.SendMessages(ctx, n.topic, kafka.Message{Key: event.BookingID, Value: event}); err != nil {
		return fmt.Errorf("failed to publish %s to kafka: %w", event.Type, err)
	}

	return nil
}

type rabbitNotifier struct {
	publisher rabbitmq.Publisher
}

// NewRabbitMQ publishes events with the event type as routing key.
func NewRabbitMQ(publisher rabbitmq.Publisher) Notifier {
	return &rabbitNotifier{publisher: publisher}
}

func (n *rabbitNotifier) Notify(ctx context.Context, event model.Event) error {
	if err := n.publisher.PublishJSON(ctx, event.Type, event); err != nil {
		return fmt.Errorf("failed to publish %s to rabbitmq: %w", event.Type, err)
	}

	return nil
}

type logNotifier struct{}

func NewLog() Notifier {
	return logNotifier{}
}

func (logNotifier) Notify(_ context.Context, event model.Event) error {
	log.Info().
		Str("type", event.Type).
		Str("booking", event.BookingID).
		Str("from", event.FromStatus).
		Str("to", event.ToStatus).
		Str("actor", event.Actor.ID).
		Strs("recipients", event.Recipients).
		Msg("booking notification")

	return nil
}
