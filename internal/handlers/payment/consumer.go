package payment

import (
	"context"
	"homefix/config"
	"homefix/infras/kafka"
	"homefix/infras/otel"
	"homefix/internal/domains/booking/model"
	"homefix/internal/domains/booking/model/dto"
	"homefix/internal/domains/booking/service"
	"homefix/shared/constant"
	"homefix/shared/failure"
	"homefix/shared/validator"
	"net/http"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Result is the message the payment gateway publishes once a payment settles.
type Result struct {
	BookingID string `json:"booking_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"omitempty,max=100"`
	OrderID   string `json:"order_id"   validate:"omitempty,max=100"`
	Status    string `json:"status"     validate:"required,oneof=paid failed refunded"`
}

var relay = model.Actor{ID: constant.ContextSystem, Name: "payment gateway", Role: constant.RoleSystem}

type Consumer struct {
	client  kafka.Client
	service service.Booking
	cfg     *config.Config
	otel    otel.Otel
}

func New(client kafka.Client, service service.Booking, cfg *config.Config, otel otel.Otel) Consumer {
	return Consumer{
		client:  client,
		service: service,
		cfg:     cfg,
		otel:    otel,
	}
}

// Start blocks until ctx is done.
func (c *Consumer) Start(ctx context.Context) {
	log.Info().Str("topic", c.cfg.Kafka.PaymentTopic).Msg("Starting payment result consumer")

	c.client.Consume(ctx, c.cfg.Kafka.ConsumerGroup, c.cfg.Kafka.PaymentTopic, c.Handle)
}

// Handle records one payment result. Messages that can never apply are logged and dropped;
// store failures are returned so the message is tried again.
func (c *Consumer) Handle(ctx context.Context, message kafkaGo.Message) error {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".PaymentResult")
	defer scope.End()

	result, err := kafka.DecodeKafkaMessage[Result](message)
	if err != nil {
		scope.TraceError(err)

		return nil
	}

	if err = validator.ValidateStruct(&result); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", string(message.Key)).Msg("invalid payment result")

		return nil
	}

	booking, err := c.service.RecordPayment(ctx, relay, result.BookingID, dto.PaymentRequest{
		PaymentID: result.PaymentID,
		OrderID:   result.OrderID,
		Status:    result.Status,
	})
	if err != nil {
		scope.TraceError(err)

		if failure.GetCode(err) >= http.StatusInternalServerError {
			log.Error().Err(err).Str("booking", result.BookingID).Str("status", result.Status).Msg("failed to record payment result, will retry")

			return err // nolint:wrapcheck
		}

		log.Warn().Err(err).Str("booking", result.BookingID).Str("status", result.Status).Msg("payment result rejected, dropping")

		return nil
	}

	scope.AddEvent("payment " + booking.PaymentStatus + " recorded for booking " + booking.ID)

	return nil
}
