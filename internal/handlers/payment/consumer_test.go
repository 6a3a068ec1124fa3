package payment_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"homefix/config"
	kafkaMocks "homefix/infras/kafka/mocks"
	"homefix/infras/otel/mocks"
	"homefix/internal/domains/booking/model"
	"homefix/internal/domains/booking/model/dto"
	serviceMocks "homefix/internal/domains/booking/service/mocks"
	"homefix/internal/handlers/payment"
	"homefix/shared/constant"
	"homefix/shared/failure"
)

func newConsumer(t *testing.T) (payment.Consumer, *serviceMocks.MockBooking, *kafkaMocks.MockClient) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockService := serviceMocks.NewMockBooking(ctrl)
	mockClient := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.ConsumerGroup = "homefix-booking"
	cfg.Kafka.PaymentTopic = "payment-results"

	return payment.New(mockClient, mockService, cfg, mocks.NewOtel()), mockService, mockClient
}

func TestConsumer_Handle(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		setupMock func(t *testing.T, svc *serviceMocks.MockBooking)
		retried   bool
	}{
		{
			name:  "paid result is recorded by the system actor",
			value: `{"booking_id":"b-1","payment_id":"pay-1","order_id":"order-1","status":"paid"}`,
			setupMock: func(t *testing.T, svc *serviceMocks.MockBooking) {
				svc.EXPECT().
					RecordPayment(gomock.Any(), gomock.Any(), "b-1", dto.PaymentRequest{PaymentID: "pay-1", OrderID: "order-1", Status: model.PaymentPaid}).
					DoAndReturn(func(_ context.Context, actor model.Actor, id string, _ dto.PaymentRequest) (dto.BookingResponse, error) {
						assert.Equal(t, constant.RoleSystem, actor.Role)

						return dto.BookingResponse{ID: id, PaymentStatus: model.PaymentPaid}, nil
					})
			},
		},
		{
			name:  "conflicting result is dropped",
			value: `{"booking_id":"b-1","status":"failed"}`,
			setupMock: func(t *testing.T, svc *serviceMocks.MockBooking) {
				svc.EXPECT().
					RecordPayment(gomock.Any(), gomock.Any(), "b-1", gomock.Any()).
					Return(dto.BookingResponse{}, failure.Conflict("cannot record failed payment on a paid payment"))
			},
		},
		{
			name:  "unknown booking is dropped",
			value: `{"booking_id":"b-9","status":"paid"}`,
			setupMock: func(t *testing.T, svc *serviceMocks.MockBooking) {
				svc.EXPECT().
					RecordPayment(gomock.Any(), gomock.Any(), "b-9", gomock.Any()).
					Return(dto.BookingResponse{}, failure.NotFound("booking not found"))
			},
		},
		{
			name:  "store outage is handed back for redelivery",
			value: `{"booking_id":"b-1","payment_id":"pay-1","status":"paid"}`,
			setupMock: func(t *testing.T, svc *serviceMocks.MockBooking) {
				svc.EXPECT().
					RecordPayment(gomock.Any(), gomock.Any(), "b-1", gomock.Any()).
					Return(dto.BookingResponse{}, failure.Transient(errors.New("connection refused")))
			},
			retried: true,
		},
		{
			name:  "malformed payload never reaches the service",
			value: `{"booking_id":`,
		},
		{
			name:  "non terminal status never reaches the service",
			value: `{"booking_id":"b-1","status":"authorized"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			consumer, mockService, _ := newConsumer(t)

			if tt.setupMock != nil {
				tt.setupMock(t, mockService)
			}

			err := consumer.Handle(context.Background(), kafkaGo.Message{Key: []byte("b-1"), Value: []byte(tt.value)})
			if tt.retried {
				assert.Equal(t, http.StatusServiceUnavailable, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestConsumer_Start(t *testing.T) {
	consumer, _, mockClient := newConsumer(t)

	mockClient.EXPECT().Consume(gomock.Any(), "homefix-booking", "payment-results", gomock.Any())

	consumer.Start(context.Background())
}
