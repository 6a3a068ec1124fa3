package kafka_test

import (
	"context"
	"errors"
	"homefix/infras/kafka"
	"homefix/infras/kafka/mocks"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type paymentResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

func TestMessageRoundTrip(t *testing.T) {
	msg := kafka.Message{Key: "bk-1", Value: paymentResult{BookingID: "bk-1", Status: "paid"}}

	encoded, err := msg.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("bk-1"), encoded.Key)
	assert.JSONEq(t, `{"booking_id":"bk-1","status":"paid"}`, string(encoded.Value))

	decoded, err := kafka.DecodeKafkaMessage[paymentResult](encoded)
	require.NoError(t, err)
	assert.Equal(t, "paid", decoded.Status)
}

func TestDecodeKafkaMessage_Invalid(t *testing.T) {
	_, err := kafka.DecodeKafkaMessage[paymentResult](kafkaGo.Message{Value: []byte("not-json")})
	assert.Error(t, err)
}

func TestToKafkaMessage_Unmarshalable(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage()
	assert.Error(t, err)
}

func fastBackOff() backoff.BackOff {
	return backoff.NewConstantBackOff(time.Millisecond)
}

func TestConsume_CommitsAfterHandlerSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockmessageReader(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msg := kafkaGo.Message{Key: []byte("bk-1"), Offset: 7}

	gomock.InOrder(
		reader.EXPECT().FetchMessage(gomock.Any()).Return(kafkaGo.Message{}, errors.New("broker unavailable")),
		reader.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil),
		reader.EXPECT().CommitMessages(gomock.Any(), msg).Return(nil),
		reader.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(func(context.Context) (kafkaGo.Message, error) {
			cancel()

			return kafkaGo.Message{}, context.Canceled
		}),
	)

	calls := 0
	handler := func(_ context.Context, got kafkaGo.Message) error {
		calls++
		assert.Equal(t, msg, got)

		if calls == 1 {
			return errors.New("store unavailable")
		}

		return nil
	}

	kafka.Consume(ctx, reader, "payment-results", handler, fastBackOff)

	assert.Equal(t, 2, calls)
}

func TestConsume_LeavesUnhandledMessageUncommitted(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockmessageReader(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader.EXPECT().FetchMessage(gomock.Any()).Return(kafkaGo.Message{Offset: 3}, nil)

	calls := 0
	handler := func(context.Context, kafkaGo.Message) error {
		calls++

		if calls == 3 {
			cancel()
		}

		return errors.New("store unavailable")
	}

	kafka.Consume(ctx, reader, "payment-results", handler, fastBackOff)

	assert.Equal(t, 3, calls)
}
