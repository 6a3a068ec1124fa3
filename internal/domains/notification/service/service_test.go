package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "homefix/infras/otel/mocks"
	"homefix/internal/domains/notification/mocks"
	"homefix/internal/domains/notification/model"
	"homefix/internal/domains/notification/service"
	"homefix/shared/constant"
)

func TestDispatcher_Dispatch(t *testing.T) {
	t.Run("fills id, time and recipients", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		notifier := mocks.NewMockNotifier(ctrl)

		notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, event model.Event) error {
			assert.NotEmpty(t, event.ID)
			assert.False(t, event.OccurredAt.IsZero())
			assert.Equal(t, []string{constant.RoleCustomer, constant.RoleTechnician}, event.Recipients)

			return nil
		})

		service.New(notifier, otelMocks.NewOtel()).Dispatch(context.Background(), model.Event{
			Type:      model.TypeBookingConfirmed,
			BookingID: "b-1",
		})
	})

	t.Run("delivery failure is swallowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		notifier := mocks.NewMockNotifier(ctrl)

		notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		assert.NotPanics(t, func() {
			service.New(notifier, otelMocks.NewOtel()).Dispatch(context.Background(), model.Event{Type: model.TypeBookingCancelled})
		})
	})

	t.Run("cancelled request context does not stop delivery", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		notifier := mocks.NewMockNotifier(ctrl)

		notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ model.Event) error {
			assert.NoError(t, ctx.Err())

			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		service.New(notifier, otelMocks.NewOtel()).Dispatch(ctx, model.Event{Type: model.TypeBookingCompleted})
	})
}
