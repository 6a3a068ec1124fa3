package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"homefix/infras/otel"
	"homefix/internal/domains/notification/model"
	"homefix/internal/domains/notification/notifier"
	"homefix/shared/constant"
	"homefix/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const dispatchTimeout = 3 * time.Second

// Dispatcher delivers booking events on a best effort basis. Failures are logged and never
// reach the caller, whose change is already stored.
type Dispatcher interface {
	Dispatch(ctx context.Context, event model.Event)
}

type dispatcherImpl struct {
	notifier notifier.Notifier
	otel     otel.Otel
}

func New(notifier notifier.Notifier, otel otel.Otel) Dispatcher {
	return &dispatcherImpl{
		notifier: notifier,
		otel:     otel,
	}
}

func (d *dispatcherImpl) Dispatch(ctx context.Context, event model.Event) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Dispatch")
	defer scope.End()

	if event.ID == constant.Empty {
		event.ID = uuid.NewString()
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = timezone.Now()
	}

	if len(event.Recipients) == 0 {
		event.Recipients = model.RecipientsFor(event.Type)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	defer cancel()

	if err := d.notifier.Notify(ctx, event); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("type", event.Type).Str("booking", event.BookingID).Msg("failed to dispatch notification")

		return
	}

	scope.AddEvent("notification dispatched: " + event.Type)
}
