package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"homefix/internal/domains/booking/model"
	discountModel "homefix/internal/domains/discount/model"
	gDto "homefix/shared/dto"
)

// ErrRedemptionUnavailable is returned by Insert when the claimed discount can no longer be
// redeemed: it was deactivated, hit its total limit, or the user hit the per user limit.
// Nothing is written in that case.
var ErrRedemptionUnavailable = errors.New("discount redemption unavailable")

// Booking is the document store behind the lifecycle. Get returns a zero Booking when the
// id is unknown.
type Booking interface {
	// Insert stores a new booking. A non-nil claim is redeemed in the same atomic unit.
	Insert(ctx context.Context, booking model.Booking, claim *discountModel.Claim) error
	Get(ctx context.Context, id string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Booking, error)
	Count(ctx context.Context, filter model.Filter) (int, error)
	// CompareAndSwap applies changes only while guard holds for the stored booking. It
	// returns the booking after the write when swapped, or the stored booking as found
	// (zero when missing) when not. A non-nil entry is recorded with the same write.
	CompareAndSwap(ctx context.Context, id string, guard model.Guard, changes map[string]any, entry *model.RescheduleEntry) (model.Booking, bool, error)
	Reschedules(ctx context.Context, bookingID string) ([]model.RescheduleEntry, error)
}
