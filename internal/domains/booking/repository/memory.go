package repository

import (
	"cmp"
	"context"
	"fmt"
	"homefix/infras/memstore"
	"homefix/internal/domains/booking/model"
	discountModel "homefix/internal/domains/discount/model"
	discountRepo "homefix/internal/domains/discount/repository"
	"homefix/shared"
	gDto "homefix/shared/dto"
	"homefix/shared/timezone"
	"slices"
)

type memoryImpl struct {
	store *memstore.Store
}

// NewMemory keeps bookings in store. Discounts must live in the same store for claims to
// be redeemed atomically.
func NewMemory(store *memstore.Store) Booking {
	return &memoryImpl{store: store}
}

func (r *memoryImpl) Insert(ctx context.Context, booking model.Booking, claim *discountModel.Claim) error {
	return r.store.Update(ctx, func(tx *memstore.Tx) error {
		if _, exists := tx.Get(model.TableName, booking.ID); exists {
			return fmt.Errorf("booking %s already exists", booking.ID)
		}

		if claim != nil {
			if err := redeem(tx, claim); err != nil {
				return err
			}
		}

		tx.Put(model.TableName, booking.ID, booking)

		return nil
	})
}

func redeem(tx *memstore.Tx, claim *discountModel.Claim) error {
	redemption := claim.Redemption

	discount, ok := memstore.TxGetAs[discountModel.Discount](tx, discountModel.TableName, redemption.DiscountID)
	if !ok || !discount.IsActive || discount.Exhausted() {
		return ErrRedemptionUnavailable
	}

	if claim.PerUserLimit > 0 {
		used := discountRepo.CountUserRedemptions(
			memstore.TxListAs[discountModel.Redemption](tx, discountModel.RedemptionTableName),
			redemption.DiscountID, redemption.UserID,
		)
		if used >= claim.PerUserLimit {
			return ErrRedemptionUnavailable
		}
	}

	discount.UsageCount++
	discount.ModifiedAt = timezone.Now()

	tx.Put(discountModel.TableName, discount.ID, discount)
	tx.Put(discountModel.RedemptionTableName, redemption.ID, redemption)

	return nil
}

func (r *memoryImpl) Get(_ context.Context, id string) (model.Booking, error) {
	booking, _ := memstore.GetAs[model.Booking](r.store, model.TableName, id)

	return booking, nil
}

func (r *memoryImpl) GetAll(_ context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Booking, error) {
	res := r.filter(filter)
	shared.SortByField(res, params.SortBy, params.SortDir)

	start, end := params.Bounds(len(res))

	return res[start:end], nil
}

func (r *memoryImpl) Count(_ context.Context, filter model.Filter) (int, error) {
	return len(r.filter(filter)), nil
}

func (r *memoryImpl) filter(filter model.Filter) []model.Booking {
	var res []model.Booking

	for _, b := range memstore.ListAs[model.Booking](r.store, model.TableName) {
		if filter.Matches(b) {
			res = append(res, b)
		}
	}

	return res
}

func (r *memoryImpl) CompareAndSwap(ctx context.Context, id string, guard model.Guard, changes map[string]any, entry *model.RescheduleEntry) (model.Booking, bool, error) {
	var (
		booking model.Booking
		swapped bool
	)

	err := r.store.Update(ctx, func(tx *memstore.Tx) error {
		current, ok := memstore.TxGetAs[model.Booking](tx, model.TableName, id)
		if !ok {
			return nil
		}

		booking = current

		if !guard.Holds(current) {
			return nil
		}

		if err := shared.ApplyFields(&booking, changes); err != nil {
			return fmt.Errorf("failed to apply booking changes: %w", err)
		}

		tx.Put(model.TableName, id, booking)

		if entry != nil {
			tx.Put(model.RescheduleTableName, entry.ID, *entry)
		}

		swapped = true

		return nil
	})
	if err != nil {
		return model.Booking{}, false, err //nolint:wrapcheck
	}

	return booking, swapped, nil
}

func (r *memoryImpl) Reschedules(_ context.Context, bookingID string) ([]model.RescheduleEntry, error) {
	var entries []model.RescheduleEntry

	for _, entry := range memstore.ListAs[model.RescheduleEntry](r.store, model.RescheduleTableName) {
		if entry.BookingID == bookingID {
			entries = append(entries, entry)
		}
	}

	slices.SortFunc(entries, func(a, b model.RescheduleEntry) int {
		return cmp.Compare(a.RescheduledOn.UnixNano(), b.RescheduledOn.UnixNano())
	})

	return entries, nil
}
