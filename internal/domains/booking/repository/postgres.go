package repository

import (
	"context"
	"fmt"
	"homefix/infras/otel"
	"homefix/infras/postgres"
	"homefix/internal/domains/booking/model"
	discountModel "homefix/internal/domains/discount/model"
	"homefix/shared"
	"homefix/shared/constant"
	gDto "homefix/shared/dto"
	gRepo "homefix/shared/repository"
	"homefix/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// claimDiscountQuery takes the discount row lock, so concurrent claims on one discount
// run one after another and the per user count below is stable.
const claimDiscountQuery = `UPDATE discounts
SET usage_count = usage_count + 1, modified_at = :modified_at
WHERE id = :discount_id AND is_active AND (usage_limit = 0 OR usage_count < usage_limit)`

const insertRedemptionQuery = `INSERT INTO discount_redemptions (id, discount_id, user_id, booking_id, discount_amount, redeemed_at)
SELECT :id, :discount_id, :user_id, :booking_id, CAST(:discount_amount AS BIGINT), CAST(:redeemed_at AS TIMESTAMPTZ)
WHERE CAST(:per_user_limit AS INTEGER) = 0
   OR (SELECT COUNT(*) FROM discount_redemptions WHERE discount_id = :discount_id AND user_id = :user_id) < CAST(:per_user_limit AS INTEGER)`

type postgresImpl struct {
	gRepo.Repository[model.Booking]
	reschedules gRepo.Repository[model.RescheduleEntry]
	discounts   gRepo.Repository[discountModel.Discount]
	db          *postgres.Connection
	otel        otel.Otel
}

func NewPostgres(db *postgres.Connection, otel otel.Otel) Booking {
	return &postgresImpl{
		Repository:  gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		reschedules: gRepo.NewRepository[model.RescheduleEntry](model.RescheduleEntityName, model.RescheduleTableName, model.FieldID, db, otel),
		discounts:   gRepo.NewRepository[discountModel.Discount](discountModel.EntityName, discountModel.TableName, discountModel.FieldID, db, otel),
		db:          db,
		otel:        otel,
	}
}

func (r *postgresImpl) Insert(ctx context.Context, booking model.Booking, claim *discountModel.Claim) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Insert")
	defer scope.End()

	if claim == nil {
		return r.Repository.Insert(ctx, booking) //nolint:wrapcheck
	}

	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error { //nolint:wrapcheck
		if err := r.InsertTx(ctx, tx, booking); err != nil {
			return err //nolint:wrapcheck
		}

		redemption := claim.Redemption

		claimed, err := r.discounts.ExecTx(ctx, tx, claimDiscountQuery, map[string]any{
			"discount_id": redemption.DiscountID,
			"modified_at": timezone.Now(),
		})
		if err != nil {
			return err //nolint:wrapcheck
		}

		if claimed == 0 {
			return ErrRedemptionUnavailable
		}

		recorded, err := r.discounts.ExecTx(ctx, tx, insertRedemptionQuery, map[string]any{
			"id":              redemption.ID,
			"discount_id":     redemption.DiscountID,
			"user_id":         redemption.UserID,
			"booking_id":      redemption.BookingID,
			"discount_amount": redemption.DiscountAmount,
			"redeemed_at":     redemption.RedeemedAt,
			"per_user_limit":  claim.PerUserLimit,
		})
		if err != nil {
			return err //nolint:wrapcheck
		}

		if recorded == 0 {
			return ErrRedemptionUnavailable
		}

		return nil
	})
}

// Ids are UUID columns, so an id that does not parse cannot match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)

	return err == nil
}

func (r *postgresImpl) Get(ctx context.Context, id string) (model.Booking, error) {
	if !validID(id) {
		return model.Booking{}, nil
	}

	return r.Repository.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName)) //nolint:wrapcheck
}

func (r *postgresImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Booking, error) {
	return r.Repository.GetAll(ctx, params, filterGroup(filter)) //nolint:wrapcheck
}

func (r *postgresImpl) Count(ctx context.Context, filter model.Filter) (int, error) {
	return r.Repository.Count(ctx, filterGroup(filter)) //nolint:wrapcheck
}

func (r *postgresImpl) CompareAndSwap(ctx context.Context, id string, guard model.Guard, changes map[string]any, entry *model.RescheduleEntry) (model.Booking, bool, error) {
	if !validID(id) {
		return model.Booking{}, false, nil
	}

	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CompareAndSwap")
	defer scope.End()

	var updated []model.Booking

	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var err error

		updated, err = r.UpdateReturningTx(ctx, tx, changes, guardFilter(id, guard))
		if err != nil {
			return err //nolint:wrapcheck
		}

		if len(updated) == 0 || entry == nil {
			return nil
		}

		return r.reschedules.InsertTx(ctx, tx, *entry) //nolint:wrapcheck
	})
	if err != nil {
		scope.TraceError(err)

		return model.Booking{}, false, fmt.Errorf("failed to swap booking %s: %w", id, err)
	}

	if len(updated) > 0 {
		return updated[0], true, nil
	}

	current, err := r.Get(ctx, id)
	if err != nil {
		return model.Booking{}, false, err
	}

	return current, false, nil
}

func (r *postgresImpl) Reschedules(ctx context.Context, bookingID string) ([]model.RescheduleEntry, error) {
	if !validID(bookingID) {
		return nil, nil
	}

	params := gDto.QueryParams{SortBy: model.FieldRescheduledOn, SortDir: gDto.SortDirAsc}

	return r.reschedules.GetAll(ctx, params, gDto.FilterGroup{ //nolint:wrapcheck
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Value: bookingID, Operator: gDto.FilterOperatorEq},
		},
	})
}

func filterGroup(filter model.Filter) gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	add := func(field, value string) {
		if value != constant.Empty {
			group.Filters = append(group.Filters, gDto.Filter{Field: field, Value: value, Operator: gDto.FilterOperatorEq, Table: model.TableName})
		}
	}

	add(model.FieldCustomerID, filter.CustomerID)
	add(model.FieldTechnicianID, filter.TechnicianID)
	add(model.FieldStatus, filter.Status)
	add(model.FieldPaymentStatus, filter.PaymentStatus)
	add(model.FieldScheduledDate, filter.ScheduledDate)

	return group
}

func guardFilter(id string, guard model.Guard) gDto.FilterGroup {
	group := shared.FilterByID(id, model.FieldID, model.TableName)
	group.Operator = gDto.FilterGroupOperatorAnd

	if len(guard.Statuses) > 0 {
		group.Filters = append(group.Filters, gDto.Filter{ArgName: "guard_status", Field: model.FieldStatus, Value: guard.Statuses, Operator: gDto.FilterOperatorIn, Table: model.TableName})
	}

	if len(guard.PaymentStatuses) > 0 {
		group.Filters = append(group.Filters, gDto.Filter{ArgName: "guard_payment_status", Field: model.FieldPaymentStatus, Value: guard.PaymentStatuses, Operator: gDto.FilterOperatorIn, Table: model.TableName})
	}

	if guard.ScheduledDate != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{ArgName: "guard_date", Field: model.FieldScheduledDate, Value: guard.ScheduledDate, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if guard.TimeSlot != constant.Empty {
		group.Filters = append(group.Filters, gDto.Filter{ArgName: "guard_slot", Field: model.FieldTimeSlot, Value: guard.TimeSlot, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return group
}
