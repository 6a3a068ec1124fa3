package repository

import (
	"context"
	"fmt"
	"homefix/infras/memstore"
	"homefix/internal/domains/discount/model"
	"homefix/shared"
	gDto "homefix/shared/dto"
)

type memoryImpl struct {
	store *memstore.Store
}

func NewMemory(store *memstore.Store) Discount {
	return &memoryImpl{store: store}
}

func (r *memoryImpl) Insert(ctx context.Context, discount model.Discount) error {
	return r.store.Update(ctx, func(tx *memstore.Tx) error {
		if _, exists := tx.Get(model.TableName, discount.ID); exists {
			return fmt.Errorf("discount %s already exists", discount.ID)
		}

		if discount.Code != "" {
			for _, d := range memstore.TxListAs[model.Discount](tx, model.TableName) {
				if d.Code == discount.Code {
					return ErrDuplicateCode
				}
			}
		}

		tx.Put(model.TableName, discount.ID, discount)

		return nil
	})
}

func (r *memoryImpl) Get(_ context.Context, id string) (model.Discount, error) {
	discount, _ := memstore.GetAs[model.Discount](r.store, model.TableName, id)

	return discount, nil
}

func (r *memoryImpl) GetByCode(_ context.Context, code string) (model.Discount, error) {
	for _, d := range memstore.ListAs[model.Discount](r.store, model.TableName) {
		if d.Code == code {
			return d, nil
		}
	}

	return model.Discount{}, nil
}

func (r *memoryImpl) GetAll(_ context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Discount, error) {
	res := r.filter(filter)
	shared.SortByField(res, params.SortBy, params.SortDir)

	start, end := params.Bounds(len(res))

	return res[start:end], nil
}

func (r *memoryImpl) Count(_ context.Context, filter model.Filter) (int, error) {
	return len(r.filter(filter)), nil
}

func (r *memoryImpl) Update(ctx context.Context, id string, changes map[string]any) error {
	return r.store.Update(ctx, func(tx *memstore.Tx) error {
		discount, ok := memstore.TxGetAs[model.Discount](tx, model.TableName, id)
		if !ok {
			return fmt.Errorf("discount %s not found", id)
		}

		if err := shared.ApplyFields(&discount, changes); err != nil {
			return fmt.Errorf("failed to apply discount changes: %w", err)
		}

		tx.Put(model.TableName, id, discount)

		return nil
	})
}

func (r *memoryImpl) ListAutoApplied(_ context.Context, categoryID string) ([]model.Discount, error) {
	return withoutCode(r.filter(autoApplied(categoryID))), nil
}

func (r *memoryImpl) CountRedemptions(_ context.Context, discountID, userID string) (int, error) {
	return CountUserRedemptions(memstore.ListAs[model.Redemption](r.store, model.RedemptionTableName), discountID, userID), nil
}

func (r *memoryImpl) filter(filter model.Filter) []model.Discount {
	var res []model.Discount

	for _, d := range memstore.ListAs[model.Discount](r.store, model.TableName) {
		if matches(d, filter) {
			res = append(res, d)
		}
	}

	return res
}

// CountUserRedemptions counts the uses of discountID by userID in a redemption log.
func CountUserRedemptions(redemptions []model.Redemption, discountID, userID string) int {
	count := 0

	for _, r := range redemptions {
		if r.DiscountID == discountID && r.UserID == userID {
			count++
		}
	}

	return count
}
