package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"homefix/internal/domains/discount/model"
	gDto "homefix/shared/dto"
)

var ErrDuplicateCode = errors.New("discount code already exists")

// Discount reads and writes offers. Get and GetByCode return a zero Discount when nothing
// matches. Usage counters are only ever changed together with a booking insert.
type Discount interface {
	Insert(ctx context.Context, discount model.Discount) error
	Get(ctx context.Context, id string) (model.Discount, error)
	GetByCode(ctx context.Context, code string) (model.Discount, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Discount, error)
	Count(ctx context.Context, filter model.Filter) (int, error)
	Update(ctx context.Context, id string, changes map[string]any) error
	ListAutoApplied(ctx context.Context, categoryID string) ([]model.Discount, error)
	CountRedemptions(ctx context.Context, discountID, userID string) (int, error)
}

// autoApplied is the filter every backend uses for offers that need no code.
func autoApplied(categoryID string) model.Filter {
	return model.Filter{CategoryID: categoryID, IsActive: "true"}
}

func matches(d model.Discount, filter model.Filter) bool {
	if filter.Code != "" && d.Code != filter.Code {
		return false
	}

	if filter.CategoryID != "" && d.CategoryID != filter.CategoryID {
		return false
	}

	if filter.IsActive != "" && (filter.IsActive == "true") != d.IsActive {
		return false
	}

	return true
}

func withoutCode(discounts []model.Discount) []model.Discount {
	res := make([]model.Discount, 0, len(discounts))

	for _, d := range discounts {
		if d.Code == "" {
			res = append(res, d)
		}
	}

	return res
}
