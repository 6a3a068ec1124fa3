package repository

import (
	"context"
	"errors"
	"fmt"
	"homefix/infras/otel"
	"homefix/infras/postgres"
	"homefix/internal/domains/discount/model"
	"homefix/shared"
	"homefix/shared/constant"
	gDto "homefix/shared/dto"
	gRepo "homefix/shared/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresImpl struct {
	gRepo.Repository[model.Discount]
	redemptions gRepo.Repository[model.Redemption]
}

func NewPostgres(db *postgres.Connection, otel otel.Otel) Discount {
	return &postgresImpl{
		Repository:  gRepo.NewRepository[model.Discount](model.EntityName, model.TableName, model.FieldID, db, otel),
		redemptions: gRepo.NewRepository[model.Redemption](model.RedemptionEntityName, model.RedemptionTableName, model.FieldID, db, otel),
	}
}

func (r *postgresImpl) Insert(ctx context.Context, discount model.Discount) error {
	err := r.Repository.Insert(ctx, discount)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeUniqueViolation {
		return ErrDuplicateCode
	}

	return err //nolint:wrapcheck
}

// Ids are UUID columns, so an id that does not parse cannot match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)

	return err == nil
}

func (r *postgresImpl) Get(ctx context.Context, id string) (model.Discount, error) {
	if !validID(id) {
		return model.Discount{}, nil
	}

	return r.Repository.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName)) //nolint:wrapcheck
}

func (r *postgresImpl) GetByCode(ctx context.Context, code string) (model.Discount, error) {
	return r.Repository.Get(ctx, shared.FilterByID(code, model.FieldCode, model.TableName)) //nolint:wrapcheck
}

func (r *postgresImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Discount, error) {
	return r.Repository.GetAll(ctx, params, filterGroup(filter)) //nolint:wrapcheck
}

func (r *postgresImpl) Count(ctx context.Context, filter model.Filter) (int, error) {
	return r.Repository.Count(ctx, filterGroup(filter)) //nolint:wrapcheck
}

func (r *postgresImpl) Update(ctx context.Context, id string, changes map[string]any) error {
	if !validID(id) {
		return nil
	}

	return r.Repository.Update(ctx, changes, shared.FilterByID(id, model.FieldID, model.TableName)) //nolint:wrapcheck
}

func (r *postgresImpl) ListAutoApplied(ctx context.Context, categoryID string) ([]model.Discount, error) {
	group := filterGroup(autoApplied(categoryID))
	group.Filters = append(group.Filters, gDto.Filter{
		Field:    model.FieldCode,
		Value:    constant.Empty,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})

	return r.Repository.GetAll(ctx, gDto.QueryParams{}, group) //nolint:wrapcheck
}

func (r *postgresImpl) CountRedemptions(ctx context.Context, discountID, userID string) (int, error) {
	count, err := r.redemptions.Count(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldDiscountID, Value: discountID, Operator: gDto.FilterOperatorEq},
			gDto.Filter{Field: model.FieldUserID, Value: userID, Operator: gDto.FilterOperatorEq},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count redemptions: %w", err)
	}

	return count, nil
}

func filterGroup(filter model.Filter) gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if filter.Code != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldCode, Value: filter.Code, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if filter.CategoryID != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldCategoryID, Value: filter.CategoryID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if filter.IsActive != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldIsActive, Value: filter.IsActive == "true", Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return group
}
