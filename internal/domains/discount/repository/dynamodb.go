package repository

import (
	"context"
	"fmt"
	"homefix/config"
	dynamoInfra "homefix/infras/dynamodb"
	"homefix/infras/otel"
	"homefix/internal/domains/discount/model"
	"homefix/shared"
	"homefix/shared/constant"
	gDto "homefix/shared/dto"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const (
	counterPrefix        = "counter#"
	FieldRedemptionCount = "redemption_count"
)

// Counter is the per user redemption tally kept next to the redemption items, so the
// per user limit can be enforced by a condition inside a transaction.
type Counter struct {
	ID              string `db:"id"`
	RedemptionCount int    `db:"redemption_count"`
}

func CounterID(discountID, userID string) string {
	return counterPrefix + discountID + "#" + userID
}

type dynamoImpl struct {
	client           *dynamodb.Client
	otel             otel.Otel
	table            string
	redemptionsTable string
}

func NewDynamoDB(client *dynamodb.Client, cfg *config.Config, otel otel.Otel) Discount {
	return &dynamoImpl{
		client:           client,
		otel:             otel,
		table:            cfg.DB.DynamoDB.Tables.Discounts,
		redemptionsTable: cfg.DB.DynamoDB.Tables.Redemptions,
	}
}

func (r *dynamoImpl) scope(ctx context.Context, name string) (context.Context, otel.Scope) {
	return r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+"."+name)
}

func (r *dynamoImpl) Insert(ctx context.Context, discount model.Discount) error {
	ctx, scope := r.scope(ctx, "Insert")
	defer scope.End()

	if discount.Code != "" {
		existing, err := r.GetByCode(ctx, discount.Code)
		if err != nil {
			return err
		}

		if existing.ID != constant.Empty {
			return ErrDuplicateCode
		}
	}

	item, err := dynamoInfra.MarshalMap(discount)
	if err != nil {
		return fmt.Errorf("failed to marshal discount: %w", err)
	}

	expr := dynamoInfra.NewExpression()
	condition := expr.NotExists(model.FieldID)

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.table),
		Item:                     item,
		ConditionExpression:      aws.String(condition),
		ExpressionAttributeNames: expr.NameMap(),
	})
	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to insert discount: %w", err)
	}

	return nil
}

func (r *dynamoImpl) Get(ctx context.Context, id string) (model.Discount, error) {
	ctx, scope := r.scope(ctx, "Get")
	defer scope.End()

	var discount model.Discount

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            dynamoInfra.StringKey(model.FieldID, id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		scope.TraceError(err)

		return discount, fmt.Errorf("failed to get discount: %w", err)
	}

	if out.Item == nil {
		return discount, nil
	}

	if err = dynamoInfra.UnmarshalMap(out.Item, &discount); err != nil {
		return discount, fmt.Errorf("failed to unmarshal discount: %w", err)
	}

	return discount, nil
}

func (r *dynamoImpl) GetByCode(ctx context.Context, code string) (model.Discount, error) {
	discounts, err := r.scan(ctx, model.Filter{Code: code})
	if err != nil || len(discounts) == 0 {
		return model.Discount{}, err
	}

	return discounts[0], nil
}

func (r *dynamoImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Discount, error) {
	discounts, err := r.scan(ctx, filter)
	if err != nil {
		return nil, err
	}

	shared.SortByField(discounts, params.SortBy, params.SortDir)

	start, end := params.Bounds(len(discounts))

	return discounts[start:end], nil
}

func (r *dynamoImpl) Count(ctx context.Context, filter model.Filter) (int, error) {
	discounts, err := r.scan(ctx, filter)

	return len(discounts), err
}

func (r *dynamoImpl) Update(ctx context.Context, id string, changes map[string]any) error {
	ctx, scope := r.scope(ctx, "Update")
	defer scope.End()

	expr := dynamoInfra.NewExpression()

	update, err := expr.Set(changes)
	if err != nil {
		return err //nolint:wrapcheck
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       dynamoInfra.StringKey(model.FieldID, id),
		UpdateExpression:          aws.String(update),
		ConditionExpression:       aws.String(expr.Exists(model.FieldID)),
		ExpressionAttributeNames:  expr.NameMap(),
		ExpressionAttributeValues: expr.ValueMap(),
	})
	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to update discount: %w", err)
	}

	return nil
}

func (r *dynamoImpl) ListAutoApplied(ctx context.Context, categoryID string) ([]model.Discount, error) {
	discounts, err := r.scan(ctx, autoApplied(categoryID))
	if err != nil {
		return nil, err
	}

	return withoutCode(discounts), nil
}

func (r *dynamoImpl) CountRedemptions(ctx context.Context, discountID, userID string) (int, error) {
	ctx, scope := r.scope(ctx, "CountRedemptions")
	defer scope.End()

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.redemptionsTable),
		Key:            dynamoInfra.StringKey(model.FieldID, CounterID(discountID, userID)),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to get redemption counter: %w", err)
	}

	if out.Item == nil {
		return 0, nil
	}

	var counter Counter
	if err = dynamoInfra.UnmarshalMap(out.Item, &counter); err != nil {
		return 0, fmt.Errorf("failed to unmarshal redemption counter: %w", err)
	}

	return counter.RedemptionCount, nil
}

// scan reads the whole table and filters in process. Discount tables stay small; a
// category index is the next step if that changes.
func (r *dynamoImpl) scan(ctx context.Context, filter model.Filter) ([]model.Discount, error) {
	ctx, scope := r.scope(ctx, "scan")
	defer scope.End()

	var res []model.Discount

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:      aws.String(r.table),
		ConsistentRead: aws.Bool(true),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			scope.TraceError(err)

			return nil, fmt.Errorf("failed to scan discounts: %w", err)
		}

		var discounts []model.Discount
		if err = dynamoInfra.UnmarshalListOfMaps(page.Items, &discounts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal discounts: %w", err)
		}

		for _, d := range discounts {
			if matches(d, filter) {
				res = append(res, d)
			}
		}
	}

	return res, nil
}
