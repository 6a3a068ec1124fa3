package repository

import (
	"cmp"
	"context"
	"fmt"
	"homefix/config"
	dynamoInfra "homefix/infras/dynamodb"
	"homefix/infras/otel"
	"homefix/internal/domains/booking/model"
	discountModel "homefix/internal/domains/discount/model"
	discountRepo "homefix/internal/domains/discount/repository"
	"homefix/shared"
	"homefix/shared/constant"
	gDto "homefix/shared/dto"
	"homefix/shared/timezone"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Positions of the writes in the redemption transaction.
const (
	claimItemDiscount = 1
	claimItemCounter  = 2
)

type dynamoImpl struct {
	client      *dynamodb.Client
	otel        otel.Otel
	table       string
	reschedules string
	discounts   string
	redemptions string
}

func NewDynamoDB(client *dynamodb.Client, cfg *config.Config, otel otel.Otel) Booking {
	tables := cfg.DB.DynamoDB.Tables

	return &dynamoImpl{
		client:      client,
		otel:        otel,
		table:       tables.Bookings,
		reschedules: tables.Reschedules,
		discounts:   tables.Discounts,
		redemptions: tables.Redemptions,
	}
}

func (r *dynamoImpl) scope(ctx context.Context, name string) (context.Context, otel.Scope) {
	return r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+"."+name)
}

func (r *dynamoImpl) putNew(table string, doc any) (*types.Put, error) {
	item, err := dynamoInfra.MarshalMap(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item for %s: %w", table, err)
	}

	expr := dynamoInfra.NewExpression()

	return &types.Put{
		TableName:                aws.String(table),
		Item:                     item,
		ConditionExpression:      aws.String(expr.NotExists(model.FieldID)),
		ExpressionAttributeNames: expr.NameMap(),
	}, nil
}

func (r *dynamoImpl) Insert(ctx context.Context, booking model.Booking, claim *discountModel.Claim) error {
	ctx, scope := r.scope(ctx, "Insert")
	defer scope.End()

	put, err := r.putNew(r.table, booking)
	if err != nil {
		return err
	}

	if claim == nil {
		_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:                put.TableName,
			Item:                     put.Item,
			ConditionExpression:      put.ConditionExpression,
			ExpressionAttributeNames: put.ExpressionAttributeNames,
		})
		if err != nil {
			scope.TraceError(err)

			return fmt.Errorf("failed to insert booking: %w", err)
		}

		return nil
	}

	items, err := r.claimItems(claim)
	if err != nil {
		return err
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: append([]types.TransactWriteItem{{Put: put}}, items...),
	})
	if err == nil {
		return nil
	}

	scope.TraceError(err)

	if failed, ok := dynamoInfra.FailedConditions(err); ok {
		if slices.Contains(failed, claimItemDiscount) || slices.Contains(failed, claimItemCounter) {
			return ErrRedemptionUnavailable
		}
	}

	return fmt.Errorf("failed to insert booking with redemption: %w", err)
}

// claimItems builds the discount counter increment, the per user counter increment and
// the redemption record, each guarded so the transaction fails instead of over-redeeming.
func (r *dynamoImpl) claimItems(claim *discountModel.Claim) ([]types.TransactWriteItem, error) {
	redemption := claim.Redemption

	discountExpr := dynamoInfra.NewExpression()
	usage := discountExpr.Name(discountModel.FieldUsageCount)
	limit := discountExpr.Name(discountModel.FieldUsageLimit)

	one, err := discountExpr.Value(1)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	zero, err := discountExpr.Value(0)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	active, err := discountExpr.Equal(discountModel.FieldIsActive, true)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	modified, err := discountExpr.Value(timezone.Now())
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	discountUpdate := &types.Update{
		TableName: aws.String(r.discounts),
		Key:       dynamoInfra.StringKey(discountModel.FieldID, redemption.DiscountID),
		UpdateExpression: aws.String(fmt.Sprintf("SET %s = %s + %s, %s = %s",
			usage, usage, one, discountExpr.Name(constant.FieldModifiedAt), modified)),
		ConditionExpression: aws.String(dynamoInfra.And(
			discountExpr.Exists(discountModel.FieldID),
			active,
			fmt.Sprintf("%s = %s OR %s < %s", limit, zero, usage, limit),
		)),
		ExpressionAttributeNames:  discountExpr.NameMap(),
		ExpressionAttributeValues: discountExpr.ValueMap(),
	}

	counterExpr := dynamoInfra.NewExpression()
	count := counterExpr.Name(discountRepo.FieldRedemptionCount)

	counterOne, err := counterExpr.Value(1)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	counterZero, err := counterExpr.Value(0)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	counterUpdate := &types.Update{
		TableName: aws.String(r.redemptions),
		Key:       dynamoInfra.StringKey(discountModel.FieldID, discountRepo.CounterID(redemption.DiscountID, redemption.UserID)),
		UpdateExpression: aws.String(fmt.Sprintf("SET %s = if_not_exists(%s, %s) + %s",
			count, count, counterZero, counterOne)),
	}

	if claim.PerUserLimit > 0 {
		perUser, err := counterExpr.Value(claim.PerUserLimit)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		counterUpdate.ConditionExpression = aws.String(fmt.Sprintf("attribute_not_exists(%s) OR %s < %s", count, count, perUser))
	}

	counterUpdate.ExpressionAttributeNames = counterExpr.NameMap()
	counterUpdate.ExpressionAttributeValues = counterExpr.ValueMap()

	put, err := r.putNew(r.redemptions, redemption)
	if err != nil {
		return nil, err
	}

	return []types.TransactWriteItem{
		{Update: discountUpdate},
		{Update: counterUpdate},
		{Put: put},
	}, nil
}

func (r *dynamoImpl) Get(ctx context.Context, id string) (model.Booking, error) {
	ctx, scope := r.scope(ctx, "Get")
	defer scope.End()

	var booking model.Booking

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            dynamoInfra.StringKey(model.FieldID, id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		scope.TraceError(err)

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if out.Item == nil {
		return booking, nil
	}

	if err = dynamoInfra.UnmarshalMap(out.Item, &booking); err != nil {
		return booking, fmt.Errorf("failed to unmarshal booking: %w", err)
	}

	return booking, nil
}

func (r *dynamoImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter model.Filter) ([]model.Booking, error) {
	bookings, err := r.scan(ctx, filter)
	if err != nil {
		return nil, err
	}

	shared.SortByField(bookings, params.SortBy, params.SortDir)

	start, end := params.Bounds(len(bookings))

	return bookings[start:end], nil
}

func (r *dynamoImpl) Count(ctx context.Context, filter model.Filter) (int, error) {
	bookings, err := r.scan(ctx, filter)

	return len(bookings), err
}

func (r *dynamoImpl) scan(ctx context.Context, filter model.Filter) ([]model.Booking, error) {
	ctx, scope := r.scope(ctx, "scan")
	defer scope.End()

	var res []model.Booking

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:      aws.String(r.table),
		ConsistentRead: aws.Bool(true),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			scope.TraceError(err)

			return nil, fmt.Errorf("failed to scan bookings: %w", err)
		}

		var bookings []model.Booking
		if err = dynamoInfra.UnmarshalListOfMaps(page.Items, &bookings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bookings: %w", err)
		}

		for _, b := range bookings {
			if filter.Matches(b) {
				res = append(res, b)
			}
		}
	}

	return res, nil
}

func (r *dynamoImpl) guardCondition(expr *dynamoInfra.Expression, guard model.Guard) (string, error) {
	conditions := []string{expr.Exists(model.FieldID)}

	if len(guard.Statuses) > 0 {
		in, err := expr.In(model.FieldStatus, guard.Statuses)
		if err != nil {
			return "", err //nolint:wrapcheck
		}

		conditions = append(conditions, in)
	}

	if len(guard.PaymentStatuses) > 0 {
		in, err := expr.In(model.FieldPaymentStatus, guard.PaymentStatuses)
		if err != nil {
			return "", err //nolint:wrapcheck
		}

		conditions = append(conditions, in)
	}

	if guard.ScheduledDate != constant.Empty {
		eq, err := expr.Equal(model.FieldScheduledDate, guard.ScheduledDate)
		if err != nil {
			return "", err //nolint:wrapcheck
		}

		conditions = append(conditions, eq)
	}

	if guard.TimeSlot != constant.Empty {
		eq, err := expr.Equal(model.FieldTimeSlot, guard.TimeSlot)
		if err != nil {
			return "", err //nolint:wrapcheck
		}

		conditions = append(conditions, eq)
	}

	return dynamoInfra.And(conditions...), nil
}

func (r *dynamoImpl) CompareAndSwap(ctx context.Context, id string, guard model.Guard, changes map[string]any, entry *model.RescheduleEntry) (model.Booking, bool, error) {
	ctx, scope := r.scope(ctx, "CompareAndSwap")
	defer scope.End()

	expr := dynamoInfra.NewExpression()

	update, err := expr.Set(changes)
	if err != nil {
		return model.Booking{}, false, err //nolint:wrapcheck
	}

	condition, err := r.guardCondition(expr, guard)
	if err != nil {
		return model.Booking{}, false, err
	}

	if entry != nil {
		return r.swapWithEntry(ctx, id, expr, update, condition, entry)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       dynamoInfra.StringKey(model.FieldID, id),
		UpdateExpression:          aws.String(update),
		ConditionExpression:       aws.String(condition),
		ExpressionAttributeNames:  expr.NameMap(),
		ExpressionAttributeValues: expr.ValueMap(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if dynamoInfra.IsConditionFailed(err) {
		return r.current(ctx, id)
	}

	if err != nil {
		scope.TraceError(err)

		return model.Booking{}, false, fmt.Errorf("failed to swap booking %s: %w", id, err)
	}

	var booking model.Booking
	if err = dynamoInfra.UnmarshalMap(out.Attributes, &booking); err != nil {
		return booking, true, fmt.Errorf("failed to unmarshal booking: %w", err)
	}

	return booking, true, nil
}

func (r *dynamoImpl) swapWithEntry(ctx context.Context, id string, expr *dynamoInfra.Expression, update, condition string, entry *model.RescheduleEntry) (model.Booking, bool, error) {
	put, err := r.putNew(r.reschedules, entry)
	if err != nil {
		return model.Booking{}, false, err
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Update: &types.Update{
				TableName:                 aws.String(r.table),
				Key:                       dynamoInfra.StringKey(model.FieldID, id),
				UpdateExpression:          aws.String(update),
				ConditionExpression:       aws.String(condition),
				ExpressionAttributeNames:  expr.NameMap(),
				ExpressionAttributeValues: expr.ValueMap(),
			}},
			{Put: put},
		},
	})
	if failed, ok := dynamoInfra.FailedConditions(err); ok && slices.Contains(failed, 0) {
		return r.current(ctx, id)
	}

	if err != nil {
		return model.Booking{}, false, fmt.Errorf("failed to reschedule booking %s: %w", id, err)
	}

	booking, err := r.Get(ctx, id)

	return booking, err == nil, err
}

func (r *dynamoImpl) current(ctx context.Context, id string) (model.Booking, bool, error) {
	booking, err := r.Get(ctx, id)

	return booking, false, err
}

func (r *dynamoImpl) Reschedules(ctx context.Context, bookingID string) ([]model.RescheduleEntry, error) {
	ctx, scope := r.scope(ctx, "Reschedules")
	defer scope.End()

	expr := dynamoInfra.NewExpression()

	condition, err := expr.Equal(model.FieldBookingID, bookingID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	var entries []model.RescheduleEntry

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:                 aws.String(r.reschedules),
		FilterExpression:          aws.String(condition),
		ExpressionAttributeNames:  expr.NameMap(),
		ExpressionAttributeValues: expr.ValueMap(),
		ConsistentRead:            aws.Bool(true),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			scope.TraceError(err)

			return nil, fmt.Errorf("failed to scan reschedules: %w", err)
		}

		var batch []model.RescheduleEntry
		if err = dynamoInfra.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reschedules: %w", err)
		}

		entries = append(entries, batch...)
	}

	slices.SortFunc(entries, func(a, b model.RescheduleEntry) int {
		return cmp.Compare(a.RescheduledOn.UnixNano(), b.RescheduledOn.UnixNano())
	})

	return entries, nil
}
