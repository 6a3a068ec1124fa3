package dynamodb_test

import (
	"errors"
	"homefix/infras/dynamodb"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpression_SetAndConditions(t *testing.T) {
	expr := dynamodb.NewExpression()

	set, err := expr.Set(map[string]any{"status": "confirmed", "confirmed_by": "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, "SET #n0 = :v0, #n1 = :v1", set)
	assert.Equal(t, "confirmed_by", expr.Names["#n0"])
	assert.Equal(t, "status", expr.Names["#n1"])

	in, err := expr.In("status", []string{"pending"})
	require.NoError(t, err)
	assert.Equal(t, "#n1 IN (:v2)", in)

	condition := dynamodb.And(expr.Exists("id"), in, "")
	assert.Equal(t, "(attribute_exists(#n2)) AND (#n1 IN (:v2))", condition)

	assert.Equal(t, &types.AttributeValueMemberS{Value: "pending"}, expr.Values[":v2"])
}

func TestExpression_EmptyMaps(t *testing.T) {
	expr := dynamodb.NewExpression()

	assert.Nil(t, expr.NameMap())
	assert.Nil(t, expr.ValueMap())
}

func TestMarshalMap_UsesDBTags(t *testing.T) {
	type item struct {
		ID     string `db:"id"`
		Amount int64  `db:"amount"`
	}

	av, err := dynamodb.MarshalMap(item{ID: "bk-1", Amount: 539})
	require.NoError(t, err)
	assert.Contains(t, av, "id")
	assert.Contains(t, av, "amount")

	var decoded item
	require.NoError(t, dynamodb.UnmarshalMap(av, &decoded))
	assert.Equal(t, int64(539), decoded.Amount)
}

func TestFailedConditions(t *testing.T) {
	err := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("None")},
			{Code: aws.String("ConditionalCheckFailed")},
		},
	}

	positions, ok := dynamodb.FailedConditions(err)
	assert.True(t, ok)
	assert.Equal(t, []int{1}, positions)

	_, ok = dynamodb.FailedConditions(errors.New("boom"))
	assert.False(t, ok)

	assert.True(t, dynamodb.IsConditionFailed(&types.ConditionalCheckFailedException{}))
}
