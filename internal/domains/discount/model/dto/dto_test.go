package dto_test

import (
	"homefix/internal/domains/discount/model"
	"homefix/internal/domains/discount/model/dto"
	"homefix/shared/timezone"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDiscountRequest_ToModel(t *testing.T) {
	req := dto.CreateDiscountRequest{
		Code:       "monsoon10",
		Name:       "Monsoon AC service",
		CategoryID: "cat-ac",
		Type:       model.TypePercentage,
		Value:      10,
		StartDate:  "2026-10-01",
		EndDate:    "2026-10-31",
		UsageLimit: 100,
	}

	discount, err := req.ToModel("admin-1")
	require.NoError(t, err)

	assert.NotEmpty(t, discount.ID)
	assert.Equal(t, "MONSOON10", discount.Code)
	assert.True(t, discount.IsActive, "offers are active unless stated otherwise")
	assert.Equal(t, "admin-1", discount.CreatedBy)
	assert.Equal(t, 1, discount.StartDate.Day())
	assert.Equal(t, 31, discount.EndDate.Day())
	assert.Equal(t, 23, discount.EndDate.Hour(), "end date covers the whole day")
}

func TestCreateDiscountRequest_ToModel_Invalid(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateDiscountRequest
	}{
		{
			name: "percentage above 100",
			req:  dto.CreateDiscountRequest{Type: model.TypePercentage, Value: 120, StartDate: "2026-10-01", EndDate: "2026-10-31"},
		},
		{
			name: "end before start",
			req:  dto.CreateDiscountRequest{Type: model.TypeFixed, Value: 50, StartDate: "2026-10-31", EndDate: "2026-10-01"},
		},
		{
			name: "bad date",
			req:  dto.CreateDiscountRequest{Type: model.TypeFixed, Value: 50, StartDate: "01/10/2026", EndDate: "2026-10-31"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.ToModel("admin-1")
			assert.Error(t, err)
		})
	}
}

func TestUpdateDiscountRequest_Changes(t *testing.T) {
	start, _ := timezone.Parse("2006-01-02", "2026-10-01")
	current := model.Discount{
		ID:         "d-1",
		Type:       model.TypePercentage,
		Value:      10,
		StartDate:  start,
		EndDate:    start.AddDate(0, 1, 0),
		UsageLimit: 50,
		IsActive:   true,
	}

	value := 15.0
	unlimited := 0
	end := "2026-12-31"

	req := dto.UpdateDiscountRequest{Value: &value, UsageLimit: &unlimited, EndDate: &end}

	changes, merged, err := req.Changes(current, "admin-2")
	require.NoError(t, err)

	assert.Equal(t, 15.0, changes[model.FieldValue])
	assert.Equal(t, 0, changes[model.FieldUsageLimit])
	assert.Contains(t, changes, model.FieldEndDate)
	assert.NotContains(t, changes, model.FieldName)
	assert.Equal(t, 0, merged.UsageLimit)
	assert.Equal(t, time.December, merged.EndDate.Month())
	assert.Equal(t, "admin-2", merged.ModifiedBy)

	tooMuch := 150.0
	_, _, err = (&dto.UpdateDiscountRequest{Value: &tooMuch}).Changes(current, "admin-2")
	assert.Error(t, err)
}

func TestPriceResolutionResponse_FromModel(t *testing.T) {
	res := model.Apply(
		model.PriceRequest{ServiceID: "svc-1", CategoryID: "cat-ac", ListedPrice: 599},
		model.Discount{ID: "d-1", Type: model.TypePercentage, Value: 10},
	)

	var response dto.PriceResolutionResponse
	response.FromModel(res)

	require.NotNil(t, response.Discount)
	assert.Equal(t, int64(60), response.Discount.Amount)
	assert.Equal(t, int64(539), response.FinalPrice)

	var plain dto.PriceResolutionResponse
	plain.FromModel(model.ListedPrice(model.PriceRequest{ListedPrice: 599}))
	assert.Nil(t, plain.Discount)
}

func TestFilterFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/discounts?code=abc&category_id=cat-ac&is_active=1", nil)

	filter := dto.FilterFromRequest(req)

	assert.Equal(t, model.Filter{Code: "ABC", CategoryID: "cat-ac", IsActive: "true"}, filter)
}
