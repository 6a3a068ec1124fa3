package dto

import (
	"errors"
	"homefix/internal/domains/discount/model"
	"homefix/shared"
	"homefix/shared/constant"
	gDto "homefix/shared/dto"
	gModel "homefix/shared/model"
	"homefix/shared/timezone"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	errPercentageRange = errors.New("percentage value must be between 0 and 100")
	errFixedValue      = errors.New("fixed value must be greater than 0")
	errDateRange       = errors.New("end_date must not be before start_date")
	errDateFormat      = errors.New("dates must use the YYYY-MM-DD format")
)

type CreateDiscountRequest struct {
	Code         string  `json:"code"           validate:"omitempty,max=32,alphanum"`
	Name         string  `json:"name"           validate:"required,max=100"`
	Description  string  `json:"description"    validate:"omitempty,max=500"`
	CategoryID   string  `json:"category_id"    validate:"required"`
	ServiceID    string  `json:"service_id"     validate:"omitempty"`
	Type         string  `json:"type"           validate:"required,oneof=percentage fixed"`
	Value        float64 `json:"value"          validate:"required,gt=0"`
	StartDate    string  `json:"start_date"     validate:"required"`
	EndDate      string  `json:"end_date"       validate:"required"`
	UsageLimit   int     `json:"usage_limit"    validate:"gte=0"`
	PerUserLimit int     `json:"per_user_limit" validate:"gte=0"`
	IsActive     *bool   `json:"is_active"`
}

func (c *CreateDiscountRequest) ToModel(user string) (model.Discount, error) {
	start, end, err := parseWindow(c.StartDate, c.EndDate)
	if err != nil {
		return model.Discount{}, err
	}

	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	discount := model.Discount{
		ID:           uuid.NewString(),
		Code:         strings.ToUpper(c.Code),
		Name:         c.Name,
		Description:  c.Description,
		CategoryID:   c.CategoryID,
		ServiceID:    c.ServiceID,
		Type:         c.Type,
		Value:        c.Value,
		StartDate:    start,
		EndDate:      end,
		IsActive:     isActive,
		UsageLimit:   c.UsageLimit,
		PerUserLimit: c.PerUserLimit,
		Metadata:     gModel.NewMetadata(timezone.Now(), user),
	}

	return discount, Validate(discount)
}

// UpdateDiscountRequest edits an offer. Code, type and category are fixed at creation
// because bookings already reference them.
type UpdateDiscountRequest struct {
	Name         *string  `json:"name"           validate:"omitempty,max=100"`
	Description  *string  `json:"description"    validate:"omitempty,max=500"`
	ServiceID    *string  `json:"service_id"`
	Value        *float64 `json:"value"          validate:"omitempty,gt=0"`
	StartDate    *string  `json:"start_date"`
	EndDate      *string  `json:"end_date"`
	UsageLimit   *int     `json:"usage_limit"    validate:"omitempty,gte=0"`
	PerUserLimit *int     `json:"per_user_limit" validate:"omitempty,gte=0"`
	IsActive     *bool    `json:"is_active"`
}

// Changes merges the request onto current and returns the column changes together with
// the merged discount, which is validated as a whole.
func (u *UpdateDiscountRequest) Changes(current model.Discount, user string) (map[string]any, model.Discount, error) {
	merged := current
	changes := map[string]any{}

	if u.Name != nil {
		merged.Name = *u.Name
		changes[model.FieldName] = merged.Name
	}

	if u.Description != nil {
		merged.Description = *u.Description
		changes["description"] = merged.Description
	}

	if u.ServiceID != nil {
		merged.ServiceID = *u.ServiceID
		changes[model.FieldServiceID] = merged.ServiceID
	}

	if u.Value != nil {
		merged.Value = *u.Value
		changes[model.FieldValue] = merged.Value
	}

	if u.StartDate != nil || u.EndDate != nil {
		startRaw := timezone.Format(current.StartDate, constant.DateOnlyFormat)
		endRaw := timezone.Format(current.EndDate, constant.DateOnlyFormat)

		if u.StartDate != nil {
			startRaw = *u.StartDate
		}

		if u.EndDate != nil {
			endRaw = *u.EndDate
		}

		start, end, err := parseWindow(startRaw, endRaw)
		if err != nil {
			return nil, current, err
		}

		merged.StartDate, merged.EndDate = start, end
		changes[model.FieldStartDate] = start
		changes[model.FieldEndDate] = end
	}

	if u.UsageLimit != nil {
		merged.UsageLimit = *u.UsageLimit
		changes[model.FieldUsageLimit] = merged.UsageLimit
	}

	if u.PerUserLimit != nil {
		merged.PerUserLimit = *u.PerUserLimit
		changes[model.FieldPerUserLimit] = merged.PerUserLimit
	}

	if u.IsActive != nil {
		merged.IsActive = *u.IsActive
		changes[model.FieldIsActive] = merged.IsActive
	}

	if err := Validate(merged); err != nil {
		return nil, current, err
	}

	now := timezone.Now()
	merged.ModifiedAt, merged.ModifiedBy = now, user
	changes[constant.FieldModifiedAt] = now
	changes[constant.FieldModifiedBy] = user

	return changes, merged, nil
}

// Validate checks the rules that span several fields.
func Validate(d model.Discount) error {
	switch d.Type {
	case model.TypePercentage:
		if d.Value <= 0 || d.Value > 100 {
			return errPercentageRange
		}
	case model.TypeFixed:
		if d.Value <= 0 {
			return errFixedValue
		}
	}

	if d.EndDate.Before(d.StartDate) {
		return errDateRange
	}

	return nil
}

// parseWindow reads inclusive calendar dates in the application timezone. The end date
// covers the whole day.
func parseWindow(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := timezone.ParseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, errDateFormat
	}

	end, err := timezone.ParseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, errDateFormat
	}

	return start, timezone.EndOfDay(end), nil
}

type DiscountResponse struct {
	ID           string  `json:"id"`
	Code         string  `json:"code,omitempty"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	CategoryID   string  `json:"category_id"`
	ServiceID    string  `json:"service_id,omitempty"`
	Type         string  `json:"type"`
	Value        float64 `json:"value"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	IsActive     bool    `json:"is_active"`
	UsageLimit   int     `json:"usage_limit"`
	UsageCount   int     `json:"usage_count"`
	PerUserLimit int     `json:"per_user_limit"`
	gDto.Metadata
}

func (r *DiscountResponse) FromModel(m model.Discount) {
	r.ID = m.ID
	r.Code = m.Code
	r.Name = m.Name
	r.Description = m.Description
	r.CategoryID = m.CategoryID
	r.ServiceID = m.ServiceID
	r.Type = m.Type
	r.Value = m.Value
	r.StartDate = timezone.Format(m.StartDate, constant.DateOnlyFormat)
	r.EndDate = timezone.Format(m.EndDate, constant.DateOnlyFormat)
	r.IsActive = m.IsActive
	r.UsageLimit = m.UsageLimit
	r.UsageCount = m.UsageCount
	r.PerUserLimit = m.PerUserLimit
	r.Metadata.FromModel(m.Metadata)
}

type GetDiscountsResponse struct {
	Discounts []DiscountResponse `json:"discounts"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetDiscountsResponse) FromModels(models []model.Discount, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Discounts = make([]DiscountResponse, len(models))
	for i, mod := range models {
		r.Discounts[i].FromModel(mod)
	}
}

func FilterFromRequest(r *http.Request) model.Filter {
	query := r.URL.Query()

	filter := model.Filter{
		Code:       strings.ToUpper(query.Get(model.FieldCode)),
		CategoryID: query.Get(model.FieldCategoryID),
	}

	if active := shared.ConvertStringToBool(query.Get(model.FieldIsActive)); active != nil {
		filter.IsActive = strconv.FormatBool(*active)
	}

	return filter
}

type ResolvePriceRequest struct {
	ServiceID   string `json:"service_id"   validate:"required"`
	CategoryID  string `json:"category_id"  validate:"required"`
	ListedPrice int64  `json:"listed_price" validate:"required,gt=0"`
	OfferCode   string `json:"offer_code"   validate:"omitempty,max=32"`
}

func (r *ResolvePriceRequest) ToModel(userID string) model.PriceRequest {
	return model.PriceRequest{
		ServiceID:   r.ServiceID,
		CategoryID:  r.CategoryID,
		ListedPrice: r.ListedPrice,
		OfferCode:   r.OfferCode,
		UserID:      userID,
	}
}

type AppliedDiscountResponse struct {
	DiscountID string  `json:"discount_id"`
	Code       string  `json:"code,omitempty"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Value      float64 `json:"value"`
	Amount     int64   `json:"amount"`
}

type PriceResolutionResponse struct {
	ServiceID   string                   `json:"service_id"`
	CategoryID  string                   `json:"category_id"`
	ListedPrice int64                    `json:"listed_price"`
	Discount    *AppliedDiscountResponse `json:"discount,omitempty"`
	FinalPrice  int64                    `json:"final_price"`
}

func (r *PriceResolutionResponse) FromModel(m model.PriceResolution) {
	r.ServiceID = m.ServiceID
	r.CategoryID = m.CategoryID
	r.ListedPrice = m.ListedPrice
	r.FinalPrice = m.FinalPrice

	if m.Discount != nil {
		r.Discount = &AppliedDiscountResponse{
			DiscountID: m.Discount.DiscountID,
			Code:       m.Discount.Code,
			Name:       m.Discount.Name,
			Type:       m.Discount.Type,
			Value:      m.Discount.Value,
			Amount:     m.Discount.Amount,
		}
	}
}
