package model

import (
	"homefix/shared/model"
	"time"
)

const (
	TableName  = "discounts"
	EntityName = "discount"

	RedemptionTableName  = "discount_redemptions"
	RedemptionEntityName = "discount_redemption"

	FieldID           = "id"
	FieldCode         = "code"
	FieldName         = "name"
	FieldCategoryID   = "category_id"
	FieldServiceID    = "service_id"
	FieldType         = "type"
	FieldValue        = "value"
	FieldStartDate    = "start_date"
	FieldEndDate      = "end_date"
	FieldIsActive     = "is_active"
	FieldUsageLimit   = "usage_limit"
	FieldUsageCount   = "usage_count"
	FieldPerUserLimit = "per_user_limit"

	FieldDiscountID = "discount_id"
	FieldUserID     = "user_id"
	FieldBookingID  = "booking_id"
)

const (
	TypePercentage = "percentage"
	TypeFixed      = "fixed"
)

// Discount is an admin managed offer. An empty Code means the offer is applied
// automatically to matching bookings; a non-empty Code must be supplied by the customer.
// UsageLimit and PerUserLimit of zero mean unlimited.
type Discount struct {
	ID           string    `db:"id"`
	Code         string    `db:"code"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	CategoryID   string    `db:"category_id"`
	ServiceID    string    `db:"service_id"`
	Type         string    `db:"type"`
	Value        float64   `db:"value"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	IsActive     bool      `db:"is_active"`
	UsageLimit   int       `db:"usage_limit"`
	UsageCount   int       `db:"usage_count"`
	PerUserLimit int       `db:"per_user_limit"`
	model.Metadata
}

func (d Discount) InWindow(at time.Time) bool {
	return !at.Before(d.StartDate) && !at.After(d.EndDate)
}

func (d Discount) Exhausted() bool {
	return d.UsageLimit > 0 && d.UsageCount >= d.UsageLimit
}

// Matches reports whether the offer targets the category, and the service when the offer
// is narrowed to one.
func (d Discount) Matches(categoryID, serviceID string) bool {
	if d.CategoryID != categoryID {
		return false
	}

	return d.ServiceID == "" || d.ServiceID == serviceID
}

// Applicable checks every condition except per-user usage, which needs the redemption log.
func (d Discount) Applicable(at time.Time, categoryID, serviceID string) bool {
	return d.IsActive && d.InWindow(at) && d.Matches(categoryID, serviceID) && !d.Exhausted()
}

// Redemption records one use of a discount by a customer booking.
type Redemption struct {
	ID             string    `db:"id"`
	DiscountID     string    `db:"discount_id"`
	UserID         string    `db:"user_id"`
	BookingID      string    `db:"booking_id"`
	DiscountAmount int64     `db:"discount_amount"`
	RedeemedAt     time.Time `db:"redeemed_at"`
}

// Claim is a redemption to be written atomically with a booking. The store must refuse it
// when the discount is inactive, its total limit is reached, or the user already used it
// PerUserLimit times.
type Claim struct {
	Redemption   Redemption
	PerUserLimit int
}

type Filter struct {
	Code       string
	CategoryID string
	IsActive   string
}
