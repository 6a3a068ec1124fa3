package dto

import (
	"homefix/internal/domains/booking/model"
	discountModel "homefix/internal/domains/discount/model"
	"homefix/shared"
	"homefix/shared/constant"
	gDto "homefix/shared/dto"
	gModel "homefix/shared/model"
	"net/http"
	"slices"
	"time"
)

// SortableFields are the columns a booking list may be ordered by.
var SortableFields = []string{
	constant.FieldCreatedAt,
	constant.FieldModifiedAt,
	model.FieldScheduledDate,
	model.FieldStatus,
	model.FieldAmount,
	model.FieldCode,
}

// NormalizeParams drops sort columns that are not whitelisted and defaults the order.
func NormalizeParams(params gDto.QueryParams) gDto.QueryParams {
	if !slices.Contains(SortableFields, params.SortBy) {
		params.SortBy = constant.DefaultValueSortBy
	}

	if params.SortDir == constant.Empty {
		params.SortDir = constant.DefaultValueSortDir
	}

	return params
}

type CreateBookingRequest struct {
	CustomerID      string `json:"customer_id"      validate:"omitempty"`
	CustomerName    string `json:"customer_name"    validate:"required,max=100"`
	CustomerPhone   string `json:"customer_phone"   validate:"required,max=20"`
	CustomerEmail   string `json:"customer_email"   validate:"omitempty,email,max=100"`
	CustomerAddress string `json:"customer_address" validate:"required,max=500"`
	ServiceID       string `json:"service_id"       validate:"required"`
	ServiceName     string `json:"service_name"     validate:"required,max=100"`
	CategoryID      string `json:"category_id"      validate:"required"`
	ListedPrice     int64  `json:"listed_price"     validate:"required,gt=0"`
	ScheduledDate   string `json:"scheduled_date"   validate:"required,datetime=2006-01-02"`
	TimeSlot        string `json:"time_slot"        validate:"required,timeslot"`
	Notes           string `json:"notes"            validate:"omitempty,max=500"`
	OfferCode       string `json:"offer_code"       validate:"omitempty,max=32"`
}

func (c *CreateBookingRequest) PriceRequest(customerID string) discountModel.PriceRequest {
	return discountModel.PriceRequest{
		ServiceID:   c.ServiceID,
		CategoryID:  c.CategoryID,
		ListedPrice: c.ListedPrice,
		OfferCode:   c.OfferCode,
		UserID:      customerID,
	}
}

// ToModel builds a pending booking with the price frozen from price.
func (c *CreateBookingRequest) ToModel(id, code, customerID, user string, price discountModel.PriceResolution, now time.Time) model.Booking {
	booking := model.Booking{
		ID:              id,
		Code:            code,
		CustomerID:      customerID,
		CustomerName:    c.CustomerName,
		CustomerPhone:   c.CustomerPhone,
		CustomerEmail:   c.CustomerEmail,
		CustomerAddress: c.CustomerAddress,
		ServiceID:       c.ServiceID,
		ServiceName:     c.ServiceName,
		CategoryID:      c.CategoryID,
		ScheduledDate:   c.ScheduledDate,
		TimeSlot:        c.TimeSlot,
		Notes:           c.Notes,
		Status:          model.StatusPending,
		PaymentStatus:   model.PaymentPending,
		ListedPrice:     price.ListedPrice,
		Amount:          price.FinalPrice,
		Metadata:        gModel.NewMetadata(now, user),
	}

	if price.Discount != nil {
		booking.DiscountID = price.Discount.DiscountID
		booking.DiscountType = price.Discount.Type
		booking.DiscountValue = price.Discount.Value
		booking.DiscountAmount = price.Discount.Amount
	}

	return booking
}

type TransitionRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type RescheduleRequest struct {
	ScheduledDate string `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	TimeSlot      string `json:"time_slot"      validate:"required,timeslot"`
	Reason        string `json:"reason"         validate:"omitempty,max=500"`
}

type AssignTechnicianRequest struct {
	TechnicianID   string `json:"technician_id"   validate:"required"`
	TechnicianName string `json:"technician_name" validate:"required,max=100"`
}

// PaymentRequest relays a terminal result from the payment gateway.
type PaymentRequest struct {
	PaymentID string `json:"payment_id" validate:"omitempty,max=100"`
	OrderID   string `json:"order_id"   validate:"omitempty,max=100"`
	Status    string `json:"status"     validate:"required,oneof=paid failed refunded"`
}

type DiscountResponse struct {
	DiscountID string  `json:"discount_id"`
	Type       string  `json:"type"`
	Value      float64 `json:"value"`
	Amount     int64   `json:"amount"`
}

type BookingResponse struct {
	ID                      string            `json:"id"`
	Code                    string            `json:"code"`
	CustomerID              string            `json:"customer_id"`
	CustomerName            string            `json:"customer_name"`
	CustomerPhone           string            `json:"customer_phone"`
	CustomerEmail           string            `json:"customer_email,omitempty"`
	CustomerAddress         string            `json:"customer_address"`
	TechnicianID            string            `json:"technician_id,omitempty"`
	TechnicianName          string            `json:"technician_name,omitempty"`
	ServiceID               string            `json:"service_id"`
	ServiceName             string            `json:"service_name"`
	CategoryID              string            `json:"category_id"`
	ScheduledDate           string            `json:"scheduled_date"`
	TimeSlot                string            `json:"time_slot"`
	Notes                   string            `json:"notes,omitempty"`
	Status                  string            `json:"status"`
	PaymentStatus           string            `json:"payment_status"`
	PaymentID               string            `json:"payment_id,omitempty"`
	OrderID                 string            `json:"order_id,omitempty"`
	ListedPrice             int64             `json:"listed_price"`
	Discount                *DiscountResponse `json:"discount,omitempty"`
	Amount                  int64             `json:"amount"`
	ConfirmedAt             string            `json:"confirmed_at,omitempty"`
	ConfirmedBy             string            `json:"confirmed_by,omitempty"`
	CompletedAt             string            `json:"completed_at,omitempty"`
	CompletedBy             string            `json:"completed_by,omitempty"`
	CancelledAt             string            `json:"cancelled_at,omitempty"`
	CancelledBy             string            `json:"cancelled_by,omitempty"`
	CancellationReason      string            `json:"cancellation_reason,omitempty"`
	Rescheduled             bool              `json:"rescheduled"`
	RescheduledAt           string            `json:"rescheduled_at,omitempty"`
	RescheduledBy           string            `json:"rescheduled_by,omitempty"`
	RescheduleCount         int               `json:"reschedule_count"`
	TechnicianEarningStatus string            `json:"technician_earning_status,omitempty"`
	gDto.Metadata
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return constant.Empty
	}

	return gDto.FormatTime(*t)
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.Code = m.Code
	r.CustomerID = m.CustomerID
	r.CustomerName = m.CustomerName
	r.CustomerPhone = m.CustomerPhone
	r.CustomerEmail = m.CustomerEmail
	r.CustomerAddress = m.CustomerAddress
	r.TechnicianID = m.TechnicianID
	r.TechnicianName = m.TechnicianName
	r.ServiceID = m.ServiceID
	r.ServiceName = m.ServiceName
	r.CategoryID = m.CategoryID
	r.ScheduledDate = m.ScheduledDate
	r.TimeSlot = m.TimeSlot
	r.Notes = m.Notes
	r.Status = m.Status
	r.PaymentStatus = m.PaymentStatus
	r.PaymentID = m.PaymentID
	r.OrderID = m.OrderID
	r.ListedPrice = m.ListedPrice
	r.Amount = m.Amount
	r.ConfirmedAt = formatOptional(m.ConfirmedAt)
	r.ConfirmedBy = m.ConfirmedBy
	r.CompletedAt = formatOptional(m.CompletedAt)
	r.CompletedBy = m.CompletedBy
	r.CancelledAt = formatOptional(m.CancelledAt)
	r.CancelledBy = m.CancelledBy
	r.CancellationReason = m.CancellationReason
	r.Rescheduled = m.Rescheduled
	r.RescheduledAt = formatOptional(m.RescheduledAt)
	r.RescheduledBy = m.RescheduledBy
	r.RescheduleCount = m.RescheduleCount
	r.TechnicianEarningStatus = m.TechnicianEarningStatus
	r.Metadata.FromModel(m.Metadata)

	r.Discount = nil
	if m.DiscountID != constant.Empty {
		r.Discount = &DiscountResponse{
			DiscountID: m.DiscountID,
			Type:       m.DiscountType,
			Value:      m.DiscountValue,
			Amount:     m.DiscountAmount,
		}
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type RescheduleResponse struct {
	ID            string `json:"id"`
	FromDate      string `json:"from_date"`
	FromTimeSlot  string `json:"from_time_slot"`
	ToDate        string `json:"to_date"`
	ToTimeSlot    string `json:"to_time_slot"`
	Reason        string `json:"reason,omitempty"`
	ActorID       string `json:"actor_id"`
	ActorRole     string `json:"actor_role"`
	RescheduledOn string `json:"rescheduled_on"`
}

func (r *RescheduleResponse) FromModel(m model.RescheduleEntry) {
	r.ID = m.ID
	r.FromDate = m.FromDate
	r.FromTimeSlot = m.FromTimeSlot
	r.ToDate = m.ToDate
	r.ToTimeSlot = m.ToTimeSlot
	r.Reason = m.Reason
	r.ActorID = m.ActorID
	r.ActorRole = m.ActorRole
	r.RescheduledOn = gDto.FormatTime(m.RescheduledOn)
}

func FilterFromRequest(r *http.Request) model.Filter {
	query := r.URL.Query()

	return model.Filter{
		CustomerID:    query.Get(model.FieldCustomerID),
		TechnicianID:  query.Get(model.FieldTechnicianID),
		Status:        query.Get(model.FieldStatus),
		PaymentStatus: query.Get(model.FieldPaymentStatus),
		ScheduledDate: query.Get(model.FieldScheduledDate),
	}
}
