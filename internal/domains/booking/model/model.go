package model

import (
	"homefix/shared/constant"
	"homefix/shared/model"
	"slices"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	RescheduleTableName  = "booking_reschedules"
	RescheduleEntityName = "booking_reschedule"

	FieldID                      = "id"
	FieldCode                    = "code"
	FieldCustomerID              = "customer_id"
	FieldTechnicianID            = "technician_id"
	FieldTechnicianName          = "technician_name"
	FieldScheduledDate           = "scheduled_date"
	FieldTimeSlot                = "time_slot"
	FieldStatus                  = "status"
	FieldPaymentStatus           = "payment_status"
	FieldPaymentID               = "payment_id"
	FieldOrderID                 = "order_id"
	FieldAmount                  = "amount"
	FieldConfirmedAt             = "confirmed_at"
	FieldConfirmedBy             = "confirmed_by"
	FieldCompletedAt             = "completed_at"
	FieldCompletedBy             = "completed_by"
	FieldCancelledAt             = "cancelled_at"
	FieldCancelledBy             = "cancelled_by"
	FieldCancellationReason      = "cancellation_reason"
	FieldRescheduled             = "rescheduled"
	FieldRescheduledAt           = "rescheduled_at"
	FieldRescheduledBy           = "rescheduled_by"
	FieldRescheduleCount         = "reschedule_count"
	FieldTechnicianEarningStatus = "technician_earning_status"

	FieldBookingID     = "booking_id"
	FieldRescheduledOn = "rescheduled_on"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Payment status is a separate axis from Status. RefundPending marks money that has to go
// back to the customer after a paid booking was cancelled.
const (
	PaymentPending       = "pending"
	PaymentPaid          = "paid"
	PaymentRefunded      = "refunded"
	PaymentFailed        = "failed"
	PaymentRefundPending = "refund_pending"
)

const EarningClaimable = "claimable"

type Booking struct {
	ID              string `db:"id"`
	Code            string `db:"code"`
	CustomerID      string `db:"customer_id"`
	CustomerName    string `db:"customer_name"`
	CustomerPhone   string `db:"customer_phone"`
	CustomerEmail   string `db:"customer_email"`
	CustomerAddress string `db:"customer_address"`
	TechnicianID    string `db:"technician_id"`
	TechnicianName  string `db:"technician_name"`
	ServiceID       string `db:"service_id"`
	ServiceName     string `db:"service_name"`
	CategoryID      string `db:"category_id"`
	ScheduledDate   string `db:"scheduled_date"`
	TimeSlot        string `db:"time_slot"`
	Notes           string `db:"notes"`
	Status          string `db:"status"`

	ListedPrice    int64   `db:"listed_price"`
	DiscountID     string  `db:"discount_id"`
	DiscountType   string  `db:"discount_type"`
	DiscountValue  float64 `db:"discount_value"`
	DiscountAmount int64   `db:"discount_amount"`
	Amount         int64   `db:"amount"`

	PaymentStatus string `db:"payment_status"`
	PaymentID     string `db:"payment_id"`
	OrderID       string `db:"order_id"`

	ConfirmedAt        *time.Time `db:"confirmed_at"`
	ConfirmedBy        string     `db:"confirmed_by"`
	CompletedAt        *time.Time `db:"completed_at"`
	CompletedBy        string     `db:"completed_by"`
	CancelledAt        *time.Time `db:"cancelled_at"`
	CancelledBy        string     `db:"cancelled_by"`
	CancellationReason string     `db:"cancellation_reason"`

	Rescheduled     bool       `db:"rescheduled"`
	RescheduledAt   *time.Time `db:"rescheduled_at"`
	RescheduledBy   string     `db:"rescheduled_by"`
	RescheduleCount int        `db:"reschedule_count"`

	TechnicianEarningStatus string `db:"technician_earning_status"`
	model.Metadata
}

func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// Actor is whoever requests a change: a customer, a technician, an admin, or the system
// relaying a payment result.
type Actor struct {
	ID   string
	Name string
	Role string
}

func (a Actor) Is(role string) bool {
	return a.Role == role
}

// Guard is the condition a stored booking must meet for a conditional write to apply.
// Empty fields are not checked.
type Guard struct {
	Statuses        []string
	PaymentStatuses []string
	ScheduledDate   string
	TimeSlot        string
}

func (g Guard) Holds(b Booking) bool {
	if len(g.Statuses) > 0 && !slices.Contains(g.Statuses, b.Status) {
		return false
	}

	if len(g.PaymentStatuses) > 0 && !slices.Contains(g.PaymentStatuses, b.PaymentStatus) {
		return false
	}

	if g.ScheduledDate != constant.Empty && g.ScheduledDate != b.ScheduledDate {
		return false
	}

	return g.TimeSlot == constant.Empty || g.TimeSlot == b.TimeSlot
}

// RescheduleEntry is the audit record written together with a reschedule.
type RescheduleEntry struct {
	ID            string    `db:"id"`
	BookingID     string    `db:"booking_id"`
	FromDate      string    `db:"from_date"`
	FromTimeSlot  string    `db:"from_time_slot"`
	ToDate        string    `db:"to_date"`
	ToTimeSlot    string    `db:"to_time_slot"`
	Reason        string    `db:"reason"`
	ActorID       string    `db:"actor_id"`
	ActorRole     string    `db:"actor_role"`
	RescheduledOn time.Time `db:"rescheduled_on"`
}

type Filter struct {
	CustomerID    string
	TechnicianID  string
	Status        string
	PaymentStatus string
	ScheduledDate string
}

func (f Filter) Matches(b Booking) bool {
	return (f.CustomerID == constant.Empty || f.CustomerID == b.CustomerID) &&
		(f.TechnicianID == constant.Empty || f.TechnicianID == b.TechnicianID) &&
		(f.Status == constant.Empty || f.Status == b.Status) &&
		(f.PaymentStatus == constant.Empty || f.PaymentStatus == b.PaymentStatus) &&
		(f.ScheduledDate == constant.Empty || f.ScheduledDate == b.ScheduledDate)
}
