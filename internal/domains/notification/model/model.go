package model

import (
	"homefix/shared/constant"
	"time"
)

const (
	TypeBookingCreated     = "booking.created"
	TypeBookingConfirmed   = "booking.confirmed"
	TypeBookingCompleted   = "booking.completed"
	TypeBookingCancelled   = "booking.cancelled"
	TypeBookingReactivated = "booking.reactivated"
	TypeBookingRescheduled = "booking.rescheduled"
)

var recipients = map[string][]string{
	TypeBookingCreated:     {constant.RoleCustomer, constant.RoleAdmin},
	TypeBookingConfirmed:   {constant.RoleCustomer, constant.RoleTechnician},
	TypeBookingCompleted:   {constant.RoleCustomer, constant.RoleAdmin},
	TypeBookingCancelled:   {constant.RoleCustomer, constant.RoleTechnician, constant.RoleAdmin},
	TypeBookingReactivated: {constant.RoleCustomer},
	TypeBookingRescheduled: {constant.RoleCustomer, constant.RoleTechnician, constant.RoleAdmin},
}

// RecipientsFor lists the roles told about an event type.
func RecipientsFor(eventType string) []string {
	return recipients[eventType]
}

type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Event is published once per status change. FromStatus equals ToStatus for reschedules.
type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	BookingID   string    `json:"booking_id"`
	BookingCode string    `json:"booking_code"`
	FromStatus  string    `json:"from_status"`
	ToStatus    string    `json:"to_status"`
	Actor       Actor     `json:"actor"`
	Recipients  []string  `json:"recipients"`
	OccurredAt  time.Time `json:"occurred_at"`
}
