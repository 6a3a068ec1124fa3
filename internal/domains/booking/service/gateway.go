package service

import (
	"homefix/internal/domains/booking/model"
	"homefix/shared/constant"
	"homefix/shared/failure"
	"slices"
)

// Capabilities besides the lifecycle actions.
const (
	CapabilityCreate     = "create"
	CapabilityView       = "view"
	CapabilityReschedule = "reschedule"
	CapabilityAssign     = "assign"
	CapabilityPayment    = "payment"
)

// capabilities lists what each non admin role may do. Customers act on bookings they own,
// technicians on bookings assigned to them.
var capabilities = map[string][]string{
	constant.RoleCustomer:   {CapabilityCreate, CapabilityView, CapabilityReschedule, model.ActionCancel},
	constant.RoleTechnician: {CapabilityView, model.ActionComplete},
	constant.RoleSystem:     {CapabilityView, CapabilityPayment},
}

// authorize is the single gateway in front of every booking operation.
func authorize(actor model.Actor, customerID, technicianID, capability string) error {
	if actor.ID == constant.Empty {
		return failure.Unauthorized("unauthorized") // nolint:wrapcheck
	}

	if actor.Is(constant.RoleAdmin) {
		return nil
	}

	allowed, known := capabilities[actor.Role]
	if !known || !slices.Contains(allowed, capability) {
		return failure.Forbidden(actor.Role + " may not " + capability + " bookings") // nolint:wrapcheck
	}

	switch actor.Role {
	case constant.RoleCustomer:
		if customerID != actor.ID {
			return failure.Forbidden("booking belongs to another customer") // nolint:wrapcheck
		}
	case constant.RoleTechnician:
		if technicianID == constant.Empty || technicianID != actor.ID {
			return failure.Forbidden("booking is not assigned to you") // nolint:wrapcheck
		}
	}

	return nil
}

func authorizeBooking(actor model.Actor, booking model.Booking, capability string) error {
	return authorize(actor, booking.CustomerID, booking.TechnicianID, capability)
}

// scopeFilter narrows a listing to what the actor may see.
func scopeFilter(actor model.Actor, filter model.Filter) (model.Filter, error) {
	if err := authorize(actor, actor.ID, actor.ID, CapabilityView); err != nil {
		return filter, err
	}

	switch actor.Role {
	case constant.RoleCustomer:
		filter.CustomerID = actor.ID
	case constant.RoleTechnician:
		filter.TechnicianID = actor.ID
	}

	return filter, nil
}
