package service

import (
	"context"
	"fmt"
	"homefix/internal/domains/booking/model"
	"homefix/internal/domains/booking/model/dto"
	notificationModel "homefix/internal/domains/notification/model"
	"homefix/shared"
	"homefix/shared/constant"
	"homefix/shared/failure"
	"homefix/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var transitionEvents = map[string]string{
	model.ActionAccept:     notificationModel.TypeBookingConfirmed,
	model.ActionReject:     notificationModel.TypeBookingCancelled,
	model.ActionComplete:   notificationModel.TypeBookingCompleted,
	model.ActionCancel:     notificationModel.TypeBookingCancelled,
	model.ActionReactivate: notificationModel.TypeBookingReactivated,
}

func (s *serviceImpl) Transition(ctx context.Context, actor model.Actor, id, action, reason string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Transition")
	defer scope.End()
	defer scope.TraceIfError(err)

	rule, ok := model.RuleFor(action)
	if !ok {
		return res, failure.BadRequestFromString(fmt.Sprintf("unknown action %q", action)) // nolint:wrapcheck
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if err = authorizeBooking(actor, booking, action); err != nil {
		return res, err
	}

	for range maxSwapAttempts {
		if booking.Status == rule.To {
			log.Debug().Str("id", id).Str("action", action).Msg("booking already in target status")

			res.FromModel(booking)

			return res, nil
		}

		if !rule.Allows(booking.Status) {
			return res, failure.Conflict(fmt.Sprintf("cannot %s a %s booking", action, booking.Status)) // nolint:wrapcheck
		}

		guard, changes := transitionChanges(rule, booking, actor, reason)

		updated, swapped, err := s.swap(ctx, id, guard, changes, nil)
		if err != nil {
			return res, err
		}

		if swapped {
			s.invalidate(ctx, id)
			s.notify(ctx, updated, transitionEvents[action], booking.Status, actor)

			res.FromModel(updated)

			return res, nil
		}

		log.Warn().Str("id", id).Str("action", action).Msg("booking changed concurrently, re-evaluating")

		booking = updated
	}

	return res, failure.Conflict("booking changed concurrently, please retry") // nolint:wrapcheck
}

// transitionChanges builds the conditional write for rule applied to the booking as it was
// read. The guard pins the statuses the rule starts from and, for cancel and reject, the
// payment status that was observed.
func transitionChanges(rule model.Rule, booking model.Booking, actor model.Actor, reason string) (model.Guard, map[string]any) {
	now := timezone.Now()
	guard := model.Guard{Statuses: rule.From}

	changes := map[string]any{
		model.FieldStatus:        rule.To,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor.ID,
	}

	switch rule.Action {
	case model.ActionAccept:
		changes[model.FieldConfirmedAt] = &now
		changes[model.FieldConfirmedBy] = actor.ID
	case model.ActionComplete:
		changes[model.FieldCompletedAt] = &now
		changes[model.FieldCompletedBy] = actor.ID

		if booking.TechnicianID != constant.Empty {
			changes[model.FieldTechnicianEarningStatus] = model.EarningClaimable
		}
	case model.ActionCancel, model.ActionReject:
		if reason == constant.Empty {
			reason = defaultReason(rule.Action, actor)
		}

		changes[model.FieldCancelledAt] = &now
		changes[model.FieldCancelledBy] = actor.ID
		changes[model.FieldCancellationReason] = reason

		// A payment recorded after the read must fail the swap, so the retry sees it.
		guard.PaymentStatuses = []string{booking.PaymentStatus}

		if booking.PaymentStatus == model.PaymentPaid {
			changes[model.FieldPaymentStatus] = model.PaymentRefundPending
		}
	case model.ActionReactivate:
		changes[model.FieldCancelledAt] = nil
		changes[model.FieldCancelledBy] = constant.Empty
		changes[model.FieldCancellationReason] = constant.Empty
		changes[model.FieldConfirmedAt] = nil
		changes[model.FieldConfirmedBy] = constant.Empty
		changes[model.FieldRescheduled] = false
		changes[model.FieldRescheduledAt] = nil
		changes[model.FieldRescheduledBy] = constant.Empty
	}

	return guard, changes
}

func defaultReason(action string, actor model.Actor) string {
	if action == model.ActionReject {
		return "rejected by admin"
	}

	return "cancelled by " + actor.Role
}

func (s *serviceImpl) Reschedule(ctx context.Context, actor model.Actor, id string, req dto.RescheduleRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reschedule")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.checkSchedule(req.ScheduledDate); err != nil {
		return res, err
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if err = authorizeBooking(actor, booking, CapabilityReschedule); err != nil {
		return res, err
	}

	for range maxSwapAttempts {
		if model.IsTerminal(booking.Status) {
			return res, failure.Conflict(fmt.Sprintf("cannot reschedule a %s booking", booking.Status)) // nolint:wrapcheck
		}

		if booking.ScheduledDate == req.ScheduledDate && booking.TimeSlot == req.TimeSlot {
			res.FromModel(booking)

			return res, nil
		}

		now := timezone.Now()
		guard := model.Guard{
			Statuses:      []string{model.StatusPending, model.StatusConfirmed},
			ScheduledDate: booking.ScheduledDate,
			TimeSlot:      booking.TimeSlot,
		}
		changes := map[string]any{
			model.FieldScheduledDate:   req.ScheduledDate,
			model.FieldTimeSlot:        req.TimeSlot,
			model.FieldRescheduled:     true,
			model.FieldRescheduledAt:   &now,
			model.FieldRescheduledBy:   actor.ID,
			model.FieldRescheduleCount: booking.RescheduleCount + 1,
			constant.FieldModifiedAt:   now,
			constant.FieldModifiedBy:   actor.ID,
		}
		entry := &model.RescheduleEntry{
			ID:            uuid.NewString(),
			BookingID:     booking.ID,
			FromDate:      booking.ScheduledDate,
			FromTimeSlot:  booking.TimeSlot,
			ToDate:        req.ScheduledDate,
			ToTimeSlot:    req.TimeSlot,
			Reason:        req.Reason,
			ActorID:       actor.ID,
			ActorRole:     actor.Role,
			RescheduledOn: now,
		}

		updated, swapped, err := s.swap(ctx, id, guard, changes, entry)
		if err != nil {
			return res, err
		}

		if swapped {
			s.invalidate(ctx, id)
			s.notify(ctx, updated, notificationModel.TypeBookingRescheduled, updated.Status, actor)

			res.FromModel(updated)

			return res, nil
		}

		log.Warn().Str("id", id).Msg("booking changed during reschedule, re-evaluating")

		booking = updated
	}

	return res, failure.Conflict("booking changed concurrently, please retry") // nolint:wrapcheck
}

func (s *serviceImpl) AssignTechnician(ctx context.Context, actor model.Actor, id string, req dto.AssignTechnicianRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AssignTechnician")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if err = authorizeBooking(actor, booking, CapabilityAssign); err != nil {
		return res, err
	}

	if model.IsTerminal(booking.Status) {
		return res, failure.Conflict(fmt.Sprintf("cannot assign a technician to a %s booking", booking.Status)) // nolint:wrapcheck
	}

	if booking.TechnicianID == req.TechnicianID && booking.TechnicianName == req.TechnicianName {
		res.FromModel(booking)

		return res, nil
	}

	changes := map[string]any{
		model.FieldTechnicianID:   req.TechnicianID,
		model.FieldTechnicianName: req.TechnicianName,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  actor.ID,
	}

	guard := model.Guard{Statuses: []string{model.StatusPending, model.StatusConfirmed}}

	updated, swapped, err := s.swap(ctx, id, guard, changes, nil)
	if err != nil {
		return res, err
	}

	if !swapped {
		return res, failure.Conflict(fmt.Sprintf("cannot assign a technician to a %s booking", updated.Status)) // nolint:wrapcheck
	}

	s.invalidate(ctx, id)

	res.FromModel(updated)

	return res, nil
}

// RecordPayment applies a terminal result reported by the payment gateway. Repeating a
// result that is already recorded succeeds without a write.
func (s *serviceImpl) RecordPayment(ctx context.Context, actor model.Actor, id string, req dto.PaymentRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecordPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if err = authorizeBooking(actor, booking, CapabilityPayment); err != nil {
		return res, err
	}

	for range maxSwapAttempts {
		if model.PaymentRecorded(booking, req.Status) {
			res.FromModel(booking)

			return res, nil
		}

		if !model.PaymentAllows(req.Status, booking.PaymentStatus) {
			return res, failure.Conflict(fmt.Sprintf("cannot record %s payment on a %s payment", req.Status, booking.PaymentStatus)) // nolint:wrapcheck
		}

		changes := shared.TransformFields(paymentChanges{
			PaymentStatus: model.PaymentTarget(booking, req.Status),
			PaymentID:     req.PaymentID,
			OrderID:       req.OrderID,
		}, actor.ID)

		guard := model.Guard{
			Statuses:        []string{booking.Status},
			PaymentStatuses: []string{booking.PaymentStatus},
		}

		updated, swapped, err := s.swap(ctx, id, guard, changes, nil)
		if err != nil {
			return res, err
		}

		if swapped {
			log.Info().Str("id", id).Str("payment", updated.PaymentStatus).Msg("payment recorded")

			s.invalidate(ctx, id)

			res.FromModel(updated)

			return res, nil
		}

		booking = updated
	}

	return res, failure.Conflict("booking changed concurrently, please retry") // nolint:wrapcheck
}

// paymentChanges leaves gateway ids untouched when the result does not carry them.
type paymentChanges struct {
	PaymentStatus string `db:"payment_status"`
	PaymentID     string `db:"payment_id"`
	OrderID       string `db:"order_id"`
}
