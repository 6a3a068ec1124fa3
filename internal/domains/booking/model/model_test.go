package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"homefix/internal/domains/booking/model"
)

func TestRules(t *testing.T) {
	statuses := []string{model.StatusPending, model.StatusConfirmed, model.StatusCompleted, model.StatusCancelled}

	allowed := map[string][]string{
		model.ActionAccept:     {model.StatusPending},
		model.ActionReject:     {model.StatusPending},
		model.ActionComplete:   {model.StatusConfirmed},
		model.ActionCancel:     {model.StatusPending, model.StatusConfirmed},
		model.ActionReactivate: {model.StatusCancelled},
	}

	for _, action := range model.Actions() {
		rule, ok := model.RuleFor(action)
		assert.True(t, ok, action)

		for _, status := range statuses {
			assert.Equal(t, contains(allowed[action], status), rule.Allows(status), "%s from %s", action, status)
		}
	}

	_, ok := model.RuleFor("delete")
	assert.False(t, ok)
}

func TestRules_TerminalStatusesOnlyLeaveThroughReactivate(t *testing.T) {
	for _, action := range model.Actions() {
		rule, _ := model.RuleFor(action)

		if action == model.ActionReactivate {
			assert.True(t, rule.Allows(model.StatusCancelled))
			assert.False(t, rule.Allows(model.StatusCompleted))

			continue
		}

		assert.False(t, rule.Allows(model.StatusCompleted), action)
		assert.False(t, rule.Allows(model.StatusCancelled), action)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, model.IsTerminal(model.StatusCompleted))
	assert.True(t, model.IsTerminal(model.StatusCancelled))
	assert.False(t, model.IsTerminal(model.StatusPending))
	assert.False(t, model.IsTerminal(model.StatusConfirmed))
}

func TestGuard_Holds(t *testing.T) {
	booking := model.Booking{
		Status:        model.StatusConfirmed,
		PaymentStatus: model.PaymentPaid,
		ScheduledDate: "2026-10-20",
		TimeSlot:      "10:00-12:00",
	}

	tests := []struct {
		name  string
		guard model.Guard
		want  bool
	}{
		{name: "empty guard", guard: model.Guard{}, want: true},
		{name: "status matches", guard: model.Guard{Statuses: []string{model.StatusPending, model.StatusConfirmed}}, want: true},
		{name: "status differs", guard: model.Guard{Statuses: []string{model.StatusPending}}, want: false},
		{name: "payment differs", guard: model.Guard{PaymentStatuses: []string{model.PaymentPending}}, want: false},
		{name: "schedule matches", guard: model.Guard{ScheduledDate: "2026-10-20", TimeSlot: "10:00-12:00"}, want: true},
		{name: "slot moved", guard: model.Guard{ScheduledDate: "2026-10-20", TimeSlot: "14:00-16:00"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.guard.Holds(booking))
		})
	}
}

func TestPayment(t *testing.T) {
	cancelled := model.Booking{Status: model.StatusCancelled, PaymentStatus: model.PaymentPending}
	confirmed := model.Booking{Status: model.StatusConfirmed, PaymentStatus: model.PaymentPending}

	assert.Equal(t, model.PaymentRefundPending, model.PaymentTarget(cancelled, model.PaymentPaid))
	assert.Equal(t, model.PaymentPaid, model.PaymentTarget(confirmed, model.PaymentPaid))

	assert.True(t, model.PaymentAllows(model.PaymentPaid, model.PaymentFailed))
	assert.True(t, model.PaymentAllows(model.PaymentRefunded, model.PaymentRefundPending))
	assert.False(t, model.PaymentAllows(model.PaymentRefunded, model.PaymentPending))
	assert.False(t, model.PaymentAllows(model.PaymentFailed, model.PaymentPaid))

	assert.True(t, model.PaymentRecorded(model.Booking{PaymentStatus: model.PaymentRefundPending}, model.PaymentPaid))
	assert.False(t, model.PaymentRecorded(confirmed, model.PaymentPaid))
}

func TestFilter_Matches(t *testing.T) {
	booking := model.Booking{CustomerID: "c-1", TechnicianID: "t-1", Status: model.StatusPending}

	assert.True(t, model.Filter{}.Matches(booking))
	assert.True(t, model.Filter{CustomerID: "c-1", Status: model.StatusPending}.Matches(booking))
	assert.False(t, model.Filter{TechnicianID: "t-2"}.Matches(booking))
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}

	return false
}
