package model

import "slices"

const (
	ActionAccept     = "accept"
	ActionReject     = "reject"
	ActionComplete   = "complete"
	ActionCancel     = "cancel"
	ActionReactivate = "reactivate"
)

// Rule describes one status transition: the statuses it may start from and the status it
// ends in. Who may request it is decided by the booking gateway.
type Rule struct {
	Action string
	From   []string
	To     string
}

var rules = map[string]Rule{
	ActionAccept: {
		Action: ActionAccept,
		From:   []string{StatusPending},
		To:     StatusConfirmed,
	},
	ActionReject: {
		Action: ActionReject,
		From:   []string{StatusPending},
		To:     StatusCancelled,
	},
	ActionComplete: {
		Action: ActionComplete,
		From:   []string{StatusConfirmed},
		To:     StatusCompleted,
	},
	ActionCancel: {
		Action: ActionCancel,
		From:   []string{StatusPending, StatusConfirmed},
		To:     StatusCancelled,
	},
	ActionReactivate: {
		Action: ActionReactivate,
		From:   []string{StatusCancelled},
		To:     StatusPending,
	},
}

func RuleFor(action string) (Rule, bool) {
	rule, ok := rules[action]

	return rule, ok
}

func Actions() []string {
	return []string{ActionAccept, ActionReject, ActionComplete, ActionCancel, ActionReactivate}
}

func (r Rule) Allows(status string) bool {
	return slices.Contains(r.From, status)
}
