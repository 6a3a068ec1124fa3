package model

import "slices"

var paymentSources = map[string][]string{
	PaymentPaid:     {PaymentPending, PaymentFailed},
	PaymentRefunded: {PaymentPaid, PaymentRefundPending},
	PaymentFailed:   {PaymentPending},
}

// PaymentResults are the terminal gateway statuses a booking accepts.
func PaymentResults() []string {
	return []string{PaymentPaid, PaymentRefunded, PaymentFailed}
}

// PaymentTarget is the payment status b ends in when the gateway reports result. Money
// received for a cancelled booking is owed back straight away.
func PaymentTarget(b Booking, result string) string {
	if result == PaymentPaid && b.Status == StatusCancelled {
		return PaymentRefundPending
	}

	return result
}

// PaymentRecorded reports whether result is already reflected on b.
func PaymentRecorded(b Booking, result string) bool {
	if result == PaymentPaid {
		return b.PaymentStatus == PaymentPaid || b.PaymentStatus == PaymentRefundPending || b.PaymentStatus == PaymentRefunded
	}

	return b.PaymentStatus == result
}

func PaymentAllows(result, current string) bool {
	return slices.Contains(paymentSources[result], current)
}
