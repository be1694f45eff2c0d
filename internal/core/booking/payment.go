package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// PaymentMethod is how a customer paid.
type PaymentMethod string

const (
	MethodCard     PaymentMethod = "card"
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
)

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// Payment records money received (or refunded) against a booking.
type Payment struct {
	ID          int64         `json:"id"`
	BookingID   string        `json:"booking_id"`
	AmountCents int64         `json:"amount_cents"`
	Method      PaymentMethod `json:"method"`
	Status      PaymentStatus `json:"status"`
	PaidAt      *time.Time    `json:"paid_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Validate checks the payment's required fields.
func (p Payment) Validate() error {
	switch {
	case strings.TrimSpace(p.BookingID) == "":
		return errors.New("booking is required")
	case p.AmountCents <= 0:
		return errors.New("amount must be positive")
	}
	switch p.Method {
	case MethodCard, MethodCash, MethodTransfer:
	default:
		return fmt.Errorf("invalid payment method %q", p.Method)
	}
	switch p.Status {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentFailed:
	default:
		return fmt.Errorf("invalid payment status %q", p.Status)
	}
	return nil
}

// PaidCents sums the settled amount of payments, subtracting refunds.
func PaidCents(payments []Payment) int64 {
	var total int64
	for _, p := range payments {
		switch p.Status {
		case PaymentPaid:
			total += p.AmountCents
		case PaymentRefunded:
			total -= p.AmountCents
		}
	}
	return total
}

// Agreement is the rental contract attached to a booking.
type Agreement struct {
	BookingID string     `json:"booking_id"`
	Terms     string     `json:"terms"` // markdown
	SignedBy  string     `json:"signed_by,omitempty"`
	SignedAt  *time.Time `json:"signed_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Signed reports whether the customer signed the agreement.
func (a Agreement) Signed() bool {
	return a.SignedAt != nil
}
