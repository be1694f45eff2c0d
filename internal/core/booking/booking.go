// Package booking defines the rental domain: trailers, bookings, payments and
// agreements, plus the read interface the dashboard fetches bookings through.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every booking status in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusActive,
	StatusCompleted,
	StatusCancelled,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Open reports whether the booking still occupies the trailer.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusActive
}

// ParseStatus converts s to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return st, nil
}

// Booking is a reservation of one trailer for a date range.
type Booking struct {
	ID            string    `json:"id"`
	TrailerID     int64     `json:"trailer_id"`
	TrailerName   string    `json:"trailer_name,omitempty"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	StartAt       time.Time `json:"start_at"`
	EndAt         time.Time `json:"end_at"`
	Status        Status    `json:"status"`
	TotalCents    int64     `json:"total_cents"`
	CreatedAt     time.Time `json:"created_at"`
}

// Days returns the number of billable rental days, never less than one.
// A partial day counts as a full day.
func (b Booking) Days() int {
	d := b.EndAt.Sub(b.StartAt)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return max(days, 1)
}

// IsPast reports whether the booking ended before now.
func (b Booking) IsPast(now time.Time) bool {
	return b.EndAt.Before(now)
}

// IsUpcoming reports whether the booking is still open and has not started.
func (b Booking) IsUpcoming(now time.Time) bool {
	return b.Status.Open() && b.StartAt.After(now)
}

// Validate checks the booking's required fields.
func (b Booking) Validate() error {
	switch {
	case b.TrailerID <= 0:
		return errors.New("trailer is required")
	case strings.TrimSpace(b.CustomerName) == "":
		return errors.New("customer name is required")
	case b.StartAt.IsZero() || b.EndAt.IsZero():
		return errors.New("start and end are required")
	case !b.EndAt.After(b.StartAt):
		return errors.New("end must be after start")
	case !b.Status.Valid():
		return fmt.Errorf("invalid status %q", b.Status)
	case b.TotalCents < 0:
		return errors.New("total cannot be negative")
	}
	return nil
}

// Fetcher lists bookings from wherever they are kept.
type Fetcher interface {
	ListBookings(ctx context.Context) ([]Booking, error)
}

// StatusUpdater changes the status of a booking. Fetchers that can write
// implement it too.
type StatusUpdater interface {
	SetBookingStatus(ctx context.Context, id string, status Status) error
}
