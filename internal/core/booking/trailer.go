package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind is the body type of a trailer.
type Kind string

const (
	KindFlatbed   Kind = "flatbed"
	KindEnclosed  Kind = "enclosed"
	KindUtility   Kind = "utility"
	KindCarHauler Kind = "car-hauler"
)

// Kinds lists every trailer kind.
var Kinds = []Kind{KindFlatbed, KindEnclosed, KindUtility, KindCarHauler}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Trailer is a rentable unit.
type Trailer struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Kind           Kind      `json:"kind"`
	Plate          string    `json:"plate,omitempty"`
	DailyRateCents int64     `json:"daily_rate_cents"`
	CreatedAt      time.Time `json:"created_at"`
}

// Validate checks the trailer's required fields.
func (t Trailer) Validate() error {
	switch {
	case strings.TrimSpace(t.Name) == "":
		return errors.New("trailer name is required")
	case !t.Kind.Valid():
		return fmt.Errorf("invalid trailer kind %q", t.Kind)
	case t.DailyRateCents <= 0:
		return errors.New("daily rate must be positive")
	}
	return nil
}

// QuoteTotal prices a booking of this trailer.
func (t Trailer) QuoteTotal(b Booking) int64 {
	return t.DailyRateCents * int64(b.Days())
}
