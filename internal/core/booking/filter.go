package booking

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
)

// Filter narrows a booking list. The zero value keeps every booking that has
// not ended.
type Filter struct {
	TrailerGlob string   // doublestar pattern matched against the trailer name
	Statuses    []Status // empty means any status
	IncludePast bool
}

// Validate checks that the trailer glob is well formed.
func (f Filter) Validate() error {
	if f.TrailerGlob != "" && !doublestar.ValidatePattern(f.TrailerGlob) {
		return fmt.Errorf("invalid trailer pattern %q", f.TrailerGlob)
	}
	return nil
}

// Apply returns the bookings that pass the filter, preserving order.
func (f Filter) Apply(bookings []Booking, now time.Time) []Booking {
	out := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if f.Match(b, now) {
			out = append(out, b)
		}
	}
	return out
}

// Match reports whether a single booking passes the filter.
func (f Filter) Match(b Booking, now time.Time) bool {
	if !f.IncludePast && b.IsPast(now) {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, b.Status) {
		return false
	}
	if f.TrailerGlob != "" {
		ok, err := doublestar.Match(strings.ToLower(f.TrailerGlob), strings.ToLower(b.TrailerName))
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// Summary aggregates a booking list for the dashboard header.
type Summary struct {
	Total        int
	ByStatus     map[Status]int
	Upcoming     int
	RevenueCents int64
}

// Summarize computes a Summary. Cancelled bookings do not count as revenue.
func Summarize(bookings []Booking, now time.Time) Summary {
	s := Summary{ByStatus: make(map[Status]int, len(Statuses))}
	for _, b := range bookings {
		s.Total++
		s.ByStatus[b.Status]++
		if b.IsUpcoming(now) {
			s.Upcoming++
		}
		if b.Status != StatusCancelled {
			s.RevenueCents += b.TotalCents
		}
	}
	return s
}

// FormatCents renders an amount in cents as a dollar string, e.g. "$1,234.50".
func FormatCents(cents int64) string {
	sign := ""
	// Unsigned negation keeps math.MinInt64 in range.
	mag := uint64(cents)
	if cents < 0 {
		sign = "-"
		mag = -mag
	}
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(int64(mag/100)), mag%100)
}

// ParseCents parses a dollar amount such as "45", "45.5" or "1,045.50".
func ParseCents(s string) (int64, error) {
	s = strings.TrimPrefix(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), "$")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimals", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	dollars, err := strconv.ParseUint(whole, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	cents, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if dollars > (math.MaxInt64-cents)/100 {
		return 0, fmt.Errorf("amount %q is out of range", s)
	}
	return int64(dollars*100 + cents), nil
}
