// Package toast implements transient notifications: a Manager that owns an
// ordered collection of Items, and the Item lifecycle that drives timed
// auto-dismiss with a progress indicator and enter/leave sequencing.
package toast

import (
	"fmt"
	"time"
)

// Variant selects the visual treatment of a toast.
type Variant string

const (
	VariantPrimary   Variant = "primary"
	VariantSecondary Variant = "secondary"
	VariantAccent    Variant = "accent"
	VariantSuccess   Variant = "success"
	VariantError     Variant = "error"
	VariantWarning   Variant = "warning"
	VariantInfo      Variant = "info"
)

// Variants lists every supported variant in display order.
var Variants = []Variant{
	VariantPrimary,
	VariantSecondary,
	VariantAccent,
	VariantSuccess,
	VariantError,
	VariantWarning,
	VariantInfo,
}

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	for _, known := range Variants {
		if v == known {
			return true
		}
	}
	return false
}

// ParseVariant converts s to a Variant. An empty string yields VariantInfo.
func ParseVariant(s string) (Variant, error) {
	if s == "" {
		return VariantInfo, nil
	}
	v := Variant(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown toast variant %q", s)
	}
	return v, nil
}

// DefaultDuration is how long a toast counts down when the request does not
// say otherwise.
const DefaultDuration = 3 * time.Second

// Request is the caller input for a new toast.
type Request struct {
	Message  string
	Variant  Variant
	Duration time.Duration
}

// Normalize fills in defaults for zero or invalid fields.
func (r Request) Normalize() Request {
	if r.Duration <= 0 {
		r.Duration = DefaultDuration
	}
	if !r.Variant.Valid() {
		r.Variant = VariantInfo
	}
	return r
}

// Notifier is the handle handed to code that wants to raise or drop toasts
// without access to the collection itself.
type Notifier interface {
	AddToast(req Request) int64
	RemoveToast(id int64)
}
