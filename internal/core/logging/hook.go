package logging

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/colonyops/hitch/internal/core/toast"
)

// ContextHook extracts booking_id and command from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if id := GetBookingID(ctx); id != "" {
		e.Str("booking_id", id)
	}

	if name := GetCommand(ctx); name != "" {
		e.Str("command", name)
	}
}

// ToastHook turns log events at or above MinLevel into toast requests. Push
// is called from whichever goroutine logged, so it must be safe for
// concurrent use.
type ToastHook struct {
	MinLevel zerolog.Level
	Push     func(toast.Request)
}

// Run implements zerolog.Hook.
func (h ToastHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if h.Push == nil || msg == "" || level < h.MinLevel || level == zerolog.NoLevel {
		return
	}

	variant := toast.VariantInfo
	switch {
	case level >= zerolog.ErrorLevel:
		variant = toast.VariantError
	case level == zerolog.WarnLevel:
		variant = toast.VariantWarning
	}

	h.Push(toast.Request{Message: msg, Variant: variant})
}
