package logging

import "context"

type contextKey string

const (
	bookingIDKey contextKey = "booking_id"
	commandKey   contextKey = "command"
)

// WithBookingID adds a booking ID to the context.
func WithBookingID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, bookingIDKey, id)
}

// WithCommand adds the running CLI command name to the context.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey, name)
}

// GetBookingID retrieves the booking ID from the context.
// Returns empty string if not present.
func GetBookingID(ctx context.Context) string {
	if id, ok := ctx.Value(bookingIDKey).(string); ok {
		return id
	}
	return ""
}

// GetCommand retrieves the command name from the context.
// Returns empty string if not present.
func GetCommand(ctx context.Context) string {
	if name, ok := ctx.Value(commandKey).(string); ok {
		return name
	}
	return ""
}
