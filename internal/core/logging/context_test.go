package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetBookingID(ctx))
	assert.Empty(t, GetCommand(ctx))

	ctx = WithCommand(WithBookingID(ctx, "b-1"), "booking status")
	assert.Equal(t, "b-1", GetBookingID(ctx))
	assert.Equal(t, "booking status", GetCommand(ctx))
}
