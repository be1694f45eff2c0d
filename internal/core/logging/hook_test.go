package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/hitch/internal/core/toast"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "booking and command",
			setupCtx: func() context.Context {
				ctx := context.Background()
				ctx = WithBookingID(ctx, "b-123")
				ctx = WithCommand(ctx, "booking cancel")
				return ctx
			},
			wantKeys: []string{"booking_id", "command"},
		},
		{
			name: "only booking",
			setupCtx: func() context.Context {
				return WithBookingID(context.Background(), "b-123")
			},
			wantKeys:  []string{"booking_id"},
			wantEmpty: []string{"command"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"booking_id", "command"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(tt.setupCtx()).Msg("test")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			for _, key := range tt.wantKeys {
				assert.Contains(t, entry, key)
			}
			for _, key := range tt.wantEmpty {
				assert.NotContains(t, entry, key)
			}
		})
	}
}

func TestToastHook_Run(t *testing.T) {
	var got []toast.Request
	hook := ToastHook{
		MinLevel: zerolog.WarnLevel,
		Push:     func(r toast.Request) { got = append(got, r) },
	}
	logger := zerolog.New(io.Discard).Hook(hook)

	logger.Info().Msg("quiet")
	logger.Warn().Msg("careful")
	logger.Error().Msg("broken")
	logger.Error().Msg("")

	require.Len(t, got, 2)
	assert.Equal(t, toast.Request{Message: "careful", Variant: toast.VariantWarning}, got[0])
	assert.Equal(t, toast.Request{Message: "broken", Variant: toast.VariantError}, got[1])
}

func TestToastHook_NilPush(t *testing.T) {
	logger := zerolog.New(io.Discard).Hook(ToastHook{MinLevel: zerolog.ErrorLevel})
	assert.NotPanics(t, func() { logger.Error().Msg("nobody listening") })
}
