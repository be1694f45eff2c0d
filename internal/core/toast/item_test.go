package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestItem(d time.Duration) (*Item, *int) {
	closed := 0
	it := newItem(1, epoch, Request{Message: "m", Variant: VariantInfo, Duration: d}, DefaultTiming(), func() {
		closed++
	})
	return it, &closed
}

func TestItem_Entering_becomes_Visible_after_delay(t *testing.T) {
	it, _ := newTestItem(time.Second)

	it.Advance(epoch.Add(10 * time.Millisecond))
	assert.Equal(t, StateEntering, it.State())

	it.Advance(epoch.Add(DefaultTiming().EnterDelay))
	assert.Equal(t, StateVisible, it.State())
}

func TestItem_progress_is_monotonic_and_reaches_one(t *testing.T) {
	it, closed := newTestItem(time.Second)
	step := DefaultTiming().TickInterval

	last := 0.0
	var expiredAt time.Duration
	for elapsed := step; elapsed <= 2*time.Second; elapsed += step {
		it.Advance(epoch.Add(elapsed))
		require.GreaterOrEqual(t, it.Progress(), last)
		last = it.Progress()
		if it.State() == StateLeaving && expiredAt == 0 {
			expiredAt = elapsed
			assert.InDelta(t, 1.0, it.Progress(), 0)
			assert.InDelta(t, 0.0, it.Remaining(), 0)
		}
	}

	assert.Equal(t, time.Second, expiredAt)
	assert.Equal(t, StateRemoved, it.State())
	assert.Equal(t, 1, *closed)
}

func TestItem_progress_ignores_clock_going_backwards(t *testing.T) {
	it, _ := newTestItem(time.Second)

	it.Advance(epoch.Add(500 * time.Millisecond))
	p := it.Progress()
	it.Advance(epoch.Add(200 * time.Millisecond))

	assert.InDelta(t, p, it.Progress(), 0)
}

func TestItem_Close_is_idempotent(t *testing.T) {
	it, closed := newTestItem(time.Second)
	it.Advance(epoch.Add(100 * time.Millisecond))

	it.Close(epoch.Add(100 * time.Millisecond))
	it.Close(epoch.Add(150 * time.Millisecond))
	assert.Equal(t, StateLeaving, it.State())

	it.Advance(epoch.Add(200 * time.Millisecond))
	assert.Equal(t, StateRemoved, it.State(), "leave window counts from the first close")

	it.Advance(epoch.Add(5 * time.Second))
	it.Close(epoch.Add(5 * time.Second))
	assert.Equal(t, 1, *closed)
}

func TestItem_expiry_after_close_does_not_refire(t *testing.T) {
	it, closed := newTestItem(300 * time.Millisecond)

	it.Close(epoch.Add(250 * time.Millisecond))
	for elapsed := 250 * time.Millisecond; elapsed <= time.Second; elapsed += 50 * time.Millisecond {
		it.Advance(epoch.Add(elapsed))
	}

	assert.Equal(t, 1, *closed)
}

func TestItem_disposed_ignores_everything(t *testing.T) {
	it, closed := newTestItem(time.Second)
	it.dispose()

	it.Close(epoch)
	it.Advance(epoch.Add(10 * time.Second))

	assert.Equal(t, StateEntering, it.State())
	assert.Equal(t, 0, *closed)
}

func TestItem_LeaveFraction(t *testing.T) {
	it, _ := newTestItem(time.Second)
	assert.InDelta(t, 0.0, it.LeaveFraction(epoch), 0)

	it.Close(epoch)
	assert.InDelta(t, 0.5, it.LeaveFraction(epoch.Add(50*time.Millisecond)), 0.001)
	assert.InDelta(t, 1.0, it.LeaveFraction(epoch.Add(time.Second)), 0)
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{"", VariantInfo, false},
		{"success", VariantSuccess, false},
		{"accent", VariantAccent, false},
		{"loud", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVariant(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "entering", StateEntering.String())
	assert.Equal(t, "removed", StateRemoved.String())
	assert.Equal(t, "unknown", State(9).String())
}
