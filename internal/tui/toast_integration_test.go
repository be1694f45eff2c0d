package tui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/hitch/internal/core/toast"
	tuinotify "github.com/colonyops/hitch/internal/tui/notify"
)

type memHistory struct {
	records []toast.Record
}

func (s *memHistory) Save(_ context.Context, r toast.Record) (int64, error) {
	s.records = append(s.records, r)
	return int64(len(s.records)), nil
}

func (s *memHistory) List(context.Context) ([]toast.Record, error) { return s.records, nil }

func (s *memHistory) Clear(context.Context) error {
	s.records = nil
	return nil
}

func (s *memHistory) Count(context.Context) (int64, error) { return int64(len(s.records)), nil }

// runTicks drives the Update loop with toastTickMsg until the chain stops and
// returns how many ticks it took.
func runTicks(t *testing.T, m Model, clock *testClock) (Model, int) {
	t.Helper()
	interval := m.toasts.Timing().TickInterval

	ticks := 0
	for {
		clock.Add(interval)

		next, cmd := update(t, m, toastTickMsg(clock.now))
		m = next
		ticks++

		if cmd == nil {
			return m, ticks
		}
		if ticks > 200 {
			t.Fatal("tick chain ran for >200 ticks without expiring")
		}
	}
}

// TestToastUpdateLoop_tick_chain_expires_after_duration_and_leave_window
// checks the full countdown: 3s of visible time then a 100ms leave window at
// 50ms ticks.
func TestToastUpdateLoop_tick_chain_expires_after_duration_and_leave_window(t *testing.T) {
	m, clock := newTestModel(t, Options{})

	m.bus.Infof("saved")
	require.NotNil(t, m.ensureToastTick())

	m, ticks := runTicks(t, m, clock)

	assert.Equal(t, 62, ticks)
	assert.False(t, m.toasts.HasToasts())
	assert.False(t, m.ticker.running)
}

func TestToastUpdateLoop_single_chain_for_many_toasts(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m.bus.Infof("one")
	require.NotNil(t, m.ensureToastTick())

	m.bus.Infof("two")
	assert.Nil(t, m.ensureToastTick(), "a running chain is reused")
}

func TestToastUpdateLoop_toasts_added_together_leave_together(t *testing.T) {
	m, clock := newTestModel(t, Options{})
	a := m.bus.Successf("a")
	b := m.bus.Successf("b")
	m.ensureToastTick()

	clock.Add(3000 * time.Millisecond)
	m, _ = update(t, m, toastTickMsg(clock.now))

	ia, _ := m.toasts.Get(a)
	ib, _ := m.toasts.Get(b)
	assert.Equal(t, toast.StateLeaving, ia.State())
	assert.Equal(t, toast.StateLeaving, ib.State())

	clock.Add(100 * time.Millisecond)
	_, cmd := update(t, m, toastTickMsg(clock.now))
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.toasts.Len())
}

func TestToastUpdateLoop_dismiss_shortens_lifetime(t *testing.T) {
	m, clock := newTestModel(t, Options{})
	m.bus.Errorf("broken")
	m.ensureToastTick()

	clock.Add(500 * time.Millisecond)
	m, _ = update(t, m, toastTickMsg(clock.now))
	m, _ = update(t, m, press("x"))

	m, ticks := runTicks(t, m, clock)
	assert.Equal(t, 2, ticks)
	assert.False(t, m.toasts.HasToasts())
}

func TestToastUpdateLoop_late_tick_removes_expired_toast(t *testing.T) {
	m, clock := newTestModel(t, Options{})
	m.bus.Infof("stale")
	m.ensureToastTick()

	// The program was suspended well past the deadline.
	clock.Add(10 * time.Second)
	_, cmd := update(t, m, toastTickMsg(clock.now))

	assert.Nil(t, cmd)
	assert.False(t, m.toasts.HasToasts())
}

func TestToastUpdateLoop_history_is_recorded(t *testing.T) {
	store := &memHistory{}
	bus := tuinotify.NewBus(store)
	m, _ := newTestModel(t, Options{Bus: bus})

	m, _ = update(t, m, bookingsLoadedMsg{manual: true})

	require.Len(t, store.records, 1)
	assert.Equal(t, "Loaded 0 bookings", store.records[0].Message)
	assert.Equal(t, toast.VariantSuccess, store.records[0].Variant)
	assert.Equal(t, int64(0), store.records[0].ID)
}
