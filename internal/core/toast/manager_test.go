package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Add(d time.Duration) { c.now = c.now.Add(d) }

func newTestManager() (*Manager, *manualClock) {
	clock := &manualClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	return NewManager(WithClock(clock)), clock
}

// runFor ticks the manager at the default tick interval for d.
func runFor(m *Manager, clock *manualClock, d time.Duration) {
	step := DefaultTiming().TickInterval
	for elapsed := time.Duration(0); elapsed < d; elapsed += step {
		clock.Add(step)
		m.Advance()
	}
}

func TestManager_Add_assigns_increasing_unique_ids(t *testing.T) {
	m, _ := newTestManager()

	seen := make(map[int64]bool)
	last := int64(-1)
	for range 50 {
		id := m.Add(Request{Message: "x"})
		assert.Greater(t, id, last)
		assert.False(t, seen[id], "id %d reused", id)
		seen[id] = true
		last = id
	}
	assert.Equal(t, 50, m.Len())
}

func TestManager_Add_preserves_insertion_order(t *testing.T) {
	m, clock := newTestManager()

	first := m.Add(Request{Message: "Saved", Duration: 3 * time.Second})
	second := m.Add(Request{Message: "Error", Duration: 3 * time.Second})

	items := m.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(0), first)
	assert.Equal(t, int64(1), second)
	assert.Equal(t, "Saved", items[0].Message)
	assert.Equal(t, "Error", items[1].Message)
	assert.Equal(t, clock.Now(), items[0].CreatedAt)
}

func TestManager_Add_applies_defaults(t *testing.T) {
	m, _ := newTestManager()

	id := m.Add(Request{Message: "hi", Variant: "bogus"})

	it, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, DefaultDuration, it.Duration)
	assert.Equal(t, VariantInfo, it.Variant)
	assert.Equal(t, StateEntering, it.State())
}

func TestManager_Remove_unknown_id_is_noop(t *testing.T) {
	m, _ := newTestManager()
	m.Add(Request{Message: "a"})
	m.Add(Request{Message: "b"})
	before := m.Items()

	m.Remove(42)
	m.Remove(42)

	assert.Equal(t, before, m.Items())
}

func TestManager_Remove_keeps_order_of_rest(t *testing.T) {
	m, _ := newTestManager()
	a := m.Add(Request{Message: "a"})
	b := m.Add(Request{Message: "b"})
	c := m.Add(Request{Message: "c"})

	m.Remove(b)

	items := m.Items()
	require.Len(t, items, 2)
	assert.Equal(t, a, items[0].ID)
	assert.Equal(t, c, items[1].ID)
}

func TestManager_two_toasts_expire_together(t *testing.T) {
	m, clock := newTestManager()
	m.Add(Request{Message: "Saved", Duration: 3000 * time.Millisecond})
	m.Add(Request{Message: "Error", Duration: 3000 * time.Millisecond})

	runFor(m, clock, 3050*time.Millisecond)
	require.Equal(t, 2, m.Len(), "toasts should still be leaving at 3050ms")
	for _, it := range m.Items() {
		assert.Equal(t, StateLeaving, it.State())
		assert.InDelta(t, 1.0, it.Progress(), 0)
	}

	runFor(m, clock, 50*time.Millisecond)
	assert.False(t, m.HasToasts())
}

func TestManager_single_late_tick_removes_expired_toast(t *testing.T) {
	m, clock := newTestManager()
	m.Add(Request{Message: "late", Duration: time.Second})

	clock.Add(5 * time.Second)
	assert.False(t, m.Advance())
}

func TestManager_Remove_before_expiry(t *testing.T) {
	m, clock := newTestManager()
	id := m.Add(Request{Message: "X", Duration: time.Second})
	it, ok := m.Get(id)
	require.True(t, ok)

	runFor(m, clock, 100*time.Millisecond)
	m.Remove(id)
	assert.False(t, m.HasToasts())

	stateAtRemoval := it.State()
	runFor(m, clock, 2*time.Second)

	assert.True(t, it.Disposed())
	assert.Equal(t, stateAtRemoval, it.State(), "disposed item must not advance")
	assert.False(t, m.HasToasts())
}

func TestManager_Dismiss_runs_leave_window(t *testing.T) {
	m, clock := newTestManager()
	id := m.Add(Request{Message: "bye", Duration: 10 * time.Second})
	runFor(m, clock, 200*time.Millisecond)

	m.Dismiss(id)
	it, _ := m.Get(id)
	assert.Equal(t, StateLeaving, it.State())

	runFor(m, clock, DefaultTiming().LeaveWindow)
	assert.False(t, m.HasToasts())
}

func TestManager_Dismiss_unknown_id_is_noop(t *testing.T) {
	m, _ := newTestManager()
	m.Add(Request{Message: "a"})

	m.Dismiss(99)

	assert.Equal(t, StateEntering, m.Items()[0].State())
}

func TestManager_DismissNewest_skips_leaving(t *testing.T) {
	m, clock := newTestManager()
	a := m.Add(Request{Message: "a", Duration: 10 * time.Second})
	b := m.Add(Request{Message: "b", Duration: 10 * time.Second})
	runFor(m, clock, 100*time.Millisecond)

	m.DismissNewest()
	m.DismissNewest()

	itA, _ := m.Get(a)
	itB, _ := m.Get(b)
	assert.Equal(t, StateLeaving, itB.State())
	assert.Equal(t, StateLeaving, itA.State())
}

func TestManager_DismissAll(t *testing.T) {
	m, clock := newTestManager()
	m.Add(Request{Message: "a", Duration: 10 * time.Second})
	m.Add(Request{Message: "b", Duration: 10 * time.Second})

	m.DismissAll()
	runFor(m, clock, DefaultTiming().LeaveWindow)

	assert.False(t, m.HasToasts())
}

func TestManager_Close_disposes_items(t *testing.T) {
	m, clock := newTestManager()
	m.Add(Request{Message: "a"})
	items := m.Items()

	m.Close()
	clock.Add(time.Minute)
	assert.False(t, m.Advance())
	assert.True(t, items[0].Disposed())
}

func TestManager_WithSequence(t *testing.T) {
	m := NewManager(WithSequence(NewCounter(100)))

	assert.Equal(t, int64(100), m.Add(Request{Message: "a"}))
	assert.Equal(t, int64(101), m.Add(Request{Message: "b"}))
}

func TestManager_WithDefaultDuration(t *testing.T) {
	m := NewManager(WithDefaultDuration(5 * time.Second))

	a, _ := m.Get(m.Add(Request{Message: "a"}))
	b, _ := m.Get(m.Add(Request{Message: "b", Duration: time.Second}))

	assert.Equal(t, 5*time.Second, a.Duration)
	assert.Equal(t, time.Second, b.Duration)
}

func TestManager_WithTiming_fills_invalid_fields(t *testing.T) {
	m := NewManager(WithTiming(Timing{EnterDelay: -1, TickInterval: 0, LeaveWindow: 200 * time.Millisecond}))

	got := m.Timing()
	assert.Equal(t, DefaultTiming().EnterDelay, got.EnterDelay)
	assert.Equal(t, DefaultTiming().TickInterval, got.TickInterval)
	assert.Equal(t, 200*time.Millisecond, got.LeaveWindow)
}

func TestCounter_concurrent_ids_are_unique(t *testing.T) {
	c := &Counter{}
	ids := make(chan int64, 400)
	done := make(chan struct{})
	for range 4 {
		go func() {
			for range 100 {
				ids <- c.Next()
			}
			done <- struct{}{}
		}()
	}
	for range 4 {
		<-done
	}
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Len(t, seen, 400)
}
