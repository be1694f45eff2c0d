package toast

import "time"

// State is a stage in a toast's lifecycle.
type State int

const (
	StateEntering State = iota
	StateVisible
	StateLeaving
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateEntering:
		return "entering"
	case StateVisible:
		return "visible"
	case StateLeaving:
		return "leaving"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Timing holds the fixed intervals of the lifecycle.
type Timing struct {
	EnterDelay   time.Duration // Entering -> Visible
	TickInterval time.Duration // progress refresh rate
	LeaveWindow  time.Duration // Leaving -> Removed
}

// DefaultTiming returns the built-in lifecycle intervals.
func DefaultTiming() Timing {
	return Timing{
		EnterDelay:   50 * time.Millisecond,
		TickInterval: 50 * time.Millisecond,
		LeaveWindow:  100 * time.Millisecond,
	}
}

func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.EnterDelay < 0 {
		t.EnterDelay = d.EnterDelay
	}
	if t.TickInterval <= 0 {
		t.TickInterval = d.TickInterval
	}
	if t.LeaveWindow < 0 {
		t.LeaveWindow = d.LeaveWindow
	}
	return t
}

// Item is a single toast. Every timer of the lifecycle is a deadline that
// Advance evaluates against the clock, so an Item has nothing to cancel
// beyond marking itself disposed.
type Item struct {
	ID        int64
	CreatedAt time.Time
	Message   string
	Variant   Variant
	Duration  time.Duration

	onClose func()
	timing  Timing

	state     State
	progress  float64
	leavingAt time.Time
	disposed  bool
}

func newItem(id int64, createdAt time.Time, req Request, timing Timing, onClose func()) *Item {
	return &Item{
		ID:        id,
		CreatedAt: createdAt,
		Message:   req.Message,
		Variant:   req.Variant,
		Duration:  req.Duration,
		onClose:   onClose,
		timing:    timing,
		state:     StateEntering,
	}
}

// State returns the current lifecycle stage.
func (it *Item) State() State {
	return it.state
}

// Progress returns the elapsed fraction of the countdown in [0, 1].
func (it *Item) Progress() float64 {
	return it.progress
}

// Remaining returns the fraction of the countdown still to run.
func (it *Item) Remaining() float64 {
	return 1 - it.progress
}

// LeaveFraction reports how far through the leave window the item is, in
// [0, 1]. It is 0 unless the item is Leaving.
func (it *Item) LeaveFraction(now time.Time) float64 {
	if it.state != StateLeaving {
		return 0
	}
	if it.timing.LeaveWindow <= 0 {
		return 1
	}
	f := float64(now.Sub(it.leavingAt)) / float64(it.timing.LeaveWindow)
	return clamp01(f)
}

// Disposed reports whether the item was torn down.
func (it *Item) Disposed() bool {
	return it.disposed
}

// Advance evaluates every pending transition against now.
func (it *Item) Advance(now time.Time) {
	if it.disposed || it.state == StateRemoved {
		return
	}

	if it.state == StateEntering && now.Sub(it.CreatedAt) >= it.timing.EnterDelay {
		it.state = StateVisible
	}

	if it.state == StateVisible {
		p := clamp01(float64(now.Sub(it.CreatedAt)) / float64(it.Duration))
		if p > it.progress {
			it.progress = p
		}
		if it.progress >= 1 {
			// The countdown ran out at CreatedAt+Duration, not at this tick.
			it.beginLeaving(it.CreatedAt.Add(it.Duration))
		}
	}

	if it.state == StateLeaving && now.Sub(it.leavingAt) >= it.timing.LeaveWindow {
		it.state = StateRemoved
		if it.onClose != nil {
			it.onClose()
		}
	}
}

// Close activates the item's close control. Repeated calls, and calls once
// the item is already leaving, are ignored.
func (it *Item) Close(now time.Time) {
	if it.disposed {
		return
	}
	if it.state == StateEntering || it.state == StateVisible {
		it.beginLeaving(now)
	}
}

func (it *Item) beginLeaving(now time.Time) {
	it.state = StateLeaving
	it.leavingAt = now
}

// dispose cancels the item; later Advance and Close calls do nothing.
func (it *Item) dispose() {
	it.disposed = true
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
