package toast

import (
	"slices"
	"time"
)

// Manager owns the ordered collection of active toasts. Insertion order is
// display order, newest last. It is not safe for concurrent use; drive it
// from a single goroutine such as the Bubble Tea Update loop.
type Manager struct {
	items    []*Item
	seq      Sequence
	clock    Clock
	timing   Timing
	duration time.Duration
}

var _ Notifier = (*Manager)(nil)

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source used for creation stamps and ticks.
func WithClock(c Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithSequence sets the identifier generator.
func WithSequence(s Sequence) Option {
	return func(m *Manager) { m.seq = s }
}

// WithTiming overrides the lifecycle intervals.
func WithTiming(t Timing) Option {
	return func(m *Manager) { m.timing = t.withDefaults() }
}

// WithDefaultDuration sets the countdown used when a request leaves
// Duration unset.
func WithDefaultDuration(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.duration = d
		}
	}
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		seq:      &Counter{},
		clock:    SystemClock{},
		timing:   DefaultTiming(),
		duration: DefaultDuration,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add appends a new toast and returns its identifier.
func (m *Manager) Add(req Request) int64 {
	if req.Duration <= 0 {
		req.Duration = m.duration
	}
	req = req.Normalize()
	id := m.seq.Next()
	item := newItem(id, m.clock.Now(), req, m.timing, func() { m.Remove(id) })
	m.items = append(m.items, item)
	return id
}

// DefaultDuration is the countdown given to requests without a Duration.
func (m *Manager) DefaultDuration() time.Duration {
	return m.duration
}

// AddToast implements Notifier.
func (m *Manager) AddToast(req Request) int64 {
	return m.Add(req)
}

// Remove drops the toast with the given id. Unknown ids are ignored.
func (m *Manager) Remove(id int64) {
	idx := m.index(id)
	if idx < 0 {
		return
	}
	m.items[idx].dispose()
	m.items = slices.Delete(m.items, idx, idx+1)
}

// RemoveToast implements Notifier.
func (m *Manager) RemoveToast(id int64) {
	m.Remove(id)
}

// Dismiss activates the close control of the toast with the given id, which
// starts its leave animation. Unknown ids are ignored.
func (m *Manager) Dismiss(id int64) {
	if idx := m.index(id); idx >= 0 {
		m.items[idx].Close(m.clock.Now())
	}
}

// DismissNewest closes the newest toast that is not already leaving.
func (m *Manager) DismissNewest() {
	for i := len(m.items) - 1; i >= 0; i-- {
		if s := m.items[i].State(); s == StateEntering || s == StateVisible {
			m.items[i].Close(m.clock.Now())
			return
		}
	}
}

// DismissAll closes every toast.
func (m *Manager) DismissAll() {
	now := m.clock.Now()
	for _, it := range m.items {
		it.Close(now)
	}
}

// Advance runs one tick for every toast and reports whether any remain.
func (m *Manager) Advance() bool {
	now := m.clock.Now()
	// Items remove themselves through onClose, so iterate over a snapshot.
	for _, it := range slices.Clone(m.items) {
		it.Advance(now)
	}
	return len(m.items) > 0
}

// Close disposes every toast and empties the collection.
func (m *Manager) Close() {
	for _, it := range m.items {
		it.dispose()
	}
	m.items = nil
}

// Items returns a snapshot of the active toasts in display order.
func (m *Manager) Items() []*Item {
	return slices.Clone(m.items)
}

// Get returns the toast with the given id.
func (m *Manager) Get(id int64) (*Item, bool) {
	if idx := m.index(id); idx >= 0 {
		return m.items[idx], true
	}
	return nil, false
}

// Len returns the number of active toasts.
func (m *Manager) Len() int {
	return len(m.items)
}

// HasToasts returns true if there are any active toasts.
func (m *Manager) HasToasts() bool {
	return len(m.items) > 0
}

// Now returns the manager's clock reading.
func (m *Manager) Now() time.Time {
	return m.clock.Now()
}

// Timing returns the lifecycle intervals in use.
func (m *Manager) Timing() Timing {
	return m.timing
}

func (m *Manager) index(id int64) int {
	return slices.IndexFunc(m.items, func(it *Item) bool { return it.ID == id })
}
