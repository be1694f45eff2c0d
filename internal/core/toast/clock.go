package toast

import (
	"sync/atomic"
	"time"
)

// Clock supplies the current time to the Manager and its Items.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Sequence hands out toast identifiers.
type Sequence interface {
	Next() int64
}

// Counter is a monotonic Sequence. The zero value starts at 0.
type Counter struct {
	n atomic.Int64
}

// NewCounter returns a Counter whose first identifier is start.
func NewCounter(start int64) *Counter {
	c := &Counter{}
	c.n.Store(start)
	return c
}

// Next returns the next identifier. Safe for concurrent use.
func (c *Counter) Next() int64 {
	return c.n.Add(1) - 1
}
