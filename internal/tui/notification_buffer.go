package tui

import (
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/hitch/internal/core/toast"
)

// drainToastsMsg tells Update that the log hook left requests in the buffer.
type drainToastsMsg struct{}

// NotificationBuffer is the hand-off between logging.ToastHook and the
// dashboard. The hook runs on whatever goroutine logged (the DB watcher, a
// fetch command) and calls Push; Update receives drainToastsMsg and moves the
// requests onto the Bus with Drain.
//
// A request identical to the one still waiting at the tail is dropped, so a
// warning logged in a tight loop becomes one toast per drain.
type NotificationBuffer struct {
	mu      sync.Mutex
	pending []toast.Request
	wake    chan struct{} // capacity 1, so repeated pushes coalesce into one drain
}

func NewNotificationBuffer() *NotificationBuffer {
	return &NotificationBuffer{wake: make(chan struct{}, 1)}
}

// Push queues req and wakes the dashboard. It never blocks, which matters
// because it runs inside a zerolog hook.
func (b *NotificationBuffer) Push(req toast.Request) {
	b.mu.Lock()
	if n := len(b.pending); n > 0 && b.pending[n-1] == req {
		b.mu.Unlock()
		return
	}
	b.pending = append(b.pending, req)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Drain hands every queued request to the caller in push order.
func (b *NotificationBuffer) Drain() []toast.Request {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.pending
	b.pending = nil
	return out
}

// WaitForSignal returns a command that resolves once Push has run. The
// dashboard re-issues it after every drain.
func (b *NotificationBuffer) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		<-b.wake
		return drainToastsMsg{}
	}
}
