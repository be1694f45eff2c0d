// Package notify routes toast requests from anywhere in the TUI to the toast
// manager, recording each one in the history store on the way.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/colonyops/hitch/internal/core/toast"
	"github.com/rs/zerolog/log"
)

// Event is a toast as seen by subscribers.
type Event struct {
	ID        int64 // toast id assigned by the sink, -1 without a sink
	Request   toast.Request
	CreatedAt time.Time
}

// Subscriber is a callback invoked after a toast is added.
type Subscriber func(Event)

// Bus is a synchronous in-process toast bus. It implements toast.Notifier by
// forwarding to an attached sink, persists every toast to a HistoryStore and
// then dispatches it to subscribers inline. Call it from the Bubble Tea
// Update loop only; producers on other goroutines go through a buffer.
type Bus struct {
	store       toast.HistoryStore
	sink        toast.Notifier
	now         func() time.Time
	subscribers []Subscriber
	mu          sync.Mutex
}

var _ toast.Notifier = (*Bus)(nil)

// NewBus creates a toast bus backed by the given store.
// If store is nil, toasts are dispatched but not persisted.
func NewBus(store toast.HistoryStore) *Bus {
	return &Bus{
		store: store,
		now:   time.Now,
	}
}

// Attach sets the notifier that displays toasts, normally a *toast.Manager.
func (b *Bus) Attach(sink toast.Notifier) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sink = sink
}

// Subscribe registers a callback that will be invoked on every AddToast.
func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// defaulter is implemented by sinks that apply their own default duration,
// such as *toast.Manager.
type defaulter interface {
	DefaultDuration() time.Duration
}

// AddToast implements toast.Notifier. The sink receives the request as given
// so its own default duration applies; subscribers and the history see the
// duration the sink will use.
func (b *Bus) AddToast(req toast.Request) int64 {
	b.mu.Lock()
	sink := b.sink
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	ev := Event{ID: -1, CreatedAt: b.now()}
	if sink != nil {
		ev.ID = sink.AddToast(req)
		if d, ok := sink.(defaulter); ok && req.Duration <= 0 {
			req.Duration = d.DefaultDuration()
		}
	}
	req = req.Normalize()
	ev.Request = req

	if b.store != nil {
		_, err := b.store.Save(context.Background(), toast.Record{
			ID:        ev.ID,
			Variant:   req.Variant,
			Message:   req.Message,
			CreatedAt: ev.CreatedAt,
		})
		if err != nil {
			log.Error().Err(err).Str("message", req.Message).Msg("failed to persist toast")
		}
	}

	for _, fn := range subs {
		fn(ev)
	}

	return ev.ID
}

// RemoveToast implements toast.Notifier.
func (b *Bus) RemoveToast(id int64) {
	b.mu.Lock()
	sink := b.sink
	b.mu.Unlock()

	if sink != nil {
		sink.RemoveToast(id)
	}
}

func (b *Bus) addf(v toast.Variant, format string, args ...any) int64 {
	return b.AddToast(toast.Request{Message: fmt.Sprintf(format, args...), Variant: v})
}

// Successf adds a success toast.
func (b *Bus) Successf(format string, args ...any) int64 {
	return b.addf(toast.VariantSuccess, format, args...)
}

// Errorf adds an error toast.
func (b *Bus) Errorf(format string, args ...any) int64 {
	return b.addf(toast.VariantError, format, args...)
}

// Warnf adds a warning toast.
func (b *Bus) Warnf(format string, args ...any) int64 {
	return b.addf(toast.VariantWarning, format, args...)
}

// Infof adds an info toast.
func (b *Bus) Infof(format string, args ...any) int64 {
	return b.addf(toast.VariantInfo, format, args...)
}

// History returns all persisted toasts (newest first).
// Returns nil if no store is configured.
func (b *Bus) History(ctx context.Context) ([]toast.Record, error) {
	if b.store == nil {
		return nil, nil
	}
	return b.store.List(ctx)
}

// Clear deletes all persisted toasts.
func (b *Bus) Clear(ctx context.Context) error {
	if b.store == nil {
		return nil
	}
	return b.store.Clear(ctx)
}
