package toast

import (
	"context"
	"time"
)

// Record is a toast as kept in the history store.
type Record struct {
	ID        int64
	Variant   Variant
	Message   string
	CreatedAt time.Time
}

// HistoryStore persists toasts to durable storage.
type HistoryStore interface {
	Save(ctx context.Context, r Record) (int64, error)
	List(ctx context.Context) ([]Record, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
