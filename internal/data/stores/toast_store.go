package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/hitch/internal/core/toast"
	"github.com/colonyops/hitch/internal/data/db"
)

// ToastStore implements toast.HistoryStore using SQLite.
type ToastStore struct {
	db *db.DB
}

var _ toast.HistoryStore = (*ToastStore)(nil)

// NewToastStore creates a new SQLite-backed toast history store.
func NewToastStore(db *db.DB) *ToastStore {
	return &ToastStore{db: db}
}

// Save persists a toast and returns its history row ID.
func (s *ToastStore) Save(ctx context.Context, r toast.Record) (int64, error) {
	res, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO toast_history (toast_id, variant, message, created_at) VALUES (?, ?, ?, ?)`,
		r.ID, string(r.Variant), r.Message, r.CreatedAt.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert toast: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("toast row id: %w", err)
	}
	return id, nil
}

// List returns all toasts ordered by newest first.
func (s *ToastStore) List(ctx context.Context) ([]toast.Record, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT toast_id, variant, message, created_at FROM toast_history ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list toasts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]toast.Record, 0)
	for rows.Next() {
		var (
			r       toast.Record
			variant string
			created int64
		)
		if err := rows.Scan(&r.ID, &variant, &r.Message, &created); err != nil {
			return nil, fmt.Errorf("scan toast: %w", err)
		}
		r.Variant = toast.Variant(variant)
		r.CreatedAt = time.Unix(0, created)
		result = append(result, r)
	}

	return result, rows.Err()
}

// Clear deletes all toasts.
func (s *ToastStore) Clear(ctx context.Context) error {
	if _, err := s.db.Conn().ExecContext(ctx, `DELETE FROM toast_history`); err != nil {
		return fmt.Errorf("clear toasts: %w", err)
	}
	return nil
}

// Count returns the total number of stored toasts.
func (s *ToastStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM toast_history`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count toasts: %w", err)
	}
	return count, nil
}
