package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/hitch/internal/core/booking"
	"github.com/colonyops/hitch/internal/data/db"
	"github.com/google/uuid"
)

// BookingStore keeps trailers, bookings, payments and agreements in SQLite.
type BookingStore struct {
	db  *db.DB
	now func() time.Time
}

var (
	_ booking.Fetcher       = (*BookingStore)(nil)
	_ booking.StatusUpdater = (*BookingStore)(nil)
)

// NewBookingStore creates a new SQLite-backed booking store.
func NewBookingStore(db *db.DB) *BookingStore {
	return &BookingStore{db: db, now: time.Now}
}

// Revision returns a counter that grows with every committed change to
// trailers, bookings, payments or agreements, from any connection or
// process. Toast history writes leave it unchanged.
func (s *BookingStore) Revision(ctx context.Context) (int64, error) {
	var rev int64
	err := s.db.Conn().QueryRowContext(ctx, `SELECT revision FROM data_revision WHERE id = 1`).Scan(&rev)
	if err != nil {
		return 0, fmt.Errorf("read data revision: %w", err)
	}
	return rev, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const trailerColumns = `id, name, kind, plate, daily_rate_cents, created_at`

func scanTrailer(s scanner) (booking.Trailer, error) {
	var (
		t       booking.Trailer
		kind    string
		created int64
	)
	if err := s.Scan(&t.ID, &t.Name, &kind, &t.Plate, &t.DailyRateCents, &created); err != nil {
		return booking.Trailer{}, err
	}
	t.Kind = booking.Kind(kind)
	t.CreatedAt = time.Unix(0, created)
	return t, nil
}

// CreateTrailer validates and inserts t, filling in its ID and CreatedAt.
func (s *BookingStore) CreateTrailer(ctx context.Context, t *booking.Trailer) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.CreatedAt = s.now()

	res, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO trailers (name, kind, plate, daily_rate_cents, created_at) VALUES (?, ?, ?, ?, ?)`,
		t.Name, string(t.Kind), t.Plate, t.DailyRateCents, t.CreatedAt.UnixNano(),
	)
	if err != nil {
		if IsConstraintError(err) {
			return fmt.Errorf("trailer %q already exists", t.Name)
		}
		return fmt.Errorf("insert trailer: %w", err)
	}

	t.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("trailer id: %w", err)
	}
	return nil
}

// ListTrailers returns every trailer ordered by name.
func (s *BookingStore) ListTrailers(ctx context.Context) ([]booking.Trailer, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `SELECT `+trailerColumns+` FROM trailers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list trailers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var trailers []booking.Trailer
	for rows.Next() {
		t, err := scanTrailer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trailer: %w", err)
		}
		trailers = append(trailers, t)
	}
	return trailers, rows.Err()
}

// GetTrailer returns a trailer by ID or name. Returns booking.ErrNotFound if
// neither matches.
func (s *BookingStore) GetTrailer(ctx context.Context, ref string) (booking.Trailer, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT `+trailerColumns+` FROM trailers WHERE CAST(id AS TEXT) = ? OR name = ? COLLATE NOCASE`,
		ref, ref,
	)
	t, err := scanTrailer(row)
	if IsNotFoundError(err) {
		return booking.Trailer{}, fmt.Errorf("trailer %q: %w", ref, booking.ErrNotFound)
	}
	if err != nil {
		return booking.Trailer{}, fmt.Errorf("get trailer: %w", err)
	}
	return t, nil
}

const bookingSelect = `
	SELECT b.id, b.trailer_id, t.name, b.customer_name, b.customer_email,
	       b.start_at, b.end_at, b.status, b.total_cents, b.created_at
	FROM bookings b
	JOIN trailers t ON t.id = b.trailer_id`

func scanBooking(s scanner) (booking.Booking, error) {
	var (
		b                     booking.Booking
		status                string
		start, end, createdAt int64
	)
	err := s.Scan(&b.ID, &b.TrailerID, &b.TrailerName, &b.CustomerName, &b.CustomerEmail,
		&start, &end, &status, &b.TotalCents, &createdAt)
	if err != nil {
		return booking.Booking{}, err
	}
	b.Status = booking.Status(status)
	b.StartAt = time.Unix(0, start)
	b.EndAt = time.Unix(0, end)
	b.CreatedAt = time.Unix(0, createdAt)
	return b, nil
}

// CreateBooking validates and inserts b. A zero TotalCents is quoted from the
// trailer's daily rate. ID and CreatedAt are assigned when empty.
func (s *BookingStore) CreateBooking(ctx context.Context, b *booking.Booking) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		return s.insertBooking(ctx, tx, b)
	})
}

func (s *BookingStore) insertBooking(ctx context.Context, tx *sql.Tx, b *booking.Booking) error {
	if b.Status == "" {
		b.Status = booking.StatusPending
	}
	if err := b.Validate(); err != nil {
		return err
	}

	var (
		name string
		rate int64
	)
	err := tx.QueryRowContext(ctx, `SELECT name, daily_rate_cents FROM trailers WHERE id = ?`, b.TrailerID).
		Scan(&name, &rate)
	if IsNotFoundError(err) {
		return fmt.Errorf("trailer %d: %w", b.TrailerID, booking.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get trailer: %w", err)
	}

	if b.Status.Open() {
		var clash string
		err := tx.QueryRowContext(ctx, `
			SELECT id FROM bookings
			WHERE trailer_id = ? AND status IN ('pending', 'confirmed', 'active')
			  AND start_at < ? AND end_at > ?
			LIMIT 1`,
			b.TrailerID, b.EndAt.UnixNano(), b.StartAt.UnixNano(),
		).Scan(&clash)
		switch {
		case err == nil:
			return fmt.Errorf("trailer %s is already booked (%s)", name, clash)
		case !IsNotFoundError(err):
			return fmt.Errorf("check overlap: %w", err)
		}
	}

	b.TrailerName = name
	if b.TotalCents == 0 {
		b.TotalCents = booking.Trailer{DailyRateCents: rate}.QuoteTotal(*b)
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (id, trailer_id, customer_name, customer_email, start_at, end_at, status, total_cents, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.TrailerID, b.CustomerName, b.CustomerEmail,
		b.StartAt.UnixNano(), b.EndAt.UnixNano(), string(b.Status), b.TotalCents, b.CreatedAt.UnixNano(),
	)
	if err != nil {
		if IsConstraintError(err) {
			return fmt.Errorf("booking %s already exists", b.ID)
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// ImportBookings inserts every booking in one transaction. Nothing is kept
// when any booking fails.
func (s *BookingStore) ImportBookings(ctx context.Context, bookings []booking.Booking) (int, error) {
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		for i := range bookings {
			if err := s.insertBooking(ctx, tx, &bookings[i]); err != nil {
				return fmt.Errorf("booking %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(bookings), nil
}

// ListBookings returns every booking ordered by start time.
func (s *BookingStore) ListBookings(ctx context.Context) ([]booking.Booking, error) {
	rows, err := s.db.Conn().QueryContext(ctx, bookingSelect+` ORDER BY b.start_at, b.created_at`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	bookings := make([]booking.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetBooking returns a booking by ID. A unique ID prefix of at least four
// characters is accepted. Returns booking.ErrNotFound if nothing matches.
func (s *BookingStore) GetBooking(ctx context.Context, id string) (booking.Booking, error) {
	id = strings.TrimSpace(id)
	if len(id) < 4 {
		return booking.Booking{}, fmt.Errorf("booking %q: %w", id, booking.ErrNotFound)
	}

	rows, err := s.db.Conn().QueryContext(ctx, bookingSelect+` WHERE b.id = ? OR b.id LIKE ? LIMIT 2`, id, id+"%")
	if err != nil {
		return booking.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var found []booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return booking.Booking{}, fmt.Errorf("scan booking: %w", err)
		}
		if b.ID == id {
			return b, nil
		}
		found = append(found, b)
	}
	if err := rows.Err(); err != nil {
		return booking.Booking{}, fmt.Errorf("get booking: %w", err)
	}

	switch len(found) {
	case 0:
		return booking.Booking{}, fmt.Errorf("booking %q: %w", id, booking.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return booking.Booking{}, fmt.Errorf("booking prefix %q is ambiguous", id)
	}
}

// SetBookingStatus changes the status of a booking. Returns
// booking.ErrNotFound if the booking does not exist.
func (s *BookingStore) SetBookingStatus(ctx context.Context, id string, status booking.Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}

	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.db.Conn().ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, string(status), b.ID); err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	return nil
}

// AddPayment validates and records a payment, filling in its ID and
// CreatedAt. Paid payments without PaidAt are stamped now.
func (s *BookingStore) AddPayment(ctx context.Context, p *booking.Payment) error {
	if p.Status == "" {
		p.Status = booking.PaymentPaid
	}
	if err := p.Validate(); err != nil {
		return err
	}

	b, err := s.GetBooking(ctx, p.BookingID)
	if err != nil {
		return err
	}
	p.BookingID = b.ID
	p.CreatedAt = s.now()
	if p.Status == booking.PaymentPaid && p.PaidAt == nil {
		at := p.CreatedAt
		p.PaidAt = &at
	}

	res, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO payments (booking_id, amount_cents, method, status, paid_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.BookingID, p.AmountCents, string(p.Method), string(p.Status), nullTime(p.PaidAt), p.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("payment id: %w", err)
	}
	return nil
}

// ListPayments returns the payments of a booking, oldest first. An empty
// bookingID lists every payment.
func (s *BookingStore) ListPayments(ctx context.Context, bookingID string) ([]booking.Payment, error) {
	query := `SELECT id, booking_id, amount_cents, method, status, paid_at, created_at FROM payments`
	var args []any
	if bookingID != "" {
		b, err := s.GetBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		query += ` WHERE booking_id = ?`
		args = append(args, b.ID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var payments []booking.Payment
	for rows.Next() {
		var (
			p              booking.Payment
			method, status string
			paidAt         sql.NullInt64
			created        int64
		)
		if err := rows.Scan(&p.ID, &p.BookingID, &p.AmountCents, &method, &status, &paidAt, &created); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.Method = booking.PaymentMethod(method)
		p.Status = booking.PaymentStatus(status)
		p.PaidAt = timePtr(paidAt)
		p.CreatedAt = time.Unix(0, created)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// SetAgreement stores the terms for a booking. Changing the terms clears
// any existing signature.
func (s *BookingStore) SetAgreement(ctx context.Context, bookingID, terms string) (booking.Agreement, error) {
	if strings.TrimSpace(terms) == "" {
		return booking.Agreement{}, errors.New("agreement terms are required")
	}

	b, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return booking.Agreement{}, err
	}

	now := s.now()
	_, err = s.db.Conn().ExecContext(ctx, `
		INSERT INTO agreements (booking_id, terms, signed_by, signed_at, updated_at)
		VALUES (?, ?, '', NULL, ?)
		ON CONFLICT (booking_id) DO UPDATE SET
			terms = excluded.terms, signed_by = '', signed_at = NULL, updated_at = excluded.updated_at`,
		b.ID, terms, now.UnixNano(),
	)
	if err != nil {
		return booking.Agreement{}, fmt.Errorf("upsert agreement: %w", err)
	}

	return booking.Agreement{BookingID: b.ID, Terms: terms, UpdatedAt: now}, nil
}

// GetAgreement returns the agreement of a booking. Returns
// booking.ErrNotFound if none was set.
func (s *BookingStore) GetAgreement(ctx context.Context, bookingID string) (booking.Agreement, error) {
	b, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return booking.Agreement{}, err
	}

	var (
		a        booking.Agreement
		signedAt sql.NullInt64
		updated  int64
	)
	err = s.db.Conn().QueryRowContext(ctx,
		`SELECT booking_id, terms, signed_by, signed_at, updated_at FROM agreements WHERE booking_id = ?`, b.ID,
	).Scan(&a.BookingID, &a.Terms, &a.SignedBy, &signedAt, &updated)
	if IsNotFoundError(err) {
		return booking.Agreement{}, fmt.Errorf("agreement for %s: %w", b.ID, booking.ErrNotFound)
	}
	if err != nil {
		return booking.Agreement{}, fmt.Errorf("get agreement: %w", err)
	}
	a.SignedAt = timePtr(signedAt)
	a.UpdatedAt = time.Unix(0, updated)
	return a, nil
}

// SignAgreement records the signer of a booking's agreement. Signing twice
// is an error.
func (s *BookingStore) SignAgreement(ctx context.Context, bookingID, signer string) (booking.Agreement, error) {
	if strings.TrimSpace(signer) == "" {
		return booking.Agreement{}, errors.New("signer is required")
	}

	a, err := s.GetAgreement(ctx, bookingID)
	if err != nil {
		return booking.Agreement{}, err
	}
	if a.Signed() {
		return booking.Agreement{}, fmt.Errorf("agreement for %s was already signed by %s", a.BookingID, a.SignedBy)
	}

	now := s.now()
	_, err = s.db.Conn().ExecContext(ctx,
		`UPDATE agreements SET signed_by = ?, signed_at = ?, updated_at = ? WHERE booking_id = ?`,
		signer, now.UnixNano(), now.UnixNano(), a.BookingID,
	)
	if err != nil {
		return booking.Agreement{}, fmt.Errorf("sign agreement: %w", err)
	}

	a.SignedBy = signer
	a.SignedAt = &now
	a.UpdatedAt = now
	return a, nil
}

func nullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func timePtr(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := time.Unix(0, n.Int64)
	return &t
}
