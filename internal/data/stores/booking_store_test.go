package stores

import (
	"context"
	"testing"
	"time"

	"github.com/colonyops/hitch/internal/core/booking"
	"github.com/colonyops/hitch/internal/core/toast"
	"github.com/colonyops/hitch/internal/data/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = 24 * time.Hour

func newTestBookingStore(t *testing.T) *BookingStore {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewBookingStore(database)
}

func seedTrailer(t *testing.T, s *BookingStore, name string) booking.Trailer {
	t.Helper()
	tr := booking.Trailer{Name: name, Kind: booking.KindFlatbed, Plate: "HT-1", DailyRateCents: 4500}
	require.NoError(t, s.CreateTrailer(context.Background(), &tr))
	return tr
}

func TestBookingStore_Trailers(t *testing.T) {
	ctx := context.Background()
	s := newTestBookingStore(t)

	red := seedTrailer(t, s, "Red")
	seedTrailer(t, s, "Blue")
	assert.Positive(t, red.ID)

	trailers, err := s.ListTrailers(ctx)
	require.NoError(t, err)
	require.Len(t, trailers, 2)
	assert.Equal(t, "Blue", trailers[0].Name)
	assert.Equal(t, "Red", trailers[1].Name)

	t.Run("get by name", func(t *testing.T) {
		got, err := s.GetTrailer(ctx, "red")
		require.NoError(t, err)
		assert.Equal(t, red.ID, got.ID)
	})

	t.Run("duplicate name", func(t *testing.T) {
		dup := booking.Trailer{Name: "Red", Kind: booking.KindUtility, DailyRateCents: 100}
		assert.ErrorContains(t, s.CreateTrailer(ctx, &dup), "already exists")
	})

	t.Run("missing", func(t *testing.T) {
		_, err := s.GetTrailer(ctx, "Green")
		assert.ErrorIs(t, err, booking.ErrNotFound)
	})

	t.Run("invalid", func(t *testing.T) {
		bad := booking.Trailer{Name: "Bad", Kind: "boat", DailyRateCents: 100}
		assert.Error(t, s.CreateTrailer(ctx, &bad))
	})
}

func TestBookingStore_CreateAndList(t *testing.T) {
	ctx := context.Background()
	s := newTestBookingStore(t)
	tr := seedTrailer(t, s, "Red")
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	late := booking.Booking{TrailerID: tr.ID, CustomerName: "Sam", StartAt: start.Add(10 * day), EndAt: start.Add(12 * day)}
	early := booking.Booking{TrailerID: tr.ID, CustomerName: "Alex", StartAt: start, EndAt: start.Add(3 * day)}
	require.NoError(t, s.CreateBooking(ctx, &late))
	require.NoError(t, s.CreateBooking(ctx, &early))

	assert.Len(t, early.ID, 36)
	assert.Equal(t, booking.StatusPending, early.Status)
	assert.Equal(t, int64(3*4500), early.TotalCents, "total is quoted from the daily rate")

	list, err := s.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, early.ID, list[0].ID, "ordered by start")
	assert.Equal(t, "Red", list[0].TrailerName)
	assert.True(t, list[0].StartAt.Equal(start))
}

func TestBookingStore_CreateBooking_Errors(t *testing.T) {
	ctx := context.Background()
	s := newTestBookingStore(t)
	tr := seedTrailer(t, s, "Red")
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	first := booking.Booking{TrailerID: tr.ID, CustomerName: "Alex", StartAt: start, EndAt: start.Add(3 * day)}
	require.NoError(t, s.CreateBooking(ctx, &first))

	t.Run("overlap", func(t *testing.T) {
		b := booking.Booking{TrailerID: tr.ID, CustomerName: "Sam", StartAt: start.Add(day), EndAt: start.Add(4 * day)}
		assert.ErrorContains(t, s.CreateBooking(ctx, &b), "already booked")
	})

	t.Run("adjacent is fine", func(t *testing.T) {
		b := booking.Booking{TrailerID: tr.ID, CustomerName: "Sam", StartAt: start.Add(3 * day), EndAt: start.Add(4 * day)}
		assert.NoError(t, s.CreateBooking(ctx, &b))
	})

	t.Run("unknown trailer", func(t *testing.T) {
		b := booking.Booking{TrailerID: 999, CustomerName: "Sam", StartAt: start, EndAt: start.Add(day)}
		assert.ErrorIs(t, s.CreateBooking(ctx, &b), booking.ErrNotFound)
	})

	t.Run("invalid range", func(t *testing.T) {
		b := booking.Booking{TrailerID: tr.ID, CustomerName: "Sam", StartAt: start, EndAt: start}
		assert.Error(t, s.CreateBooking(ctx, &b))
	})
}

func TestBookingStore_GetAndStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestBookingStore(t)
	tr := seedTrailer(t, s, "Red")
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	b := booking.Booking{
		ID: "abcd1234-0000-0000-0000-000000000000", TrailerID: tr.ID, CustomerName: "Alex",
		StartAt: start, EndAt: start.Add(day),
	}
	require.NoError(t, s.CreateBooking(ctx, &b))

	got, err := s.GetBooking(ctx, "abcd1234")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = s.GetBooking(ctx, "ab")
	assert.ErrorIs(t, err, booking.ErrNotFound, "short prefixes never match")

	require.NoError(t, s.SetBookingStatus(ctx, "abcd", booking.StatusCancelled))
	got, err = s.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, got.Status)

	assert.ErrorIs(t, s.SetBookingStatus(ctx, "ffffffff", booking.StatusActive), booking.ErrNotFound)
	assert.Error(t, s.SetBookingStatus(ctx, b.ID, "lost"))
}

func TestBookingStore_Import_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := newTestBookingStore(t)
	tr := seedTrailer(t, s, "Red")
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	batch := []booking.Booking{
		{TrailerID: tr.ID, CustomerName: "A", StartAt: start, EndAt: start.Add(day)},
		{TrailerID: tr.ID, CustomerName: "", StartAt: start.Add(2 * day), EndAt: start.Add(3 * day)},
	}
	_, err := s.ImportBookings(ctx, batch)
	require.ErrorContains(t, err, "booking 2")

	list, err := s.ListBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	batch[1].CustomerName = "B"
	batch[0].ID = ""
	n, err := s.ImportBookings(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestBookingStore_Payments(t *testing.T) {
	ctx := context.Background()
	s := newTestBookingStore(t)
	tr := seedTrailer(t, s, "Red")
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	b := booking.Booking{TrailerID: tr.ID, CustomerName: "Alex", StartAt: start, EndAt: start.Add(2 * day)}
	require.NoError(t, s.CreateBooking(ctx, &b))

	paid := booking.Payment{BookingID: b.ID[:8], AmountCents: 5000, Method: booking.MethodCard}
	require.NoError(t, s.AddPayment(ctx, &paid))
	assert.Equal(t, b.ID, paid.BookingID)
	assert.Equal(t, booking.PaymentPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	refund := booking.Payment{BookingID: b.ID, AmountCents: 1000, Method: booking.MethodCard, Status: booking.PaymentRefunded}
	require.NoError(t, s.AddPayment(ctx, &refund))

	payments, err := s.ListPayments(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Nil(t, payments[1].PaidAt)
	assert.Equal(t, int64(4000), booking.PaidCents(payments))

	all, err := s.ListPayments(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bad := booking.Payment{BookingID: b.ID, AmountCents: 0, Method: booking.MethodCash}
	assert.Error(t, s.AddPayment(ctx, &bad))
}

func TestBookingStore_Agreements(t *testing.T) {
	ctx := context.Background()
	s := newTestBookingStore(t)
	tr := seedTrailer(t, s, "Red")
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	b := booking.Booking{TrailerID: tr.ID, CustomerName: "Alex", StartAt: start, EndAt: start.Add(day)}
	require.NoError(t, s.CreateBooking(ctx, &b))

	_, err := s.GetAgreement(ctx, b.ID)
	require.ErrorIs(t, err, booking.ErrNotFound)

	_, err = s.SetAgreement(ctx, b.ID, "# Terms\n\nReturn it clean.")
	require.NoError(t, err)

	signed, err := s.SignAgreement(ctx, b.ID, "Alex")
	require.NoError(t, err)
	assert.True(t, signed.Signed())

	_, err = s.SignAgreement(ctx, b.ID, "Alex")
	assert.ErrorContains(t, err, "already signed")

	_, err = s.SetAgreement(ctx, b.ID, "# Terms v2")
	require.NoError(t, err)

	got, err := s.GetAgreement(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "# Terms v2", got.Terms)
	assert.False(t, got.Signed(), "new terms clear the signature")

	_, err = s.SetAgreement(ctx, b.ID, "  ")
	assert.Error(t, err)
}

func TestBookingStore_Revision(t *testing.T) {
	ctx := context.Background()
	s := newTestBookingStore(t)
	toasts := NewToastStore(s.db)

	start, err := s.Revision(ctx)
	require.NoError(t, err)

	_, err = toasts.Save(ctx, toast.Record{Variant: toast.VariantError, Message: "Could not load bookings", CreatedAt: time.Now()})
	require.NoError(t, err)

	rev, err := s.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, start, rev, "toast history must not bump the revision")

	seedTrailer(t, s, "Red")

	rev, err = s.Revision(ctx)
	require.NoError(t, err)
	assert.Greater(t, rev, start)
}
