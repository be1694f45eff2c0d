package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/colonyops/hitch/internal/core/auth"
	"github.com/colonyops/hitch/internal/core/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `[
  {"id":"b-1","trailer_id":1,"trailer_name":"Red","customer_name":"Alex",
   "start_at":"2026-05-01T09:00:00Z","end_at":"2026-05-03T09:00:00Z","status":"confirmed","total_cents":9000},
  {"id":"b-2","trailer_id":2,"customer_name":"Sam",
   "start_at":"2026-06-01T09:00:00Z","end_at":"2026-06-02T09:00:00Z","total_cents":4500}
]`

func TestClient_ListBookings(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	provider := auth.NewStaticProvider(auth.User{Name: "Operator"}, "secret")
	c, err := New(srv.URL+"/v1/", provider, time.Second, "test")
	require.NoError(t, err)

	got, err := c.ListBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "/v1/bookings", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, booking.StatusConfirmed, got[0].Status)
	assert.Equal(t, "Red", got[0].TrailerName)
	assert.Equal(t, booking.StatusPending, got[1].Status, "missing status defaults to pending")
	assert.Equal(t, 2, got[0].Days())
}

func TestClient_NoToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, nil, time.Second, "test")
	require.NoError(t, err)

	got, err := c.ListBookings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, gotAuth)
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, nil, time.Second, "test")
	require.NoError(t, err)

	_, err = c.ListBookings(context.Background())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, "nope", se.Body)
}

func TestClient_BadPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"not json", `{`, "decode bookings"},
		{"missing id", `[{"customer_name":"x"}]`, "has no id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			c, err := New(srv.URL, nil, time.Second, "test")
			require.NoError(t, err)

			_, err = c.ListBookings(context.Background())
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, nil, 20*time.Millisecond, "test")
	require.NoError(t, err)

	_, err = c.ListBookings(context.Background())
	assert.Error(t, err)
}

func TestNew_RejectsScheme(t *testing.T) {
	_, err := New("ftp://example.com", nil, time.Second, "test")
	assert.Error(t, err)
}
