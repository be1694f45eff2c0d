// Package hitch wires the stores, the auth provider and the booking sources
// that commands and the dashboard share.
package hitch

import (
	"fmt"

	"github.com/colonyops/hitch/internal/core/auth"
	"github.com/colonyops/hitch/internal/core/booking"
	"github.com/colonyops/hitch/internal/core/config"
	"github.com/colonyops/hitch/internal/data/db"
	"github.com/colonyops/hitch/internal/data/remote"
	"github.com/colonyops/hitch/internal/data/stores"
)

// Build holds build-time metadata.
type Build struct {
	Version string
	Commit  string
	Date    string
}

// App is the central entry point for all hitch operations.
// Commands and the TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config   *config.Config
	DB       *db.DB
	Bookings *stores.BookingStore
	Toasts   *stores.ToastStore
	Auth     auth.Provider
	Build    Build
}

// NewApp constructs an App from explicit dependencies.
func NewApp(cfg *config.Config, database *db.DB, provider auth.Provider, build Build) *App {
	return &App{
		Config:   cfg,
		DB:       database,
		Bookings: stores.NewBookingStore(database),
		Toasts:   stores.NewToastStore(database),
		Auth:     provider,
		Build:    build,
	}
}

// Source returns the fetcher the dashboard reads bookings from. The updater
// is nil for the remote source, which is read-only.
func (a *App) Source() (booking.Fetcher, booking.StatusUpdater, error) {
	switch a.Config.Data.Source {
	case config.SourceRemote:
		client, err := remote.New(a.Config.Data.APIURL, a.Auth, a.Config.Data.Timeout, a.Build.Version)
		if err != nil {
			return nil, nil, fmt.Errorf("remote source: %w", err)
		}
		return client, nil, nil
	default:
		return a.Bookings, a.Bookings, nil
	}
}

// Local reports whether bookings are read from the local database.
func (a *App) Local() bool {
	return a.Config.Data.Source != config.SourceRemote
}
