package tui

import (
	"context"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// dbChangedMsg is sent when the database file changes on disk, for example
// after a `hitch booking add` in another terminal.
type dbChangedMsg struct{}

// Revisioner reports a counter that changes only when booking data changes.
// Writes the dashboard makes itself, such as toast history, leave it alone.
type Revisioner interface {
	Revision(ctx context.Context) (int64, error)
}

// DBWatcher watches the directory holding the SQLite database. SQLite
// replaces the -wal and -shm files, so the directory is watched rather than
// the file itself.
type DBWatcher struct {
	watcher     *fsnotify.Watcher
	names       map[string]bool
	debounceDur time.Duration
	log         zerolog.Logger

	rev  Revisioner // nil reports every write
	last int64
}

// NewDBWatcher creates a watcher for the database at dbPath. When rev is
// set, file events that leave the revision unchanged are ignored. Watch
// errors are reported to logger at warn level.
func NewDBWatcher(dbPath string, rev Revisioner, logger zerolog.Logger) (*DBWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(dbPath)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	base := filepath.Base(dbPath)
	w := &DBWatcher{
		watcher:     watcher,
		names:       map[string]bool{base: true, base + "-wal": true},
		debounceDur: 100 * time.Millisecond,
		log:         logger,
		rev:         rev,
	}
	if rev != nil {
		if w.last, err = rev.Revision(context.Background()); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}
	return w, nil
}

// Start returns a command that blocks until the database changes. Re-issue
// it after each dbChangedMsg to keep watching.
func (w *DBWatcher) Start() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if !w.relevant(event) {
					continue
				}

				// Debounce: a single transaction touches the file several times.
				time.Sleep(w.debounceDur)

				drained := false
				for !drained {
					select {
					case <-w.watcher.Events:
					default:
						drained = true
					}
				}

				if !w.changed() {
					continue
				}
				return dbChangedMsg{}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				w.log.Warn().Err(err).Msgf("Database watcher: %v", err)
			}
		}
	}
}

// changed reports whether the revision moved since the last report. A read
// failure is logged below warn so it cannot raise a toast that writes again.
func (w *DBWatcher) changed() bool {
	if w.rev == nil {
		return true
	}
	rev, err := w.rev.Revision(context.Background())
	if err != nil {
		w.log.Debug().Err(err).Msg("read database revision")
		return false
	}
	if rev == w.last {
		return false
	}
	w.last = rev
	return true
}

func (w *DBWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return w.names[filepath.Base(event.Name)]
}

// Close stops the watcher.
func (w *DBWatcher) Close() error {
	return w.watcher.Close()
}
