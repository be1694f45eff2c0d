// Package tui implements the Bubble Tea booking dashboard for hitch.
package tui

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/hitch/internal/core/auth"
	"github.com/colonyops/hitch/internal/core/booking"
	"github.com/colonyops/hitch/internal/core/config"
	"github.com/colonyops/hitch/internal/core/toast"
	"github.com/colonyops/hitch/internal/tui/components"
	tuinotify "github.com/colonyops/hitch/internal/tui/notify"
	"github.com/colonyops/hitch/internal/tui/responsive"
)

// bookingsLoadedMsg carries the result of a fetch.
type bookingsLoadedMsg struct {
	bookings []booking.Booking
	err      error
	manual   bool // user pressed refresh
}

// statusChangedMsg reports the outcome of a status update.
type statusChangedMsg struct {
	id     string
	status booking.Status
	err    error
}

// Options configures the dashboard.
type Options struct {
	Config   *config.Config
	Fetcher  booking.Fetcher
	Updater  booking.StatusUpdater // nil makes the dashboard read-only
	Auth     auth.Provider
	Bus      *tuinotify.Bus
	Buffer   *NotificationBuffer
	Observer *responsive.Observer
	Watcher  *DBWatcher
	Clock    toast.Clock
	Build    BuildInfo
	Warnings []string // shown as warning toasts on startup
}

// tickState tracks whether a toast tick chain is running so that adding a
// toast while ticking does not start a second chain.
type tickState struct {
	running bool
}

// layoutState is written by responsive observers.
type layoutState struct {
	wide    bool
	compact bool
	stops   []func()
}

// Model is the main Bubble Tea model for the dashboard.
type Model struct {
	cfg       *config.Config
	fetcher   booking.Fetcher
	updater   booking.StatusUpdater
	bus       *tuinotify.Bus
	buffer    *NotificationBuffer
	watcher   *DBWatcher
	observer  *responsive.Observer
	toasts    *toast.Manager
	toastView *ToastView
	ticker    *tickState
	layout    *layoutState

	keys    keyMap
	spinner spinner.Model
	past    *components.Switch
	avatar  components.Avatar
	user    string
	build   BuildInfo

	confirm   components.Confirm
	confirmID string // booking awaiting a cancel answer, empty when no prompt

	bookings []booking.Booking
	visible  []booking.Booking
	cursor   int
	loading  bool
	fetchErr error
	loadedAt time.Time

	width  int
	height int
}

// New creates a new dashboard model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		d := config.DefaultConfig()
		cfg = &d
	}

	clock := opts.Clock
	if clock == nil {
		clock = toast.SystemClock{}
	}

	manager := toast.NewManager(
		toast.WithClock(clock),
		toast.WithDefaultDuration(cfg.Toasts.Duration),
		toast.WithTiming(toast.Timing{
			EnterDelay:   cfg.Toasts.EnterDelay,
			TickInterval: cfg.Toasts.TickInterval,
			LeaveWindow:  cfg.Toasts.LeaveWindow,
		}),
	)

	bus := opts.Bus
	if bus == nil {
		bus = tuinotify.NewBus(nil)
	}
	bus.Attach(manager)

	observer := opts.Observer
	if observer == nil {
		observer = responsive.NewObserver(nil)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		cfg:       cfg,
		fetcher:   opts.Fetcher,
		updater:   opts.Updater,
		bus:       bus,
		buffer:    opts.Buffer,
		watcher:   opts.Watcher,
		observer:  observer,
		toasts:    manager,
		toastView: NewToastView(manager, cfg.Toasts.MaxVisible),
		ticker:    &tickState{},
		layout:    &layoutState{},
		keys:      defaultKeyMap(opts.Updater == nil),
		spinner:   s,
		past:      components.NewSwitch("show past", cfg.Dashboard.ShowPast),
		build:     opts.Build,
		loading:   opts.Fetcher != nil,
	}

	m.user = sessionUser(opts.Auth)
	m.avatar = components.NewAvatar(m.user)
	m.watchLayout()

	for _, w := range opts.Warnings {
		bus.Warnf("%s", w)
	}

	return m
}

func sessionUser(p auth.Provider) string {
	if p == nil {
		return ""
	}
	sess, err := p.Session(context.Background())
	if err != nil {
		log.Debug().Err(err).Msg("no session for dashboard")
		return ""
	}
	return sess.User.Name
}

// watchLayout registers the responsive predicates that pick the layout.
func (m Model) watchLayout() {
	preds := []struct {
		query string
		dst   *bool
	}{
		{fmt.Sprintf("(min-width: %d)", m.cfg.Dashboard.WideWidth), &m.layout.wide},
		{fmt.Sprintf("(max-width: %d)", m.cfg.Dashboard.CompactWidth), &m.layout.compact},
	}

	for _, p := range preds {
		dst := p.dst
		*dst = m.observer.Matches(p.query)
		stop, err := m.observer.Observe(p.query, func(ok bool) { *dst = ok })
		if err != nil {
			log.Error().Err(err).Str("query", p.query).Msg("invalid layout predicate")
			continue
		}
		m.layout.stops = append(m.layout.stops, stop)
	}
}

// Close releases the observer subscriptions, the toast collection and the
// database watcher.
func (m Model) Close() {
	for _, stop := range m.layout.stops {
		stop()
	}
	m.toasts.Close()
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			log.Debug().Err(err).Msg("close db watcher")
		}
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.fetcher != nil {
		cmds = append(cmds, m.loadBookings(false))
	}
	if m.buffer != nil {
		cmds = append(cmds, m.buffer.WaitForSignal())
	}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Start())
	}
	cmds = append(cmds, m.ensureToastTick())
	return tea.Batch(cmds...)
}

func (m Model) loadBookings(manual bool) tea.Cmd {
	fetcher := m.fetcher
	timeout := m.cfg.Data.Timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		bookings, err := fetcher.ListBookings(ctx)
		return bookingsLoadedMsg{bookings: bookings, err: err, manual: manual}
	}
}

func (m Model) setStatus(id string, status booking.Status) tea.Cmd {
	updater := m.updater
	return func() tea.Msg {
		err := updater.SetBookingStatus(context.Background(), id, status)
		return statusChangedMsg{id: id, status: status, err: err}
	}
}

// ensureToastTick starts the tick chain if toasts exist and no chain is
// running.
func (m Model) ensureToastTick() tea.Cmd {
	if !m.toasts.HasToasts() || m.ticker.running {
		return nil
	}
	m.ticker.running = true
	return scheduleToastTick(m.toasts.Timing().TickInterval)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.observer.Resize(msg.Width, msg.Height)
		return m, nil

	case toastTickMsg:
		return m.handleToastTick()

	case drainToastsMsg:
		return m.handleDrainToasts()

	case bookingsLoadedMsg:
		return m.handleBookingsLoaded(msg)

	case statusChangedMsg:
		return m.handleStatusChanged(msg)

	case dbChangedMsg:
		log.Debug().Msg("database changed on disk, reloading")
		cmds := []tea.Cmd{m.watcher.Start()}
		if !m.loading && m.fetcher != nil {
			m.loading = true
			cmds = append(cmds, m.loadBookings(false))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleToastTick() (tea.Model, tea.Cmd) {
	if m.toasts.Advance() {
		return m, scheduleToastTick(m.toasts.Timing().TickInterval)
	}
	m.ticker.running = false
	return m, nil
}

func (m Model) handleDrainToasts() (tea.Model, tea.Cmd) {
	for _, req := range m.buffer.Drain() {
		m.bus.AddToast(req)
	}
	return m, tea.Batch(m.ensureToastTick(), m.buffer.WaitForSignal())
}

func (m Model) handleBookingsLoaded(msg bookingsLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false

	if msg.err != nil {
		// Keep the last good list on screen.
		m.fetchErr = msg.err
		log.Error().Err(msg.err).Msg("failed to load bookings")
		m.bus.Errorf("Could not load bookings: %v", msg.err)
		return m, m.ensureToastTick()
	}

	m.fetchErr = nil
	m.bookings = msg.bookings
	m.loadedAt = m.toasts.Now()
	m.applyFilter()

	log.Debug().Int("count", len(msg.bookings)).Msg("bookings loaded")

	if msg.manual {
		m.bus.Successf("Loaded %d bookings", len(msg.bookings))
		return m, m.ensureToastTick()
	}
	return m, nil
}

func (m Model) handleStatusChanged(msg statusChangedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Error().Err(msg.err).Str("booking_id", msg.id).Msg("failed to update booking status")
		m.bus.Errorf("Could not update booking %s: %v", shortID(msg.id), msg.err)
		return m, m.ensureToastTick()
	}

	m.bus.Successf("Booking %s %s", shortID(msg.id), msg.status)
	m.loading = true
	return m, tea.Batch(m.ensureToastTick(), m.loadBookings(false))
}

// applyFilter recomputes the visible rows and clamps the cursor.
func (m *Model) applyFilter() {
	f := booking.Filter{IncludePast: m.past.On()}
	m.visible = f.Apply(m.bookings, m.toasts.Now())
	m.cursor = min(m.cursor, max(len(m.visible)-1, 0))
}

func (m Model) selected() (booking.Booking, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return booking.Booking{}, false
	}
	return m.visible[m.cursor], true
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmID != "" {
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.fetcher == nil || m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.loadBookings(true), m.spinner.Tick)

	case key.Matches(msg, m.keys.TogglePast):
		if m.past.Toggle() {
			m.bus.Infof("Showing past bookings")
		} else {
			m.bus.Infof("Hiding past bookings")
		}
		m.applyFilter()
		return m, m.ensureToastTick()

	case key.Matches(msg, m.keys.Cancel):
		return m.cancelSelected()

	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.DismissNewest()
		return m, nil

	case key.Matches(msg, m.keys.DismissAll):
		m.toasts.DismissAll()
		return m, nil

	case msg.String() == "c" && m.updater == nil:
		m.bus.Warnf("Bookings from the remote API are read-only")
		return m, m.ensureToastTick()
	}

	return m, nil
}

func (m Model) cancelSelected() (tea.Model, tea.Cmd) {
	b, ok := m.selected()
	if !ok {
		return m, nil
	}
	if !b.Status.Open() {
		m.bus.Warnf("Booking %s is already %s", shortID(b.ID), b.Status)
		return m, m.ensureToastTick()
	}
	m.confirm = components.NewConfirm(fmt.Sprintf("Cancel booking %s for %s?", shortID(b.ID), b.CustomerName))
	m.confirmID = b.ID
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirm, _ = m.confirm.Update(msg)
	switch {
	case m.confirm.Confirmed():
		id := m.confirmID
		m.confirmID = ""
		return m, m.setStatus(id, booking.StatusCancelled)
	case m.confirm.Cancelled():
		m.confirmID = ""
	}
	return m, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
