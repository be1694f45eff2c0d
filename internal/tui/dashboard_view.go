package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/colonyops/hitch/internal/core/booking"
	"github.com/colonyops/hitch/internal/core/styles"
	"github.com/colonyops/hitch/internal/tui/components"
)

const (
	dateLayout  = "Jan 02 15:04"
	detailWidth = 38
	// fallbackWidth is used before the first WindowSizeMsg.
	fallbackWidth  = 100
	fallbackHeight = 30
)

// column is one table column. A zero width takes the remaining space.
type column struct {
	title   string
	width   int
	compact bool // kept in the compact layout
	value   func(b booking.Booking) string
}

var columns = []column{
	{title: "ID", width: 8, compact: true, value: func(b booking.Booking) string { return shortID(b.ID) }},
	{title: "Trailer", width: 16, value: func(b booking.Booking) string { return b.TrailerName }},
	{title: "Customer", compact: true, value: func(b booking.Booking) string { return b.CustomerName }},
	{title: "Start", width: 12, compact: true, value: func(b booking.Booking) string { return b.StartAt.Local().Format(dateLayout) }},
	{title: "End", width: 12, value: func(b booking.Booking) string { return b.EndAt.Local().Format(dateLayout) }},
	{title: "Days", width: 4, value: func(b booking.Booking) string { return strconv.Itoa(b.Days()) }},
	{title: "Status", width: 9, compact: true, value: func(b booking.Booking) string { return string(b.Status) }},
	{title: "Total", width: 11, value: func(b booking.Booking) string { return booking.FormatCents(b.TotalCents) }},
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = fallbackWidth
	}
	if h <= 0 {
		h = fallbackHeight
	}
	return w, h
}

// View renders the dashboard with the toast overlay on top.
func (m Model) View() tea.View {
	w, h := m.size()

	content := m.renderDashboard(w, h)
	content = m.toastView.Overlay(content, w, h)

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

func (m Model) renderDashboard(w, h int) string {
	header := m.renderHeader(w)
	controls := m.renderControls(w)
	footer := components.Footer{
		Bindings: m.keys.footerBindings(),
		User:     m.user,
		Version:  m.build.Label(),
		Compact:  m.layout.compact,
	}.View(w)
	if m.confirmID != "" {
		footer = m.confirm.View()
	}

	bodyH := max(h-lipgloss.Height(header)-lipgloss.Height(controls)-lipgloss.Height(footer), 1)

	var body string
	if m.layout.wide {
		tableW := max(w-detailWidth-1, 20)
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderTable(tableW, bodyH),
			" ",
			m.renderDetail(bodyH),
		)
	} else {
		body = m.renderTable(w, bodyH)
	}

	body = lipgloss.NewStyle().Height(bodyH).MaxHeight(bodyH).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, controls, body, footer)
}

func (m Model) renderHeader(w int) string {
	title := styles.TitleStyle.Render(styles.IconTrailer + " hitch")

	summary := booking.Summarize(m.bookings, m.toasts.Now())
	parts := []string{
		fmt.Sprintf("%d bookings", summary.Total),
		fmt.Sprintf("%d upcoming", summary.Upcoming),
		fmt.Sprintf("%d active", summary.ByStatus[booking.StatusActive]),
		booking.FormatCents(summary.RevenueCents),
	}
	if m.layout.compact {
		parts = parts[:2]
	}
	left := title + "  " + styles.SummaryStyle.Render(strings.Join(parts, " · "))

	right := m.avatar.View()
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(left, w, "…")
	}
	return left + components.Pad(gap) + right
}

func (m Model) renderControls(w int) string {
	line := m.past.View()

	switch {
	case m.loading:
		line += "  " + m.spinner.View() + styles.TextMutedStyle.Render(" loading")
	case !m.loadedAt.IsZero():
		line += "  " + styles.TextMutedStyle.Render(styles.IconCalendar+" updated "+
			humanize.RelTime(m.loadedAt, m.toasts.Now(), "ago", "from now"))
	}

	if m.fetchErr != nil {
		errLine := styles.ErrorBannerStyle.Render(ansi.Truncate("Error: "+m.fetchErr.Error(), w, "…"))
		return line + "\n" + errLine
	}
	return line
}

func (m Model) tableColumns(w int) []column {
	cols := make([]column, 0, len(columns))
	fixed := 0
	for _, c := range columns {
		if m.layout.compact && !c.compact {
			continue
		}
		cols = append(cols, c)
		fixed += c.width + 1
	}
	for i := range cols {
		if cols[i].width == 0 {
			cols[i].width = max(w-fixed, 8)
		}
	}
	return cols
}

func (m Model) renderTable(w, h int) string {
	cols := m.tableColumns(w)

	headers := make([]string, 0, len(cols))
	for _, c := range cols {
		headers = append(headers, components.Fit(c.title, c.width))
	}
	lines := []string{styles.TableHeaderStyle.Render(ansi.Truncate(strings.Join(headers, " "), w, ""))}

	if len(m.visible) == 0 {
		msg := "No bookings"
		if m.loading {
			msg = "Loading bookings…"
		} else if len(m.bookings) > 0 {
			msg = "No upcoming bookings, press p to show past ones"
		}
		lines = append(lines, styles.TextMutedStyle.Render(msg))
		return strings.Join(lines, "\n")
	}

	rows := max(h-1, 1)
	offset := max(m.cursor-rows+1, 0)
	end := min(offset+rows, len(m.visible))

	for i := offset; i < end; i++ {
		b := m.visible[i]
		cells := make([]string, 0, len(cols))
		for _, c := range cols {
			cells = append(cells, components.Fit(c.value(b), c.width))
		}
		row := ansi.Truncate(strings.Join(cells, " "), w, "")
		if i == m.cursor {
			lines = append(lines, styles.TableSelectedStyle.Render(row))
		} else {
			lines = append(lines, styles.TableRowStyle.Render(row))
		}
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderDetail(h int) string {
	inner := detailWidth - styles.DetailPaneStyle.GetHorizontalFrameSize()

	b, ok := m.selected()
	if !ok {
		return styles.DetailPaneStyle.Width(detailWidth).Render(
			styles.TextMutedStyle.Render(components.Fit("Nothing selected", inner)))
	}

	now := m.toasts.Now()
	row := func(label, value string) string {
		return styles.DetailLabelStyle.Render(label) +
			styles.TextForegroundStyle.Render(ansi.Truncate(value, max(inner-10, 1), "…"))
	}

	lines := []string{
		components.NewAvatar(b.CustomerName).View() + " " + ansi.Truncate(b.CustomerName, max(inner-5, 1), "…"),
		"",
		row("Booking", b.ID),
		row("Trailer", b.TrailerName),
		row("Status", string(b.Status)),
		row("Starts", humanize.RelTime(b.StartAt, now, "ago", "from now")),
		row("Ends", b.EndAt.Local().Format(dateLayout)),
		row("Duration", fmt.Sprintf("%d days", b.Days())),
		row("Total", booking.FormatCents(b.TotalCents)),
	}
	if b.CustomerEmail != "" {
		lines = append(lines, row("Email", b.CustomerEmail))
	}
	if !b.CreatedAt.IsZero() {
		lines = append(lines, row("Booked", b.CreatedAt.Local().Format(time.DateOnly)))
	}

	pane := styles.DetailPaneStyle.Width(detailWidth).MaxHeight(h)
	return pane.Render(strings.Join(lines, "\n"))
}
