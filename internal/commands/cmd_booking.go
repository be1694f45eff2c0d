package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/hitch/internal/core/booking"
	"github.com/colonyops/hitch/internal/core/logging"
	"github.com/colonyops/hitch/internal/core/styles"
	"github.com/colonyops/hitch/internal/hitch"
	"github.com/colonyops/hitch/pkg/iojson"
)

// timeLayouts are the accepted --start/--end formats, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.DateOnly,
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC 3339)", s)
}

type BookingCmd struct {
	flags *Flags
	app   *hitch.App

	// add flags
	trailer  string
	customer string
	email    string
	start    string
	end      string
	days     int
	status   string
	total    string

	// ls flags
	jsonOutput  bool
	trailerGlob string
	statuses    []string
	past        bool

	importReader iojson.FileReader[[]booking.Booking]
}

// NewBookingCmd creates a new booking command
func NewBookingCmd(flags *Flags, app *hitch.App) *BookingCmd {
	return &BookingCmd{flags: flags, app: app}
}

// Register adds the booking command to the application
func (cmd *BookingCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "booking",
		Usage: "Create, list and update bookings",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Book a trailer",
				UsageText: "hitch booking add --trailer <name|id> --customer <name> --start <time> (--end <time> | --days <n>)",
				Description: `Books a trailer for a time range. The total is quoted from the trailer's
daily rate unless --total is given. Overlapping open bookings are refused.`,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "trailer", Usage: "trailer name or id", Required: true, Destination: &cmd.trailer},
					&cli.StringFlag{Name: "customer", Usage: "customer name", Required: true, Destination: &cmd.customer},
					&cli.StringFlag{Name: "email", Usage: "customer email", Destination: &cmd.email},
					&cli.StringFlag{Name: "start", Usage: "pickup time", Required: true, Destination: &cmd.start},
					&cli.StringFlag{Name: "end", Usage: "return time", Destination: &cmd.end},
					&cli.IntFlag{Name: "days", Usage: "rental length in days (instead of --end)", Destination: &cmd.days},
					&cli.StringFlag{Name: "status", Usage: "initial status", Value: string(booking.StatusPending), Destination: &cmd.status},
					&cli.StringFlag{Name: "total", Usage: "override the quoted total, in dollars", Destination: &cmd.total},
				},
				Action: cmd.runAdd,
			},
			{
				Name:      "ls",
				Usage:     "List bookings",
				UsageText: "hitch booking ls [--json] [--trailer <glob>] [--status <s>]... [--past]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "output as JSON lines", Destination: &cmd.jsonOutput},
					&cli.StringFlag{Name: "trailer", Usage: "filter by trailer name glob, e.g. 'flatbed*'", Destination: &cmd.trailerGlob},
					&cli.StringSliceFlag{Name: "status", Usage: "filter by status (repeatable)", Destination: &cmd.statuses},
					&cli.BoolFlag{Name: "past", Usage: "include bookings that already ended", Destination: &cmd.past},
				},
				Action: cmd.runLs,
			},
			{
				Name:      "cancel",
				Usage:     "Cancel a booking",
				UsageText: "hitch booking cancel <id>",
				Action:    cmd.runCancel,
			},
			{
				Name:      "status",
				Usage:     "Set the status of a booking",
				UsageText: "hitch booking status <id> <status>",
				Action:    cmd.runStatus,
			},
			{
				Name:      "import",
				Usage:     "Import bookings from a JSON array",
				UsageText: "hitch booking import [-f bookings.json]",
				Description: `Reads a JSON array of bookings from a file or stdin and inserts them in one
transaction. Entries may name their trailer with trailer_name instead of
trailer_id. Nothing is imported if any entry is invalid.`,
				Flags:  []cli.Flag{cmd.importReader.Flag()},
				Action: cmd.runImport,
			},
		},
	})

	return app
}

func (cmd *BookingCmd) runAdd(ctx context.Context, c *cli.Command) error {
	trailer, err := cmd.app.Bookings.GetTrailer(ctx, cmd.trailer)
	if err != nil {
		return fmt.Errorf("trailer %q: %w", cmd.trailer, err)
	}

	start, err := parseTime(cmd.start)
	if err != nil {
		return err
	}

	var end time.Time
	switch {
	case cmd.end != "":
		end, err = parseTime(cmd.end)
		if err != nil {
			return err
		}
	case cmd.days > 0:
		end = start.AddDate(0, 0, cmd.days)
	default:
		return fmt.Errorf("either --end or --days is required")
	}

	status, err := booking.ParseStatus(cmd.status)
	if err != nil {
		return err
	}

	b := booking.Booking{
		TrailerID:     trailer.ID,
		CustomerName:  strings.TrimSpace(cmd.customer),
		CustomerEmail: cmd.email,
		StartAt:       start,
		EndAt:         end,
		Status:        status,
	}
	if cmd.total != "" {
		if b.TotalCents, err = booking.ParseCents(cmd.total); err != nil {
			return err
		}
	}

	if err := cmd.app.Bookings.CreateBooking(ctx, &b); err != nil {
		return fmt.Errorf("add booking: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%s booking %s: %s, %s for %d days, %s\n",
		styles.CommandHeaderStyle.Render("booked"), b.ID, trailer.Name, b.CustomerName, b.Days(), booking.FormatCents(b.TotalCents))
	return nil
}

func (cmd *BookingCmd) filter() (booking.Filter, error) {
	f := booking.Filter{TrailerGlob: cmd.trailerGlob, IncludePast: cmd.past}
	for _, s := range cmd.statuses {
		st, err := booking.ParseStatus(s)
		if err != nil {
			return booking.Filter{}, err
		}
		f.Statuses = append(f.Statuses, st)
	}
	return f, f.Validate()
}

func (cmd *BookingCmd) runLs(ctx context.Context, c *cli.Command) error {
	f, err := cmd.filter()
	if err != nil {
		return err
	}

	all, err := cmd.app.Bookings.ListBookings(ctx)
	if err != nil {
		return fmt.Errorf("list bookings: %w", err)
	}

	now := time.Now()
	bookings := f.Apply(all, now)

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteLines(out, bookings)
	}

	if len(bookings) == 0 {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "No bookings found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTRAILER\tCUSTOMER\tSTART\tEND\tSTATUS\tTOTAL")
	for _, b := range bookings {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(b.ID), b.TrailerName, b.CustomerName,
			humanize.RelTime(b.StartAt, now, "ago", "from now"),
			b.EndAt.Local().Format("Jan 02 15:04"),
			b.Status, booking.FormatCents(b.TotalCents))
	}
	return w.Flush()
}

func (cmd *BookingCmd) runCancel(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: hitch booking cancel <id>")
	}
	return cmd.setStatus(ctx, c, c.Args().First(), booking.StatusCancelled)
}

func (cmd *BookingCmd) runStatus(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("usage: hitch booking status <id> <status>")
	}
	status, err := booking.ParseStatus(c.Args().Get(1))
	if err != nil {
		return err
	}
	return cmd.setStatus(ctx, c, c.Args().First(), status)
}

func (cmd *BookingCmd) setStatus(ctx context.Context, c *cli.Command, ref string, status booking.Status) error {
	b, err := cmd.app.Bookings.GetBooking(ctx, ref)
	if err != nil {
		return fmt.Errorf("booking %q: %w", ref, err)
	}

	ctx = logging.WithBookingID(ctx, b.ID)
	if err := cmd.app.Bookings.SetBookingStatus(ctx, b.ID, status); err != nil {
		return fmt.Errorf("update booking: %w", err)
	}

	l := logging.Component("booking")
	l.Info().Ctx(ctx).
		Str("from", string(b.Status)).
		Str("to", string(status)).
		Msg("booking status changed")

	_, _ = fmt.Fprintf(c.Root().Writer, "%s booking %s is now %s\n",
		styles.CommandHeaderStyle.Render("updated"), shortID(b.ID), status)
	return nil
}

func (cmd *BookingCmd) runImport(ctx context.Context, c *cli.Command) error {
	bookings, err := cmd.importReader.Read()
	if err != nil {
		return err
	}

	trailers := make(map[string]int64)
	for i := range bookings {
		b := &bookings[i]
		if b.TrailerID != 0 || b.TrailerName == "" {
			continue
		}
		id, ok := trailers[b.TrailerName]
		if !ok {
			t, err := cmd.app.Bookings.GetTrailer(ctx, b.TrailerName)
			if err != nil {
				return fmt.Errorf("booking %d: trailer %q: %w", i, b.TrailerName, err)
			}
			id = t.ID
			trailers[b.TrailerName] = id
		}
		b.TrailerID = id
	}

	n, err := cmd.app.Bookings.ImportBookings(ctx, bookings)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%s %d bookings\n", styles.CommandHeaderStyle.Render("imported"), n)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
