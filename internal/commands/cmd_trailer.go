package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/hitch/internal/core/booking"
	"github.com/colonyops/hitch/internal/core/styles"
	"github.com/colonyops/hitch/internal/hitch"
	"github.com/colonyops/hitch/pkg/iojson"
)

type TrailerCmd struct {
	flags *Flags
	app   *hitch.App

	// add flags
	name  string
	kind  string
	plate string
	rate  string

	// ls flags
	jsonOutput bool
}

// NewTrailerCmd creates a new trailer command
func NewTrailerCmd(flags *Flags, app *hitch.App) *TrailerCmd {
	return &TrailerCmd{flags: flags, app: app}
}

// Register adds the trailer command to the application
func (cmd *TrailerCmd) Register(app *cli.Command) *cli.Command {
	kinds := make([]string, 0, len(booking.Kinds))
	for _, k := range booking.Kinds {
		kinds = append(kinds, string(k))
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "trailer",
		Usage: "Manage the trailer fleet",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a trailer",
				UsageText: "hitch trailer add --name <name> --kind <kind> --rate <dollars> [--plate <plate>]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "name",
						Usage:       "unique trailer name",
						Required:    true,
						Destination: &cmd.name,
					},
					&cli.StringFlag{
						Name:        "kind",
						Usage:       "trailer kind (" + strings.Join(kinds, ", ") + ")",
						Value:       string(booking.KindUtility),
						Destination: &cmd.kind,
					},
					&cli.StringFlag{
						Name:        "plate",
						Usage:       "license plate",
						Destination: &cmd.plate,
					},
					&cli.StringFlag{
						Name:        "rate",
						Usage:       "daily rate in dollars, e.g. 45 or 45.50",
						Required:    true,
						Destination: &cmd.rate,
					},
				},
				Action: cmd.runAdd,
			},
			{
				Name:      "ls",
				Usage:     "List trailers",
				UsageText: "hitch trailer ls [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runLs,
			},
		},
	})

	return app
}

func (cmd *TrailerCmd) runAdd(ctx context.Context, c *cli.Command) error {
	rate, err := booking.ParseCents(cmd.rate)
	if err != nil {
		return err
	}

	t := booking.Trailer{
		Name:           strings.TrimSpace(cmd.name),
		Kind:           booking.Kind(strings.ToLower(cmd.kind)),
		Plate:          cmd.plate,
		DailyRateCents: rate,
	}
	if err := cmd.app.Bookings.CreateTrailer(ctx, &t); err != nil {
		return fmt.Errorf("add trailer: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%s trailer %d %s (%s/day)\n",
		styles.CommandHeaderStyle.Render("added"), t.ID, t.Name, booking.FormatCents(t.DailyRateCents))
	return nil
}

func (cmd *TrailerCmd) runLs(ctx context.Context, c *cli.Command) error {
	trailers, err := cmd.app.Bookings.ListTrailers(ctx)
	if err != nil {
		return fmt.Errorf("list trailers: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteLines(out, trailers)
	}

	if len(trailers) == 0 {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "No trailers found. Add one with 'hitch trailer add'.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tKIND\tPLATE\tRATE")
	for _, t := range trailers {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Kind, t.Plate, booking.FormatCents(t.DailyRateCents))
	}
	return w.Flush()
}
