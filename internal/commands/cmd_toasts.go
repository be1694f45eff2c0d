package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/hitch/internal/core/toast"
	"github.com/colonyops/hitch/internal/hitch"
	"github.com/colonyops/hitch/pkg/iojson"
)

type ToastsCmd struct {
	flags *Flags
	app   *hitch.App

	jsonOutput bool
	limit      int
}

// NewToastsCmd creates a new toasts command
func NewToastsCmd(flags *Flags, app *hitch.App) *ToastsCmd {
	return &ToastsCmd{flags: flags, app: app}
}

// Register adds the toasts command to the application
func (cmd *ToastsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "toasts",
		Usage: "Inspect the dashboard's notification history",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List past toasts, newest first",
				UsageText: "hitch toasts ls [--limit n] [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "output as JSON lines", Destination: &cmd.jsonOutput},
					&cli.IntFlag{Name: "limit", Usage: "show at most n toasts (0 for all)", Value: 50, Destination: &cmd.limit},
				},
				Action: cmd.runLs,
			},
			{
				Name:      "clear",
				Usage:     "Delete the toast history",
				UsageText: "hitch toasts clear",
				Action:    cmd.runClear,
			},
		},
	})

	return app
}

// toastInfo is the JSON output format for hitch toasts ls --json.
type toastInfo struct {
	ID        int64         `json:"id"`
	Variant   toast.Variant `json:"variant"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"created_at"`
}

func (cmd *ToastsCmd) runLs(ctx context.Context, c *cli.Command) error {
	records, err := cmd.app.Toasts.List(ctx)
	if err != nil {
		return fmt.Errorf("list toasts: %w", err)
	}
	if cmd.limit > 0 && len(records) > cmd.limit {
		records = records[:cmd.limit]
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		infos := make([]toastInfo, 0, len(records))
		for _, r := range records {
			infos = append(infos, toastInfo(r))
		}
		return iojson.WriteLines(out, infos)
	}

	if len(records) == 0 {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "No toasts recorded")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tVARIANT\tMESSAGE")
	for _, r := range records {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", humanize.Time(r.CreatedAt), r.Variant, r.Message)
	}
	return w.Flush()
}

func (cmd *ToastsCmd) runClear(ctx context.Context, c *cli.Command) error {
	n, err := cmd.app.Toasts.Count(ctx)
	if err != nil {
		return fmt.Errorf("count toasts: %w", err)
	}
	if err := cmd.app.Toasts.Clear(ctx); err != nil {
		return fmt.Errorf("clear toasts: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Cleared %d toasts\n", n)
	return nil
}
