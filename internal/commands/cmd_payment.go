package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/hitch/internal/core/booking"
	"github.com/colonyops/hitch/internal/core/styles"
	"github.com/colonyops/hitch/internal/hitch"
	"github.com/colonyops/hitch/pkg/iojson"
)

type PaymentCmd struct {
	flags *Flags
	app   *hitch.App

	amount     string
	method     string
	status     string
	jsonOutput bool
}

// NewPaymentCmd creates a new payment command
func NewPaymentCmd(flags *Flags, app *hitch.App) *PaymentCmd {
	return &PaymentCmd{flags: flags, app: app}
}

// Register adds the payment command to the application
func (cmd *PaymentCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "payment",
		Usage: "Record and list payments",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Record a payment against a booking",
				UsageText: "hitch payment add <booking-id> --amount <dollars> [--method card|cash|transfer] [--status paid|pending|refunded|failed]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "amount", Usage: "amount in dollars", Required: true, Destination: &cmd.amount},
					&cli.StringFlag{Name: "method", Usage: "payment method", Value: string(booking.MethodCard), Destination: &cmd.method},
					&cli.StringFlag{Name: "status", Usage: "payment status", Value: string(booking.PaymentPaid), Destination: &cmd.status},
				},
				Action: cmd.runAdd,
			},
			{
				Name:      "ls",
				Usage:     "List payments, optionally for one booking",
				UsageText: "hitch payment ls [<booking-id>] [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "output as JSON lines", Destination: &cmd.jsonOutput},
				},
				Action: cmd.runLs,
			},
		},
	})

	return app
}

func (cmd *PaymentCmd) runAdd(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: hitch payment add <booking-id> --amount <dollars>")
	}

	amount, err := booking.ParseCents(cmd.amount)
	if err != nil {
		return err
	}

	p := booking.Payment{
		BookingID:   c.Args().First(),
		AmountCents: amount,
		Method:      booking.PaymentMethod(cmd.method),
		Status:      booking.PaymentStatus(cmd.status),
	}
	if err := cmd.app.Bookings.AddPayment(ctx, &p); err != nil {
		return fmt.Errorf("add payment: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%s %s %s payment for booking %s\n",
		styles.CommandHeaderStyle.Render("recorded"), booking.FormatCents(p.AmountCents), p.Status, shortID(p.BookingID))
	return nil
}

func (cmd *PaymentCmd) runLs(ctx context.Context, c *cli.Command) error {
	payments, err := cmd.app.Bookings.ListPayments(ctx, c.Args().First())
	if err != nil {
		return fmt.Errorf("list payments: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteLines(out, payments)
	}

	if len(payments) == 0 {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "No payments found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tBOOKING\tAMOUNT\tMETHOD\tSTATUS\tPAID")
	for _, p := range payments {
		paid := "-"
		if p.PaidAt != nil {
			paid = p.PaidAt.Local().Format("2006-01-02 15:04")
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, shortID(p.BookingID), booking.FormatCents(p.AmountCents), p.Method, p.Status, paid)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "\nSettled: %s\n", booking.FormatCents(booking.PaidCents(payments)))
	return nil
}
