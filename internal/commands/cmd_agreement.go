package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/hitch/internal/core/booking"
	"github.com/colonyops/hitch/internal/core/styles"
	"github.com/colonyops/hitch/internal/hitch"
	"github.com/colonyops/hitch/pkg/iojson"
)

const agreementWrap = 80

type AgreementCmd struct {
	flags *Flags
	app   *hitch.App

	termsFile  string
	signer     string
	rawOutput  bool
	jsonOutput bool
}

// NewAgreementCmd creates a new agreement command
func NewAgreementCmd(flags *Flags, app *hitch.App) *AgreementCmd {
	return &AgreementCmd{flags: flags, app: app}
}

// Register adds the agreement command to the application
func (cmd *AgreementCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "agreement",
		Usage: "Manage rental agreements",
		Commands: []*cli.Command{
			{
				Name:        "set",
				Usage:       "Attach agreement terms to a booking",
				UsageText:   "hitch agreement set <booking-id> --terms <file.md>",
				Description: "Stores markdown terms for the booking. Replacing the terms clears any signature.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "terms", Usage: "path to a markdown file", Required: true, Destination: &cmd.termsFile},
				},
				Action: cmd.runSet,
			},
			{
				Name:      "show",
				Usage:     "Render a booking's agreement",
				UsageText: "hitch agreement show <booking-id> [--raw | --json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "raw", Usage: "print the markdown source", Destination: &cmd.rawOutput},
					&cli.BoolFlag{Name: "json", Usage: "output as JSON", Destination: &cmd.jsonOutput},
				},
				Action: cmd.runShow,
			},
			{
				Name:      "sign",
				Usage:     "Record the customer's signature",
				UsageText: "hitch agreement sign <booking-id> --by <name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "by", Usage: "name of the signer", Required: true, Destination: &cmd.signer},
				},
				Action: cmd.runSign,
			},
		},
	})

	return app
}

func bookingArg(c *cli.Command, usage string) (string, error) {
	if c.Args().Len() != 1 {
		return "", fmt.Errorf("usage: %s", usage)
	}
	return c.Args().First(), nil
}

func (cmd *AgreementCmd) runSet(ctx context.Context, c *cli.Command) error {
	ref, err := bookingArg(c, "hitch agreement set <booking-id> --terms <file.md>")
	if err != nil {
		return err
	}

	terms, err := os.ReadFile(cmd.termsFile)
	if err != nil {
		return fmt.Errorf("read terms: %w", err)
	}

	a, err := cmd.app.Bookings.SetAgreement(ctx, ref, string(terms))
	if err != nil {
		return fmt.Errorf("set agreement: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%s agreement for booking %s\n", styles.CommandHeaderStyle.Render("saved"), shortID(a.BookingID))
	return nil
}

func (cmd *AgreementCmd) runShow(ctx context.Context, c *cli.Command) error {
	ref, err := bookingArg(c, "hitch agreement show <booking-id>")
	if err != nil {
		return err
	}

	a, err := cmd.app.Bookings.GetAgreement(ctx, ref)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	switch {
	case cmd.jsonOutput:
		return iojson.WriteWith(out, c.Root().ErrWriter, a)
	case cmd.rawOutput:
		_, err := fmt.Fprintln(out, a.Terms)
		return err
	}

	rendered, err := renderMarkdown(a.Terms, agreementWrap)
	if err != nil {
		return fmt.Errorf("render agreement: %w", err)
	}
	_, _ = fmt.Fprint(out, rendered)
	_, _ = fmt.Fprintln(out, signatureLine(a))
	return nil
}

func (cmd *AgreementCmd) runSign(ctx context.Context, c *cli.Command) error {
	ref, err := bookingArg(c, "hitch agreement sign <booking-id> --by <name>")
	if err != nil {
		return err
	}

	a, err := cmd.app.Bookings.SignAgreement(ctx, ref, cmd.signer)
	if err != nil {
		return fmt.Errorf("sign agreement: %w", err)
	}

	_, _ = fmt.Fprintln(c.Root().Writer, signatureLine(a))
	return nil
}

// renderMarkdown renders terms with the active theme's glamour style.
// Output to a non-terminal keeps the markdown source.
func renderMarkdown(src string, width int) (string, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return src + "\n", nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(src)
}

func signatureLine(a booking.Agreement) string {
	if !a.Signed() {
		return styles.TextMutedStyle.Render("Not signed")
	}
	return styles.CommandHeaderStyle.Render("Signed") +
		fmt.Sprintf(" by %s on %s", a.SignedBy, a.SignedAt.Local().Format("2006-01-02 15:04"))
}
