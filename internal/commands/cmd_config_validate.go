package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/hitch/internal/core/config"
	"github.com/colonyops/hitch/internal/core/styles"
	"github.com/colonyops/hitch/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "hitch config validate [options]",
				Description: "Validates the configuration file, checking the data directory, the remote API URL and the theme name.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// validateResult is the JSON output format for hitch config validate.
type validateResult struct {
	Valid    bool                       `json:"valid"`
	Error    string                     `json:"error,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	err := cfg.ValidateDeep(cmd.flags.ConfigPath)

	result := validateResult{
		Valid:    err == nil,
		Warnings: cfg.Warnings(),
	}
	if err != nil {
		result.Error = err.Error()
	}

	if cmd.format == "json" {
		if werr := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, result); werr != nil {
			return werr
		}
	} else {
		outputText(c.Root().Writer, result)
	}

	if !result.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func outputText(w io.Writer, result validateResult) {
	for _, warn := range result.Warnings {
		_, _ = fmt.Fprintf(w, "%s %s: %s\n", styles.TextWarningStyle.Render(styles.IconNotifyWarning), warn.Category, warn.Message)
		if warn.Item != "" {
			_, _ = fmt.Fprintf(w, "  Item: %s\n", warn.Item)
		}
	}

	if len(result.Warnings) > 0 {
		_, _ = fmt.Fprintln(w)
	}

	if result.Valid {
		_, _ = fmt.Fprintf(w, "%s Configuration is valid\n", styles.TextSuccessStyle.Render(styles.IconNotifySuccess))
		return
	}

	_, _ = fmt.Fprintf(w, "%s %s\n", styles.TextErrorStyle.Render(styles.IconNotifyError), result.Error)
}
