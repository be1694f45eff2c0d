package commands

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/hitch/internal/core/logging"
	"github.com/colonyops/hitch/internal/hitch"
	"github.com/colonyops/hitch/internal/tui"
	tuinotify "github.com/colonyops/hitch/internal/tui/notify"
	"github.com/colonyops/hitch/internal/tui/responsive"
)

type TuiCmd struct {
	flags *Flags
	app   *hitch.App

	noWatch bool
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *hitch.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "no-watch",
			Usage:       "do not reload the dashboard when the database changes on disk",
			Sources:     cli.EnvVars("HITCH_NO_WATCH"),
			Destination: &cmd.noWatch,
		},
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "tui",
		Usage:       "Open the booking dashboard",
		UsageText:   "hitch tui [--no-watch]",
		Description: "Opens the interactive booking dashboard. This is also what runs when hitch is called without a command.",
		Flags:       cmd.Flags(),
		Action:      cmd.Run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(_ context.Context, _ *cli.Command) error {
	cfg := cmd.app.Config

	fetcher, updater, err := cmd.app.Source()
	if err != nil {
		return err
	}

	warnings := make([]string, 0)
	for _, w := range cfg.Warnings() {
		warnings = append(warnings, w.Message)
	}

	// Background producers log through a hooked logger so their warnings
	// reach the dashboard as toasts.
	buffer := tui.NewNotificationBuffer()
	bgLog := logging.Component("watch").Hook(logging.ToastHook{
		MinLevel: zerolog.WarnLevel,
		Push:     buffer.Push,
	})

	var watcher *tui.DBWatcher
	if cmd.app.Local() && !cmd.noWatch {
		watcher, err = tui.NewDBWatcher(cmd.app.DB.Path(), cmd.app.Bookings, bgLog)
		if err != nil {
			log.Warn().Err(err).Msg("database watcher unavailable, auto-refresh disabled")
			warnings = append(warnings, "Auto-refresh is disabled: "+err.Error())
			watcher = nil
		}
	}

	m := tui.New(tui.Options{
		Config:   cfg,
		Fetcher:  fetcher,
		Updater:  updater,
		Auth:     cmd.app.Auth,
		Bus:      tuinotify.NewBus(cmd.app.Toasts),
		Buffer:   buffer,
		Observer: responsive.NewObserver(responsive.NewTerminal(os.Stdout)),
		Watcher:  watcher,
		Build: tui.BuildInfo{
			Version: cmd.app.Build.Version,
			Commit:  cmd.app.Build.Commit,
			Date:    cmd.app.Build.Date,
		},
		Warnings: warnings,
	})
	defer m.Close()

	log.Info().Str("source", cfg.Data.Source).Msg("starting dashboard")

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
