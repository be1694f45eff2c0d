package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/hitch/internal/commands"
	"github.com/colonyops/hitch/internal/core/auth"
	"github.com/colonyops/hitch/internal/core/config"
	"github.com/colonyops/hitch/internal/core/logging"
	"github.com/colonyops/hitch/internal/core/styles"
	"github.com/colonyops/hitch/internal/data/db"
	"github.com/colonyops/hitch/internal/data/stores"
	"github.com/colonyops/hitch/internal/hitch"
	"github.com/colonyops/hitch/internal/profiler"
	"github.com/colonyops/hitch/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, resolveBuild
	// reads them from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func resolveBuild() hitch.Build {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	return hitch.Build{Version: v, Commit: c, Date: d}
}

func versionString(b hitch.Build) string {
	short := b.Commit
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s (%s) %s", b.Version, short, b.Date)
}

func openDatabase(cfg *config.Config) (*db.DB, error) {
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil || !stores.IsCorruptionError(err) {
		return database, err
	}

	backup, rerr := stores.RecoverFromCorruption(cfg.DataDir)
	if rerr != nil {
		return nil, fmt.Errorf("%w (recovery failed: %v)", err, rerr)
	}
	log.Warn().Err(err).Str("backup", backup).Msg("database was corrupt, started a fresh one")

	return db.Open(cfg.DataDir, opts)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		hitchApp  = &hitch.App{}
		database  *db.DB
		prof      *profiler.Server
		build     = resolveBuild()
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "hitch",
		Usage:     "Book and track trailer rentals",
		UsageText: "hitch [global options] command [command options]",
		Description: `Hitch keeps the trailer fleet, bookings, payments and rental agreements in a
local database and shows them on a live dashboard.

Run 'hitch' with no arguments to open the booking dashboard.
Run 'hitch booking add' to book a trailer from the command line.`,
		Version: versionString(build),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("HITCH_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/hitch.log)",
				Sources:     cli.EnvVars("HITCH_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("HITCH_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("HITCH_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.IntFlag{
				Name:        "profile-port",
				Usage:       "serve pprof on 127.0.0.1:<port>",
				Sources:     cli.EnvVars("HITCH_PROFILE_PORT"),
				Hidden:      true,
				Destination: &flags.ProfilePort,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file so the dashboard owns the terminal.
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFilePath())
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			if flags.ProfilePort > 0 {
				prof = profiler.New(flags.ProfilePort)
				if err := prof.Start(ctx); err != nil {
					log.Warn().Err(err).Msg("profiler unavailable")
					prof = nil
				}
			}

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Validation ensures the name is known; unknown names keep the default.
			if palette, ok := styles.GetPalette(cfg.Theme); ok {
				styles.SetTheme(palette)
			}

			database, err = openDatabase(cfg)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			provider := auth.NewStaticProvider(auth.User{
				ID:    cfg.User.ID,
				Name:  cfg.User.Name,
				Email: cfg.User.Email,
				Role:  cfg.User.Role,
			}, cfg.User.APIToken)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*hitchApp = *hitch.NewApp(cfg, database, provider, build)

			return logging.WithCommand(ctx, c.Args().First()), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if prof != nil {
				shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
				_ = prof.Shutdown(shutdownCtx)
				cancel()
			}

			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, hitchApp)

	app = commands.NewTrailerCmd(flags, hitchApp).Register(app)
	app = commands.NewBookingCmd(flags, hitchApp).Register(app)
	app = commands.NewPaymentCmd(flags, hitchApp).Register(app)
	app = commands.NewAgreementCmd(flags, hitchApp).Register(app)
	app = commands.NewToastsCmd(flags, hitchApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)
	app = tuiCmd.Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'hitch --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
