// Package config handles configuration loading and validation for hitch.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Data sources for the dashboard's booking list.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// Config holds the application configuration.
type Config struct {
	Theme     string          `yaml:"theme"`
	User      UserConfig      `yaml:"user"`
	Data      DataConfig      `yaml:"data"`
	Toasts    ToastConfig     `yaml:"toasts"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Database  DatabaseConfig  `yaml:"database"`
	DataDir   string          `yaml:"-"` // set by caller, not from config file
}

// UserConfig describes the signed-in operator.
type UserConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
	APIToken string `yaml:"api_token"`
}

// DataConfig selects where bookings are read from.
type DataConfig struct {
	Source  string        `yaml:"source"`  // local or remote
	APIURL  string        `yaml:"api_url"` // base URL for the remote source
	Timeout time.Duration `yaml:"timeout"` // per-request timeout for the remote source
}

// ToastConfig tunes toast notifications.
type ToastConfig struct {
	Duration     time.Duration `yaml:"duration"`
	EnterDelay   time.Duration `yaml:"enter_delay"`
	TickInterval time.Duration `yaml:"tick_interval"`
	LeaveWindow  time.Duration `yaml:"leave_window"`
	MaxVisible   int           `yaml:"max_visible"`
}

// DashboardConfig controls the booking dashboard layout.
type DashboardConfig struct {
	ShowPast     bool `yaml:"show_past"`
	WideWidth    int  `yaml:"wide_width"`    // columns at which the detail pane appears
	CompactWidth int  `yaml:"compact_width"` // columns at or below which columns are dropped
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme: "tokyo-night",
		Data: DataConfig{
			Source:  SourceLocal,
			Timeout: 10 * time.Second,
		},
		Toasts: ToastConfig{
			Duration:     3 * time.Second,
			EnterDelay:   50 * time.Millisecond,
			TickInterval: 50 * time.Millisecond,
			LeaveWindow:  100 * time.Millisecond,
			MaxVisible:   5,
		},
		Dashboard: DashboardConfig{
			WideWidth:    120,
			CompactWidth: 70,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Data.Source == "" {
		c.Data.Source = defaults.Data.Source
	}
	if c.Data.Timeout == 0 {
		c.Data.Timeout = defaults.Data.Timeout
	}
	if c.Toasts.Duration == 0 {
		c.Toasts.Duration = defaults.Toasts.Duration
	}
	if c.Toasts.EnterDelay == 0 {
		c.Toasts.EnterDelay = defaults.Toasts.EnterDelay
	}
	if c.Toasts.TickInterval == 0 {
		c.Toasts.TickInterval = defaults.Toasts.TickInterval
	}
	if c.Toasts.LeaveWindow == 0 {
		c.Toasts.LeaveWindow = defaults.Toasts.LeaveWindow
	}
	if c.Toasts.MaxVisible == 0 {
		c.Toasts.MaxVisible = defaults.Toasts.MaxVisible
	}
	if c.Dashboard.WideWidth == 0 {
		c.Dashboard.WideWidth = defaults.Dashboard.WideWidth
	}
	if c.Dashboard.CompactWidth == 0 {
		c.Dashboard.CompactWidth = defaults.Dashboard.CompactWidth
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	switch c.Data.Source {
	case SourceLocal:
	case SourceRemote:
		if c.Data.APIURL == "" {
			return fmt.Errorf("data.api_url is required when data.source is %q", SourceRemote)
		}
	default:
		return fmt.Errorf("data.source must be %q or %q, got %q", SourceLocal, SourceRemote, c.Data.Source)
	}

	if c.Data.Timeout < 0 {
		return fmt.Errorf("data.timeout cannot be negative")
	}

	if c.Toasts.Duration < 0 {
		return fmt.Errorf("toasts.duration cannot be negative")
	}

	if c.Toasts.MaxVisible < 1 {
		return fmt.Errorf("toasts.max_visible must be at least 1")
	}

	if c.Dashboard.CompactWidth >= c.Dashboard.WideWidth {
		return fmt.Errorf("dashboard.compact_width (%d) must be less than dashboard.wide_width (%d)",
			c.Dashboard.CompactWidth, c.Dashboard.WideWidth)
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}

	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}

	return nil
}

// DatabasePath returns the path of the SQLite database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "hitch.db")
}
