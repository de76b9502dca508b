// Package config loads the dashboard's settings file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/focusboard/internal/constants"
	"github.com/julianstephens/focusboard/internal/nightmode"
	"github.com/julianstephens/focusboard/internal/utils"
)

type SourceConfig struct {
	// State is a local path or http(s) URL of the state snapshot.
	State    string        `koanf:"state"`
	Override string        `koanf:"override"`
	Quotes   string        `koanf:"quotes"`
	Timeout  time.Duration `koanf:"timeout"`
}

type IntervalConfig struct {
	Clock     time.Duration `koanf:"clock"`
	Poll      time.Duration `koanf:"poll"`
	Countdown time.Duration `koanf:"countdown"`
}

type StorageConfig struct {
	// Path is a SQLite file path or a PostgreSQL connection string.
	Path        string `koanf:"path"`
	HistoryKeep int    `koanf:"history_keep"`
}

type NotificationConfig struct {
	Enabled bool `koanf:"enabled"`
	DryRun  bool `koanf:"dry_run"`
}

// LogConfig controls the rotating log file under the state directory.
type LogConfig struct {
	Level      string `koanf:"level"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// Features switch between the dashboard's schedule layouts and effects.
type Features struct {
	// HybridSchedule adds the NOW marker and skipped status to the list.
	HybridSchedule bool `koanf:"hybrid_schedule"`
	TransitionFade bool `koanf:"transition_fade"`
	HabitDots      bool `koanf:"habit_dots"`
	NightCountdown bool `koanf:"night_countdown"`
}

// Counter is a "days since" life counter.
type Counter struct {
	Label string `koanf:"label"`
	Since string `koanf:"since"`
}

type Config struct {
	Source           SourceConfig        `koanf:"source"`
	Intervals        IntervalConfig      `koanf:"intervals"`
	Night            nightmode.Window    `koanf:"night"`
	OfflineThreshold time.Duration       `koanf:"offline_threshold"`
	Timezone         string              `koanf:"timezone"`
	Storage          StorageConfig       `koanf:"storage"`
	Notifications    NotificationConfig  `koanf:"notifications"`
	Log              LogConfig           `koanf:"log"`
	Features         Features            `koanf:"features"`
	HabitBlocks      map[string][]string `koanf:"habit_blocks"`
	Counters         []Counter           `koanf:"counters"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source: SourceConfig{
			State:   DefaultStatePath(),
			Timeout: constants.DefaultSourceTimeout,
		},
		Intervals: IntervalConfig{
			Clock:     constants.DefaultClockInterval,
			Poll:      constants.DefaultPollInterval,
			Countdown: constants.DefaultCountdownInterval,
		},
		Night:            nightmode.DefaultWindow(),
		OfflineThreshold: constants.DefaultOfflineThreshold,
		Timezone:         "Local",
		Storage: StorageConfig{
			Path:        DefaultDBPath(),
			HistoryKeep: constants.DefaultHistoryKeep,
		},
		Notifications: NotificationConfig{Enabled: true},
		Log: LogConfig{
			Level:      "warn",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Features: Features{
			HybridSchedule: true,
			TransitionFade: true,
			HabitDots:      true,
			NightCountdown: true,
		},
	}
}

// Validate checks ranges and references.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Source.State) == "" {
		errs = append(errs, errors.New("source.state is required"))
	}
	if c.Source.Timeout <= 0 {
		errs = append(errs, errors.New("source.timeout must be positive"))
	}
	if c.Intervals.Clock <= 0 || c.Intervals.Poll <= 0 || c.Intervals.Countdown <= 0 {
		errs = append(errs, errors.New("intervals must be positive"))
	}
	if err := c.Night.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.OfflineThreshold <= 0 {
		errs = append(errs, errors.New("offline_threshold must be positive"))
	}
	if !utils.ValidateTimezone(c.Timezone) {
		errs = append(errs, fmt.Errorf("invalid timezone %q", c.Timezone))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	if c.Log.MaxSizeMB <= 0 {
		errs = append(errs, errors.New("log.max_size_mb must be positive"))
	}
	for i, ctr := range c.Counters {
		if ctr.Label == "" {
			errs = append(errs, fmt.Errorf("counters[%d]: label is required", i))
		}
		if _, err := time.Parse(constants.DateFormat, ctr.Since); err != nil {
			errs = append(errs, fmt.Errorf("counters[%d]: since must be YYYY-MM-DD", i))
		}
	}
	return errors.Join(errs...)
}

// Location returns the configured timezone.
func (c Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// IsPostgres reports whether storage points at a PostgreSQL server.
func (c Config) IsPostgres() bool {
	return IsPostgresDSN(c.Storage.Path)
}

func IsPostgresDSN(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}
