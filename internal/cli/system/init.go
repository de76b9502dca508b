package system

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/focusboard/internal/cli"
	"github.com/julianstephens/focusboard/internal/config"
	"github.com/julianstephens/focusboard/internal/storage/postgres"
	"github.com/julianstephens/focusboard/internal/utils"
)

// runForm is swapped in tests; huh needs a terminal.
var runForm = func(f *huh.Form) error { return f.Run() }

type InitCmd struct {
	Force       bool `help:"Overwrite an existing config file and reset the sqlite history."`
	Interactive bool `short:"i" help:"Answer setup questions instead of writing defaults."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config
	_, statErr := os.Stat(ctx.ConfigPath)
	configExists := statErr == nil

	if !configExists || c.Force {
		if c.Interactive {
			if err := askSettings(&cfg); err != nil {
				return err
			}
		}
		if err := config.Save(ctx.ConfigPath, cfg); err != nil {
			return err
		}
		ctx.Printf("Wrote config to: %s\n", ctx.ConfigPath)
	} else {
		ctx.Printf("Config already exists at: %s (use --force to overwrite)\n", ctx.ConfigPath)
	}

	location, err := cli.ResolveConnString(ctx.DB, cfg.Storage.Path)
	if err != nil {
		return err
	}
	if ctx.Store == nil || ctx.Store.GetConfigPath() != location {
		if ctx.Store != nil {
			_ = ctx.Store.Close()
		}
		ctx.Store = cli.OpenStore(location)
	}

	if c.Force && !postgres.IsConnString(location) {
		if err := resetDatabase(ctx, location); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized focusboard storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}

// resetDatabase removes an existing sqlite history file.
func resetDatabase(ctx *cli.Context, dbPath string) error {
	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	// Close first so the file is not held open while it is removed
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

func askSettings(cfg *config.Config) error {
	start := strconv.Itoa(cfg.Night.StartHour)
	end := strconv.Itoa(cfg.Night.EndHour)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("State source").
				Description("Path or http(s) URL of the scheduler's state.json").
				Value(&cfg.Source.State).
				Validate(required),
			huh.NewInput().
				Title("Override source").
				Description("Optional path or URL of the day/night override file").
				Value(&cfg.Source.Override),
			huh.NewInput().
				Title("Quotes").
				Description("Optional path or URL of a quotes.json list").
				Value(&cfg.Source.Quotes),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Timezone").
				Description("IANA name, or Local").
				Value(&cfg.Timezone).
				Validate(func(s string) error {
					if !utils.ValidateTimezone(s) {
						return fmt.Errorf("unknown timezone %q", s)
					}
					return nil
				}),
			huh.NewInput().
				Title("Night starts at (hour)").
				Value(&start).
				Validate(hour),
			huh.NewInput().
				Title("Night ends at (hour)").
				Value(&end).
				Validate(hour),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("History storage").
				Description("SQLite file path or password-free PostgreSQL URL").
				Value(&cfg.Storage.Path).
				Validate(storagePath),
			huh.NewConfirm().
				Title("Desktop notifications").
				Description("Send block changes to the focusboard tray").
				Value(&cfg.Notifications.Enabled),
		),
	)

	if err := runForm(form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("setup cancelled")
		}
		return err
	}

	cfg.Night.StartHour, _ = strconv.Atoi(start)
	cfg.Night.EndHour, _ = strconv.Atoi(end)
	return cfg.Validate()
}

func required(s string) error {
	if s == "" {
		return errors.New("required")
	}
	return nil
}

func hour(s string) error {
	h, err := strconv.Atoi(s)
	if err != nil || h < 0 || h > 23 {
		return errors.New("enter an hour from 0 to 23")
	}
	return nil
}

func storagePath(s string) error {
	if err := required(s); err != nil {
		return err
	}
	if postgres.IsConnString(s) {
		if _, err := postgres.ValidateConnString(s); err != nil {
			return err
		}
	}
	return nil
}
