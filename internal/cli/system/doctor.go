package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/focusboard/internal/backup"
	"github.com/julianstephens/focusboard/internal/cli"
	"github.com/julianstephens/focusboard/internal/keyring"
	"github.com/julianstephens/focusboard/internal/logger"
	"github.com/julianstephens/focusboard/internal/notifier"
	"github.com/julianstephens/focusboard/internal/source"
	"github.com/julianstephens/focusboard/internal/storage"
	"github.com/julianstephens/focusboard/internal/storage/postgres"
	"github.com/julianstephens/focusboard/internal/validation"
)

// checkTray is swapped in tests so they do not depend on a running tray.
var checkTray = func() error { return notifier.New().CheckTray() }

type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	fail := func(name string, err error) {
		ctx.Printf("❌ %s: FAIL\n", name)
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	}
	warn := func(name string, err error) {
		ctx.Printf("⚠ %s: WARNING\n", name)
		ctx.Printf("   %v\n", err)
	}
	ok := func(name string) { ctx.Printf("✓ %s: OK\n", name) }
	skip := func(name, why string) { ctx.Printf("⊘ %s: SKIPPED (%s)\n", name, why) }

	// Check 1: Config
	if err := ctx.Config.Validate(); err != nil {
		fail("Config", err)
	} else {
		ok("Config")
	}

	// Check 2: State source reachable, then its contents
	if err := checkSourceReachable(ctx); err != nil {
		fail("State source", err)
		skip("Snapshot validation", "state source not reachable")
	} else {
		ok("State source")
		if err := checkSnapshot(ctx); err != nil {
			warn("Snapshot validation", err)
		} else {
			ok("Snapshot validation")
		}
	}

	// Check 3: Storage reachable
	storeReachable := false
	if err := checkStorage(ctx); err != nil {
		fail("Storage", err)
	} else {
		ok("Storage")
		storeReachable = true
	}

	// Check 4: Schema current (only if storage is reachable)
	if storeReachable {
		if err := checkSchema(ctx); err != nil {
			fail("Schema version", err)
		} else {
			ok("Schema version")
		}
	} else {
		skip("Schema version", "storage not reachable")
	}

	// Check 5: Backups (sqlite only, warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		if errors.Is(err, backup.ErrUnsupported) {
			skip("Backups present", "not a sqlite store")
		} else {
			warn("Backups present", err)
		}
	} else {
		ok("Backups present")
	}

	// Check 6: Keyring (only matters for postgres)
	if ctx.Store != nil && postgres.IsConnString(ctx.Config.Storage.Path) {
		if status := keyring.CurrentStatus(); !status.Available {
			warn("OS keyring", keyring.ErrKeyringUnavailable)
		} else {
			ok("OS keyring")
		}
	} else {
		skip("OS keyring", "not using PostgreSQL")
	}

	// Check 7: Notification tray (warning only)
	if !ctx.Config.Notifications.Enabled {
		skip("Notification tray", "notifications disabled")
	} else if err := checkTray(); err != nil {
		warn("Notification tray", err)
	} else {
		ok("Notification tray")
	}

	// Check 8: Clock/timezone sanity
	if err := checkClockTimezone(ctx); err != nil {
		fail("Clock/timezone", err)
	} else {
		ok("Clock/timezone")
	}

	ctx.Println()
	if path := logger.Path(); path != "" {
		ctx.Printf("Logs: %s\n", path)
	}
	if hasError {
		return fmt.Errorf("diagnostics failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func fetchState(ctx *cli.Context) ([]byte, error) {
	src := ctx.Config.Source
	fctx, cancel := context.WithTimeout(context.Background(), src.Timeout)
	defer cancel()
	return source.New(src.State, src.Timeout).Fetch(fctx)
}

func checkSourceReachable(ctx *cli.Context) error {
	_, err := fetchState(ctx)
	return err
}

func checkSnapshot(ctx *cli.Context) error {
	data, err := fetchState(ctx)
	if err != nil {
		return err
	}
	snap, err := source.DecodeSnapshot(data)
	if err != nil {
		return err
	}
	result := validation.New().ValidateSnapshot(snap)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) - run 'focusboard validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkStorage(ctx *cli.Context) error {
	if ctx.Store == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := ctx.Store.GetLatestSnapshot(); err != nil && !errors.Is(err, storage.ErrNoSnapshots) {
		return err
	}
	return nil
}

func checkSchema(ctx *cli.Context) error {
	sv, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return nil
	}
	current, latest, err := sv.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if ctx.Store == nil {
		return backup.ErrUnsupported
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'focusboard backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := time.LoadLocation(ctx.Config.Timezone); err != nil && ctx.Config.Timezone != "Local" && ctx.Config.Timezone != "" {
		return fmt.Errorf("invalid timezone %q: %w", ctx.Config.Timezone, err)
	}
	return nil
}
