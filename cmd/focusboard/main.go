package main

import (
	"os"
	"strings"
	_ "time/tzdata"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/focusboard/internal/cli"
	"github.com/julianstephens/focusboard/internal/cli/backups"
	"github.com/julianstephens/focusboard/internal/cli/board"
	"github.com/julianstephens/focusboard/internal/cli/history"
	"github.com/julianstephens/focusboard/internal/cli/system"
	"github.com/julianstephens/focusboard/internal/config"
	"github.com/julianstephens/focusboard/internal/constants"
	fberrors "github.com/julianstephens/focusboard/internal/errors"
	"github.com/julianstephens/focusboard/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path (.yaml, .toml or .json)." type:"path" env:"FOCUSBOARD_CONFIG"`
	Debug   bool   `help:"Enable debug logging."`
	State   string `help:"Override the state source (path or http(s) URL)." env:"FOCUSBOARD_STATE"`
	DB      string `name:"db" help:"History database: SQLite path or PostgreSQL connection string. May include a password." env:"FOCUSBOARD_DB_CONNECTION"`

	Tui      system.TuiCmd      `cmd:"" help:"Launch the full-screen dashboard." default:"1"`
	Status   board.StatusCmd    `cmd:"" help:"Print the current phase, block and sync state."`
	View     board.ViewCmd      `cmd:"" help:"Dump the dashboard view model."`
	Watch    system.WatchCmd    `cmd:"" help:"Run the dashboard headless (logs and notifications)."`
	Validate board.ValidateCmd  `cmd:"" help:"Check the state snapshot for conflicts."`
	Override board.OverrideCmd  `cmd:"" help:"Force day or night display, or return to auto."`
	History  history.HistoryCmd `cmd:"" help:"List stored snapshots."`
	Streaks  history.StreaksCmd `cmd:"" help:"Show keystone streaks."`
	Init     system.InitCmd     `cmd:"" help:"Write the config file and initialize storage."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage history database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show keyring availability."`
	} `cmd:"" help:"Manage the PostgreSQL connection string."`
}

// storeless commands run without opening the history database.
var storeless = []string{"init", "validate", "override", "keyring"}

func needsStore(command string) bool {
	for _, name := range storeless {
		if command == name || strings.HasPrefix(command, name+" ") {
			return false
		}
	}
	return true
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Wall dashboard for a time-blocked day"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)
	command := ctx.Command()

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fberrors.Fatal(err)
	}

	stateDir, err := config.StateHome()
	if err != nil {
		fberrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{
		StateDir:   stateDir,
		Level:      cfg.Log.Level,
		Debug:      CLI.Debug,
		Quiet:      command == "tui",
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		fberrors.Fatal(err)
	}
	if CLI.State != "" {
		cfg.Source.State = CLI.State
	}
	logger.Debug("Loaded config", "path", configPath, "state", cfg.Source.State, "command", command)

	appCtx := &cli.Context{
		Config:     cfg,
		ConfigPath: configPath,
		DB:         CLI.DB,
	}

	// Init opens its own store once the config it writes is settled
	if needsStore(command) {
		location, err := cli.ResolveConnString(CLI.DB, cfg.Storage.Path)
		if err != nil {
			fberrors.Fatal(err)
		}
		store := cli.OpenStore(location)
		if err := store.Load(); err != nil {
			fberrors.Fatal(err)
		}
		defer store.Close()
		appCtx.Store = store
	}

	if err := ctx.Run(appCtx); err != nil {
		fberrors.Report(os.Stderr, err)
		if appCtx.Store != nil {
			appCtx.Store.Close()
		}
		os.Exit(1)
	}
}
