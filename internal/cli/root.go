package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/focusboard/internal/backup"
	"github.com/julianstephens/focusboard/internal/clock"
	"github.com/julianstephens/focusboard/internal/config"
	"github.com/julianstephens/focusboard/internal/dashboard"
	fberrors "github.com/julianstephens/focusboard/internal/errors"
	"github.com/julianstephens/focusboard/internal/keyring"
	"github.com/julianstephens/focusboard/internal/logger"
	"github.com/julianstephens/focusboard/internal/models"
	"github.com/julianstephens/focusboard/internal/notifier"
	"github.com/julianstephens/focusboard/internal/storage"
	"github.com/julianstephens/focusboard/internal/storage/postgres"
	"github.com/julianstephens/focusboard/internal/storage/sqlite"
)

// EnvDBConnection holds a full PostgreSQL connection string, password
// included. It wins over the keyring and the config file.
const EnvDBConnection = "FOCUSBOARD_DB_CONNECTION"

type Context struct {
	Store      storage.Provider
	Config     config.Config
	ConfigPath string
	// DB is the --db flag (or FOCUSBOARD_DB_CONNECTION) as given.
	DB    string
	Clock clock.Clock
	Out   io.Writer
	In    io.Reader
}

// Stdout is where commands print; tests swap Out for a buffer.
func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Stdin() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Stdout(), args...)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if c.Store == nil {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		if errors.Is(err, backup.ErrUnsupported) {
			return
		}
		// Log warning but don't interrupt the dashboard
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// NewEngine builds an engine on the context's clock.
func (c *Context) NewEngine() *dashboard.Engine {
	return dashboard.NewEngine(c.Config, c.Clock)
}

// NewRunner wires a poller and the store around engine, then primes it with
// the last stored snapshot.
func (c *Context) NewRunner(engine *dashboard.Engine, opts ...dashboard.RunnerOption) *dashboard.Runner {
	var base []dashboard.RunnerOption
	if c.Store != nil {
		base = append(base, dashboard.WithStore(c.Store))
	}
	r := dashboard.NewRunner(engine, dashboard.NewPoller(c.Config.Source), c.Config, append(base, opts...)...)

	var latest func() (models.SnapshotRecord, error)
	if c.Store != nil {
		latest = c.Store.GetLatestSnapshot
	}
	r.Prime(latest)
	return r
}

// TrayNotifier is the notifier for long-running hosts.
func TrayNotifier() dashboard.RunnerOption {
	return dashboard.WithNotifier(notifier.New())
}

// ResolveConnString picks the storage location. An explicit --db value
// (or FOCUSBOARD_DB_CONNECTION) is used as given. A PostgreSQL string from
// the config file must not carry a password; the keyring copy, which may,
// is preferred over it.
func ResolveConnString(explicit, configured string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if !postgres.IsConnString(configured) {
		return configured, nil
	}

	if _, err := postgres.ValidateConnString(configured); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return "", fberrors.WithHint(
				errors.New("PostgreSQL connection strings with embedded credentials are not allowed in the config file"),
				"store the full string with 'focusboard keyring set' or export "+EnvDBConnection)
		}
		return "", err
	}

	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		logger.Debug("Using connection string from keyring")
		return connStr, nil
	case errors.Is(err, keyring.ErrNotFound):
	default:
		logger.Debug("Keyring unavailable, using configured connection string", "err", err)
	}
	return configured, nil
}

// OpenStore returns the provider for a resolved location without loading it.
func OpenStore(location string) storage.Provider {
	if postgres.IsConnString(location) {
		return postgres.New(location)
	}
	return sqlite.NewStore(location)
}
