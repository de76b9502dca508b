// Package logger writes structured logs to a rotating file in the state
// directory. Helpers are no-ops until Init runs, so packages can log freely
// from tests.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/focusboard/internal/constants"
)

// Logger is the process-wide logger, nil before Init.
var Logger *log.Logger

var logPath string

type Config struct {
	StateDir string
	// Level is one of debug, info, warn or error. Empty means warn.
	Level string
	// Debug forces debug level and echoes to stderr unless Quiet.
	Debug bool
	// Quiet keeps the full-screen TUI's terminal clean.
	Quiet bool

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init points Logger at <StateDir>/logs/focusboard.log.
func Init(cfg Config) error {
	level := log.WarnLevel
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	if cfg.Debug {
		level = log.DebugLevel
	}

	logDir := filepath.Join(cfg.StateDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logPath = filepath.Join(logDir, constants.AppName+".log")

	rotating := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    orDefault(cfg.MaxSizeMB, 10),
		MaxBackups: orDefault(cfg.MaxBackups, 3),
		MaxAge:     orDefault(cfg.MaxAgeDays, 28),
		Compress:   true,
	}

	var out io.Writer = rotating
	if cfg.Debug && !cfg.Quiet {
		out = io.MultiWriter(os.Stderr, rotating)
	}

	Logger = log.NewWithOptions(out, log.Options{
		Prefix:          constants.AppName,
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	})
	return nil
}

// Path is the active log file, empty before Init.
func Path() string {
	return logPath
}

// For returns a logger tagged with a component name. Before Init it
// discards everything.
func For(component string) *log.Logger {
	if Logger == nil {
		return log.New(io.Discard)
	}
	return Logger.With("component", component)
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
