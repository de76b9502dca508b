package constants

import "time"

// ConflictType represents the type of snapshot validation conflict
type ConflictType string

// OverrideMode is the manual day/night display override
type OverrideMode string

const (
	AppName            = "focusboard"
	DefaultKeyringUser = "database-connection"
	DefaultConfigName  = "config.yaml"
	DefaultDBName      = "focusboard.db"
	Version            = "v0.3.0"

	// DateFormat is the date format used by the state snapshot (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the 24-hour clock format (HH:MM)
	TimeFormat = "15:04"

	// ClockFormat is the 12-hour wall clock format
	ClockFormat = "3:04 PM"

	// Refresh cadence
	DefaultClockInterval     = time.Second
	DefaultPollInterval      = 10 * time.Second
	DefaultCountdownInterval = 60 * time.Second
	DefaultSourceTimeout     = 5 * time.Second
	DefaultOfflineThreshold  = 5 * time.Minute
	TransitionFadeDuration   = 500 * time.Millisecond

	// Night window, local wall-clock hours
	DefaultNightStartHour = 18
	DefaultNightEndHour   = 5

	// MinutesPerHalfDay is added by the PM-carry rule
	MinutesPerHalfDay = 12 * 60

	// Widget limits
	MaxDoneToday       = 5
	MaxReminders       = 5
	MaxCalendarEvents  = 6
	HabitFullOpacity   = 7
	KeystoneHistoryDay = 30
	DefaultHistoryKeep = 500

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "focusboard-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "focusboard-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.focusboard"
	TrayExecutablePrefix   = "focusboard-tray"

	// Override modes
	OverrideAuto  OverrideMode = "auto"
	OverrideDay   OverrideMode = "day"
	OverrideNight OverrideMode = "night"

	// Conflict Types
	ConflictMalformedTime     ConflictType = "malformed_time"
	ConflictNonMonotonic      ConflictType = "non_monotonic_time"
	ConflictMultipleCurrent   ConflictType = "multiple_current"
	ConflictCurrentDone       ConflictType = "current_block_done"
	ConflictAllDoneWithOpen   ConflictType = "all_done_with_open_blocks"
	ConflictScheduleFlagEmpty ConflictType = "no_schedule_with_blocks"
)
