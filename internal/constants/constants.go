package constants

import "time"

const (
	AppName            = "spark"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/spark/spark.db"
	DefaultTimezone    = "Local"
	Version            = "v0.3.0"

	// DateFormat is the canonical local calendar date format (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time-of-day format (HH:MM)
	TimeFormat = "15:04"

	// Storage keys. These names are also the keys used inside exported backup files.
	KeyStreaks        = "streakflame_streaks"
	KeyLists          = "streakflame_lists"
	KeyActionHistory  = "streakflame_action_history"
	KeyBackupLatest   = "streakflame_backup_latest"
	KeyRecoveryLog    = "streakflame_recovery_log"
	KeyGrace          = "streakflame_grace"
	KeyRevivalPoints  = "streakflame_revival_points"
	KeyGlobalActivity = "streakflame_global_activity"

	// Streak constraints
	MaxStreakNameLength = 50

	// Default list
	DefaultListID    = "default"
	DefaultListName  = "My Streaks"
	DefaultListColor = "fire"
	DefaultEmoji     = "🔥"

	// Action history
	ActionRetentionDays = 7

	// Recovery audit log
	MaxRecoveryEvents = 100

	// Global activity
	MaxActiveDays = 365

	// Revival points
	DefaultRevivalPoints = 5

	// Stats windows
	WeeklyWindowDays  = 7
	MonthlyWindowDays = 30

	// Log file rotation
	LogDirName      = "logs"
	LogFileName     = "spark.log"
	LogMaxSizeMB    = 5
	LogMaxBackups   = 5
	LogMaxAgeDays   = 30
	DefaultLogLevel = "warn"

	// Export format
	ExportVersion = "1"

	// File backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "spark-"
	BackupFileSuffix = ".json"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "spark-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.spark"
	TrayExecutablePrefix   = "spark-tray"
)

// ListColors is the named palette a streak list may use.
var ListColors = []string{"fire", "ocean", "forest", "sunset", "purple", "rose"}
