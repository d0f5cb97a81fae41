package models

import "time"

// GraceEntry tracks grace usage for a single streak
type GraceEntry struct {
	WeeklyUsed  bool    `json:"weeklyUsed"`
	WeekID      string  `json:"weekId"`      // YYYY-Www
	MonthlyUsed *string `json:"monthlyUsed"` // YYYY-MM-DD of last monthly use
	// Missed days forgiven by grace or revival. They join a run without
	// counting towards it.
	BridgedDates []string `json:"bridgedDates,omitempty"`
}

// GraceStatus reports which grace kinds are currently available
type GraceStatus struct {
	WeeklyAvailable  bool `json:"weeklyAvailable"`
	MonthlyAvailable bool `json:"monthlyAvailable"`
}

// RevivalData holds the shared pool of revival points
type RevivalData struct {
	Points    int    `json:"points"`
	LastReset string `json:"lastReset"` // YYYY-MM-DD
}

// GlobalActivity is the set of days on which any streak was completed
type GlobalActivity struct {
	ActiveDays []string `json:"activeDays"`
}

type RecoveryEventType string

const (
	EventBootValidation     RecoveryEventType = "boot_validation"
	EventCorruptedDetected  RecoveryEventType = "corrupted_detected"
	EventRestoredFromBackup RecoveryEventType = "restored_from_backup"
	EventEmptyRecovery      RecoveryEventType = "empty_recovery"
)

// RecoveryEvent is one entry of the recovery audit trail
type RecoveryEvent struct {
	Timestamp   time.Time         `json:"timestamp"`
	Type        RecoveryEventType `json:"type"`
	Details     string            `json:"details"`
	StreakCount *int              `json:"streakCount,omitempty"`
}

// BackupSnapshot is the last known good copy of the streak collection
type BackupSnapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Streaks   []Streak  `json:"streaks"`
}

// ReminderSpec says when a streak's reminder should fire.
type ReminderSpec struct {
	Time  string    // HH:MM, local
	Date  string    // YYYY-MM-DD for a one-off reminder, empty for daily
	After time.Time // earliest instant the reminder may fire, zero for now
}
