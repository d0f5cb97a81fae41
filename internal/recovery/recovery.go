// Package recovery validates the stored streak collection at startup and
// falls back to the last known good snapshot, or to an empty collection,
// when the primary copy is damaged. RecoverOnBoot never fails.
package recovery

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/logger"
	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/storage"
	"github.com/julianstephens/dailyspark/internal/utils"
	"github.com/julianstephens/dailyspark/internal/validation"
)

type Reason string

const (
	ReasonNone           Reason = ""
	ReasonBackupRestored Reason = "backup_restored"
	ReasonNoBackup       Reason = "no_backup"
	ReasonRecoveryError  Reason = "recovery_error"
)

// Result is what the application boots with. Message is always safe to show.
type Result struct {
	Streaks   []models.Streak
	Recovered bool
	Reason    Reason
	Message   string
}

type Service struct {
	store storage.Provider
	clock utils.Clock
}

func New(store storage.Provider, clock utils.Clock) *Service {
	return &Service{store: store, clock: clock}
}

func errorResult() Result {
	return Result{
		Streaks:   []models.Streak{},
		Recovered: true,
		Reason:    ReasonRecoveryError,
		Message:   "⚠️  An error occurred during recovery. Starting fresh.",
	}
}

// RecoverOnBoot loads the primary collection, restoring from backup or
// starting empty when it is unreadable or any record is invalid.
func (s *Service) RecoverOnBoot() (res Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Boot recovery panicked", "panic", r)
			res = errorResult()
		}
	}()

	raw, ok, err := s.store.Get(constants.KeyStreaks)
	if err != nil {
		logger.Error("Failed to read streaks during boot recovery", "error", err)
		return errorResult()
	}

	if !ok {
		s.logEvent(models.EventBootValidation, "Boot validation passed: 0 streaks", 0)
		return Result{
			Streaks: []models.Streak{},
			Message: "✅ Loaded 0 streaks successfully",
		}
	}

	if streaks, valid := validateIntegrity([]byte(raw)); valid {
		s.logEvent(models.EventBootValidation, fmt.Sprintf("Boot validation passed: %d streaks", len(streaks)), len(streaks))
		if err := s.saveBackup(streaks); err != nil {
			logger.Warn("Failed to save backup snapshot", "error", err)
		}
		return Result{
			Streaks: streaks,
			Message: fmt.Sprintf("✅ Loaded %d streaks successfully", len(streaks)),
		}
	}

	logger.Warn("Primary streak data corrupted, attempting recovery")
	s.logEvent(models.EventCorruptedDetected, "Main data corrupted or unreadable", -1)

	if streaks, found := s.restoreFromBackup(); found {
		if err := storage.SetJSON(s.store, constants.KeyStreaks, streaks); err != nil {
			logger.Warn("Failed to write recovered streaks", "error", err)
		}
		return Result{
			Streaks:   streaks,
			Recovered: true,
			Reason:    ReasonBackupRestored,
			Message: fmt.Sprintf("⚠️  Data was corrupted. Recovered %d streaks from backup.\n\n"+
				"Please review your streaks to ensure everything looks correct.", len(streaks)),
		}
	}

	logger.Info("No usable backup found, starting fresh")
	s.logEvent(models.EventEmptyRecovery, "No backup available, starting with empty data", -1)
	if err := s.store.Delete(constants.KeyStreaks); err != nil {
		logger.Warn("Failed to clear corrupted streaks", "error", err)
	}

	return Result{
		Streaks:   []models.Streak{},
		Recovered: true,
		Reason:    ReasonNoBackup,
		Message:   "⚠️  Your data could not be recovered. Starting fresh.\n\nYour streaks will start from today.",
	}
}

// validateIntegrity accepts the collection only when every record passes.
func validateIntegrity(data []byte) ([]models.Streak, bool) {
	result := validation.ParseBackupJSON(data)
	if !result.OK() {
		for _, e := range result.Errors {
			logger.Debug("Integrity check failed", "message", e.Message, "detail", e.Detail)
		}
		return nil, false
	}
	return result.Streaks, true
}

type storedSnapshot struct {
	Timestamp string          `json:"timestamp"`
	Streaks   json.RawMessage `json:"streaks"`
}

func (s *Service) restoreFromBackup() ([]models.Streak, bool) {
	raw, ok, err := s.store.Get(constants.KeyBackupLatest)
	if err != nil || !ok {
		if err != nil {
			logger.Warn("Failed to read backup snapshot", "error", err)
		}
		return nil, false
	}

	var snap storedSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		logger.Warn("Backup snapshot is unreadable", "error", err)
		return nil, false
	}
	streaks, valid := validateIntegrity(snap.Streaks)
	if !valid {
		return nil, false
	}

	s.logEvent(models.EventRestoredFromBackup, fmt.Sprintf("Recovered %d streaks from backup", len(streaks)), len(streaks))
	return streaks, true
}

func (s *Service) saveBackup(streaks []models.Streak) error {
	if streaks == nil {
		streaks = []models.Streak{}
	}
	return storage.SetJSON(s.store, constants.KeyBackupLatest, models.BackupSnapshot{
		Timestamp: s.clock().UTC(),
		Streaks:   streaks,
	})
}

// SaveManualBackup overwrites the last known good snapshot.
func (s *Service) SaveManualBackup(streaks []models.Streak) error {
	if err := s.saveBackup(streaks); err != nil {
		return fmt.Errorf("saving backup snapshot: %w", err)
	}
	s.logEvent(models.EventBootValidation, fmt.Sprintf("Manual backup saved: %d streaks", len(streaks)), len(streaks))
	return nil
}

// LatestBackup returns the stored snapshot, or nil when none exists.
func (s *Service) LatestBackup() (*models.BackupSnapshot, error) {
	var snap models.BackupSnapshot
	ok, err := storage.GetJSON(s.store, constants.KeyBackupLatest, &snap)
	if err != nil || !ok {
		return nil, err
	}
	return &snap, nil
}

// logEvent appends to the audit trail. A negative count is omitted.
func (s *Service) logEvent(t models.RecoveryEventType, details string, count int) {
	event := models.RecoveryEvent{
		Timestamp: s.clock().UTC(),
		Type:      t,
		Details:   details,
	}
	if count >= 0 {
		event.StreakCount = &count
	}

	events := s.RecoveryLog()
	events = append(events, event)
	if len(events) > constants.MaxRecoveryEvents {
		events = events[len(events)-constants.MaxRecoveryEvents:]
	}
	if err := storage.SetJSON(s.store, constants.KeyRecoveryLog, events); err != nil {
		logger.Warn("Failed to log recovery event", "error", err)
	}
}

// RecoveryLog returns the audit trail, oldest first. An unreadable log reads
// as empty.
func (s *Service) RecoveryLog() []models.RecoveryEvent {
	var events []models.RecoveryEvent
	if _, err := storage.GetJSON(s.store, constants.KeyRecoveryLog, &events); err != nil {
		logger.Warn("Recovery log is unreadable", "error", err)
		return []models.RecoveryEvent{}
	}
	if events == nil {
		return []models.RecoveryEvent{}
	}
	return events
}

func (s *Service) ClearRecoveryLog() error {
	return s.store.Delete(constants.KeyRecoveryLog)
}
