// Package history keeps the same-day undo log. Actions recorded today can
// be rolled back; actions from earlier days are finalized at startup and
// pruned once they fall out of the retention window.
package history

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/logger"
	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/storage"
	"github.com/julianstephens/dailyspark/internal/utils"
)

type Log struct {
	store storage.Provider
	clock utils.Clock
}

func New(store storage.Provider, clock utils.Clock) *Log {
	return &Log{store: store, clock: clock}
}

// load returns the stored actions in append order. An unreadable log is
// treated as empty.
func (l *Log) load() []models.DailyAction {
	var actions []models.DailyAction
	if _, err := storage.GetJSON(l.store, constants.KeyActionHistory, &actions); err != nil {
		logger.Warn("Action history is unreadable, starting a new one", "error", err)
		return nil
	}
	return actions
}

func (l *Log) save(actions []models.DailyAction) error {
	if actions == nil {
		actions = []models.DailyAction{}
	}
	if err := storage.SetJSON(l.store, constants.KeyActionHistory, actions); err != nil {
		return fmt.Errorf("saving action history: %w", err)
	}
	return nil
}

// RecordAction appends a reversible action dated today.
func (l *Log) RecordAction(t models.ActionType, streakID string, prev models.PreviousState) (models.DailyAction, error) {
	now := l.clock()
	action := models.DailyAction{
		ID:            "action_" + uuid.NewString(),
		Type:          t,
		StreakID:      streakID,
		Date:          utils.FormatDate(now),
		Timestamp:     now,
		PreviousState: prev,
	}

	actions := append(l.load(), action)
	if err := l.save(actions); err != nil {
		return models.DailyAction{}, err
	}
	return action, nil
}

// LastActionForStreak returns the latest action for the streak on date. When
// timestamps tie, the one appended last wins.
func (l *Log) LastActionForStreak(streakID, date string) *models.DailyAction {
	var latest *models.DailyAction
	actions := l.load()
	for i := range actions {
		a := &actions[i]
		if a.StreakID != streakID || a.Date != date {
			continue
		}
		if latest == nil || !a.Timestamp.Before(latest.Timestamp) {
			latest = a
		}
	}
	return latest
}

// CanUndo reports whether today's latest action on the streak is reversible.
func (l *Log) CanUndo(streakID string) models.UndoAvailability {
	today := utils.Today(l.clock)
	action := l.LastActionForStreak(streakID, today)

	switch {
	case action == nil:
		return models.UndoAvailability{Reason: models.UndoReasonNoAction}
	case action.Finalized:
		return models.UndoAvailability{Reason: models.UndoReasonAlreadyFinalized, Action: action}
	case action.Date != today:
		return models.UndoAvailability{Reason: models.UndoReasonNotToday, Action: action}
	}
	return models.UndoAvailability{CanUndo: true, Action: action}
}

// FinalizeOldActions locks every action dated before today.
func (l *Log) FinalizeOldActions() (int, error) {
	today := utils.Today(l.clock)
	actions := l.load()

	count := 0
	for i := range actions {
		if !actions[i].Finalized && utils.IsDateBefore(actions[i].Date, today) {
			actions[i].Finalized = true
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	if err := l.save(actions); err != nil {
		return 0, err
	}
	logger.Debug("Finalized actions from previous days", "count", count)
	return count, nil
}

// CleanupOldActions drops actions older than the retention window.
func (l *Log) CleanupOldActions() (int, error) {
	cutoff := utils.DaysAgo(l.clock, constants.ActionRetentionDays)
	actions := l.load()

	kept := actions[:0]
	for _, a := range actions {
		if !utils.IsDateBefore(a.Date, cutoff) {
			kept = append(kept, a)
		}
	}
	removed := len(actions) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := l.save(kept); err != nil {
		return 0, err
	}
	logger.Debug("Cleaned up old actions", "count", removed)
	return removed, nil
}

// TodayActions returns today's actions in the order they were recorded.
func (l *Log) TodayActions() []models.DailyAction {
	today := utils.Today(l.clock)
	var out []models.DailyAction
	for _, a := range l.load() {
		if a.Date == today {
			out = append(out, a)
		}
	}
	return out
}

// Forget removes every action recorded for a deleted streak.
func (l *Log) Forget(streakID string) error {
	actions := l.load()
	kept := actions[:0]
	for _, a := range actions {
		if a.StreakID != streakID {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(actions) {
		return nil
	}
	return l.save(kept)
}

// Initialize finalizes past actions, then prunes expired ones.
func (l *Log) Initialize() error {
	if _, err := l.FinalizeOldActions(); err != nil {
		return err
	}
	_, err := l.CleanupOldActions()
	return err
}
