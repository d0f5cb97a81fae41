package engine

import (
	"fmt"

	"github.com/julianstephens/dailyspark/internal/activity"
	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/grace"
	"github.com/julianstephens/dailyspark/internal/logger"
	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/utils"
)

// Complete marks the streak done for today. It reports false without changing
// anything when the streak was already completed today.
func (e *Engine) Complete(id string) (bool, error) {
	s, done, err := e.complete(id)
	if err != nil || !done {
		return done, err
	}
	e.notify(fmt.Sprintf("%s %s: %d day streak!", s.Emoji, s.Name, s.CurrentStreak))
	return true, nil
}

func (e *Engine) complete(id string) (models.Streak, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexOf(id)
	if err != nil {
		return models.Streak{}, false, err
	}
	s := e.streaks[i].Clone()
	if s.IsArchived() {
		return models.Streak{}, false, fmt.Errorf("%w: %s", ErrStreakArchived, s.Name)
	}

	today, yesterday := e.today(), e.yesterday()
	if s.LastCompletedDate != nil && *s.LastCompletedDate == today {
		return s, false, nil
	}

	prev := s.Clone()
	if s.LastCompletedDate == nil || *s.LastCompletedDate == yesterday {
		s.CurrentStreak++
	} else {
		s.CurrentStreak = 1
	}
	s.BestStreak = max(s.BestStreak, s.CurrentStreak)
	s.LastCompletedDate = models.StringPtr(today)
	if !s.HasCompleted(today) {
		s.CompletedDates = append(s.CompletedDates, today)
	}

	if err := e.replace(i, s); err != nil {
		return models.Streak{}, false, err
	}
	if _, err := e.history.RecordAction(models.ActionComplete, id, prev.Snapshot()); err != nil {
		e.rollback(i, prev)
		return models.Streak{}, false, fmt.Errorf("recording action: %w", err)
	}
	if err := e.activity.RecordToday(); err != nil {
		logger.Warn("Failed to record global activity", "error", err)
	}
	e.schedule(s)
	logger.Info("Streak completed", "id", id, "current", s.CurrentStreak)
	return s, true, nil
}

func (e *Engine) CanUndo(id string) models.UndoAvailability {
	return e.history.CanUndo(id)
}

// Undo restores the snapshot taken by today's latest action on the streak and
// records the reversal, so a second undo reapplies the original action.
func (e *Engine) Undo(id string) (models.Streak, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexOf(id)
	if err != nil {
		return models.Streak{}, err
	}

	avail := e.history.CanUndo(id)
	if !avail.CanUndo {
		return models.Streak{}, fmt.Errorf("%w: %s", ErrUndoUnavailable, avail.Reason)
	}

	prev := e.streaks[i].Clone()
	s := prev.Clone()
	s.Restore(avail.Action.PreviousState)
	if err := e.replace(i, s); err != nil {
		return models.Streak{}, err
	}
	if _, err := e.history.RecordAction(models.ActionUncomplete, id, prev.Snapshot()); err != nil {
		e.rollback(i, prev)
		return models.Streak{}, fmt.Errorf("recording action: %w", err)
	}

	if e.Status(s) == models.StatusCompleted {
		if err := e.activity.RecordToday(); err != nil {
			logger.Warn("Failed to record global activity", "error", err)
		}
	}
	e.schedule(s)
	logger.Info("Streak action undone", "id", id, "action", avail.Action.ID)
	return s.Clone(), nil
}

// UseGrace bridges a single missed day: a streak last completed the day
// before yesterday is treated as completed yesterday and regains the run it
// had.
func (e *Engine) UseGrace(id string, kind grace.Kind) (models.Streak, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexOf(id)
	if err != nil {
		return models.Streak{}, err
	}
	s := e.streaks[i].Clone()
	if s.LastCompletedDate == nil || *s.LastCompletedDate != utils.DaysAgo(e.clock, 2) {
		return models.Streak{}, ErrGraceNotApplicable
	}
	if !e.grace.Available(id, kind) {
		return models.Streak{}, fmt.Errorf("%w: %s grace for %s", ErrGraceUnavailable, kind, s.Name)
	}

	used, err := e.grace.Use(id, kind)
	if err != nil {
		return models.Streak{}, err
	}
	if !used {
		return models.Streak{}, fmt.Errorf("%w: %s grace for %s", ErrGraceUnavailable, kind, s.Name)
	}

	e.bridge(&s)
	if err := e.replace(i, s); err != nil {
		return models.Streak{}, err
	}
	e.schedule(s)
	logger.Info("Grace used", "id", id, "kind", kind, "current", s.CurrentStreak)
	return s.Clone(), nil
}

// Revive spends a revival point to bring back a broken streak, however long
// the gap.
func (e *Engine) Revive(id string) (models.Streak, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexOf(id)
	if err != nil {
		return models.Streak{}, err
	}
	s := e.streaks[i].Clone()
	if e.Status(s) != models.StatusAtRisk {
		return models.Streak{}, fmt.Errorf("%w: %s", ErrNothingToRevive, s.Name)
	}

	used, err := e.grace.UseRevivalPoint()
	if err != nil {
		return models.Streak{}, err
	}
	if !used {
		return models.Streak{}, ErrNoRevivalPoints
	}

	e.bridge(&s)
	if err := e.replace(i, s); err != nil {
		return models.Streak{}, err
	}
	e.schedule(s)
	logger.Info("Streak revived", "id", id, "current", s.CurrentStreak)
	return s.Clone(), nil
}

// bridge moves the last completion up to yesterday and restores the run that
// ended at the old last completion. The skipped days are remembered so a later
// bridge on the same run passes over them.
func (e *Engine) bridge(s *models.Streak) {
	last, yesterday := *s.LastCompletedDate, e.yesterday()
	run := max(activity.RunThrough(s.CompletedDates, e.grace.Bridged(s.ID), last), 1)

	var missed []string
	day, err := utils.AddDays(last, 1)
	for err == nil && !utils.IsDateAfter(day, yesterday) && len(missed) < constants.MaxActiveDays {
		missed = append(missed, day)
		day, err = utils.AddDays(day, 1)
	}
	if err := e.grace.RecordBridged(s.ID, missed...); err != nil {
		logger.Warn("Failed to record bridged days", "id", s.ID, "error", err)
	}

	s.LastCompletedDate = models.StringPtr(yesterday)
	s.CurrentStreak = run
	s.BestStreak = max(s.BestStreak, run)
}

// rollback puts back a streak whose action could not be logged.
func (e *Engine) rollback(i int, prev models.Streak) {
	if err := e.replace(i, prev); err != nil {
		logger.Error("Failed to roll back streak", "id", prev.ID, "error", err)
	}
}

// RevivalPoints reports the points left to spend.
func (e *Engine) RevivalPoints() int {
	return e.grace.RevivalPoints()
}

func (e *Engine) GraceStatus(id string) (models.GraceStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.indexOf(id); err != nil {
		return models.GraceStatus{}, err
	}
	return e.grace.Status(id), nil
}
