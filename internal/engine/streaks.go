package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/logger"
	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/utils"
)

type AddOptions struct {
	Name            string
	Emoji           string
	Color           string
	Notes           string
	Description     string
	ListID          string
	ReminderEnabled bool
	ReminderTime    string
	ScheduledDate   string
	ScheduledTime   string
}

// EditOptions changes only the fields that are set.
type EditOptions struct {
	Name            *string
	Emoji           *string
	Color           *string
	Notes           *string
	Description     *string
	ReminderEnabled *bool
	ReminderTime    *string
	ScheduledDate   *string
	ScheduledTime   *string
	FontSize        *models.FontSize
	TextAlign       *models.TextAlign
}

func checkTime(t string) error {
	if t != "" && !utils.ValidateTimeFormat(t) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, t)
	}
	return nil
}

func checkDate(d string) error {
	if d != "" && !utils.IsValidDate(d) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, d)
	}
	return nil
}

func (e *Engine) hasList(id string) bool {
	for _, l := range e.lists {
		if l.ID == id {
			return true
		}
	}
	return false
}

// Add creates a streak that has never been completed.
func (e *Engine) Add(opts AddOptions) (models.Streak, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.booted {
		return models.Streak{}, ErrNotBooted
	}

	name, err := e.checkName(opts.Name, "")
	if err != nil {
		return models.Streak{}, err
	}
	for _, v := range []error{checkTime(opts.ReminderTime), checkTime(opts.ScheduledTime), checkDate(opts.ScheduledDate)} {
		if v != nil {
			return models.Streak{}, v
		}
	}
	if opts.ReminderEnabled && opts.ReminderTime == "" {
		return models.Streak{}, fmt.Errorf("%w: a reminder needs a time", ErrInvalidTime)
	}
	listID := opts.ListID
	if listID == "" {
		listID = constants.DefaultListID
	}
	if !e.hasList(listID) {
		return models.Streak{}, fmt.Errorf("%w: %s", ErrListNotFound, listID)
	}
	emoji := strings.TrimSpace(opts.Emoji)
	if emoji == "" {
		emoji = constants.DefaultEmoji
	}

	s := models.Streak{
		ID:              uuid.NewString(),
		Name:            name,
		Emoji:           emoji,
		CreatedAt:       e.today(),
		CompletedDates:  []string{},
		Color:           opts.Color,
		Notes:           opts.Notes,
		Description:     opts.Description,
		ListID:          listID,
		ReminderEnabled: opts.ReminderEnabled,
		ReminderTime:    opts.ReminderTime,
		ScheduledDate:   opts.ScheduledDate,
		ScheduledTime:   opts.ScheduledTime,
	}
	e.streaks = append(e.streaks, s)
	if err := e.persistStreaks(); err != nil {
		e.streaks = e.streaks[:len(e.streaks)-1]
		return models.Streak{}, err
	}
	logger.Info("Streak added", "id", s.ID, "name", s.Name)
	e.schedule(s)
	return s.Clone(), nil
}

// Edit applies opts to the streak. Counters and completion history are never
// touched.
func (e *Engine) Edit(id string, opts EditOptions) (models.Streak, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexOf(id)
	if err != nil {
		return models.Streak{}, err
	}
	s := e.streaks[i].Clone()

	if opts.Name != nil {
		name, err := e.checkName(*opts.Name, id)
		if err != nil {
			return models.Streak{}, err
		}
		s.Name = name
	}
	if opts.Emoji != nil {
		if emoji := strings.TrimSpace(*opts.Emoji); emoji != "" {
			s.Emoji = emoji
		}
	}
	if opts.Color != nil {
		s.Color = *opts.Color
	}
	if opts.Notes != nil {
		s.Notes = *opts.Notes
	}
	if opts.Description != nil {
		s.Description = *opts.Description
	}
	if opts.ReminderTime != nil {
		if err := checkTime(*opts.ReminderTime); err != nil {
			return models.Streak{}, err
		}
		s.ReminderTime = *opts.ReminderTime
	}
	if opts.ReminderEnabled != nil {
		s.ReminderEnabled = *opts.ReminderEnabled
	}
	if s.ReminderEnabled && s.ReminderTime == "" {
		return models.Streak{}, fmt.Errorf("%w: a reminder needs a time", ErrInvalidTime)
	}
	if opts.ScheduledDate != nil {
		if err := checkDate(*opts.ScheduledDate); err != nil {
			return models.Streak{}, err
		}
		s.ScheduledDate = *opts.ScheduledDate
	}
	if opts.ScheduledTime != nil {
		if err := checkTime(*opts.ScheduledTime); err != nil {
			return models.Streak{}, err
		}
		s.ScheduledTime = *opts.ScheduledTime
	}
	if opts.FontSize != nil {
		s.FontSize = *opts.FontSize
	}
	if opts.TextAlign != nil {
		s.TextAlign = *opts.TextAlign
	}

	if err := e.replace(i, s); err != nil {
		return models.Streak{}, err
	}
	e.schedule(s)
	return s.Clone(), nil
}

// replace swaps in s at i and persists, rolling back on failure. Callers hold
// e.mu.
func (e *Engine) replace(i int, s models.Streak) error {
	old := e.streaks[i]
	e.streaks[i] = s
	if err := e.persistStreaks(); err != nil {
		e.streaks[i] = old
		return err
	}
	return nil
}

// Delete removes the streak and everything keyed by it: its reminder, grace
// usage and undo history.
func (e *Engine) Delete(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexOf(id)
	if err != nil {
		return err
	}
	old := e.streaks
	e.streaks = append(append([]models.Streak{}, old[:i]...), old[i+1:]...)
	if err := e.persistStreaks(); err != nil {
		e.streaks = old
		return err
	}

	if e.reminders != nil {
		e.reminders.Unschedule(id)
	}
	if err := e.grace.Forget(id); err != nil {
		logger.Warn("Failed to clear grace usage", "streak", id, "error", err)
	}
	if err := e.history.Forget(id); err != nil {
		logger.Warn("Failed to clear action history", "streak", id, "error", err)
	}
	logger.Info("Streak deleted", "id", id)
	return nil
}

// Archive hides the streak from the active set and frees its name.
func (e *Engine) Archive(id string) (models.Streak, error) {
	return e.mutate(id, func(s *models.Streak) error {
		if s.IsArchived() {
			return nil
		}
		s.ArchivedAt = models.StringPtr(e.today())
		return nil
	})
}

// Unarchive returns the streak to the active set. It fails when an active
// streak has taken the name in the meantime.
func (e *Engine) Unarchive(id string) (models.Streak, error) {
	return e.mutate(id, func(s *models.Streak) error {
		if !s.IsArchived() {
			return nil
		}
		if _, err := e.checkName(s.Name, s.ID); err != nil {
			return err
		}
		s.ArchivedAt = nil
		return nil
	})
}

// Pause suspends reminders for the streak. Counting is unaffected.
func (e *Engine) Pause(id string) (models.Streak, error) {
	return e.mutate(id, func(s *models.Streak) error {
		if s.IsPaused {
			return nil
		}
		s.IsPaused = true
		s.PausedAt = models.StringPtr(e.today())
		return nil
	})
}

func (e *Engine) Resume(id string) (models.Streak, error) {
	return e.mutate(id, func(s *models.Streak) error {
		s.IsPaused = false
		s.PausedAt = nil
		return nil
	})
}

func (e *Engine) ToggleStar(id string) (models.Streak, error) {
	return e.mutate(id, func(s *models.Streak) error {
		s.IsStarred = !s.IsStarred
		return nil
	})
}

func (e *Engine) MoveToList(id, listID string) (models.Streak, error) {
	return e.mutate(id, func(s *models.Streak) error {
		if !e.hasList(listID) {
			return fmt.Errorf("%w: %s", ErrListNotFound, listID)
		}
		s.ListID = listID
		return nil
	})
}

// mutate applies fn to a copy of the streak, persists it and resyncs its
// reminder.
func (e *Engine) mutate(id string, fn func(s *models.Streak) error) (models.Streak, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexOf(id)
	if err != nil {
		return models.Streak{}, err
	}
	s := e.streaks[i].Clone()
	if err := fn(&s); err != nil {
		return models.Streak{}, err
	}
	if err := e.replace(i, s); err != nil {
		return models.Streak{}, err
	}
	e.schedule(s)
	return s.Clone(), nil
}
