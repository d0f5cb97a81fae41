// Package engine owns the in-memory streak collection and composes recovery,
// the undo log, grace, global activity and reminders into the operations the
// CLI exposes. Every mutation is persisted before it returns.
package engine

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/julianstephens/dailyspark/internal/activity"
	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/grace"
	"github.com/julianstephens/dailyspark/internal/history"
	"github.com/julianstephens/dailyspark/internal/logger"
	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/recovery"
	"github.com/julianstephens/dailyspark/internal/storage"
	"github.com/julianstephens/dailyspark/internal/utils"
	"github.com/julianstephens/dailyspark/internal/validation"
)

// ReminderScheduler delivers reminders on behalf of the engine.
// Unschedule must be safe to call for ids that have nothing scheduled.
type ReminderScheduler interface {
	Schedule(id, name, emoji string, spec models.ReminderSpec, onFire func()) error
	Unschedule(id string)
}

// Feedback receives a short message after a successful completion. Failures
// are ignored.
type Feedback interface {
	Notify(text string) error
}

type Options struct {
	Store     storage.Provider
	Clock     utils.Clock
	Reminders ReminderScheduler
	Feedback  Feedback
}

type Engine struct {
	mu sync.Mutex

	store     storage.Provider
	clock     utils.Clock
	reminders ReminderScheduler
	feedback  Feedback

	recovery *recovery.Service
	history  *history.Log
	grace    *grace.Service
	activity *activity.Tracker

	booted  bool
	streaks []models.Streak
	lists   []models.StreakList
}

func New(opts Options) *Engine {
	clock := opts.Clock
	if clock == nil {
		clock = utils.SystemClock(time.Local)
	}
	return &Engine{
		store:     opts.Store,
		clock:     clock,
		reminders: opts.Reminders,
		feedback:  opts.Feedback,
		recovery:  recovery.New(opts.Store, clock),
		history:   history.New(opts.Store, clock),
		grace:     grace.New(opts.Store, clock),
		activity:  activity.New(opts.Store, clock),
	}
}

func (e *Engine) Recovery() *recovery.Service { return e.recovery }
func (e *Engine) History() *history.Log       { return e.history }
func (e *Engine) Grace() *grace.Service       { return e.grace }
func (e *Engine) Activity() *activity.Tracker { return e.activity }

// Boot recovers the stored collection, finalizes yesterday's actions, rolls
// grace weeks, reconciles every streak against today and reschedules
// reminders. It never fails; problems are logged and reflected in the
// returned recovery result.
func (e *Engine) Boot() recovery.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := e.recovery.RecoverOnBoot()

	if err := e.history.Initialize(); err != nil {
		logger.Warn("Failed to initialize action history", "error", err)
	}
	if err := e.grace.ResetWeekly(); err != nil {
		logger.Warn("Failed to roll grace weeks", "error", err)
	}

	today, yesterday := e.today(), e.yesterday()
	e.streaks = make([]models.Streak, len(res.Streaks))
	for i, s := range res.Streaks {
		e.streaks[i] = RecalculateStreak(s, today, yesterday)
	}
	e.lists = e.loadLists()
	e.booted = true

	if err := e.persist(); err != nil {
		logger.Warn("Failed to persist reconciled streaks", "error", err)
	}
	for _, s := range e.streaks {
		e.schedule(s)
	}
	return res
}

func (e *Engine) loadLists() []models.StreakList {
	var lists []models.StreakList
	if _, err := storage.GetJSON(e.store, constants.KeyLists, &lists); err != nil {
		logger.Warn("Stored lists are unreadable, keeping only the default list", "error", err)
		lists = nil
	}
	return ensureDefaultList(lists, e.today())
}

func ensureDefaultList(lists []models.StreakList, today string) []models.StreakList {
	for _, l := range lists {
		if l.ID == constants.DefaultListID {
			return lists
		}
	}
	def := models.StreakList{
		ID:        constants.DefaultListID,
		Name:      constants.DefaultListName,
		Color:     constants.DefaultListColor,
		CreatedAt: today,
	}
	return append([]models.StreakList{def}, lists...)
}

func (e *Engine) persistStreaks() error {
	streaks := e.streaks
	if streaks == nil {
		streaks = []models.Streak{}
	}
	if err := storage.SetJSON(e.store, constants.KeyStreaks, streaks); err != nil {
		return fmt.Errorf("saving streaks: %w", err)
	}
	return nil
}

func (e *Engine) persistLists() error {
	if err := storage.SetJSON(e.store, constants.KeyLists, e.lists); err != nil {
		return fmt.Errorf("saving lists: %w", err)
	}
	return nil
}

func (e *Engine) persist() error {
	if err := e.persistStreaks(); err != nil {
		return err
	}
	return e.persistLists()
}

func (e *Engine) today() string     { return utils.Today(e.clock) }
func (e *Engine) yesterday() string { return utils.Yesterday(e.clock) }

// indexOf returns the position of the streak with id. Callers hold e.mu.
func (e *Engine) indexOf(id string) (int, error) {
	if !e.booted {
		return -1, ErrNotBooted
	}
	for i := range e.streaks {
		if e.streaks[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrStreakNotFound, id)
}

// checkName validates and normalizes a streak name, rejecting clashes with
// active streaks other than exceptID.
func (e *Engine) checkName(name, exceptID string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if utf8.RuneCountInString(name) > constants.MaxStreakNameLength {
		return "", fmt.Errorf("%w: name must be at most %d characters", ErrInvalidName, constants.MaxStreakNameLength)
	}
	key := validation.NormalizeName(name)
	for _, s := range e.streaks {
		if s.ID != exceptID && !s.IsArchived() && validation.NormalizeName(s.Name) == key {
			return "", fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	return name, nil
}

// DeriveStatus maps a last completion date onto a status.
func DeriveStatus(lastCompleted *string, today, yesterday string) models.StreakStatus {
	switch {
	case lastCompleted == nil:
		return models.StatusPending
	case *lastCompleted == today:
		return models.StatusCompleted
	case *lastCompleted == yesterday:
		return models.StatusPending
	}
	return models.StatusAtRisk
}

// RecalculateStreak reconciles the stored counter with the elapsed time: a
// streak last completed before yesterday has lapsed and drops to zero.
func RecalculateStreak(s models.Streak, today, yesterday string) models.Streak {
	if s.LastCompletedDate == nil {
		s.CurrentStreak = 0
		return s
	}
	if *s.LastCompletedDate == today || *s.LastCompletedDate == yesterday {
		return s
	}
	s.CurrentStreak = 0
	return s
}

// Status derives the streak's status as of now.
func (e *Engine) Status(s models.Streak) models.StreakStatus {
	return DeriveStatus(s.LastCompletedDate, e.today(), e.yesterday())
}

// Streaks returns copies of every streak, including archived ones.
func (e *Engine) Streaks() []models.Streak {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Streak, len(e.streaks))
	for i, s := range e.streaks {
		out[i] = s.Clone()
	}
	return out
}

// Get looks a streak up by id, or by case-insensitive name when no id
// matches.
func (e *Engine) Get(ref string) (models.Streak, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.resolve(ref)
	if err != nil {
		return models.Streak{}, err
	}
	return e.streaks[i].Clone(), nil
}

// resolve accepts an id, an id prefix of at least 6 characters, or a name.
// Active streaks win name clashes. Callers hold e.mu.
func (e *Engine) resolve(ref string) (int, error) {
	if i, err := e.indexOf(ref); err == nil || !e.booted {
		return i, err
	}
	key := validation.NormalizeName(ref)
	match := -1
	for i, s := range e.streaks {
		if validation.NormalizeName(s.Name) == key {
			if !s.IsArchived() {
				return i, nil
			}
			if match < 0 {
				match = i
			}
		}
	}
	if match >= 0 {
		return match, nil
	}
	if len(ref) >= 6 {
		for i, s := range e.streaks {
			if strings.HasPrefix(s.ID, ref) {
				if match >= 0 {
					return -1, fmt.Errorf("%w: %q is ambiguous", ErrStreakNotFound, ref)
				}
				match = i
			}
		}
		if match >= 0 {
			return match, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrStreakNotFound, ref)
}

// Resolve maps a user reference (id, id prefix or name) to a streak id.
func (e *Engine) Resolve(ref string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.resolve(ref)
	if err != nil {
		return "", err
	}
	return e.streaks[i].ID, nil
}

// startOfTomorrow is midnight after today in the clock's location.
func (e *Engine) startOfTomorrow() time.Time {
	now := e.clock()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}

// schedule syncs the reminder registry with the streak. Callers hold e.mu.
func (e *Engine) schedule(s models.Streak) {
	if e.reminders == nil {
		return
	}
	if !s.ReminderEnabled || s.ReminderTime == "" || s.IsPaused || s.IsArchived() {
		e.reminders.Unschedule(s.ID)
		return
	}
	spec := models.ReminderSpec{Time: s.ReminderTime, Date: s.ScheduledDate}
	if e.Status(s) == models.StatusCompleted {
		spec.After = e.startOfTomorrow()
	}
	id := s.ID
	if err := e.reminders.Schedule(s.ID, s.Name, s.Emoji, spec, func() { e.onReminder(id) }); err != nil {
		logger.Warn("Failed to schedule reminder", "streak", s.ID, "error", err)
	}
}

// onReminder runs on the registry's timer goroutine.
func (e *Engine) onReminder(id string) {
	e.mu.Lock()
	i, err := e.indexOf(id)
	if err != nil {
		e.mu.Unlock()
		return
	}
	s := e.streaks[i]
	status := e.Status(s)
	e.mu.Unlock()

	if status == models.StatusCompleted {
		return
	}
	e.notify(fmt.Sprintf("%s Time for %s", s.Emoji, s.Name))
}

func (e *Engine) notify(text string) {
	if e.feedback == nil {
		return
	}
	if err := e.feedback.Notify(text); err != nil {
		logger.Debug("Feedback delivery failed", "error", err)
	}
}
