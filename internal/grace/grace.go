// Package grace rate-limits the "forgive a missed day" exceptions: one weekly
// grace per ISO week and one monthly grace per calendar month for each
// streak, plus a shared pool of revival points.
package grace

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/logger"
	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/storage"
	"github.com/julianstephens/dailyspark/internal/utils"
)

type Kind string

const (
	Weekly  Kind = "weekly"
	Monthly Kind = "monthly"
)

var ErrUnknownKind = errors.New("unknown grace kind")

// ParseKind accepts "weekly" or "monthly".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Weekly, Monthly:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q (expected weekly or monthly)", ErrUnknownKind, s)
}

type Service struct {
	store storage.Provider
	clock utils.Clock
}

func New(store storage.Provider, clock utils.Clock) *Service {
	return &Service{store: store, clock: clock}
}

// WeekID formats the ISO week of t as YYYY-Www.
func WeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (s *Service) tracker() map[string]models.GraceEntry {
	tracker := map[string]models.GraceEntry{}
	if _, err := storage.GetJSON(s.store, constants.KeyGrace, &tracker); err != nil {
		logger.Warn("Grace tracker is unreadable, resetting", "error", err)
		return map[string]models.GraceEntry{}
	}
	if tracker == nil {
		tracker = map[string]models.GraceEntry{}
	}
	return tracker
}

func (s *Service) save(tracker map[string]models.GraceEntry) error {
	if err := storage.SetJSON(s.store, constants.KeyGrace, tracker); err != nil {
		return fmt.Errorf("saving grace tracker: %w", err)
	}
	return nil
}

func (s *Service) canUseWeekly(tracker map[string]models.GraceEntry, streakID string) bool {
	entry, ok := tracker[streakID]
	if !ok || entry.WeekID != WeekID(s.clock()) {
		return true
	}
	return !entry.WeeklyUsed
}

func (s *Service) canUseMonthly(tracker map[string]models.GraceEntry, streakID string) bool {
	entry, ok := tracker[streakID]
	if !ok || entry.MonthlyUsed == nil {
		return true
	}
	last, err := time.Parse(constants.DateFormat, *entry.MonthlyUsed)
	if err != nil {
		return true
	}
	now := s.clock()
	diff := (now.Year()*12 + int(now.Month())) - (last.Year()*12 + int(last.Month()))
	return diff >= 1
}

func (s *Service) CanUseWeekly(streakID string) bool {
	return s.canUseWeekly(s.tracker(), streakID)
}

func (s *Service) CanUseMonthly(streakID string) bool {
	return s.canUseMonthly(s.tracker(), streakID)
}

// Status reports availability without consuming anything.
func (s *Service) Status(streakID string) models.GraceStatus {
	tracker := s.tracker()
	return models.GraceStatus{
		WeeklyAvailable:  s.canUseWeekly(tracker, streakID),
		MonthlyAvailable: s.canUseMonthly(tracker, streakID),
	}
}

// Available reports whether a grace of kind can be used now.
func (s *Service) Available(streakID string, kind Kind) bool {
	if kind == Monthly {
		return s.CanUseMonthly(streakID)
	}
	return s.CanUseWeekly(streakID)
}

// Use consumes a grace of the given kind. It returns false, leaving the
// tracker untouched, when that kind is already spent.
func (s *Service) Use(streakID string, kind Kind) (bool, error) {
	switch kind {
	case Weekly:
		return s.UseWeekly(streakID)
	case Monthly:
		return s.UseMonthly(streakID)
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func (s *Service) UseWeekly(streakID string) (bool, error) {
	tracker := s.tracker()
	if !s.canUseWeekly(tracker, streakID) {
		return false, nil
	}
	entry := tracker[streakID]
	entry.WeeklyUsed = true
	entry.WeekID = WeekID(s.clock())
	tracker[streakID] = entry
	if err := s.save(tracker); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) UseMonthly(streakID string) (bool, error) {
	tracker := s.tracker()
	if !s.canUseMonthly(tracker, streakID) {
		return false, nil
	}
	entry := tracker[streakID]
	if entry.WeekID == "" {
		entry.WeekID = WeekID(s.clock())
	}
	today := utils.Today(s.clock)
	entry.MonthlyUsed = &today
	tracker[streakID] = entry
	if err := s.save(tracker); err != nil {
		return false, err
	}
	return true, nil
}

// ResetWeekly rolls every entry with a stale week id into the current week.
func (s *Service) ResetWeekly() error {
	tracker := s.tracker()
	current := WeekID(s.clock())
	changed := false
	for id, entry := range tracker {
		if entry.WeekID != current {
			entry.WeeklyUsed = false
			entry.WeekID = current
			tracker[id] = entry
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(tracker)
}

// Forget drops the tracker entry of a deleted streak.
func (s *Service) Forget(streakID string) error {
	tracker := s.tracker()
	if _, ok := tracker[streakID]; !ok {
		return nil
	}
	delete(tracker, streakID)
	return s.save(tracker)
}

// Bridged returns the missed days forgiven on the streak so far.
func (s *Service) Bridged(streakID string) []string {
	return s.tracker()[streakID].BridgedDates
}

// RecordBridged remembers forgiven days so later runs can pass over them.
// Only the most recent MaxActiveDays are kept.
func (s *Service) RecordBridged(streakID string, days ...string) error {
	if len(days) == 0 {
		return nil
	}
	tracker := s.tracker()
	entry := tracker[streakID]
	seen := make(map[string]bool, len(entry.BridgedDates)+len(days))
	merged := make([]string, 0, len(entry.BridgedDates)+len(days))
	for _, d := range append(entry.BridgedDates, days...) {
		if !seen[d] {
			seen[d] = true
			merged = append(merged, d)
		}
	}
	sort.Strings(merged)
	if len(merged) > constants.MaxActiveDays {
		merged = merged[len(merged)-constants.MaxActiveDays:]
	}
	entry.BridgedDates = merged
	tracker[streakID] = entry
	return s.save(tracker)
}
