// Package activity tracks the days on which at least one streak was
// completed, independent of how many were, and derives the global streak
// from them.
package activity

import (
	"fmt"
	"slices"

	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/logger"
	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/storage"
	"github.com/julianstephens/dailyspark/internal/utils"
)

type Tracker struct {
	store storage.Provider
	clock utils.Clock
}

func New(store storage.Provider, clock utils.Clock) *Tracker {
	return &Tracker{store: store, clock: clock}
}

// ActiveDays returns the recorded days sorted oldest first.
func (t *Tracker) ActiveDays() []string {
	var data models.GlobalActivity
	if _, err := storage.GetJSON(t.store, constants.KeyGlobalActivity, &data); err != nil {
		logger.Warn("Global activity is unreadable, starting over", "error", err)
		return []string{}
	}
	return normalize(data.ActiveDays)
}

// normalize keeps the most recent MaxActiveDays of sortedUnique(days).
func normalize(days []string) []string {
	out := sortedUnique(days)
	if len(out) > constants.MaxActiveDays {
		out = out[len(out)-constants.MaxActiveDays:]
	}
	return out
}

// sortedUnique drops invalid dates and duplicates, oldest first.
func sortedUnique(days []string) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		if utils.IsValidDate(d) {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// RecordToday marks today as active.
func (t *Tracker) RecordToday() error {
	return t.Record(utils.Today(t.clock))
}

// Record marks the given days as active. Recording a known day is a no-op.
func (t *Tracker) Record(dates ...string) error {
	days := t.ActiveDays()
	merged := normalize(append(slices.Clone(days), dates...))
	if slices.Equal(days, merged) {
		return nil
	}
	if err := storage.SetJSON(t.store, constants.KeyGlobalActivity, models.GlobalActivity{ActiveDays: merged}); err != nil {
		return fmt.Errorf("saving global activity: %w", err)
	}
	return nil
}

func (t *Tracker) IsActive(date string) bool {
	_, found := slices.BinarySearch(t.ActiveDays(), date)
	return found
}

// CurrentStreak counts consecutive active days ending today or yesterday.
func (t *Tracker) CurrentStreak() int {
	days := t.ActiveDays()
	if len(days) == 0 {
		return 0
	}
	latest := days[len(days)-1]
	if latest != utils.Today(t.clock) && latest != utils.Yesterday(t.clock) {
		return 0
	}
	return RunEndingAt(days, latest)
}

// BestStreak is the longest run of consecutive active days ever recorded.
func (t *Tracker) BestStreak() int {
	return LongestRun(t.ActiveDays())
}

// RunEndingAt counts the consecutive calendar days in dates that end at end,
// including end itself. Zero when end is absent.
func RunEndingAt(dates []string, end string) int {
	return RunThrough(dates, nil, end)
}

// RunThrough walks back from end over days found in dates or bridged and
// counts only the days in dates. A bridged day keeps the run going without
// adding to it.
func RunThrough(dates, bridged []string, end string) int {
	done := make(map[string]bool, len(dates))
	for _, d := range dates {
		done[d] = true
	}
	skip := make(map[string]bool, len(bridged))
	for _, d := range bridged {
		skip[d] = true
	}
	run := 0
	for day := end; done[day] || skip[day]; {
		if done[day] {
			run++
		}
		prev, err := utils.AddDays(day, -1)
		if err != nil {
			break
		}
		day = prev
	}
	return run
}

// LongestRun returns the longest stretch of consecutive calendar days.
func LongestRun(dates []string) int {
	days := sortedUnique(dates)
	if len(days) == 0 {
		return 0
	}
	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if next, err := utils.AddDays(days[i-1], 1); err == nil && days[i] == next {
			run++
			best = max(best, run)
		} else {
			run = 1
		}
	}
	return best
}
