package engine

import (
	"math"

	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/utils"
)

const (
	weeklyWindow  = 7
	monthlyWindow = 30
)

// Stats aggregates over every streak in the collection.
func (e *Engine) Stats() models.StreakStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return computeStats(e.streaks, e.clock)
}

func computeStats(streaks []models.Streak, clock utils.Clock) models.StreakStats {
	stats := models.StreakStats{TotalStreaks: len(streaks)}
	if len(streaks) == 0 {
		return stats
	}
	today, yesterday := utils.Today(clock), utils.Yesterday(clock)
	weekStart := utils.DaysAgo(clock, weeklyWindow-1)
	monthStart := utils.DaysAgo(clock, monthlyWindow-1)

	weekly, monthly := 0, 0
	for _, s := range streaks {
		if DeriveStatus(s.LastCompletedDate, today, yesterday) != models.StatusAtRisk {
			stats.ActiveStreaks++
		}
		stats.TotalCompletions += len(s.CompletedDates)
		stats.LongestStreak = max(stats.LongestStreak, s.BestStreak)
		weekly += countInWindow(s.CompletedDates, weekStart, today)
		monthly += countInWindow(s.CompletedDates, monthStart, today)
	}
	stats.WeeklyCompletionRate = percent(weekly, len(streaks)*weeklyWindow)
	stats.MonthlyCompletionRate = percent(monthly, len(streaks)*monthlyWindow)
	return stats
}

// countInWindow counts distinct dates within [start, end].
func countInWindow(dates []string, start, end string) int {
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		if !seen[d] && utils.IsDateBetween(d, start, end) {
			seen[d] = true
		}
	}
	return len(seen)
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(total)))
}

// GlobalStreak reports the cross-streak run of days with at least one
// completion.
func (e *Engine) GlobalStreak() (current, best int) {
	return e.activity.CurrentStreak(), e.activity.BestStreak()
}
