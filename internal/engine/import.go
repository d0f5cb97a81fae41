package engine

import (
	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/logger"
	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/validation"
)

type ImportResult struct {
	Added   int
	Skipped int // same id already present, or name taken by an active streak
	Lists   int
}

// Import adds the validated streaks and lists of batch. With replace the
// current collection is discarded first; otherwise existing ids and active
// names win. Streaks pointing at unknown lists land in the default list.
func (e *Engine) Import(batch validation.BatchResult, replace bool) (ImportResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.booted {
		return ImportResult{}, ErrNotBooted
	}

	oldStreaks, oldLists := e.streaks, e.lists
	var res ImportResult

	var streaks []models.Streak
	lists := []models.StreakList{}
	if !replace {
		streaks = append(streaks, oldStreaks...)
		lists = append(lists, oldLists...)
	}

	listIDs := map[string]bool{}
	listNames := map[string]bool{}
	for _, l := range lists {
		listIDs[l.ID] = true
		listNames[validation.NormalizeName(l.Name)] = true
	}
	for _, l := range batch.Lists {
		if listIDs[l.ID] || listNames[validation.NormalizeName(l.Name)] {
			continue
		}
		lists = append(lists, l)
		listIDs[l.ID] = true
		listNames[validation.NormalizeName(l.Name)] = true
		res.Lists++
	}
	lists = ensureDefaultList(lists, e.today())

	ids := map[string]bool{}
	names := map[string]bool{}
	for _, s := range streaks {
		ids[s.ID] = true
		if !s.IsArchived() {
			names[validation.NormalizeName(s.Name)] = true
		}
	}

	today, yesterday := e.today(), e.yesterday()
	var dates []string
	for _, in := range batch.Streaks {
		s := in.Clone()
		key := validation.NormalizeName(s.Name)
		if ids[s.ID] || (!s.IsArchived() && names[key]) {
			res.Skipped++
			continue
		}
		if s.ListID == "" || !listIDs[s.ListID] {
			s.ListID = constants.DefaultListID
		}
		s = RecalculateStreak(s, today, yesterday)
		streaks = append(streaks, s)
		ids[s.ID] = true
		if !s.IsArchived() {
			names[key] = true
		}
		dates = append(dates, s.CompletedDates...)
		res.Added++
	}

	e.streaks, e.lists = streaks, lists
	if err := e.persist(); err != nil {
		e.streaks, e.lists = oldStreaks, oldLists
		return ImportResult{}, err
	}

	if len(dates) > 0 {
		if err := e.activity.Record(dates...); err != nil {
			logger.Warn("Failed to record imported activity", "error", err)
		}
	}
	if replace && e.reminders != nil {
		for _, s := range oldStreaks {
			e.reminders.Unschedule(s.ID)
		}
	}
	for _, s := range e.streaks {
		e.schedule(s)
	}
	logger.Info("Import finished", "added", res.Added, "skipped", res.Skipped, "lists", res.Lists, "replace", replace)
	return res, nil
}
