package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/dailyspark/internal/models"
)

func hasConflict(r ValidationResult, ct ConflictType) bool {
	for _, c := range r.Conflicts {
		if c.Type == ct {
			return true
		}
	}
	return false
}

func TestValidateStreaks_Clean(t *testing.T) {
	streaks := []models.Streak{
		{ID: "1", Name: "Read", CreatedAt: "2026-01-01", CompletedDates: []string{"2026-01-01"}, CurrentStreak: 1, BestStreak: 1},
		{ID: "2", Name: "Run", CreatedAt: "2026-01-01", ListID: "default"},
	}
	r := New().ValidateStreaks(streaks, []models.StreakList{{ID: "default"}})
	if r.HasConflicts() {
		t.Errorf("unexpected conflicts: %s", r.FormatReport())
	}
	if r.FormatReport() != "No conflicts detected." {
		t.Errorf("report = %q", r.FormatReport())
	}
}

func TestValidateStreaks_DuplicateNames(t *testing.T) {
	archived := "2026-01-02"
	streaks := []models.Streak{
		{ID: "1", Name: "Read", CreatedAt: "2026-01-01"},
		{ID: "2", Name: "  read ", CreatedAt: "2026-01-01"},
		{ID: "3", Name: "Run", CreatedAt: "2026-01-01"},
		{ID: "4", Name: "Run", CreatedAt: "2026-01-01", ArchivedAt: &archived},
	}
	r := New().ValidateStreaks(streaks, nil)

	count := 0
	for _, c := range r.Conflicts {
		if c.Type == ConflictDuplicateName {
			count++
			if len(c.StreakIDs) != 2 || c.StreakIDs[0] != "1" {
				t.Errorf("unexpected ids %v", c.StreakIDs)
			}
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one duplicate-name conflict (archived ignored), got %d", count)
	}
}

func TestValidateStreaks_Integrity(t *testing.T) {
	bad := "2026-02-30"
	streaks := []models.Streak{
		{ID: "1", Name: "A", CreatedAt: "01/01/2026"},
		{ID: "2", Name: "B", CreatedAt: "2026-01-01", LastCompletedDate: &bad},
		{ID: "3", Name: "C", CreatedAt: "2026-01-01", CurrentStreak: 4, BestStreak: 2},
		{ID: "4", Name: "D", CreatedAt: "2026-01-01", ListID: "ghost"},
		{ID: "4", Name: "E", CreatedAt: "2026-01-01", CompletedDates: []string{"2026-01-02", "2026-01-02"}},
	}
	r := New().ValidateStreaks(streaks, []models.StreakList{{ID: "default"}})

	for _, ct := range []ConflictType{ConflictInvalidDate, ConflictCorruptedCounts, ConflictUnknownList, ConflictDuplicateID, ConflictDuplicateDates} {
		if !hasConflict(r, ct) {
			t.Errorf("expected %s conflict", ct)
		}
	}
	report := r.FormatReport()
	if !strings.HasPrefix(report, "Conflicts detected:\n") || !strings.Contains(report, "unknown list \"ghost\"") {
		t.Errorf("report = %q", report)
	}
}

func TestValidateStreaks_NilListsSkipsMembership(t *testing.T) {
	streaks := []models.Streak{{ID: "1", Name: "A", CreatedAt: "2026-01-01", ListID: "ghost"}}
	r := New().ValidateStreaks(streaks, nil)
	if hasConflict(r, ConflictUnknownList) {
		t.Error("nil lists should skip the membership check")
	}
}

func TestNormalizeName(t *testing.T) {
	if NormalizeName("  Morning Run ") != "morning run" {
		t.Error("NormalizeName should trim and lowercase")
	}
}
