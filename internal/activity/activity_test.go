package activity

import (
	"fmt"
	"testing"
	"time"

	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/storage/memory"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func setup(t *testing.T) (*Tracker, *testClock, *memory.Store) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 2, 1, 20, 0, 0, 0, time.UTC)}
	store := memory.New()
	return New(store, clock.Now), clock, store
}

func TestGlobalStreakCountsDaysNotCompletions(t *testing.T) {
	for _, perDay := range []int{1, 5} {
		t.Run(fmt.Sprintf("%d per day", perDay), func(t *testing.T) {
			tr, clock, _ := setup(t)
			for day := 0; day < 3; day++ {
				for i := 0; i < perDay; i++ {
					if err := tr.RecordToday(); err != nil {
						t.Fatal(err)
					}
				}
				if day < 2 {
					clock.now = clock.now.AddDate(0, 0, 1)
				}
			}
			if got := tr.CurrentStreak(); got != 3 {
				t.Errorf("CurrentStreak = %d, want 3", got)
			}
			if got := len(tr.ActiveDays()); got != 3 {
				t.Errorf("active days = %d", got)
			}
		})
	}
}

func TestCurrentStreakRequiresRecentActivity(t *testing.T) {
	tr, clock, _ := setup(t)
	_ = tr.Record("2026-01-30", "2026-01-31", "2026-02-01")

	if got := tr.CurrentStreak(); got != 3 {
		t.Errorf("today: %d", got)
	}
	clock.now = clock.now.AddDate(0, 0, 1) // last activity yesterday
	if got := tr.CurrentStreak(); got != 3 {
		t.Errorf("yesterday: %d", got)
	}
	clock.now = clock.now.AddDate(0, 0, 1)
	if got := tr.CurrentStreak(); got != 0 {
		t.Errorf("two days gap: %d", got)
	}
	if got := tr.BestStreak(); got != 3 {
		t.Errorf("BestStreak = %d", got)
	}
}

func TestCurrentStreakStopsAtGap(t *testing.T) {
	tr, _, _ := setup(t)
	_ = tr.Record("2026-01-25", "2026-01-26", "2026-01-27", "2026-01-28", "2026-01-31", "2026-02-01")
	if got := tr.CurrentStreak(); got != 2 {
		t.Errorf("CurrentStreak = %d, want 2", got)
	}
	if got := tr.BestStreak(); got != 4 {
		t.Errorf("BestStreak = %d, want 4", got)
	}
}

func TestRecordIsIdempotent(t *testing.T) {
	tr, _, store := setup(t)
	_ = tr.RecordToday()
	before, _, _ := store.Get(constants.KeyGlobalActivity)
	_ = tr.RecordToday()
	after, _, _ := store.Get(constants.KeyGlobalActivity)
	if before != after {
		t.Error("recording a known day should not rewrite storage")
	}
	if !tr.IsActive("2026-02-01") || tr.IsActive("2026-01-31") {
		t.Error("IsActive mismatch")
	}
}

func TestActiveDaysCapped(t *testing.T) {
	tr, _, _ := setup(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var days []string
	for i := 0; i < constants.MaxActiveDays+40; i++ {
		days = append(days, start.AddDate(0, 0, i).Format("2006-01-02"))
	}
	_ = tr.Record(days...)

	got := tr.ActiveDays()
	if len(got) != constants.MaxActiveDays {
		t.Fatalf("len = %d", len(got))
	}
	if got[len(got)-1] != days[len(days)-1] || got[0] != days[40] {
		t.Errorf("kept wrong window: %s..%s", got[0], got[len(got)-1])
	}
}

func TestUnreadableActivity(t *testing.T) {
	tr, _, store := setup(t)
	_ = store.Set(constants.KeyGlobalActivity, `{"activeDays": 7}`)
	if got := tr.CurrentStreak(); got != 0 {
		t.Errorf("CurrentStreak = %d", got)
	}
	if err := tr.RecordToday(); err != nil {
		t.Fatal(err)
	}
	if got := tr.CurrentStreak(); got != 1 {
		t.Errorf("after record = %d", got)
	}
}

func TestRunHelpers(t *testing.T) {
	dates := []string{"2026-02-28", "2026-03-01", "2026-03-02", "2026-03-02", "2026-03-05"}
	if got := RunEndingAt(dates, "2026-03-02"); got != 3 {
		t.Errorf("RunEndingAt across month end = %d", got)
	}
	if got := RunEndingAt(dates, "2026-03-04"); got != 0 {
		t.Errorf("RunEndingAt(missing) = %d", got)
	}
	if got := LongestRun(dates); got != 3 {
		t.Errorf("LongestRun = %d", got)
	}
	if got := LongestRun(nil); got != 0 {
		t.Errorf("LongestRun(nil) = %d", got)
	}
}

func TestRunThroughBridgedDays(t *testing.T) {
	dates := []string{"2026-02-01", "2026-02-02", "2026-02-04", "2026-02-06"}
	tests := []struct {
		name    string
		bridged []string
		end     string
		want    int
	}{
		{"no bridges", nil, "2026-02-06", 1},
		{"one bridge", []string{"2026-02-05"}, "2026-02-06", 2},
		{"two bridges", []string{"2026-02-03", "2026-02-05"}, "2026-02-06", 4},
		{"bridged end", []string{"2026-02-07"}, "2026-02-07", 1},
		{"unrelated bridge", []string{"2026-01-20"}, "2026-02-02", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RunThrough(dates, tt.bridged, tt.end); got != tt.want {
				t.Errorf("RunThrough = %d, want %d", got, tt.want)
			}
		})
	}
}
