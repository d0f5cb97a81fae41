package streaks

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/dailyspark/internal/cli"
	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/storage/sqlite"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

type env struct {
	dbPath string
	out    *bytes.Buffer
	clock  *testClock
	store  *sqlite.Store
}

func setupTestDB(t *testing.T) *env {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "spark.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &env{
		dbPath: dbPath,
		out:    &bytes.Buffer{},
		clock:  &testClock{now: time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)},
		store:  store,
	}
}

// ctx simulates a new command invocation against the same database.
func (e *env) ctx() *cli.Context {
	e.out.Reset()
	return &cli.Context{Store: e.store, Clock: e.clock.Now, Out: e.out, AssumeYes: true}
}

func (e *env) run(t *testing.T, cmd interface{ Run(*cli.Context) error }) string {
	t.Helper()
	if err := cmd.Run(e.ctx()); err != nil {
		t.Fatalf("%T failed: %v", cmd, err)
	}
	return e.out.String()
}

func (e *env) streaks(t *testing.T) []models.Streak {
	t.Helper()
	var out []models.Streak
	cmd := &ListCmd{All: true, JSON: true}
	if err := json.Unmarshal([]byte(e.run(t, cmd)), &out); err != nil {
		t.Fatalf("list output is not JSON: %v", err)
	}
	return out
}

func TestAddAndList(t *testing.T) {
	e := setupTestDB(t)

	out := e.run(t, &AddCmd{Name: "Read", Emoji: "📚"})
	if !strings.Contains(out, "Added 📚 Read") {
		t.Errorf("add output = %q", out)
	}
	e.run(t, &AddCmd{Name: "Stretch", Emoji: "🧘"})

	out = e.run(t, &ListCmd{})
	for _, want := range []string{"Read", "Stretch", "pending"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	if err := (&AddCmd{Name: "read"}).Run(e.ctx()); err == nil {
		t.Error("expected duplicate name to be rejected")
	}
}

func TestListEmpty(t *testing.T) {
	e := setupTestDB(t)
	if out := e.run(t, &ListCmd{}); !strings.Contains(out, "No streaks yet") {
		t.Errorf("list output = %q", out)
	}
	if got := e.streaks(t); len(got) != 0 {
		t.Errorf("JSON list = %v, want empty", got)
	}
}

func TestDoneAcrossDays(t *testing.T) {
	e := setupTestDB(t)
	e.run(t, &AddCmd{Name: "Read", Emoji: "📚"})

	out := e.run(t, &DoneCmd{Streaks: []string{"Read"}})
	if !strings.Contains(out, "1 day streak") {
		t.Errorf("first done output = %q", out)
	}
	out = e.run(t, &DoneCmd{Streaks: []string{"read"}})
	if !strings.Contains(out, "already done today") {
		t.Errorf("second done output = %q", out)
	}

	e.clock.now = e.clock.now.AddDate(0, 0, 1)
	out = e.run(t, &DoneCmd{Streaks: []string{"Read"}})
	if !strings.Contains(out, "2 day streak") || !strings.Contains(out, "new best!") {
		t.Errorf("next day done output = %q", out)
	}
	if !strings.Contains(out, "Active 2 days in a row") {
		t.Errorf("missing global streak line: %q", out)
	}
}

func TestDoneReportsUnknownStreaks(t *testing.T) {
	e := setupTestDB(t)
	e.run(t, &AddCmd{Name: "Read"})

	err := (&DoneCmd{Streaks: []string{"Read", "Nope"}}).Run(e.ctx())
	if err == nil {
		t.Fatal("expected an error for the unknown streak")
	}
	if !strings.Contains(e.out.String(), "Read") {
		t.Errorf("known streak should still be completed: %q", e.out.String())
	}
	if s := e.streaks(t)[0]; s.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", s.CurrentStreak)
	}
}

func TestUndo(t *testing.T) {
	e := setupTestDB(t)
	e.run(t, &AddCmd{Name: "Read"})

	if out := e.run(t, &UndoCmd{Streak: "Read"}); !strings.Contains(out, "Nothing to undo") {
		t.Errorf("undo with no action = %q", out)
	}

	e.run(t, &DoneCmd{Streaks: []string{"Read"}})
	if out := e.run(t, &UndoCmd{Streak: "Read"}); !strings.Contains(out, "restored to 0 days") {
		t.Errorf("undo output = %q", out)
	}
	s := e.streaks(t)[0]
	if s.CurrentStreak != 0 || s.LastCompletedDate != nil || len(s.CompletedDates) != 0 {
		t.Errorf("streak after undo = %+v", s)
	}
}

func TestEdit(t *testing.T) {
	e := setupTestDB(t)
	e.run(t, &AddCmd{Name: "Read"})

	name, remind := "Read more", "21:30"
	e.run(t, &EditCmd{Streak: "Read", Name: &name, Remind: &remind})

	s := e.streaks(t)[0]
	if s.Name != "Read more" || !s.ReminderEnabled || s.ReminderTime != "21:30" {
		t.Errorf("edited streak = %+v", s)
	}

	e.run(t, &EditCmd{Streak: "Read more", NoRemind: true})
	if s := e.streaks(t)[0]; s.ReminderEnabled {
		t.Error("reminder should be disabled")
	}

	bad := "25:00"
	if err := (&EditCmd{Streak: "Read more", Remind: &bad}).Run(e.ctx()); err == nil {
		t.Error("expected invalid time to be rejected")
	}
}

func TestStateCommands(t *testing.T) {
	e := setupTestDB(t)
	e.run(t, &AddCmd{Name: "Read"})

	e.run(t, &PauseCmd{Streak: "Read"})
	e.run(t, &StarCmd{Streak: "Read"})
	s := e.streaks(t)[0]
	if !s.IsPaused || !s.IsStarred {
		t.Errorf("after pause and star: %+v", s)
	}

	e.run(t, &ResumeCmd{Streak: "Read"})
	e.run(t, &ArchiveCmd{Streak: "Read"})
	s = e.streaks(t)[0]
	if s.IsPaused || !s.IsArchived() {
		t.Errorf("after resume and archive: %+v", s)
	}
	if out := e.run(t, &ListCmd{}); !strings.Contains(out, "No streaks yet") {
		t.Errorf("archived streak should be hidden: %q", out)
	}

	e.run(t, &UnarchiveCmd{Streak: s.ID})
	if s := e.streaks(t)[0]; s.IsArchived() {
		t.Error("streak should be unarchived")
	}
}

func TestDeleteWritesBackup(t *testing.T) {
	e := setupTestDB(t)
	e.run(t, &AddCmd{Name: "Read"})

	out := e.run(t, &DeleteCmd{Streak: "Read"})
	if !strings.Contains(out, "Deleted") {
		t.Errorf("delete output = %q", out)
	}
	if got := e.streaks(t); len(got) != 0 {
		t.Errorf("streaks after delete = %v", got)
	}

	entries, err := os.ReadDir(filepath.Join(filepath.Dir(e.dbPath), "backups"))
	if err != nil || len(entries) != 1 {
		t.Errorf("expected one automatic backup, got %v (err %v)", entries, err)
	}
}

func TestGraceAndRevive(t *testing.T) {
	e := setupTestDB(t)
	e.run(t, &AddCmd{Name: "Read"})
	e.run(t, &DoneCmd{Streaks: []string{"Read"}})
	e.clock.now = e.clock.now.AddDate(0, 0, 1)
	e.run(t, &DoneCmd{Streaks: []string{"Read"}})

	// Missed one day.
	e.clock.now = e.clock.now.AddDate(0, 0, 2)
	out := e.run(t, &GraceUseCmd{Streak: "Read", Kind: "weekly"})
	if !strings.Contains(out, "back to 2 days") {
		t.Errorf("grace output = %q", out)
	}
	out = e.run(t, &GraceStatusCmd{Streak: "Read"})
	if !strings.Contains(out, "Weekly grace:   used") {
		t.Errorf("grace status = %q", out)
	}

	// Missed several days: grace no longer applies, revive does.
	e.clock.now = e.clock.now.AddDate(0, 0, 5)
	if out := e.run(t, &GraceUseCmd{Streak: "Read", Kind: "monthly"}); !strings.Contains(out, "single missed day") {
		t.Errorf("grace on long gap = %q", out)
	}
	out = e.run(t, &ReviveCmd{Streak: "Read"})
	if !strings.Contains(out, "Revived") || !strings.Contains(out, "4 revival points left") {
		t.Errorf("revive output = %q", out)
	}
}

func TestStatsJSON(t *testing.T) {
	e := setupTestDB(t)
	e.run(t, &AddCmd{Name: "Read"})
	e.run(t, &AddCmd{Name: "Walk"})
	e.run(t, &DoneCmd{Streaks: []string{"Read", "Walk"}})

	var got statsOutput
	if err := json.Unmarshal([]byte(e.run(t, &StatsCmd{JSON: true})), &got); err != nil {
		t.Fatalf("stats output is not JSON: %v", err)
	}
	if got.TotalStreaks != 2 || got.ActiveStreaks != 2 || got.TotalCompletions != 2 || got.GlobalCurrent != 1 {
		t.Errorf("stats = %+v", got)
	}

	if out := e.run(t, &StatsCmd{}); !strings.Contains(out, "Streak stats") {
		t.Errorf("stats output = %q", out)
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		pct  int
		want string
	}{
		{0, "  0%"},
		{57, " 57%"},
		{100, "100%"},
	}
	for _, tt := range tests {
		if got := bar(tt.pct); !strings.HasSuffix(got, tt.want) {
			t.Errorf("bar(%d) = %q, want suffix %q", tt.pct, got, tt.want)
		}
	}
}
