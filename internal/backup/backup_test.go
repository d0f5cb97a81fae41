package backup

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/models"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func sampleStreaks() []models.Streak {
	return []models.Streak{
		{
			ID: "s1", Name: "Read", Emoji: "📚", CreatedAt: "2026-01-01",
			CurrentStreak: 2, BestStreak: 5, LastCompletedDate: models.StringPtr("2026-02-01"),
			CompletedDates: []string{"2026-01-31", "2026-02-01"}, ListID: "default",
		},
		{
			ID: "s2", Name: "Walk, daily", Emoji: "🚶", CreatedAt: "2026-01-15",
			CompletedDates: []string{}, ListID: "default", ArchivedAt: models.StringPtr("2026-01-20"),
		},
	}
}

func sampleLists() []models.StreakList {
	return []models.StreakList{{ID: "default", Name: "My Streaks", Color: "fire", CreatedAt: "2026-01-01"}}
}

func setup(t *testing.T) (*Manager, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 2, 1, 9, 30, 0, 0, time.Local)}
	return NewManager(filepath.Join(t.TempDir(), "spark.db"), clock.Now), clock
}

func TestJSONExportRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	exp := NewExport(sampleStreaks(), sampleLists(), time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC))
	if err := WriteJSON(&buf, exp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"streakflame_streaks"`) || !strings.Contains(buf.String(), `"version": "1"`) {
		t.Errorf("unexpected export shape:\n%s", buf.String())
	}

	batch, err := ReadImport(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !batch.OK() || batch.Summary.Valid != 2 || len(batch.Lists) != 1 {
		t.Fatalf("import of export = %+v", batch.Summary)
	}
	if got := batch.Streaks[1]; !got.IsArchived() || got.LastCompletedDate != nil {
		t.Errorf("archived streak lost fields: %+v", got)
	}
}

func TestEmptyExportHasArrays(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewExport(nil, nil, time.Now())); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"streakflame_streaks": []`) {
		t.Errorf("empty export missing array:\n%s", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleStreaks()); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		CSVHeader,
		{"s1", "Read", "📚", "2026-01-01", "2", "5", "2026-02-01", "2", "default", "false"},
		{"s2", "Walk, daily", "🚶", "2026-01-15", "0", "0", "", "0", "default", "true"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestCreateBackup(t *testing.T) {
	mgr, clock := setup(t)
	path, err := mgr.CreateBackup(NewExport(sampleStreaks(), sampleLists(), clock.now))
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Base(path) != "spark-20260201-0930.json" {
		t.Errorf("backup name = %s", filepath.Base(path))
	}

	batch, err := mgr.LoadBackup(filepath.Base(path))
	if err != nil {
		t.Fatal(err)
	}
	if batch.Summary.Valid != 2 {
		t.Errorf("loaded %d streaks, want 2", batch.Summary.Valid)
	}
}

func TestBackupNamesDoNotCollide(t *testing.T) {
	mgr, clock := setup(t)
	exp := NewExport(sampleStreaks(), nil, clock.now)
	want := []string{
		"spark-20260201-0930.json",
		"spark-20260201-093000.json",
		"spark-20260201-093000-1.json",
		"spark-20260201-093000-2.json",
	}
	for _, name := range want {
		path, err := mgr.CreateBackup(exp)
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Base(path) != name {
			t.Errorf("backup name = %s, want %s", filepath.Base(path), name)
		}
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != len(want) {
		t.Errorf("listed %d backups, want %d", len(backups), len(want))
	}
}

func TestBackupRotation(t *testing.T) {
	mgr, clock := setup(t)
	numBackups := constants.MaxBackups + 5
	for i := 0; i < numBackups; i++ {
		if _, err := mgr.CreateBackup(NewExport(sampleStreaks(), nil, clock.now)); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		clock.now = clock.now.Add(time.Hour)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups are not sorted correctly: backup %d is newer than backup %d", i, i-1)
		}
	}

	latest, ok, err := mgr.Latest()
	if err != nil || !ok {
		t.Fatalf("Latest = %v, %v", ok, err)
	}
	if !latest.Timestamp.Equal(clock.now.Add(-time.Hour)) {
		t.Errorf("latest timestamp = %v", latest.Timestamp)
	}
}

func TestListBackupsIgnoresForeignFiles(t *testing.T) {
	mgr, _ := setup(t)
	backups, err := mgr.ListBackups()
	if err != nil || len(backups) != 0 {
		t.Fatalf("ListBackups on missing dir = %v, %v", backups, err)
	}

	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "spark-garbage.json", "spark-20260201-0930.json.tmp"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	backups, err = mgr.ListBackups()
	if err != nil || len(backups) != 0 {
		t.Errorf("ListBackups = %v, %v", backups, err)
	}
}

func TestLoadBackupMissing(t *testing.T) {
	mgr, _ := setup(t)
	if _, err := mgr.LoadBackup("spark-20000101-0000.json"); !errors.Is(err, ErrBackupNotFound) {
		t.Errorf("err = %v, want ErrBackupNotFound", err)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		want time.Time
	}{
		{"spark-20260201-0930.json", true, time.Date(2026, 2, 1, 9, 30, 0, 0, time.Local)},
		{"spark-20260201-093015.json", true, time.Date(2026, 2, 1, 9, 30, 15, 0, time.Local)},
		{"spark-20260201-093015-3.json", true, time.Date(2026, 2, 1, 9, 30, 15, 0, time.Local)},
		{"spark-20260201.json", false, time.Time{}},
		{"other-20260201-0930.db", false, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseName(tt.name)
			if ok != tt.ok || !got.Equal(tt.want) {
				t.Errorf("parseName = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
