package validation

import (
	"encoding/json"
	"strings"
	"testing"
)

const validRecord = `{
	"id": "a1",
	"name": "Read",
	"emoji": "📚",
	"createdAt": "2026-02-01",
	"currentStreak": 1,
	"bestStreak": 3,
	"lastCompletedDate": "2026-02-03",
	"completedDates": ["2026-02-01", "2026-02-03"]
}`

func mustDecode(t *testing.T, s string) any {
	t.Helper()
	v, err := decode([]byte(s))
	if err != nil {
		t.Fatalf("decode(%s): %v", s, err)
	}
	return v
}

// withField decodes validRecord and overrides (or, with remove, deletes) one field.
func withField(t *testing.T, field string, value any, remove bool) map[string]any {
	t.Helper()
	m := mustDecode(t, validRecord).(map[string]any)
	if remove {
		delete(m, field)
	} else {
		m[field] = value
	}
	return m
}

func TestValidateStreakAcceptsValidRecord(t *testing.T) {
	r := ValidateStreak(mustDecode(t, validRecord))
	if !r.Valid {
		t.Fatalf("expected valid, got %v", r.Error)
	}
	s := r.Streak
	if s.ID != "a1" || s.Name != "Read" || s.CurrentStreak != 1 || s.BestStreak != 3 {
		t.Errorf("unexpected streak: %+v", s)
	}
	if s.LastCompletedDate == nil || *s.LastCompletedDate != "2026-02-03" {
		t.Errorf("lastCompletedDate = %v", s.LastCompletedDate)
	}
	if len(s.CompletedDates) != 2 {
		t.Errorf("completedDates = %v", s.CompletedDates)
	}
	if s.IsPaused || s.IsStarred || s.ReminderEnabled {
		t.Error("optional booleans should default to false")
	}
}

func TestValidateStreakRules(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		value  any
		remove bool
		want   string // expected failing field
	}{
		{"missing id", "id", nil, true, "id"},
		{"blank id", "id", "   ", false, "id"},
		{"numeric id", "id", json.Number("7"), false, "id"},
		{"missing name", "name", nil, true, "name"},
		{"missing emoji", "emoji", "", false, "emoji"},
		{"missing createdAt", "createdAt", nil, true, "createdAt"},
		{"feb 30", "createdAt", "2026-02-30", false, "createdAt"},
		{"month 13", "createdAt", "2026-13-01", false, "createdAt"},
		{"day 0", "createdAt", "2026-01-00", false, "createdAt"},
		{"slashes", "createdAt", "2026/01/05", false, "createdAt"},
		{"no padding", "createdAt", "2026-1-5", false, "createdAt"},
		{"negative current", "currentStreak", json.Number("-1"), false, "currentStreak"},
		{"fractional current", "currentStreak", json.Number("1.5"), false, "currentStreak"},
		{"string current", "currentStreak", "1", false, "currentStreak"},
		{"missing best", "bestStreak", nil, true, "bestStreak"},
		{"best below current", "bestStreak", json.Number("0"), false, "bestStreak"},
		{"dates not array", "completedDates", "2026-02-01", false, "completedDates"},
		{"last completed number", "lastCompletedDate", json.Number("20260203"), false, "lastCompletedDate"},
		{"last completed bad", "lastCompletedDate", "yesterday", false, "lastCompletedDate"},
		{"one bad date", "completedDates", []any{"2026-02-01", "2026-02-31"}, false, "completedDates"},
		{"non-string date", "completedDates", []any{"2026-02-01", json.Number("5")}, false, "completedDates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateStreak(withField(t, tt.field, tt.value, tt.remove))
			if r.Valid {
				t.Fatal("expected record to be rejected")
			}
			if r.Error.Field != tt.want {
				t.Errorf("failing field = %q, want %q (%s)", r.Error.Field, tt.want, r.Error.Message)
			}
			if r.Error.Type != SeverityCritical {
				t.Errorf("severity = %q", r.Error.Type)
			}
		})
	}
}

func TestValidateStreakFirstFailureWins(t *testing.T) {
	m := withField(t, "name", "", false)
	m["emoji"] = ""
	m["createdAt"] = "bad"
	r := ValidateStreak(m)
	if r.Valid || r.Error.Field != "name" {
		t.Errorf("expected name failure first, got %+v", r.Error)
	}
}

func TestValidateStreakNonObject(t *testing.T) {
	for _, input := range []any{nil, "streak", json.Number("1"), []any{}} {
		r := ValidateStreak(input)
		if r.Valid {
			t.Errorf("ValidateStreak(%v) accepted non-object", input)
		}
		if !strings.Contains(r.Error.Message, "Invalid streak data") {
			t.Errorf("unexpected message %q", r.Error.Message)
		}
	}
}

func TestValidateStreakEmptyHistory(t *testing.T) {
	m := withField(t, "completedDates", []any{}, false)
	m["lastCompletedDate"] = nil
	m["currentStreak"] = json.Number("0")
	r := ValidateStreak(m)
	if !r.Valid {
		t.Fatalf("empty history rejected: %v", r.Error)
	}
	if r.Streak.CompletedDates == nil || len(r.Streak.CompletedDates) != 0 {
		t.Errorf("completedDates = %#v, want empty non-nil", r.Streak.CompletedDates)
	}
	if r.Streak.LastCompletedDate != nil {
		t.Error("lastCompletedDate should be nil")
	}
}

func TestValidateStreakFloatCounters(t *testing.T) {
	var v any
	if err := json.Unmarshal([]byte(validRecord), &v); err != nil {
		t.Fatal(err)
	}
	if r := ValidateStreak(v); !r.Valid {
		t.Fatalf("float64-decoded record rejected: %v", r.Error)
	}
	v.(map[string]any)["bestStreak"] = 2.5
	if r := ValidateStreak(v); r.Valid || r.Error.Field != "bestStreak" {
		t.Errorf("fractional best streak accepted: %+v", r)
	}
}

func TestValidateStreakCoercesOptionalFields(t *testing.T) {
	m := mustDecode(t, validRecord).(map[string]any)
	m["isPaused"] = "yes"
	m["isStarred"] = true
	m["fontSize"] = "huge"
	m["textAlign"] = "center"
	m["scheduledDate"] = "2026-02-30"
	m["color"] = json.Number("3")
	m["archivedAt"] = "2026-02-04"
	m["pausedAt"] = false

	r := ValidateStreak(m)
	if !r.Valid {
		t.Fatalf("optional field problems must not reject: %v", r.Error)
	}
	s := r.Streak
	if s.IsPaused {
		t.Error("non-boolean isPaused should default to false")
	}
	if !s.IsStarred {
		t.Error("isStarred should be kept")
	}
	if s.FontSize != "" {
		t.Errorf("invalid fontSize kept: %q", s.FontSize)
	}
	if s.TextAlign != "center" {
		t.Errorf("textAlign = %q", s.TextAlign)
	}
	if s.ScheduledDate != "" {
		t.Errorf("invalid scheduledDate kept: %q", s.ScheduledDate)
	}
	if s.Color != "" {
		t.Errorf("non-string color kept: %q", s.Color)
	}
	if s.ArchivedAt == nil || *s.ArchivedAt != "2026-02-04" {
		t.Errorf("archivedAt = %v", s.ArchivedAt)
	}
	if s.PausedAt != nil {
		t.Errorf("pausedAt = %v", *s.PausedAt)
	}
}

func TestValidationErrorRowNumbers(t *testing.T) {
	r := validateAt(map[string]any{}, 4)
	if !strings.HasPrefix(r.Error.Message, "Row 5:") {
		t.Errorf("message = %q", r.Error.Message)
	}
	if r.Error.RowIndex != 4 {
		t.Errorf("RowIndex = %d", r.Error.RowIndex)
	}
	r = ValidateStreak(map[string]any{})
	if !strings.HasPrefix(r.Error.Message, "Row unknown:") {
		t.Errorf("message = %q", r.Error.Message)
	}
	if r.Error.Error() != r.Error.Message {
		t.Error("Error() should return the message")
	}
}
