package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/utils"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// ValidationError describes why a record was rejected. Message is safe to
// show users, Detail is meant for logs.
type ValidationError struct {
	Type     Severity
	Field    string
	Message  string
	Detail   string
	RowIndex int // zero-based position in the batch, -1 when unknown
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StreakResult is the outcome of validating one record. Streak is only
// meaningful when Valid is true.
type StreakResult struct {
	Valid  bool
	Streak models.Streak
	Error  *ValidationError
}

// ValidateStreak checks a single decoded record outside of any batch.
func ValidateStreak(data any) StreakResult {
	return validateAt(data, -1)
}

func validateAt(data any, index int) StreakResult {
	row := "unknown"
	if index >= 0 {
		row = strconv.Itoa(index + 1)
	}
	fail := func(field, message, detail string) StreakResult {
		return StreakResult{Error: &ValidationError{
			Type:     SeverityCritical,
			Field:    field,
			Message:  fmt.Sprintf("Row %s: %s", row, message),
			Detail:   detail,
			RowIndex: index,
		}}
	}

	obj, ok := data.(map[string]any)
	if !ok || obj == nil {
		return StreakResult{Error: &ValidationError{
			Type:     SeverityCritical,
			Message:  fmt.Sprintf("Invalid streak data at row %s", row),
			Detail:   fmt.Sprintf("Expected object, got %s", typeName(data)),
			RowIndex: index,
		}}
	}

	id, ok := nonEmptyString(obj["id"])
	if !ok {
		return fail("id", "Missing or invalid Streak ID", `Expected non-empty string for "id" field`)
	}
	name, ok := nonEmptyString(obj["name"])
	if !ok {
		return fail("name", "Missing streak name", `Expected non-empty string for "name" field`)
	}
	emoji, ok := nonEmptyString(obj["emoji"])
	if !ok {
		return fail("emoji", fmt.Sprintf("Missing emoji for %q", name), `Expected non-empty string for "emoji" field`)
	}

	rawCreated, present := obj["createdAt"]
	if !present || rawCreated == nil || rawCreated == "" {
		return fail("createdAt", fmt.Sprintf("Missing creation date for %q", name), `Expected date in "createdAt" field (YYYY-MM-DD format)`)
	}
	createdAt, ok := rawCreated.(string)
	if !ok || !utils.IsValidDate(createdAt) {
		return fail("createdAt", fmt.Sprintf("Invalid creation date for %q", name), fmt.Sprintf("Got %v, expected YYYY-MM-DD format", rawCreated))
	}

	current, ok := counter(obj["currentStreak"])
	if !ok {
		return fail("currentStreak", fmt.Sprintf("Invalid current streak for %q", name), fmt.Sprintf("Expected non-negative integer, got %v", obj["currentStreak"]))
	}
	best, ok := counter(obj["bestStreak"])
	if !ok {
		return fail("bestStreak", fmt.Sprintf("Invalid best streak for %q", name), fmt.Sprintf("Expected non-negative integer, got %v", obj["bestStreak"]))
	}

	rawDates, ok := obj["completedDates"].([]any)
	if !ok {
		return fail("completedDates", fmt.Sprintf("Invalid completion history for %q", name), `Expected array for "completedDates" field`)
	}

	if best < current {
		return fail("bestStreak",
			fmt.Sprintf("Corrupted streak data for %q (bestStreak < currentStreak)", name),
			fmt.Sprintf("Best streak (%d) should never be less than current streak (%d)", best, current))
	}

	var lastCompleted *string
	if raw := obj["lastCompletedDate"]; raw != nil {
		s, ok := raw.(string)
		if !ok {
			return fail("lastCompletedDate", fmt.Sprintf("Invalid last completed date for %q", name), fmt.Sprintf("Expected string or null, got %s", typeName(raw)))
		}
		if !utils.IsValidDate(s) {
			return fail("lastCompletedDate", fmt.Sprintf("Invalid last completed date format for %q", name), fmt.Sprintf("Got %q, expected YYYY-MM-DD format", s))
		}
		lastCompleted = &s
	}

	dates := make([]string, 0, len(rawDates))
	var invalid []string
	for _, d := range rawDates {
		if s, ok := d.(string); ok && utils.IsValidDate(s) {
			dates = append(dates, s)
		} else {
			invalid = append(invalid, fmt.Sprint(d))
		}
	}
	if len(invalid) > 0 {
		shown := invalid
		suffix := ""
		if len(shown) > 3 {
			shown = shown[:3]
			suffix = "..."
		}
		return fail("completedDates",
			fmt.Sprintf("Invalid dates in completion history for %q", name),
			fmt.Sprintf("Invalid date formats: %s%s. Expected YYYY-MM-DD.", strings.Join(shown, ", "), suffix))
	}

	s := models.Streak{
		ID:                id,
		Name:              name,
		Emoji:             emoji,
		CreatedAt:         createdAt,
		CurrentStreak:     current,
		BestStreak:        best,
		LastCompletedDate: lastCompleted,
		CompletedDates:    dates,
		Color:             optString(obj["color"]),
		Notes:             optString(obj["notes"]),
		Description:       optString(obj["description"]),
		ListID:            optString(obj["listId"]),
		IsStarred:         optBool(obj["isStarred"]),
		IsPaused:          optBool(obj["isPaused"]),
		PausedAt:          optStringPtr(obj["pausedAt"]),
		ArchivedAt:        optStringPtr(obj["archivedAt"]),
		ScheduledTime:     optString(obj["scheduledTime"]),
		ReminderEnabled:   optBool(obj["reminderEnabled"]),
		ReminderTime:      optString(obj["reminderTime"]),
	}
	if d := optString(obj["scheduledDate"]); utils.IsValidDate(d) {
		s.ScheduledDate = d
	}
	switch fs := models.FontSize(optString(obj["fontSize"])); fs {
	case models.FontSizeSmall, models.FontSizeMedium, models.FontSizeLarge:
		s.FontSize = fs
	}
	switch ta := models.TextAlign(optString(obj["textAlign"])); ta {
	case models.TextAlignLeft, models.TextAlignCenter, models.TextAlignRight:
		s.TextAlign = ta
	}

	return StreakResult{Valid: true, Streak: s}
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// counter accepts a non-negative whole JSON number.
func counter(v any) (int, bool) {
	var n int64
	switch x := v.(type) {
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			f, ferr := x.Float64()
			if ferr != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
				return 0, false
			}
			i = int64(f)
		}
		n = i
	case float64:
		if math.IsNaN(x) || x != math.Trunc(x) || math.Abs(x) > math.MaxInt32 {
			return 0, false
		}
		n = int64(x)
	case int:
		n = int64(x)
	case int64:
		n = x
	default:
		return 0, false
	}
	if n < 0 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

func optString(v any) string {
	s, _ := v.(string)
	return s
}

func optStringPtr(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func optBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
