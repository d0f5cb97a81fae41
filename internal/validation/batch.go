package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/models"
)

type Summary struct {
	Total   int
	Valid   int
	Invalid int
}

// BatchResult holds every valid record of a batch alongside the errors of the
// rejected ones. Valid+Invalid always equals Total.
type BatchResult struct {
	Streaks  []models.Streak
	Lists    []models.StreakList
	Errors   []*ValidationError
	Warnings []*ValidationError
	Summary  Summary
}

// OK reports whether every record in the batch was accepted.
func (b BatchResult) OK() bool {
	return len(b.Errors) == 0
}

func invalidFormat(detail string) BatchResult {
	return BatchResult{
		Streaks: []models.Streak{},
		Errors: []*ValidationError{{
			Type:     SeverityCritical,
			Message:  "Invalid backup file format",
			Detail:   detail,
			RowIndex: -1,
		}},
	}
}

// ParseBackupJSON decodes raw bytes and validates them as a batch. Decoding
// failures are reported as an invalid format, never returned as an error.
func ParseBackupJSON(data []byte) BatchResult {
	v, err := decode(data)
	if err != nil {
		return invalidFormat(fmt.Sprintf("Could not parse JSON: %v", err))
	}
	return ValidateBackupData(v)
}

// ValidateBackupData accepts either a bare array of streaks or an export
// object whose "data" member holds a streaks array (possibly JSON-encoded
// as a string).
func ValidateBackupData(data any) BatchResult {
	var items []any
	var lists []models.StreakList

	switch v := data.(type) {
	case []any:
		items = v
	case map[string]any:
		inner, _ := v["data"].(map[string]any)
		if inner == nil {
			break
		}
		if key, ok := streaksKey(inner); ok {
			items, _ = asArray(inner[key])
		}
		if raw, ok := asArray(inner[constants.KeyLists]); ok {
			lists = parseLists(raw)
		}
	}

	if items == nil {
		return invalidFormat("Expected array of streaks or backup object with data.streaks property")
	}

	result := BatchResult{
		Streaks: make([]models.Streak, 0, len(items)),
		Lists:   lists,
	}
	for i, item := range items {
		r := validateAt(item, i)
		if r.Valid {
			result.Streaks = append(result.Streaks, r.Streak)
		} else {
			result.Errors = append(result.Errors, r.Error)
		}
	}
	result.Summary = Summary{
		Total:   len(items),
		Valid:   len(result.Streaks),
		Invalid: len(items) - len(result.Streaks),
	}
	return result
}

// streaksKey prefers the canonical key, then the first key (sorted) that
// mentions a streak.
func streaksKey(m map[string]any) (string, bool) {
	if _, ok := m[constants.KeyStreaks]; ok {
		return constants.KeyStreaks, true
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(k, "streak") || strings.Contains(k, "Streak") {
			return k, true
		}
	}
	return "", false
}

func asArray(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case string:
		parsed, err := decode([]byte(x))
		if err != nil {
			return nil, false
		}
		arr, ok := parsed.([]any)
		return arr, ok
	}
	return nil, false
}

// parseLists keeps well-formed list entries and drops the rest silently.
func parseLists(raw []any) []models.StreakList {
	var lists []models.StreakList
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, ok1 := nonEmptyString(obj["id"])
		name, ok2 := nonEmptyString(obj["name"])
		if !ok1 || !ok2 {
			continue
		}
		color := optString(obj["color"])
		if !IsListColor(color) {
			color = constants.DefaultListColor
		}
		lists = append(lists, models.StreakList{
			ID:        id,
			Name:      name,
			Color:     color,
			CreatedAt: optString(obj["createdAt"]),
		})
	}
	return lists
}

// IsListColor reports whether c is one of the palette colors.
func IsListColor(c string) bool {
	for _, color := range constants.ListColors {
		if c == color {
			return true
		}
	}
	return false
}

func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

// FormatValidationMessage renders a short summary suitable for display.
func FormatValidationMessage(r BatchResult) string {
	if len(r.Errors) == 0 && r.Summary.Valid == r.Summary.Total {
		return fmt.Sprintf("✅ All %d streaks loaded successfully.", r.Summary.Total)
	}

	var lines []string
	if r.Summary.Valid > 0 {
		lines = append(lines, fmt.Sprintf("✅ Loaded %d %s", r.Summary.Valid, plural(r.Summary.Valid, "streak")))
	}
	if r.Summary.Invalid > 0 {
		lines = append(lines, fmt.Sprintf("⚠️ Skipped %d invalid %s", r.Summary.Invalid, plural(r.Summary.Invalid, "streak")))
	}
	if len(r.Errors) > 0 {
		lines = append(lines, "", "Errors:")
		for i, e := range r.Errors {
			if i == 3 {
				break
			}
			lines = append(lines, "• "+e.Message)
		}
		if len(r.Errors) > 3 {
			lines = append(lines, fmt.Sprintf("• ...and %d more errors", len(r.Errors)-3))
		}
	}
	return strings.Join(lines, "\n")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
