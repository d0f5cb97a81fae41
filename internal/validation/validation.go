package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateName   ConflictType = "duplicate_name"
	ConflictDuplicateID     ConflictType = "duplicate_id"
	ConflictInvalidDate     ConflictType = "invalid_date"
	ConflictCorruptedCounts ConflictType = "corrupted_counts"
	ConflictUnknownList     ConflictType = "unknown_list"
	ConflictDuplicateDates  ConflictType = "duplicate_dates"
)

// Conflict represents a detected problem in the loaded collection
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // streak names involved
	StreakIDs   []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator scans an in-memory collection for inconsistencies that record
// validation cannot see, such as clashes between streaks.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// NormalizeName is the form used for name uniqueness checks.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateStreaks checks streaks against each other and against lists. A nil
// lists slice skips the list membership check.
func (v *Validator) ValidateStreaks(streaks []models.Streak, lists []models.StreakList) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	idSeen := make(map[string][]string)
	var idOrder []string
	nameSeen := make(map[string][]models.Streak)
	var nameOrder []string
	for _, s := range streaks {
		if _, ok := idSeen[s.ID]; !ok {
			idOrder = append(idOrder, s.ID)
		}
		idSeen[s.ID] = append(idSeen[s.ID], s.Name)

		if s.IsArchived() || strings.TrimSpace(s.Name) == "" {
			continue
		}
		key := NormalizeName(s.Name)
		if _, ok := nameSeen[key]; !ok {
			nameOrder = append(nameOrder, key)
		}
		nameSeen[key] = append(nameSeen[key], s)
	}

	for _, id := range idOrder {
		if names := idSeen[id]; len(names) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("Duplicate streak ID %q shared by %d streaks", id, len(names)),
				Items:       names,
				StreakIDs:   []string{id},
			})
		}
	}
	for _, key := range nameOrder {
		group := nameSeen[key]
		if len(group) < 2 {
			continue
		}
		ids := make([]string, len(group))
		for i, s := range group {
			ids[i] = s.ID
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateName,
			Description: fmt.Sprintf("Duplicate streak name: %q (IDs: %v)", group[0].Name, ids),
			Items:       []string{group[0].Name},
			StreakIDs:   ids,
		})
	}

	listIDs := make(map[string]bool, len(lists))
	for _, l := range lists {
		listIDs[l.ID] = true
	}

	for _, s := range streaks {
		if !utils.IsValidDate(s.CreatedAt) {
			result.Conflicts = append(result.Conflicts, v.dateConflict(s, "createdAt", s.CreatedAt))
		}
		if s.LastCompletedDate != nil && !utils.IsValidDate(*s.LastCompletedDate) {
			result.Conflicts = append(result.Conflicts, v.dateConflict(s, "lastCompletedDate", *s.LastCompletedDate))
		}
		seen := make(map[string]bool, len(s.CompletedDates))
		dupes := 0
		for _, d := range s.CompletedDates {
			if !utils.IsValidDate(d) {
				result.Conflicts = append(result.Conflicts, v.dateConflict(s, "completedDates", d))
			}
			if seen[d] {
				dupes++
			}
			seen[d] = true
		}
		if dupes > 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateDates,
				Description: fmt.Sprintf("Streak %q has %d duplicate completion date(s)", s.Name, dupes),
				Items:       []string{s.Name},
				StreakIDs:   []string{s.ID},
			})
		}
		if s.BestStreak < s.CurrentStreak || s.CurrentStreak < 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictCorruptedCounts,
				Description: fmt.Sprintf("Streak %q has best streak %d below current streak %d", s.Name, s.BestStreak, s.CurrentStreak),
				Items:       []string{s.Name},
				StreakIDs:   []string{s.ID},
			})
		}
		if lists != nil && s.ListID != "" && s.ListID != constants.DefaultListID && !listIDs[s.ListID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownList,
				Description: fmt.Sprintf("Streak %q belongs to unknown list %q", s.Name, s.ListID),
				Items:       []string{s.Name},
				StreakIDs:   []string{s.ID},
			})
		}
	}

	return result
}

func (v *Validator) dateConflict(s models.Streak, field, value string) Conflict {
	return Conflict{
		Type:        ConflictInvalidDate,
		Description: fmt.Sprintf("Streak %q has invalid %s: %s", s.Name, field, value),
		Items:       []string{s.Name},
		StreakIDs:   []string{s.ID},
	}
}
