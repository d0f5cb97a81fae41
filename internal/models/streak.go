package models

import (
	"encoding/json"
	"slices"
)

type StreakStatus string

const (
	StatusCompleted StreakStatus = "completed"
	StatusPending   StreakStatus = "pending"
	StatusAtRisk    StreakStatus = "at-risk"
)

type FontSize string

const (
	FontSizeSmall  FontSize = "small"
	FontSizeMedium FontSize = "medium"
	FontSizeLarge  FontSize = "large"
)

type TextAlign string

const (
	TextAlignLeft   TextAlign = "left"
	TextAlignCenter TextAlign = "center"
	TextAlignRight  TextAlign = "right"
)

// Streak represents a tracked habit and its consecutive-day run
type Streak struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Emoji             string   `json:"emoji"`
	CreatedAt         string   `json:"createdAt"` // YYYY-MM-DD
	CurrentStreak     int      `json:"currentStreak"`
	BestStreak        int      `json:"bestStreak"`
	LastCompletedDate *string  `json:"lastCompletedDate"` // YYYY-MM-DD, nil when never completed
	CompletedDates    []string `json:"completedDates"`

	Color           string    `json:"color,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	Description     string    `json:"description,omitempty"`
	ListID          string    `json:"listId,omitempty"`
	IsStarred       bool      `json:"isStarred"`
	IsPaused        bool      `json:"isPaused"`
	PausedAt        *string   `json:"pausedAt"`
	ArchivedAt      *string   `json:"archivedAt"`
	ScheduledDate   string    `json:"scheduledDate,omitempty"` // YYYY-MM-DD
	ScheduledTime   string    `json:"scheduledTime,omitempty"` // HH:MM
	FontSize        FontSize  `json:"fontSize,omitempty"`
	TextAlign       TextAlign `json:"textAlign,omitempty"`
	ReminderEnabled bool      `json:"reminderEnabled"`
	ReminderTime    string    `json:"reminderTime,omitempty"` // HH:MM
}

// MarshalJSON always writes completedDates as an array so that a stored record
// with no completions still passes validation on the next load.
func (s Streak) MarshalJSON() ([]byte, error) {
	type alias Streak
	a := alias(s)
	if a.CompletedDates == nil {
		a.CompletedDates = []string{}
	}
	return json.Marshal(a)
}

// IsArchived reports whether the streak has been archived
func (s *Streak) IsArchived() bool {
	return s.ArchivedAt != nil
}

// HasCompleted reports whether date is recorded in the completion history
func (s *Streak) HasCompleted(date string) bool {
	return slices.Contains(s.CompletedDates, date)
}

// Snapshot captures the fields an undo restores
func (s *Streak) Snapshot() PreviousState {
	return PreviousState{
		CurrentStreak:     s.CurrentStreak,
		LastCompletedDate: cloneString(s.LastCompletedDate),
		CompletedDates:    append([]string{}, s.CompletedDates...),
		BestStreak:        s.BestStreak,
	}
}

// Restore writes a snapshot back verbatim
func (s *Streak) Restore(p PreviousState) {
	s.CurrentStreak = p.CurrentStreak
	s.LastCompletedDate = cloneString(p.LastCompletedDate)
	s.CompletedDates = append([]string{}, p.CompletedDates...)
	s.BestStreak = p.BestStreak
}

// Clone returns a deep copy
func (s Streak) Clone() Streak {
	c := s
	c.LastCompletedDate = cloneString(s.LastCompletedDate)
	c.PausedAt = cloneString(s.PausedAt)
	c.ArchivedAt = cloneString(s.ArchivedAt)
	c.CompletedDates = append([]string{}, s.CompletedDates...)
	return c
}

// StreakList is a named grouping of streaks
type StreakList struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CreatedAt string `json:"createdAt"` // YYYY-MM-DD
}

// StreakStats aggregates counts and completion rates across all streaks
type StreakStats struct {
	TotalStreaks          int `json:"totalStreaks"`
	ActiveStreaks         int `json:"activeStreaks"`
	TotalCompletions      int `json:"totalCompletions"`
	LongestStreak         int `json:"longestStreak"`
	WeeklyCompletionRate  int `json:"weeklyCompletionRate"`  // percent
	MonthlyCompletionRate int `json:"monthlyCompletionRate"` // percent
}

// StringPtr returns a pointer to a copy of s
func StringPtr(s string) *string {
	return &s
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
