package models

import (
	"encoding/json"
	"time"
)

type ActionType string

const (
	ActionComplete   ActionType = "complete"
	ActionUncomplete ActionType = "uncomplete"
)

type UndoReason string

const (
	UndoReasonNoAction         UndoReason = "no-action"
	UndoReasonAlreadyFinalized UndoReason = "already-finalized"
	UndoReasonNotToday         UndoReason = "not-today"
)

// PreviousState is the slice of a streak an action can roll back
type PreviousState struct {
	CurrentStreak     int      `json:"currentStreak"`
	LastCompletedDate *string  `json:"lastCompletedDate"`
	CompletedDates    []string `json:"completedDates"`
	BestStreak        int      `json:"bestStreak"`
}

func (p PreviousState) MarshalJSON() ([]byte, error) {
	type alias PreviousState
	a := alias(p)
	if a.CompletedDates == nil {
		a.CompletedDates = []string{}
	}
	return json.Marshal(a)
}

// DailyAction is one entry of the same-day undo log
type DailyAction struct {
	ID            string        `json:"id"`
	Type          ActionType    `json:"type"`
	StreakID      string        `json:"streakId"`
	Date          string        `json:"date"` // YYYY-MM-DD, local
	Timestamp     time.Time     `json:"timestamp"`
	Finalized     bool          `json:"finalized"`
	PreviousState PreviousState `json:"previousState"`
}

// UndoAvailability is the answer to "can the latest action be undone?"
type UndoAvailability struct {
	CanUndo bool
	Reason  UndoReason
	Action  *DailyAction
}
