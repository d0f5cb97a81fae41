package engine

import "errors"

var (
	ErrStreakNotFound     = errors.New("streak not found")
	ErrDuplicateName      = errors.New("an active streak with that name already exists")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidTime        = errors.New("invalid time, expected HH:MM")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidColor       = errors.New("invalid color")
	ErrStreakArchived     = errors.New("streak is archived")
	ErrUndoUnavailable    = errors.New("nothing to undo")
	ErrGraceUnavailable   = errors.New("grace already used")
	ErrGraceNotApplicable = errors.New("grace only applies to a streak that missed exactly one day")
	ErrNothingToRevive    = errors.New("streak is not broken")
	ErrNoRevivalPoints    = errors.New("no revival points left")
	ErrListNotFound       = errors.New("list not found")
	ErrDuplicateList      = errors.New("a list with that name already exists")
	ErrDefaultList        = errors.New("the default list cannot be renamed or deleted")
	ErrNotBooted          = errors.New("engine has not been booted")
)
