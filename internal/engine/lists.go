package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/dailyspark/internal/constants"
	"github.com/julianstephens/dailyspark/internal/logger"
	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/validation"
)

func (e *Engine) Lists() []models.StreakList {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.StreakList{}, e.lists...)
}

func (e *Engine) listIndex(id string) (int, error) {
	for i, l := range e.lists {
		if l.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrListNotFound, id)
}

// checkListName rejects empty names and case-insensitive clashes.
func (e *Engine) checkListName(name, exceptID string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: list name cannot be empty", ErrInvalidName)
	}
	key := validation.NormalizeName(name)
	for _, l := range e.lists {
		if l.ID != exceptID && validation.NormalizeName(l.Name) == key {
			return "", fmt.Errorf("%w: %q", ErrDuplicateList, name)
		}
	}
	return name, nil
}

func (e *Engine) AddList(name, color string) (models.StreakList, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.booted {
		return models.StreakList{}, ErrNotBooted
	}
	name, err := e.checkListName(name, "")
	if err != nil {
		return models.StreakList{}, err
	}
	if color == "" {
		color = constants.DefaultListColor
	}
	if !validation.IsListColor(color) {
		return models.StreakList{}, fmt.Errorf("%w: %q (choose one of %s)", ErrInvalidColor, color, strings.Join(constants.ListColors, ", "))
	}

	l := models.StreakList{ID: uuid.NewString(), Name: name, Color: color, CreatedAt: e.today()}
	e.lists = append(e.lists, l)
	if err := e.persistLists(); err != nil {
		e.lists = e.lists[:len(e.lists)-1]
		return models.StreakList{}, err
	}
	return l, nil
}

// RenameList renames a list. The default list keeps its name.
func (e *Engine) RenameList(id, name string) (models.StreakList, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id == constants.DefaultListID {
		return models.StreakList{}, ErrDefaultList
	}
	i, err := e.listIndex(id)
	if err != nil {
		return models.StreakList{}, err
	}
	name, err = e.checkListName(name, id)
	if err != nil {
		return models.StreakList{}, err
	}
	old := e.lists[i]
	e.lists[i].Name = name
	if err := e.persistLists(); err != nil {
		e.lists[i] = old
		return models.StreakList{}, err
	}
	return e.lists[i], nil
}

// DeleteList removes a list and moves its streaks to the default list. It
// returns how many streaks were moved.
func (e *Engine) DeleteList(id string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id == constants.DefaultListID {
		return 0, ErrDefaultList
	}
	i, err := e.listIndex(id)
	if err != nil {
		return 0, err
	}

	oldLists, oldStreaks := e.lists, e.streaks
	e.lists = append(append([]models.StreakList{}, oldLists[:i]...), oldLists[i+1:]...)
	e.streaks = make([]models.Streak, len(oldStreaks))
	moved := 0
	for j, s := range oldStreaks {
		if s.ListID == id {
			s.ListID = constants.DefaultListID
			moved++
		}
		e.streaks[j] = s
	}
	if err := e.persist(); err != nil {
		e.lists, e.streaks = oldLists, oldStreaks
		return 0, err
	}
	logger.Info("List deleted", "id", id, "moved", moved)
	return moved, nil
}

// ResolveList maps an id or case-insensitive name to a list id.
func (e *Engine) ResolveList(ref string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.listIndex(ref); err == nil {
		return ref, nil
	}
	key := validation.NormalizeName(ref)
	for _, l := range e.lists {
		if validation.NormalizeName(l.Name) == key {
			return l.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrListNotFound, ref)
}
