// Package reminder owns the per-streak reminder timers for a session.
package reminder

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/dailyspark/internal/logger"
	"github.com/julianstephens/dailyspark/internal/models"
	"github.com/julianstephens/dailyspark/internal/utils"
)

var ErrInvalidSpec = errors.New("invalid reminder")

// timer is the part of *time.Timer the registry needs.
type timer interface {
	Stop() bool
}

type entry struct {
	name   string
	emoji  string
	spec   models.ReminderSpec
	onFire func()
	at     time.Time
	timer  timer
	gen    uint64
}

// Pending describes an armed reminder.
type Pending struct {
	ID    string
	Name  string
	Emoji string
	At    time.Time
}

// Registry arms one timer per streak while started. Daily reminders re-arm
// themselves after firing; one-off reminders are dropped.
type Registry struct {
	mu        sync.Mutex
	clock     utils.Clock
	afterFunc func(d time.Duration, f func()) timer
	entries   map[string]*entry
	running   bool
	gen       uint64
}

func New(clock utils.Clock) *Registry {
	if clock == nil {
		clock = time.Now
	}
	return &Registry{
		clock:     clock,
		afterFunc: func(d time.Duration, f func()) timer { return time.AfterFunc(d, f) },
		entries:   map[string]*entry{},
	}
}

// Start arms every registered reminder. Reminders scheduled before Start are
// kept and armed here.
func (r *Registry) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	for id, e := range r.entries {
		r.arm(id, e, r.clock())
	}
}

// Stop disarms every timer. Registrations survive for a later Start.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	for _, e := range r.entries {
		r.disarm(e)
	}
}

// Schedule registers or replaces the reminder for id.
func (r *Registry) Schedule(id, name, emoji string, spec models.ReminderSpec, onFire func()) error {
	if !utils.ValidateTimeFormat(spec.Time) {
		return fmt.Errorf("%w: time %q", ErrInvalidSpec, spec.Time)
	}
	if spec.Date != "" && !utils.IsValidDate(spec.Date) {
		return fmt.Errorf("%w: date %q", ErrInvalidSpec, spec.Date)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.entries[id]; ok {
		r.disarm(old)
	}
	e := &entry{name: name, emoji: emoji, spec: spec, onFire: onFire}
	r.entries[id] = e
	if r.running {
		r.arm(id, e, r.clock())
	}
	return nil
}

// Unschedule drops the reminder for id. Unknown ids are ignored.
func (r *Registry) Unschedule(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		r.disarm(e)
		delete(r.entries, id)
	}
}

// Pending lists armed reminders, soonest first.
func (r *Registry) Pending() []Pending {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Pending{}
	for id, e := range r.entries {
		if e.timer != nil {
			out = append(out, Pending{ID: id, Name: e.name, Emoji: e.emoji, At: e.at})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].At.Equal(out[j].At) {
			return out[i].ID < out[j].ID
		}
		return out[i].At.Before(out[j].At)
	})
	return out
}

// NextFire returns when spec should next fire at or after from. It reports
// false for a one-off reminder whose moment has passed.
func NextFire(spec models.ReminderSpec, from time.Time) (time.Time, bool) {
	if spec.After.After(from) {
		from = spec.After
	}
	if spec.Date == "" {
		next, err := utils.NextOccurrence(from, spec.Time)
		return next, err == nil
	}
	day, err := utils.ParseDate(spec.Date, from.Location())
	if err != nil {
		return time.Time{}, false
	}
	mins, err := utils.ParseTimeToMinutes(spec.Time)
	if err != nil {
		return time.Time{}, false
	}
	at := day.Add(time.Duration(mins) * time.Minute)
	if at.Before(from) {
		return time.Time{}, false
	}
	return at, true
}

// arm starts e's timer. Callers hold r.mu.
func (r *Registry) arm(id string, e *entry, from time.Time) {
	at, ok := NextFire(e.spec, from)
	if !ok {
		logger.Debug("Reminder has nothing left to fire", "streak", id)
		return
	}
	r.gen++
	gen := r.gen
	e.gen, e.at = gen, at
	e.timer = r.afterFunc(at.Sub(r.clock()), func() { r.fire(id, gen) })
	logger.Debug("Reminder armed", "streak", id, "at", at)
}

func (r *Registry) disarm(e *entry) {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen = 0
}

func (r *Registry) fire(id string, gen uint64) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok || e.gen != gen || !r.running {
		r.mu.Unlock()
		return
	}
	onFire, at := e.onFire, e.at
	e.timer = nil
	if e.spec.Date == "" {
		r.arm(id, e, at.Add(time.Second))
	} else {
		delete(r.entries, id)
	}
	r.mu.Unlock()

	logger.Info("Reminder fired", "streak", id)
	if onFire != nil {
		onFire()
	}
}
