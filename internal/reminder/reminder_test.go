package reminder

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/dailyspark/internal/models"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.stopped = true
	return true
}

type fixture struct {
	reg    *Registry
	clock  *testClock
	timers []*fakeTimer
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{clock: &testClock{now: time.Date(2026, 2, 1, 9, 0, 0, 0, time.Local)}}
	f.reg = New(f.clock.Now)
	f.reg.afterFunc = func(d time.Duration, fn func()) timer {
		ft := &fakeTimer{d: d, f: fn}
		f.timers = append(f.timers, ft)
		return ft
	}
	return f
}

func (f *fixture) last() *fakeTimer {
	if len(f.timers) == 0 {
		return nil
	}
	return f.timers[len(f.timers)-1]
}

func at(day, hour, min int) time.Time {
	return time.Date(2026, 2, day, hour, min, 0, 0, time.Local)
}

func TestNextFire(t *testing.T) {
	from := at(1, 9, 0)
	tests := []struct {
		name   string
		spec   models.ReminderSpec
		want   time.Time
		wantOK bool
	}{
		{"later today", models.ReminderSpec{Time: "18:00"}, at(1, 18, 0), true},
		{"already passed", models.ReminderSpec{Time: "08:00"}, at(2, 8, 0), true},
		{"exactly now", models.ReminderSpec{Time: "09:00"}, at(1, 9, 0), true},
		{"after tomorrow start", models.ReminderSpec{Time: "18:00", After: at(2, 0, 0)}, at(2, 18, 0), true},
		{"one-off future", models.ReminderSpec{Time: "07:30", Date: "2026-02-05"}, at(5, 7, 30), true},
		{"one-off past", models.ReminderSpec{Time: "07:30", Date: "2026-01-31"}, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextFire(tt.spec, from)
			if ok != tt.wantOK || !got.Equal(tt.want) {
				t.Errorf("NextFire = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestScheduleBeforeStartArmsOnStart(t *testing.T) {
	f := setup(t)
	if err := f.reg.Schedule("s1", "Read", "📚", models.ReminderSpec{Time: "18:00"}, nil); err != nil {
		t.Fatal(err)
	}
	if len(f.timers) != 0 {
		t.Fatal("timer armed before Start")
	}
	f.reg.Start()
	if f.last() == nil || f.last().d != 9*time.Hour {
		t.Fatalf("timer after Start = %+v", f.last())
	}
	pending := f.reg.Pending()
	if len(pending) != 1 || pending[0].ID != "s1" || !pending[0].At.Equal(at(1, 18, 0)) {
		t.Errorf("Pending = %+v", pending)
	}
}

func TestDailyReminderRearms(t *testing.T) {
	f := setup(t)
	f.reg.Start()
	fired := 0
	if err := f.reg.Schedule("s1", "Read", "📚", models.ReminderSpec{Time: "18:00"}, func() { fired++ }); err != nil {
		t.Fatal(err)
	}

	first := f.last()
	f.clock.set(at(1, 18, 0))
	first.f()
	if fired != 1 {
		t.Fatalf("fired %d times", fired)
	}
	if f.last() == first || f.last().d != 24*time.Hour {
		t.Errorf("daily reminder not re-armed for tomorrow: %+v", f.last())
	}
}

func TestOneOffReminderIsDropped(t *testing.T) {
	f := setup(t)
	f.reg.Start()
	fired := 0
	spec := models.ReminderSpec{Time: "10:00", Date: "2026-02-01"}
	if err := f.reg.Schedule("s1", "Call", "📞", spec, func() { fired++ }); err != nil {
		t.Fatal(err)
	}
	f.clock.set(at(1, 10, 0))
	f.last().f()
	if fired != 1 || len(f.reg.Pending()) != 0 {
		t.Errorf("fired=%d pending=%v", fired, f.reg.Pending())
	}
}

func TestRescheduleIgnoresStaleTimer(t *testing.T) {
	f := setup(t)
	f.reg.Start()
	calls := 0
	cb := func() { calls++ }
	if err := f.reg.Schedule("s1", "Read", "📚", models.ReminderSpec{Time: "18:00"}, cb); err != nil {
		t.Fatal(err)
	}
	stale := f.last()
	if err := f.reg.Schedule("s1", "Read", "📚", models.ReminderSpec{Time: "19:00"}, cb); err != nil {
		t.Fatal(err)
	}
	if !stale.stopped {
		t.Error("old timer not stopped")
	}
	stale.f()
	if calls != 0 {
		t.Error("stale timer fired the callback")
	}
}

func TestUnscheduleIsIdempotent(t *testing.T) {
	f := setup(t)
	f.reg.Start()
	if err := f.reg.Schedule("s1", "Read", "📚", models.ReminderSpec{Time: "18:00"}, nil); err != nil {
		t.Fatal(err)
	}
	timer := f.last()
	f.reg.Unschedule("s1")
	f.reg.Unschedule("s1")
	f.reg.Unschedule("never-scheduled")
	if !timer.stopped || len(f.reg.Pending()) != 0 {
		t.Errorf("stopped=%v pending=%v", timer.stopped, f.reg.Pending())
	}
}

func TestStopDisarmsAndStartRestores(t *testing.T) {
	f := setup(t)
	f.reg.Start()
	for _, id := range []string{"a", "b"} {
		if err := f.reg.Schedule(id, id, "🔥", models.ReminderSpec{Time: "18:00"}, nil); err != nil {
			t.Fatal(err)
		}
	}
	f.reg.Stop()
	for _, tm := range f.timers {
		if !tm.stopped {
			t.Error("timer survived Stop")
		}
	}
	if len(f.reg.Pending()) != 0 {
		t.Error("Pending not empty after Stop")
	}
	f.reg.Start()
	if got := len(f.reg.Pending()); got != 2 {
		t.Errorf("Pending after restart = %d, want 2", got)
	}
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	f := setup(t)
	for _, spec := range []models.ReminderSpec{{Time: "7pm"}, {Time: "18:00", Date: "2026-13-01"}} {
		if err := f.reg.Schedule("s1", "x", "x", spec, nil); !errors.Is(err, ErrInvalidSpec) {
			t.Errorf("Schedule(%+v) err = %v", spec, err)
		}
	}
}

func TestRealTimerFires(t *testing.T) {
	now := time.Now()
	clock := &testClock{now: now}
	reg := New(clock.Now)
	reg.Start()
	defer reg.Stop()

	done := make(chan struct{})
	spec := models.ReminderSpec{Time: now.Format("15:04"), Date: now.Format("2006-01-02")}
	// the minute already started, so pin the clock to its first second
	clock.set(time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), 0, 0, now.Location()))
	if err := reg.Schedule("s1", "Read", "📚", spec, func() { close(done) }); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reminder did not fire")
	}
}
