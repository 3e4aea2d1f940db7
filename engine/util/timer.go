package util

import (
	"fmt"
	"strings"
	"time"
)

// PhaseTiming is a snapshot of one named section after a measurement.
type PhaseTiming struct {
	Name    string
	Last    time.Duration
	Average time.Duration
}

func (p PhaseTiming) String() string {
	return fmt.Sprintf("%s %s (avg %s)", p.Name, p.Last, p.Average)
}

type TimerState struct {
	name  string
	last  time.Duration
	total time.Duration
	count int64
	min   time.Duration
	max   time.Duration
}

func (t *TimerState) Last() time.Duration {
	return t.last
}

func (t *TimerState) Count() int64 {
	return t.count
}

func (t *TimerState) Min() time.Duration {
	return t.min
}

func (t *TimerState) Max() time.Duration {
	return t.max
}

func (t *TimerState) Average() time.Duration {
	if t.count == 0 {
		return 0
	}
	return t.total / time.Duration(t.count)
}

func (t *TimerState) Snapshot() PhaseTiming {
	return PhaseTiming{Name: t.name, Last: t.last, Average: t.Average()}
}

func (t *TimerState) record(d time.Duration) {
	if t.count == 0 || d < t.min {
		t.min = d
	}
	if d > t.max {
		t.max = d
	}
	t.last = d
	t.total += d
	t.count++
}

func (t *TimerState) String() string {
	return fmt.Sprintf("%s last: %s, avg: %s, min: %s, max: %s", t.name, t.last, t.Average(), t.min, t.max)
}

// Timer keeps running statistics per named section, in the order the
// sections were first started. Not safe for concurrent use.
type Timer struct {
	states map[string]*TimerState
	names  []string
	now    func() time.Time
}

func NewTimer() *Timer {
	return newTimerWithClock(time.Now)
}

func newTimerWithClock(now func() time.Time) *Timer {
	return &Timer{
		states: make(map[string]*TimerState),
		now:    now,
	}
}

func (t *Timer) GetState(name string) *TimerState {
	return t.states[name]
}

func (t *Timer) Names() []string {
	return append([]string(nil), t.names...)
}

func (t *Timer) Reset() {
	for _, state := range t.states {
		*state = TimerState{name: state.name}
	}
}

func (t *Timer) String() string {
	var b strings.Builder
	for _, name := range t.names {
		b.WriteString(t.states[name].String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Start begins measuring the named section. Calling the returned function
// stops it and returns the snapshot including this measurement.
func (t *Timer) Start(name string) func() PhaseTiming {
	state, ok := t.states[name]
	if !ok {
		t.names = append(t.names, name)
		state = &TimerState{name: name}
		t.states[name] = state
	}
	start := t.now()
	return func() PhaseTiming {
		state.record(t.now().Sub(start))
		return state.Snapshot()
	}
}
