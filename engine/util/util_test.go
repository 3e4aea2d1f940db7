package util

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func TestPriorityQueueOrder(t *testing.T) {
	pq := NewPriorityQueue[string](nil)
	pq.PushValue("far", 9)
	pq.PushValue("near", 1)
	pq.PushValue("middle", 4)
	pq.PushValue("nearest", 0)

	var got []string
	for !pq.IsEmpty() {
		got = append(got, pq.PopValue())
	}
	want := []string{"nearest", "near", "middle", "far"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("pop order %v, want %v", got, want)
	}
}

func TestPriorityQueueUpdate(t *testing.T) {
	a, b := NewNode("a", 1), NewNode("b", 2)
	pq := NewPriorityQueue([]QueueNode[string]{a, b})
	pq.Update(b, 0)
	if pq.Top().GetValue() != "b" {
		t.Fatalf("top = %s after update", pq.Top().GetValue())
	}
}

func TestTimer(t *testing.T) {
	clock := time.Unix(0, 0)
	timer := newTimerWithClock(func() time.Time { return clock })
	for _, d := range []time.Duration{3 * time.Millisecond, time.Millisecond, 5 * time.Millisecond} {
		stop := timer.Start("phase")
		clock = clock.Add(d)
		if phase := stop(); phase.Last != d || phase.Name != "phase" {
			t.Fatalf("phase = %v", phase)
		}
	}
	state := timer.GetState("phase")
	if state == nil || state.Count() != 3 {
		t.Fatalf("state = %v", state)
	}
	if state.Average() != 3*time.Millisecond || state.Min() != time.Millisecond || state.Max() != 5*time.Millisecond {
		t.Fatalf("state = %v", state)
	}
	if names := timer.Names(); len(names) != 1 || names[0] != "phase" {
		t.Fatalf("names = %v", names)
	}
	timer.Reset()
	if state.Count() != 0 || state.Average() != 0 || state.Max() != 0 {
		t.Fatal("reset did not clear the state")
	}
}

func TestLogFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	oldLevel, oldCategories := GLOBAL_LOG_LEVEL, GLOBAL_LOG_CATEGORIES
	defer func() {
		GLOBAL_LOG_LEVEL, GLOBAL_LOG_CATEGORIES = oldLevel, oldCategories
		SetLogOutput(os.Stderr)
	}()

	GLOBAL_LOG_LEVEL = LogLevelInfo
	GLOBAL_LOG_CATEGORIES = LogEdit
	LogEditInfo("carved")
	LogEditDebug("too verbose")
	LogStreamInfo("wrong category")

	if buf.String() != "carved\n" {
		t.Fatalf("log output %q", buf.String())
	}
}

func TestParseLogSettings(t *testing.T) {
	mask, err := ParseLogCategories([]string{"edit", "IO"})
	if err != nil || mask != LogEdit|LogIO {
		t.Fatalf("mask = %b, err = %v", mask, err)
	}
	if _, err = ParseLogCategories([]string{"opengl"}); err == nil {
		t.Fatal("unknown category accepted")
	}
	all, _ := ParseLogCategories([]string{"all"})
	if all&LogSystem == 0 || all&LogVoxel == 0 {
		t.Fatalf("all = %b", all)
	}
	level, err := ParseLogLevel("Debug")
	if err != nil || level != LogLevelDebug {
		t.Fatalf("level = %v, err = %v", level, err)
	}
}
