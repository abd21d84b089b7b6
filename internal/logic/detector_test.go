package logic

import (
	"testing"
	"time"
)

func mustDetector(t *testing.T, baseline int) *Detector {
	t.Helper()
	d, err := NewDetector(baseline)
	if err != nil {
		t.Fatalf("NewDetector(%d): %v", baseline, err)
	}
	return d
}

// tickTimes returns start, start+step, start+2*step, ...
func tickTimes(start time.Time, step time.Duration) func() time.Time {
	n := 0
	return func() time.Time {
		ts := start.Add(time.Duration(n) * step)
		n++
		return ts
	}
}

func TestNewDetectorRejectsZeroBaseline(t *testing.T) {
	if _, err := NewDetector(0); err == nil {
		t.Error("expected error for zero baseline")
	}
	if _, err := NewDetector(-5); err == nil {
		t.Error("expected error for negative baseline")
	}
}

func TestNewDetectorStartsClear(t *testing.T) {
	d := mustDetector(t, 800)
	if d.State() != StateClear {
		t.Errorf("initial state: got %s, want CLEAR", d.State())
	}
	if d.Baseline() != 800 {
		t.Errorf("baseline: got %d, want 800", d.Baseline())
	}
}

// Baseline 800, average 590 → change 26.25% ≥ 25%: after exactly 3
// consecutive ticks the detector must commit to Blocked, not earlier.
func TestBlockAfterConfirmationCount(t *testing.T) {
	d := mustDetector(t, 800)
	now := tickTimes(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), 50*time.Millisecond)

	for i := 1; i < ConfirmationCount; i++ {
		events := d.Process(590, now())
		if len(events) != 0 {
			t.Fatalf("tick %d: expected no events, got %d", i, len(events))
		}
		if d.State() != StateClear {
			t.Fatalf("tick %d: expected CLEAR, got %s", i, d.State())
		}
	}

	events := d.Process(590, now())
	if len(events) != 1 {
		t.Fatalf("confirmation tick: expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Type != EventBlockStart {
		t.Errorf("event type: got %s, want block_start", e.Type)
	}
	if e.BlockCount != 1 {
		t.Errorf("block count: got %d, want 1", e.BlockCount)
	}
	if e.Average != 590 {
		t.Errorf("average: got %d, want 590", e.Average)
	}
	if e.Baseline != 800 {
		t.Errorf("baseline: got %d, want 800", e.Baseline)
	}
	if e.Duration != nil {
		t.Error("block_start must not carry a duration")
	}
	if d.State() != StateBlocked {
		t.Errorf("state: got %s, want BLOCKED", d.State())
	}
}

func TestClearAfterCounterDrainsToZero(t *testing.T) {
	d := mustDetector(t, 800)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := tickTimes(start, 50*time.Millisecond)

	for i := 0; i < ConfirmationCount; i++ {
		d.Process(590, now())
	}
	if d.State() != StateBlocked {
		t.Fatalf("setup: expected BLOCKED, got %s", d.State())
	}

	// Back at baseline level: counter drains one per tick, Clear fires on
	// the tick it reaches exactly zero.
	for i := 1; i < ConfirmationCount; i++ {
		events := d.Process(800, now())
		if len(events) != 0 {
			t.Fatalf("drain tick %d: expected no events, got %d", i, len(events))
		}
		if d.State() != StateBlocked {
			t.Fatalf("drain tick %d: expected BLOCKED, got %s", i, d.State())
		}
	}

	events := d.Process(800, now())
	if len(events) != 1 {
		t.Fatalf("clear tick: expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Type != EventBlockEnd {
		t.Errorf("event type: got %s, want block_end", e.Type)
	}
	if e.Duration == nil {
		t.Fatal("block_end must carry a duration")
	}
	// Blocked at tick 2 (t=100ms), cleared at tick 5 (t=250ms).
	if want := 150 * time.Millisecond; *e.Duration != want {
		t.Errorf("duration: got %v, want %v", *e.Duration, want)
	}
	if d.State() != StateClear {
		t.Errorf("state: got %s, want CLEAR", d.State())
	}

	stats := d.Stats()
	if stats.BlockCount != 1 {
		t.Errorf("stats block count: got %d, want 1", stats.BlockCount)
	}
	if stats.TotalBlocked != *e.Duration {
		t.Errorf("stats total blocked: got %v, want %v", stats.TotalBlocked, *e.Duration)
	}
}

// Counter saturation: a long block must still need exactly
// ConfirmationCount below-threshold ticks to clear.
func TestCounterSaturates(t *testing.T) {
	d := mustDetector(t, 800)
	now := tickTimes(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), 50*time.Millisecond)

	for i := 0; i < 50; i++ {
		d.Process(400, now())
	}
	if d.State() != StateBlocked {
		t.Fatalf("expected BLOCKED after sustained drop, got %s", d.State())
	}

	cleared := 0
	for i := 0; i < ConfirmationCount; i++ {
		cleared += len(d.Process(800, now()))
	}
	if cleared != 1 {
		t.Errorf("expected exactly 1 block_end within %d recovery ticks, got %d", ConfirmationCount, cleared)
	}
	if d.State() != StateClear {
		t.Errorf("state: got %s, want CLEAR", d.State())
	}
}

// Oscillating just around the threshold without sustaining full confirmation
// must not increment the block count.
func TestThresholdChatterDoesNotFire(t *testing.T) {
	d := mustDetector(t, 800)
	now := tickTimes(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), 50*time.Millisecond)

	// 590 is 26.25% below baseline (over threshold); 620 is 22.5% (under).
	for i := 0; i < 20; i++ {
		d.Process(590, now())
		d.Process(590, now())
		events := d.Process(620, now())
		if len(events) != 0 {
			t.Fatalf("cycle %d: unexpected events", i)
		}
	}
	if d.State() != StateClear {
		t.Errorf("state: got %s, want CLEAR", d.State())
	}
	if got := d.Stats().BlockCount; got != 0 {
		t.Errorf("block count: got %d, want 0", got)
	}
}

func TestBlockCountIncrementsOncePerCycle(t *testing.T) {
	d := mustDetector(t, 800)
	now := tickTimes(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), 50*time.Millisecond)

	for cycle := 1; cycle <= 3; cycle++ {
		for i := 0; i < ConfirmationCount; i++ {
			d.Process(500, now())
		}
		for i := 0; i < ConfirmationCount; i++ {
			d.Process(800, now())
		}
		if got := d.Stats().BlockCount; got != cycle {
			t.Errorf("after cycle %d: block count got %d, want %d", cycle, got, cycle)
		}
	}
}

func TestExactThresholdCountsAsBlocked(t *testing.T) {
	d := mustDetector(t, 800)
	now := tickTimes(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), 50*time.Millisecond)

	// 600 is exactly 25% below 800; the comparison is >=.
	for i := 0; i < ConfirmationCount; i++ {
		d.Process(600, now())
	}
	if d.State() != StateBlocked {
		t.Errorf("state at exact threshold: got %s, want BLOCKED", d.State())
	}
}

func TestChangePercent(t *testing.T) {
	d := mustDetector(t, 800)
	d.Process(590, time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	if got := d.ChangePercent(); got != 26.25 {
		t.Errorf("change percent: got %v, want 26.25", got)
	}
}

func TestSetBaselinePreservesStats(t *testing.T) {
	d := mustDetector(t, 800)
	now := tickTimes(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), 50*time.Millisecond)

	// One full cycle, then recalibrate mid-block in a second cycle.
	for i := 0; i < ConfirmationCount; i++ {
		d.Process(500, now())
	}
	for i := 0; i < ConfirmationCount; i++ {
		d.Process(800, now())
	}
	before := d.Stats()

	for i := 0; i < ConfirmationCount; i++ {
		d.Process(500, now())
	}
	if d.State() != StateBlocked {
		t.Fatalf("setup: expected BLOCKED, got %s", d.State())
	}

	if err := d.SetBaseline(650); err != nil {
		t.Fatalf("SetBaseline: %v", err)
	}
	if d.Baseline() != 650 {
		t.Errorf("baseline: got %d, want 650", d.Baseline())
	}
	if d.State() != StateClear {
		t.Errorf("state after recalibration: got %s, want CLEAR", d.State())
	}

	after := d.Stats()
	if after.TotalBlocked != before.TotalBlocked {
		t.Errorf("total blocked changed across recalibration: %v → %v", before.TotalBlocked, after.TotalBlocked)
	}
	// The aborted block still counted its start.
	if after.BlockCount != before.BlockCount+1 {
		t.Errorf("block count: got %d, want %d", after.BlockCount, before.BlockCount+1)
	}
}

func TestSetBaselineRejectsZero(t *testing.T) {
	d := mustDetector(t, 800)
	if err := d.SetBaseline(0); err == nil {
		t.Error("expected error for zero baseline")
	}
	if d.Baseline() != 800 {
		t.Errorf("baseline must be unchanged after rejected set, got %d", d.Baseline())
	}
}
