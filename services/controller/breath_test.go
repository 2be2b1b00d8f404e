package controller

import "testing"

func even(t uint8) breathDurations {
	ms := tenthsToMs(t)
	return breathDurations{inhale: ms, holdIn: ms, exhale: ms, holdOut: ms}
}

func TestBreath_PhaseCycle(t *testing.T) {
	b := breathState{}
	d := even(40) // 4 s per phase

	b.advance(0, d)
	if b.phase != phaseInhale {
		t.Fatalf("phase = %v, want inhale", b.phase)
	}
	b.advance(4000, d)
	if b.phase != phaseHoldIn {
		t.Fatalf("phase = %v, want hold-in", b.phase)
	}
	b.advance(8000, d)
	if b.phase != phaseExhale {
		t.Fatalf("phase = %v, want exhale", b.phase)
	}
	b.advance(12000, d)
	if b.phase != phaseHoldOut {
		t.Fatalf("phase = %v, want hold-out", b.phase)
	}
	b.advance(16000, d)
	if b.phase != phaseInhale || b.startMs != 16000 {
		t.Fatalf("phase = %v startMs = %d, want inhale at 16000", b.phase, b.startMs)
	}
}

func TestBreath_ZeroPhasesSkipped(t *testing.T) {
	b := breathState{}
	d := breathDurations{inhale: 1000, holdIn: 0, exhale: 1000, holdOut: 0}

	b.advance(1000, d) // inhale done, hold-in skipped
	if b.phase != phaseExhale {
		t.Fatalf("phase = %v, want exhale", b.phase)
	}
	b.advance(2000, d) // exhale done, hold-out skipped
	if b.phase != phaseInhale {
		t.Fatalf("phase = %v, want inhale", b.phase)
	}
}

func TestBreath_AdvanceCap(t *testing.T) {
	// All-zero durations must not spin: four advances, each re-anchored.
	b := breathState{}
	b.advance(5000, breathDurations{})
	if b.phase != phaseInhale || b.startMs != 5000 {
		t.Fatalf("phase = %v startMs = %d, want full wrap anchored at 5000", b.phase, b.startMs)
	}
}

func TestBreath_OvershootNotCarried(t *testing.T) {
	// A late tick restarts the next phase at "now"; the overshoot does not
	// eat into the following phase, and a jump consumes one phase at most.
	b := breathState{}
	d := breathDurations{inhale: 1000, holdIn: 1000, exhale: 1000, holdOut: 1000}

	b.advance(1500, d) // inhale exhausted 500 ms ago
	if b.phase != phaseHoldIn || b.startMs != 1500 {
		t.Fatalf("phase = %v startMs = %d, want hold-in anchored at 1500", b.phase, b.startMs)
	}

	b.advance(2000, d) // only 500 ms into hold-in
	if b.phase != phaseHoldIn {
		t.Fatalf("phase = %v, want hold-in until 2500", b.phase)
	}

	b.advance(2500, d)
	if b.phase != phaseExhale || b.startMs != 2500 {
		t.Fatalf("phase = %v startMs = %d, want exhale at 2500", b.phase, b.startMs)
	}

	// Clock jump across many phases: one non-zero phase per evaluation.
	b.advance(9000, d)
	if b.phase != phaseHoldOut || b.startMs != 9000 {
		t.Fatalf("phase = %v startMs = %d, want a single advance to hold-out", b.phase, b.startMs)
	}
}

func TestBreath_Percent(t *testing.T) {
	b := breathState{}
	d := even(40)

	cases := []struct {
		nowMs int64
		want  uint8
	}{
		{0, 0},
		{1000, 25},
		{3999, 99},
	}
	for _, c := range cases {
		if got := b.percent(c.nowMs, d); got != c.want {
			t.Errorf("inhale percent(%d) = %d, want %d", c.nowMs, got, c.want)
		}
	}

	b = breathState{phase: phaseHoldIn}
	if got := b.percent(100, d); got != 100 {
		t.Errorf("hold-in percent = %d, want 100", got)
	}

	b = breathState{phase: phaseExhale, startMs: 0}
	if got := b.percent(1000, d); got != 75 {
		t.Errorf("exhale percent = %d, want 75", got)
	}

	b = breathState{phase: phaseHoldOut}
	if got := b.percent(100, d); got != 0 {
		t.Errorf("hold-out percent = %d, want 0", got)
	}
}

func TestBreath_PercentZeroDuration(t *testing.T) {
	// A zero-length inhale pins to full before the next advance.
	b := breathState{}
	d := breathDurations{inhale: 0, holdIn: 1000, exhale: 1000, holdOut: 1000}
	if got := b.percent(0, d); got != 100 {
		t.Errorf("percent = %d, want 100", got)
	}
}
