package controller

// Breathing pacer: a four-phase cycle (inhale, hold-in, exhale, hold-out)
// that scales the lens brightness. Phase durations come in tenths of a
// second; the two holds ramp with session progress, so the cycle slows as
// the session deepens.

type breathPhase uint8

const (
	phaseInhale breathPhase = iota
	phaseHoldIn
	phaseExhale
	phaseHoldOut
)

func (p breathPhase) next() breathPhase { return (p + 1) & 3 }

// Cap on phase transitions per tick. Protects against spinning when every
// phase is zero-length or the clock jumped far ahead.
const maxPhaseAdvances = 4

type breathDurations struct {
	inhale, holdIn, exhale, holdOut int64 // ms
}

func (d breathDurations) of(p breathPhase) int64 {
	switch p {
	case phaseInhale:
		return d.inhale
	case phaseHoldIn:
		return d.holdIn
	case phaseExhale:
		return d.exhale
	default:
		return d.holdOut
	}
}

// breathState carries the pacer across ticks. It is deliberately not reset
// on session restart, so a resume continues the breath rather than
// snapping the lens.
type breathState struct {
	phase   breathPhase
	startMs int64 // start of the current phase
}

// advance moves past the current phase when its duration is exhausted (or
// zero), at most maxPhaseAdvances per call. Each advance re-anchors the
// phase start to now, so a tick's overshoot is absorbed rather than
// carried into the next phase; at most one non-zero phase is consumed per
// call. Durations may change between calls; each phase is measured against
// the duration current when it is checked.
func (b *breathState) advance(nowMs int64, d breathDurations) {
	for i := 0; i < maxPhaseAdvances; i++ {
		cur := d.of(b.phase)
		if nowMs-b.startMs < cur {
			return
		}
		b.startMs = nowMs
		b.phase = b.phase.next()
	}
}

// percent returns the breath brightness scale 0..100 for the current
// instant. Inhale ramps up, exhale ramps down, holds sit at the rails.
func (b *breathState) percent(nowMs int64, d breathDurations) uint8 {
	switch b.phase {
	case phaseHoldIn:
		return 100
	case phaseHoldOut:
		return 0
	}
	cur := d.of(b.phase)
	var bp int64 = 100
	if cur > 0 {
		bp = (nowMs - b.startMs) * 100 / cur
		if bp < 0 {
			bp = 0
		} else if bp > 100 {
			bp = 100
		}
	}
	if b.phase == phaseInhale {
		return uint8(bp)
	}
	return uint8(100 - bp)
}

func tenthsToMs(tenths uint8) int64 { return int64(tenths) * 100 }
