package controller

import "time"

// Session-progress interpolation. The strobe frequency and the two hold
// times evolve linearly across the session; everything here is a pure
// function of elapsed and total milliseconds.

// progressOf clamps elapsed/duration into [0,1].
func progressOf(elapsedMs, durationMs int64) float32 {
	if durationMs <= 0 {
		return 1
	}
	if elapsedMs <= 0 {
		return 0
	}
	if elapsedMs >= durationMs {
		return 1
	}
	return float32(elapsedMs) / float32(durationMs)
}

// currentHz interpolates start->end over the session, floored at 1 Hz so
// the strobe period stays bounded.
func currentHz(startHz, endHz uint8, elapsedMs, durationMs int64) float32 {
	p := progressOf(elapsedMs, durationMs)
	hz := float32(startHz) + (float32(endHz)-float32(startHz))*p
	if hz < 1 {
		hz = 1
	}
	return hz
}

// currentHoldTenths ramps a hold time from 0 up to its configured end
// value, truncating toward zero.
func currentHoldTenths(endTenths uint8, elapsedMs, durationMs int64) uint8 {
	if durationMs <= 0 {
		return endTenths
	}
	if elapsedMs >= durationMs {
		return endTenths
	}
	if elapsedMs <= 0 {
		return 0
	}
	return uint8(int64(endTenths) * elapsedMs / durationMs)
}

// Strobe timing: within one cycle the lens is dark three times as long as
// it is clear. A full cycle is 1000/hz ms.
func strobeDark(hz float32) time.Duration {
	return time.Duration(750 / hz * float32(time.Millisecond))
}

func strobeClear(hz float32) time.Duration {
	return time.Duration(250 / hz * float32(time.Millisecond))
}
