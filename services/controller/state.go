package controller

import (
	"glasscode-go/protocol"
	"glasscode-go/types"
)

// DefaultSettings are the factory defaults, applied at every cold boot.
// The session starts immediately: the device is worn the moment it powers
// on.
func DefaultSettings() types.SessionSettings {
	return types.SessionSettings{
		StartHz:    12,
		EndHz:      8,
		Brightness: 100,
		Inhale:     40, // tenths of a second
		HoldInEnd:  40,
		Exhale:     40,
		HoldOutEnd: 40,
		Minutes:    10,
	}
}

// sessionState is the engine's single mutable view of the device mode.
// Only the engine goroutine touches it.
type sessionState struct {
	settings types.SessionSettings

	active       bool
	ended        bool
	override     bool
	overrideDuty uint8

	startMs int64 // session start, engine clock
}

func newSessionState(nowMs int64) sessionState {
	return sessionState{
		settings: DefaultSettings(),
		active:   true,
		startMs:  nowMs,
	}
}

func (s *sessionState) durationMs() int64 {
	return int64(s.settings.Minutes) * 60_000
}

// restart re-enters session mode with a fresh start time. Override mode
// and session mode are mutually exclusive; entering one leaves the other.
func (s *sessionState) restart(nowMs int64) {
	s.active = true
	s.ended = false
	s.override = false
	s.startMs = nowMs
}

// apply folds one decoded command into the state. It reports which of the
// retained snapshots became stale: mode flags, settings, or both.
func (s *sessionState) apply(c protocol.Command, nowMs int64) (stateDirty, settingsDirty bool) {
	switch c.Kind {
	case protocol.KindLegacyDuty, protocol.KindOverride:
		// Direct duty control parks the modulation loop. The lens itself was
		// already driven on the command path for responsiveness.
		s.override = true
		s.overrideDuty = c.Duty
		s.active = false
		return true, false

	case protocol.KindStrobe:
		// Reconfiguring the run restarts it; only brightness is a pure
		// settings tweak.
		s.settings.StartHz = c.StartHz
		s.settings.EndHz = c.EndHz
		s.restart(nowMs)
		return true, true

	case protocol.KindBrightness:
		s.settings.Brightness = c.Brightness
		return false, true

	case protocol.KindBreathing:
		s.settings.Inhale = c.Inhale
		s.settings.HoldInEnd = c.HoldInEnd
		s.settings.Exhale = c.Exhale
		s.settings.HoldOutEnd = c.HoldOutEnd
		s.restart(nowMs)
		return true, true

	case protocol.KindMinutes:
		s.settings.Minutes = c.Minutes
		s.restart(nowMs)
		return true, true

	case protocol.KindResume:
		s.restart(nowMs)
		return true, false

	case protocol.KindSleep:
		// Only the mode flips here; the power monitor clears the lens and
		// requests retention on its next poll.
		s.active = false
		s.ended = true
		s.override = false
		return true, false
	}
	return false, false
}

func (s *sessionState) snapshot(nowMs int64) types.ControllerState {
	return types.ControllerState{
		SessionActive:  s.active,
		SessionEnded:   s.ended,
		OverrideActive: s.override,
		OverrideDuty:   s.overrideDuty,
		TSms:           nowMs,
	}
}
