// Package protocol implements the wireless command codec shared by the
// device controller and host tooling.
//
// Wire format (first byte dispatches):
//
//	single byte 0x00-0xFF            legacy direct duty (0=clear, 255=full dark)
//	0xA1 [start_hz] [end_hz]         strobe range, clamped 1-50 Hz
//	0xA2 [brightness]                brightness, clamped 0-100 %
//	0xA3 [inh] [hold_in] [exh] [hold_out]  breathing times, tenths of a second
//	0xA4 [minutes]                   session duration, clamped 1-60 min
//	0xA5 [duty]                      static override, clamped 0-100 %
//	0xA6                             resume / restart session
//	0xA7                             sleep immediately
//
// Multi-byte commands start at 0xA1 to avoid colliding with the legacy
// single-byte range, which is reserved in full for app compatibility.
package protocol

import (
	"glasscode-go/errcode"
	"glasscode-go/x/mathx"
)

// Opcodes (wire-exact).
const (
	OpStrobe     = 0xA1
	OpBrightness = 0xA2
	OpBreathing  = 0xA3
	OpMinutes    = 0xA4
	OpOverride   = 0xA5
	OpResume     = 0xA6
	OpSleep      = 0xA7
)

// Configuration bounds.
const (
	MinHz      = 1
	MaxHz      = 50
	MinMinutes = 1
	MaxMinutes = 60
	MaxPercent = 100
)

type Kind uint8

const (
	KindLegacyDuty Kind = iota
	KindStrobe
	KindBrightness
	KindBreathing
	KindMinutes
	KindOverride
	KindResume
	KindSleep
)

func (k Kind) String() string {
	switch k {
	case KindLegacyDuty:
		return "legacy_duty"
	case KindStrobe:
		return "strobe"
	case KindBrightness:
		return "brightness"
	case KindBreathing:
		return "breathing"
	case KindMinutes:
		return "minutes"
	case KindOverride:
		return "override"
	case KindResume:
		return "resume"
	case KindSleep:
		return "sleep"
	default:
		return "unknown"
	}
}

// Command is one decoded, range-checked wireless command. Only the fields
// relevant to Kind are meaningful.
type Command struct {
	Kind Kind

	Duty           uint8 // legacy duty / static override, 0..100
	StartHz, EndHz uint8 // strobe range, 1..50
	Brightness     uint8 // 0..100

	// Breathing times in tenths of a second. Accepted raw 0..255: the wire
	// protocol applies no upper bound here, unlike every other command.
	Inhale, HoldInEnd, Exhale, HoldOutEnd uint8

	Minutes uint8 // 1..60
}

// Parse decodes one inbound write payload. Recognised commands with a short
// payload return errcode.ShortPayload; unknown first bytes return
// errcode.UnknownCommand. Out-of-range values are clamped, never rejected.
func Parse(p []byte) (Command, error) {
	if len(p) == 0 {
		return Command{}, errcode.InvalidPayload
	}

	// Legacy: single byte maps 0..255 onto 0..100 %.
	if len(p) == 1 {
		return Command{
			Kind: KindLegacyDuty,
			Duty: uint8(mathx.RoundDiv(uint16(p[0])*100, 255)),
		}, nil
	}

	switch p[0] {
	case OpStrobe:
		if len(p) < 3 {
			return Command{}, errcode.ShortPayload
		}
		return Command{
			Kind:    KindStrobe,
			StartHz: mathx.Clamp(p[1], MinHz, MaxHz),
			EndHz:   mathx.Clamp(p[2], MinHz, MaxHz),
		}, nil

	case OpBrightness:
		if len(p) < 2 {
			return Command{}, errcode.ShortPayload
		}
		return Command{
			Kind:       KindBrightness,
			Brightness: mathx.Min(p[1], MaxPercent),
		}, nil

	case OpBreathing:
		if len(p) < 5 {
			return Command{}, errcode.ShortPayload
		}
		return Command{
			Kind:       KindBreathing,
			Inhale:     p[1],
			HoldInEnd:  p[2],
			Exhale:     p[3],
			HoldOutEnd: p[4],
		}, nil

	case OpMinutes:
		if len(p) < 2 {
			return Command{}, errcode.ShortPayload
		}
		return Command{
			Kind:    KindMinutes,
			Minutes: mathx.Clamp(p[1], MinMinutes, MaxMinutes),
		}, nil

	case OpOverride:
		if len(p) < 2 {
			return Command{}, errcode.ShortPayload
		}
		return Command{
			Kind: KindOverride,
			Duty: mathx.Min(p[1], MaxPercent),
		}, nil

	case OpResume:
		return Command{Kind: KindResume}, nil

	case OpSleep:
		return Command{Kind: KindSleep}, nil

	default:
		return Command{}, errcode.UnknownCommand
	}
}
