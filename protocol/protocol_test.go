package protocol

import (
	"testing"

	"glasscode-go/errcode"
)

func TestParse_LegacyDuty(t *testing.T) {
	cases := []struct {
		raw  uint8
		want uint8
	}{
		{0x00, 0},
		{0xFF, 100},
		{0x80, 50}, // round(128*100/255)
		{0x01, 0},  // round(100/255)
	}
	for _, c := range cases {
		cmd, err := Parse([]byte{c.raw})
		if err != nil {
			t.Fatalf("raw 0x%02X: unexpected error %v", c.raw, err)
		}
		if cmd.Kind != KindLegacyDuty || cmd.Duty != c.want {
			t.Errorf("raw 0x%02X: got kind=%v duty=%d, want duty=%d", c.raw, cmd.Kind, cmd.Duty, c.want)
		}
	}
}

func TestParse_StrobeClamps(t *testing.T) {
	cmd, err := Parse([]byte{OpStrobe, 5, 60})
	if err != nil {
		t.Fatal(err)
	}
	if cmd.StartHz != 5 || cmd.EndHz != 50 {
		t.Errorf("got %d->%d, want 5->50", cmd.StartHz, cmd.EndHz)
	}

	cmd, err = Parse([]byte{OpStrobe, 0, 10})
	if err != nil {
		t.Fatal(err)
	}
	if cmd.StartHz != 1 || cmd.EndHz != 10 {
		t.Errorf("got %d->%d, want 1->10", cmd.StartHz, cmd.EndHz)
	}
}

func TestParse_BrightnessClamp(t *testing.T) {
	cmd, err := Parse([]byte{OpBrightness, 150})
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Kind != KindBrightness || cmd.Brightness != 100 {
		t.Errorf("got %d, want 100", cmd.Brightness)
	}
}

func TestParse_BreathingUnclamped(t *testing.T) {
	// The breathing command accepts raw tenths 0..255 with no upper bound.
	cmd, err := Parse([]byte{OpBreathing, 255, 0, 40, 200})
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Inhale != 255 || cmd.HoldInEnd != 0 || cmd.Exhale != 40 || cmd.HoldOutEnd != 200 {
		t.Errorf("unexpected breathing command: %+v", cmd)
	}
}

func TestParse_MinutesClamp(t *testing.T) {
	for _, c := range []struct{ in, want uint8 }{{0, 1}, {10, 10}, {200, 60}} {
		cmd, err := Parse([]byte{OpMinutes, c.in})
		if err != nil {
			t.Fatal(err)
		}
		if cmd.Minutes != c.want {
			t.Errorf("minutes %d: got %d, want %d", c.in, cmd.Minutes, c.want)
		}
	}
}

func TestParse_OverrideAndBare(t *testing.T) {
	cmd, err := Parse([]byte{OpOverride, 50})
	if err != nil || cmd.Kind != KindOverride || cmd.Duty != 50 {
		t.Fatalf("override: got %+v err=%v", cmd, err)
	}
	// Resume and sleep carry no payload but tolerate trailing bytes.
	if cmd, err = Parse([]byte{OpResume, 0xEE}); err != nil || cmd.Kind != KindResume {
		t.Fatalf("resume: got %+v err=%v", cmd, err)
	}
	if cmd, err = Parse([]byte{OpSleep, 0xEE}); err != nil || cmd.Kind != KindSleep {
		t.Fatalf("sleep: got %+v err=%v", cmd, err)
	}
}

func TestParse_ShortPayloads(t *testing.T) {
	// Note: a bare opcode byte (length 1) parses as legacy duty by design,
	// so the shortest malformed extended payload is two bytes.
	for _, p := range [][]byte{
		{OpStrobe, 12},
		{OpBreathing, 40, 40, 40},
	} {
		if _, err := Parse(p); err != errcode.ShortPayload {
			t.Errorf("payload %v: got err=%v, want short_payload", p, err)
		}
	}
}

func TestParse_Unknown(t *testing.T) {
	if _, err := Parse([]byte{0xB0, 1, 2}); err != errcode.UnknownCommand {
		t.Fatalf("got %v, want unknown_command", err)
	}
	if _, err := Parse(nil); err != errcode.InvalidPayload {
		t.Fatalf("got %v, want invalid_payload", err)
	}
}

func TestEncodeParse_Symmetry(t *testing.T) {
	cmd, err := Parse(EncodeStrobe(12, 8))
	if err != nil || cmd.StartHz != 12 || cmd.EndHz != 8 {
		t.Fatalf("strobe: %+v err=%v", cmd, err)
	}
	cmd, err = Parse(EncodeBreathing(40, 40, 40, 40))
	if err != nil || cmd.Kind != KindBreathing || cmd.Inhale != 40 {
		t.Fatalf("breathing: %+v err=%v", cmd, err)
	}
}
