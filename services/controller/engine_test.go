//go:build !rp2040

package controller

import (
	"testing"
	"time"

	"glasscode-go/bus"
	"glasscode-go/drivers/lens"
	"glasscode-go/platform"
	"glasscode-go/protocol"
	"glasscode-go/types"
	"glasscode-go/x/timex"
)

type engineHarness struct {
	eng   *Engine
	clock *timex.Fake
	pwm   *platform.HostPWM
	conn  *bus.Connection
	b     *bus.Bus
}

func newEngineHarness(t *testing.T) *engineHarness {
	t.Helper()
	b := bus.NewBus(16)
	pwm := &platform.HostPWM{}
	d, err := lens.New(pwm)
	if err != nil {
		t.Fatal(err)
	}
	clock := timex.NewFake(1000)
	return &engineHarness{
		eng:   NewEngine(b.NewConnection("engine"), d, clock),
		clock: clock,
		pwm:   pwm,
		conn:  b.NewConnection("test"),
		b:     b,
	}
}

func (h *engineHarness) send(cmd protocol.Command) {
	h.conn.Publish(h.conn.NewMessage(bus.T("ctl", "cmd"), cmd, false))
}

func (h *engineHarness) state(t *testing.T) types.ControllerState {
	t.Helper()
	sub := h.conn.Subscribe(bus.T("ctl", "state"))
	defer sub.Unsubscribe()
	select {
	case m := <-sub.Channel():
		return m.Payload.(types.ControllerState)
	case <-time.After(time.Second):
		t.Fatal("no retained ctl/state")
		return types.ControllerState{}
	}
}

func TestEngine_StrobeAlternates(t *testing.T) {
	h := newEngineHarness(t)
	h.eng.publishState()

	// Dark half first: 12 Hz at session start.
	d := h.eng.step()
	if d != strobeDark(12) {
		t.Fatalf("dark sleep = %v, want %v", d, strobeDark(12))
	}
	h.clock.Advance(d)

	// The clear half sees the frequency for its own instant, fractionally
	// below 12 Hz now that the dark interval has elapsed.
	elapsed := h.clock.NowMs() - 1000
	wantClear := strobeClear(currentHz(12, 8, elapsed, 10*60_000))
	d = h.eng.step()
	if d != wantClear {
		t.Fatalf("clear sleep = %v, want %v", d, wantClear)
	}
	if h.pwm.Last() != 0 {
		t.Fatalf("clear half must drive 0, got raw %d", h.pwm.Last())
	}
}

func TestEngine_BreathShapesDuty(t *testing.T) {
	h := newEngineHarness(t)

	// 2 s into a 4 s inhale: breath 50 %, brightness 100 % -> duty 50 %.
	h.clock.Advance(2 * time.Second)
	h.eng.step()
	if want := lens.RawForPercent(50); h.pwm.Last() != want {
		t.Fatalf("raw = %d, want %d (duty 50)", h.pwm.Last(), want)
	}

	// Halving brightness halves the duty on the next dark half.
	h.eng.apply(protocol.Command{Kind: protocol.KindBrightness, Brightness: 50})
	h.eng.step() // clear half
	h.eng.step() // dark half
	if want := lens.RawForPercent(25); h.pwm.Last() != want {
		t.Fatalf("raw = %d, want %d (duty 25)", h.pwm.Last(), want)
	}
}

func TestEngine_SessionCompletes(t *testing.T) {
	h := newEngineHarness(t)

	h.clock.Advance(10*time.Minute + time.Second)
	if d := h.eng.step(); d != idleInterval {
		t.Fatalf("sleep = %v, want idle", d)
	}
	if h.pwm.Last() != 0 {
		t.Fatalf("lens not cleared on completion: raw %d", h.pwm.Last())
	}
	st := h.state(t)
	if st.SessionActive || !st.SessionEnded {
		t.Fatalf("state = %+v, want ended", st)
	}

	// Ended sessions idle; no further lens writes.
	n := len(h.pwm.Hist)
	h.eng.step()
	if len(h.pwm.Hist) != n {
		t.Fatal("lens written while ended")
	}
}

func TestEngine_ResumeRestartsSession(t *testing.T) {
	h := newEngineHarness(t)

	h.clock.Advance(11 * time.Minute)
	h.eng.step() // completes
	h.eng.apply(protocol.Command{Kind: protocol.KindResume})

	st := h.state(t)
	if !st.SessionActive || st.SessionEnded {
		t.Fatalf("state = %+v, want active", st)
	}
	// Fresh start: back to the start frequency.
	if d := h.eng.step(); d != strobeDark(12) {
		t.Fatalf("sleep = %v, want %v", d, strobeDark(12))
	}
}

func TestEngine_OverrideParksModulation(t *testing.T) {
	h := newEngineHarness(t)

	h.eng.apply(protocol.Command{Kind: protocol.KindOverride, Duty: 70})
	n := len(h.pwm.Hist)
	if d := h.eng.step(); d != idleInterval {
		t.Fatalf("sleep = %v, want idle", d)
	}
	if len(h.pwm.Hist) != n {
		t.Fatal("engine drove the lens while overridden")
	}
	st := h.state(t)
	if !st.OverrideActive || st.OverrideDuty != 70 {
		t.Fatalf("state = %+v, want override 70", st)
	}

	// Resume returns to modulation.
	h.eng.apply(protocol.Command{Kind: protocol.KindResume})
	if d := h.eng.step(); d == idleInterval {
		t.Fatal("still idle after resume")
	}
}

func TestEngine_DrainAppliesQueuedCommands(t *testing.T) {
	h := newEngineHarness(t)
	sub := h.eng.conn.Subscribe(bus.T("ctl", "cmd"))
	defer sub.Unsubscribe()

	h.send(protocol.Command{Kind: protocol.KindMinutes, Minutes: 5})
	h.send(protocol.Command{Kind: protocol.KindStrobe, StartHz: 20, EndHz: 10})

	// Give the bus time to fan out, then drain synchronously.
	deadline := time.After(time.Second)
	for len(sub.Channel()) < 2 {
		select {
		case <-deadline:
			t.Fatal("commands not delivered")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	h.eng.drain(sub)

	if h.eng.st.settings.Minutes != 5 {
		t.Errorf("minutes = %d, want 5", h.eng.st.settings.Minutes)
	}
	if h.eng.st.settings.StartHz != 20 || h.eng.st.settings.EndHz != 10 {
		t.Errorf("strobe = %d->%d, want 20->10", h.eng.st.settings.StartHz, h.eng.st.settings.EndHz)
	}
}

func TestEngine_LoadsRetainedConfig(t *testing.T) {
	h := newEngineHarness(t)
	s := DefaultSettings()
	s.Minutes = 5
	s.StartHz = 20
	h.conn.Publish(h.conn.NewMessage(bus.T("config", "session"), s, true))

	h.eng.loadConfig()
	if h.eng.st.settings.Minutes != 5 || h.eng.st.settings.StartHz != 20 {
		t.Fatalf("settings = %+v, want configured overrides", h.eng.st.settings)
	}
}

func TestEngine_MinutesRestartsSession(t *testing.T) {
	h := newEngineHarness(t)

	h.clock.Advance(2 * time.Minute)
	h.eng.apply(protocol.Command{Kind: protocol.KindMinutes, Minutes: 1})

	// Reconfiguring restarts the run, so the old 2 minutes do not count.
	h.eng.step()
	st := h.state(t)
	if st.SessionEnded || !st.SessionActive {
		t.Fatalf("state = %+v, want running", st)
	}

	// The fresh 1-minute session then completes on schedule.
	h.clock.Advance(61 * time.Second)
	h.eng.step()
	if st = h.state(t); !st.SessionEnded {
		t.Fatalf("state = %+v, want ended", st)
	}
}

func TestEngine_OverrideExcludesSession(t *testing.T) {
	h := newEngineHarness(t)
	h.eng.apply(protocol.Command{Kind: protocol.KindOverride, Duty: 50})
	st := h.state(t)
	if st.SessionActive || !st.OverrideActive {
		t.Fatalf("state = %+v, want override only", st)
	}
}
