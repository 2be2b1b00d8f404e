package controller

import (
	"context"
	"time"

	"glasscode-go/bus"
	"glasscode-go/drivers/lens"
	"glasscode-go/protocol"
	"glasscode-go/types"
	"glasscode-go/x/fmtx"
	"glasscode-go/x/timex"
)

// Engine owns the session: it drains pending commands, runs the strobe and
// breathing modulation, and ends the session when the time is up. All
// state mutation happens on its goroutine; other services observe it
// through the retained ctl/state and ctl/settings snapshots.
type Engine struct {
	conn  *bus.Connection
	lens  *lens.Driver
	clock timex.Clock

	st     sessionState
	breath breathState

	clearHalf bool // next strobe half-cycle drives the lens clear

	lastDuty  uint8 // last published modulation duty
	dutyValid bool
	lastLogMs int64
}

// Idle poll interval while overridden, ended, or between sessions.
// Commands are still drained at this cadence.
const idleInterval = 100 * time.Millisecond

const progressLogInterval = 30_000 // ms

func NewEngine(conn *bus.Connection, d *lens.Driver, clock timex.Clock) *Engine {
	now := clock.NowMs()
	return &Engine{
		conn:  conn,
		lens:  d,
		clock: clock,
		st:    newSessionState(now),
		breath: breathState{
			startMs: now,
		},
		lastLogMs: now,
	}
}

// Run blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	e.loadConfig()

	cmdSub := e.conn.Subscribe(bus.T("ctl", "cmd"))
	defer e.conn.Unsubscribe(cmdSub)

	e.publishState()
	e.publishSettings()

	for {
		if ctx.Err() != nil {
			return
		}
		e.drain(cmdSub)
		e.clock.Sleep(e.step())
	}
}

// loadConfig overlays retained config/session settings, if the config
// service published any before we started. Retained delivery happens
// during Subscribe, so a non-blocking read suffices.
func (e *Engine) loadConfig() {
	sub := e.conn.Subscribe(bus.T("config", "session"))
	select {
	case m := <-sub.Channel():
		if s, ok := m.Payload.(types.SessionSettings); ok {
			e.st.settings = s
		}
	default:
	}
	e.conn.Unsubscribe(sub)
}

// drain applies every queued command before the next modulation step, so a
// burst of writes settles into one coherent state.
func (e *Engine) drain(sub *bus.Subscription) {
	for {
		select {
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			cmd, ok := msg.Payload.(protocol.Command)
			if !ok {
				continue
			}
			e.apply(cmd)
		default:
			return
		}
	}
}

func (e *Engine) apply(c protocol.Command) {
	stateDirty, settingsDirty := e.st.apply(c, e.clock.NowMs())
	switch c.Kind {
	case protocol.KindStrobe, protocol.KindBreathing, protocol.KindMinutes, protocol.KindResume:
		// Fresh session: restart strobe phasing and the progress log. The
		// breathing pacer carries on from where it was.
		e.clearHalf = false
		e.dutyValid = false
		e.lastLogMs = e.clock.NowMs()
	}
	if stateDirty {
		e.publishState()
	}
	if settingsDirty {
		e.publishSettings()
	}
}

// step performs one half-cycle of the modulation (or one idle poll) and
// returns how long to sleep before the next.
func (e *Engine) step() time.Duration {
	if e.st.override || !e.st.active {
		return idleInterval
	}

	now := e.clock.NowMs()
	elapsed := now - e.st.startMs
	duration := e.st.durationMs()

	if elapsed >= duration {
		e.complete(now)
		return idleInterval
	}

	s := e.st.settings
	d := breathDurations{
		inhale:  tenthsToMs(s.Inhale),
		holdIn:  tenthsToMs(currentHoldTenths(s.HoldInEnd, elapsed, duration)),
		exhale:  tenthsToMs(s.Exhale),
		holdOut: tenthsToMs(currentHoldTenths(s.HoldOutEnd, elapsed, duration)),
	}
	e.breath.advance(now, d)

	hz := currentHz(s.StartHz, s.EndHz, elapsed, duration)

	if e.clearHalf {
		e.clearHalf = false
		e.lens.SetPercent(0)
		return strobeClear(hz)
	}

	duty := uint8(uint16(e.breath.percent(now, d)) * uint16(s.Brightness) / 100)
	e.clearHalf = true
	e.lens.SetPercent(duty)
	if !e.dutyValid || duty != e.lastDuty {
		e.lastDuty, e.dutyValid = duty, true
		e.publishLens(duty)
	}

	if now-e.lastLogMs >= progressLogInterval {
		e.lastLogMs = now
		fmtx.Printf("[ctl] session %d%% hz*100=%d duty=%d\n",
			int(elapsed*100/duration), int(hz*100), int(duty))
	}
	return strobeDark(hz)
}

// complete ends the session exactly once: lens clear, mode flags flipped,
// snapshot published. The power monitor reacts to the retained state.
func (e *Engine) complete(nowMs int64) {
	e.st.active = false
	e.st.ended = true
	e.lens.SetPercent(0)
	e.dutyValid = false
	e.publishState()
	fmtx.Printf("[ctl] session complete after %d min\n", int(e.st.settings.Minutes))
}

func (e *Engine) publishState() {
	e.conn.Publish(e.conn.NewMessage(
		bus.T("ctl", "state"), e.st.snapshot(e.clock.NowMs()), true))
}

func (e *Engine) publishSettings() {
	e.conn.Publish(e.conn.NewMessage(
		bus.T("ctl", "settings"), e.st.settings, true))
}

func (e *Engine) publishLens(pct uint8) {
	e.conn.Publish(e.conn.NewMessage(
		bus.T("lens", "value"), types.LensValue{Percent: pct}, true))
}
