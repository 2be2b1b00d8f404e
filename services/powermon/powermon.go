// Package powermon watches the reasons to stop drawing power: the session
// ending, or the wearer folding the glasses closed. Either one clears the
// lens and drops the device into retention, armed to wake when the arms
// open again. It also samples the battery gauge and retains the reading
// on power/battery/value.
package powermon

import (
	"context"
	"time"

	"glasscode-go/bus"
	"glasscode-go/drivers/lens"
	"glasscode-go/drivers/max1704x"
	"glasscode-go/platform"
	"glasscode-go/types"
	"glasscode-go/x/fmtx"
	"glasscode-go/x/timex"
)

const (
	pollInterval = time.Second

	// Consecutive closed polls before sleeping. Filters magnet flutter
	// while the arms move past the sensor.
	closedDebounce = 5

	// Battery sample cadence, in polls.
	batteryEvery = 30
)

type Service struct {
	conn  *bus.Connection
	lens  *lens.Driver
	hall  platform.GPIOPin
	power platform.Power
	clock timex.Clock

	gauge    *max1704x.Device // nil when the board has no fuel gauge
	hasGauge bool

	closedN int
	ended   bool
	polls   int
}

func New(conn *bus.Connection, d *lens.Driver, board platform.Board, clock timex.Clock) *Service {
	s := &Service{
		conn:  conn,
		lens:  d,
		hall:  board.Hall,
		power: board.Power,
		clock: clock,
	}
	if board.Gauge != nil {
		g := max1704x.New(board.Gauge)
		s.gauge = &g
		s.hasGauge = true
	}
	return s
}

// Run blocks until ctx is cancelled or the device enters retention.
func (s *Service) Run(ctx context.Context) {
	stateSub := s.conn.Subscribe(bus.T("ctl", "state"))
	defer s.conn.Unsubscribe(stateSub)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		s.drainState(stateSub)
		s.tick()
		s.clock.Sleep(pollInterval)
	}
}

func (s *Service) drainState(sub *bus.Subscription) {
	for {
		select {
		case m, ok := <-sub.Channel():
			if !ok {
				return
			}
			if st, ok := m.Payload.(types.ControllerState); ok {
				s.ended = st.SessionEnded
			}
		default:
			return
		}
	}
}

// tick runs one poll. It only returns if the device stays awake.
func (s *Service) tick() {
	if s.ended {
		fmtx.Printf("[power] session over, sleeping\n")
		s.retire()
		return
	}

	if s.hall.Get() { // high = arms closed
		s.closedN++
		if s.closedN >= closedDebounce {
			fmtx.Printf("[power] glasses closed, sleeping\n")
			s.retire()
			return
		}
	} else {
		s.closedN = 0
	}

	s.polls++
	if s.hasGauge && s.polls%batteryEvery == 1 {
		s.sampleBattery()
	}
}

// retire clears the lens and enters retention armed to wake when the arms
// open. Does not return on hardware; host fakes park the goroutine.
func (s *Service) retire() {
	s.lens.SetPercent(0)
	s.power.EnterRetention(platform.WakeSpec{
		SensorPin: s.hall.Number(),
		WakeLevel: false, // low = arms open
	})
}

func (s *Service) sampleBattery() {
	if err := s.gauge.Read(); err != nil {
		fmtx.Printf("[power] gauge read failed: %v\n", err)
		return
	}
	s.conn.Publish(s.conn.NewMessage(bus.T("power", "battery", "value"), types.BatteryValue{
		MilliV: int32(s.gauge.MilliVolts()),
		SOCx10: s.gauge.DeciSOC(),
		TSms:   s.clock.NowMs(),
	}, true))
}
