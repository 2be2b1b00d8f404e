// Package heartbeat prints a periodic one-line status over the serial
// console: session mode, last lens duty, battery. Development units run it
// alongside the controller; it touches nothing, it only watches.
package heartbeat

import (
	"context"
	"time"

	"glasscode-go/bus"
	"glasscode-go/types"
	"glasscode-go/x/fmtx"
)

var topicConfigHeartbeat = bus.T("config", "heartbeat")

type Service struct {
	Interval time.Duration // default 10s
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)
	stateSub := conn.Subscribe(bus.T("ctl", "state"))
	defer conn.Unsubscribe(stateSub)
	lensSub := conn.Subscribe(bus.T("lens", "value"))
	defer conn.Unsubscribe(lensSub)
	battSub := conn.Subscribe(bus.T("power", "battery", "value"))
	defer conn.Unsubscribe(battSub)

	var (
		st   types.ControllerState
		lv   types.LensValue
		batt types.BatteryValue
	)

	iv := s.Interval
	if iv <= 0 {
		iv = 10 * time.Second
	}
	tick := time.NewTicker(iv)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat service stopping")
			return
		case m := <-stateSub.Channel():
			if v, ok := m.Payload.(types.ControllerState); ok {
				st = v
			}
		case m := <-lensSub.Channel():
			if v, ok := m.Payload.(types.LensValue); ok {
				lv = v
			}
		case m := <-battSub.Channel():
			if v, ok := m.Payload.(types.BatteryValue); ok {
				batt = v
			}
		case <-tick.C:
			fmtx.Printf("Info: hb active=%v ended=%v override=%v duty=%d batt_mv=%d soc_x10=%d\n",
				st.SessionActive, st.SessionEnded, st.OverrideActive,
				lv.Percent, batt.MilliV, batt.SOCx10)
		case msg := <-cfgSub.Channel():
			// Change tick interval if asked.
			if m, ok := msg.Payload.(map[string]any); ok {
				if ivv, ok := m["interval"]; ok {
					if secs, ok := ivv.(float64); ok && secs > 0 {
						tick.Reset(time.Duration(secs) * time.Second)
						println("Info: heartbeat interval set")
					}
				}
			}
		}
	}
}

// Start launches the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
