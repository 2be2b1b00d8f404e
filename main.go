package main

import (
	"context"
	"time"

	"glasscode-go/bus"
	"glasscode-go/drivers/lens"
	"glasscode-go/platform"
	"glasscode-go/services/config"
	"glasscode-go/services/controller"
	"glasscode-go/services/heartbeat"
	"glasscode-go/services/link"
	"glasscode-go/services/powermon"
	"glasscode-go/x/timex"
)

// Timed backstop when re-entering retention from a spurious wake; the
// original hardware re-checks every second.
const rearmTimerMs = 1000

// bootRecheck guards against a wake/sleep spin: a sensor or timer wake may
// be a false alarm, the magnet swinging past the sensor without the
// glasses actually opening. Settle, re-read, and go straight back to sleep
// if the arms are still closed. Cold boots skip the check. Returns only
// when startup should continue.
func bootRecheck(p platform.Power, hall platform.GPIOPin, clock timex.Clock) {
	switch p.WakeCause() {
	case platform.CauseSensor, platform.CauseTimer:
		clock.Sleep(50 * time.Millisecond)
		if hall.Get() { // still closed
			p.EnterRetention(platform.WakeSpec{
				SensorPin: hall.Number(),
				WakeLevel: false,
				TimerMs:   rearmTimerMs,
			})
		}
	}
}

func main() {
	board := platform.NewBoard()
	clock := timex.Wall{}

	bootRecheck(board.Power, board.Hall, clock)

	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	d, err := lens.New(board.Lens)
	if err != nil {
		println("lens init failed:", err.Error())
		return
	}

	b := bus.NewBus(16)
	ctx := context.Background()

	if err := config.Publish(b.NewConnection("config"), "glasses", controller.DefaultSettings()); err != nil {
		println("config load failed, using defaults")
	}

	go link.Start(ctx, b.NewConnection("link"), board.Link, clock)
	go controller.StartIntake(ctx, b.NewConnection("intake"), d)
	go powermon.New(b.NewConnection("powermon"), d, board, clock).Run(ctx)
	_ = (&heartbeat.Service{}).Start(ctx, b.NewConnection("heartbeat"))

	// The engine owns the session; it runs on the main goroutine and the
	// session starts immediately.
	controller.NewEngine(b.NewConnection("engine"), d, clock).Run(ctx)
}
