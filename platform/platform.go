// Package platform defines the hardware boundary of the controller: the
// lens PWM sink, the hall sensor input, the wireless command link, the
// battery gauge bus, and the low-power retention primitive. Build-tagged
// providers supply real resources on MCU targets and inert fakes on the
// host.
package platform

import "tinygo.org/x/drivers"

// Default wiring (matches the production board).
const (
	LensPin = 27 // PWM output driving the electrochromic lens
	HallPin = 4  // hall sensor, low = arms open, high = arms closed

	LensPWMFreqHz = 1000
)

// ---- GPIO ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

type GPIOPin interface {
	Number() int
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(bool)
	Get() bool
}

// ---- PWM ----

// PWMHandle drives a single PWM channel. Set takes a raw compare value in
// [0..Top]; duty-percent mapping lives in drivers/lens.
type PWMHandle interface {
	Configure(freqHz uint64, top uint16) error
	Set(raw uint16)
	Top() uint16
}

// ---- Wireless command link ----

// Link delivers opaque inbound command writes. Ack carries the
// protocol-level acknowledgement back to the peer and must not block; the
// channel stack is waiting on it.
type Link interface {
	Frames() <-chan []byte
	Ack()
}

// ---- Low-power retention ----

type WakeCause uint8

const (
	CauseColdBoot WakeCause = iota
	CauseSensor
	CauseTimer
)

// WakeSpec arms the wake sources for a retention request.
type WakeSpec struct {
	SensorPin int
	WakeLevel bool   // pin level that wakes the device (false = arms open)
	TimerMs   uint32 // optional timed wake; 0 disables
}

// Power is the device-wide low-power primitive. EnterRetention does not
// return: execution resumes only through a fresh boot.
type Power interface {
	WakeCause() WakeCause
	EnterRetention(w WakeSpec)
}

// ---- Board ----

// Board bundles the resources the services need. Gauge is nil when the
// board carries no fuel gauge.
type Board struct {
	Lens  PWMHandle
	Hall  GPIOPin
	Link  Link
	Gauge drivers.I2C
	Power Power
}
