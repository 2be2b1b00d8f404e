// Package lens drives the electrochromic lens through a PWM channel.
//
// The lens cell does not begin to darken until the drive passes a threshold,
// so duty percent is remapped over a dead zone: 0 stays fully clear, and
// 1..100 maps linearly onto the raw range [deadZone..rawTop].
package lens

import (
	"sync"

	"glasscode-go/platform"
	"glasscode-go/x/mathx"
)

const (
	rawTop   = 1024 // 10-bit resolution
	deadZone = 400  // raw level where the cell starts responding
)

// RawForPercent maps a 0..100 duty percent to the raw PWM compare value.
func RawForPercent(pct uint8) uint16 {
	pct = mathx.Min(pct, 100)
	if pct == 0 {
		return 0
	}
	return deadZone + uint16(uint32(rawTop-deadZone)*uint32(pct)/100)
}

// Driver is safe for concurrent use: the command path and the modulation
// loop both write to it.
type Driver struct {
	mu  sync.Mutex
	pwm platform.PWMHandle
	pct uint8
}

func New(pwm platform.PWMHandle) (*Driver, error) {
	if err := pwm.Configure(platform.LensPWMFreqHz, rawTop); err != nil {
		return nil, err
	}
	pwm.Set(0)
	return &Driver{pwm: pwm}, nil
}

// SetPercent drives the lens to the given darkness percent (0 = clear,
// 100 = fully dark).
func (d *Driver) SetPercent(pct uint8) {
	pct = mathx.Min(pct, 100)
	d.mu.Lock()
	d.pct = pct
	d.pwm.Set(RawForPercent(pct))
	d.mu.Unlock()
}

// Percent reports the last commanded darkness percent.
func (d *Driver) Percent() uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pct
}
