//go:build rp2040

package platform

import (
	"context"
	"sync"
	"time"

	"glasscode-go/x/mathx"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// Board wiring beyond the shared pin constants.
const (
	uartTXPin = 0 // UART0 to the BLE bridge module
	uartRXPin = 1
	i2cSDAPin = 2 // I2C1 to the fuel gauge
	i2cSCLPin = 3

	uartBaud = 115200
	i2cFreq  = 100_000
)

// ----------------------------- GPIO ------------------------------------------

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) Number() int { return r.n }

func (r *rp2Pin) ConfigureInput(pull Pull) error {
	var mode machine.PinMode
	switch pull {
	case PullUp:
		mode = machine.PinInputPullup
	case PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(b bool) { r.p.Set(b) }
func (r *rp2Pin) Get() bool  { return r.p.Get() }

// ----------------------------- PWM -------------------------------------------

// Local interface to avoid depending on an unexported concrete type in machine.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Top() uint32
	Set(channel uint8, value uint32)
}

func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

// rp2PWM drives one channel of one slice. The lens is the only PWM consumer
// on this board, so there is no slice-sharing policy here.
type rp2PWM struct {
	mu sync.Mutex

	pin   int
	ctrl  pwmCtrl
	chIdx uint8 // 0 => A, 1 => B

	reqTop uint16 // logical resolution (0..reqTop)
	hwTop  uint32 // controller.Top() after Configure
}

func newRP2PWM(pin int) (*rp2PWM, error) {
	sliceNum, err := machine.PWMPeripheral(machine.Pin(pin))
	if err != nil {
		return nil, err
	}
	return &rp2PWM{
		pin:   pin,
		ctrl:  pwmGroupBySlice(sliceNum),
		chIdx: uint8(pin & 1),
	}, nil
}

func (p *rp2PWM) Configure(freqHz uint64, top uint16) error {
	freqHz = mathx.Max(freqHz, 1)
	top = mathx.Max(top, 1)

	if err := p.ctrl.Configure(machine.PWMConfig{Period: uint64(time.Second) / freqHz}); err != nil {
		return err
	}
	machine.Pin(p.pin).Configure(machine.PinConfig{Mode: machine.PinPWM})

	p.mu.Lock()
	p.reqTop = top
	p.hwTop = p.ctrl.Top()
	p.mu.Unlock()
	return nil
}

func (p *rp2PWM) Set(raw uint16) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hwTop == 0 || p.reqTop == 0 {
		return
	}
	raw = mathx.Min(raw, p.reqTop)
	// Scale from logical [0..reqTop] to hardware [0..hwTop].
	p.ctrl.Set(p.chIdx, (uint32(raw)*p.hwTop)/uint32(p.reqTop))
}

func (p *rp2PWM) Top() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reqTop
}

// ----------------------------- Link ------------------------------------------

// uartLink reads framed command writes from the BLE bridge module over UART.
// Inbound frame: 0x5A, length byte, payload. Ack sends a single 0x06 back.
const (
	frameSOF = 0x5A
	frameAck = 0x06
)

type uartLink struct {
	u  *uartx.UART
	ch chan []byte
}

func newUARTLink(u *uartx.UART) *uartLink {
	l := &uartLink{u: u, ch: make(chan []byte, 8)}
	go l.readLoop()
	return l
}

func (l *uartLink) Frames() <-chan []byte { return l.ch }

func (l *uartLink) Ack() {
	_, _ = l.u.Write([]byte{frameAck})
}

func (l *uartLink) readLoop() {
	ctx := context.Background()
	buf := make([]byte, 64)
	var frame []byte
	need := -1 // -1: hunting SOF; 0: expecting length; >0: payload bytes left

	for {
		n, err := l.u.RecvSomeContext(ctx, buf)
		if err != nil {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		for _, b := range buf[:n] {
			switch {
			case need == -1:
				if b == frameSOF {
					need = 0
				}
			case need == 0:
				if b == 0 {
					need = -1 // empty frame, drop
					continue
				}
				need = int(b)
				frame = make([]byte, 0, need)
			default:
				frame = append(frame, b)
				need--
				if need == 0 {
					select {
					case l.ch <- frame:
					default:
						// Consumer stalled: drop rather than wedge the UART.
					}
					frame = nil
					need = -1
				}
			}
		}
	}
}

// ----------------------------- Power -----------------------------------------

// rp2Power implements retention in software: the RP2040 lacks the deep-sleep
// wake controller this firmware was designed around, so EnterRetention parks
// with outputs off, polls the wake pin, and resets the chip on wake. Wake
// cause attribution is therefore lost across the reset and WakeCause always
// reports a cold boot on this target.
type rp2Power struct{}

func (rp2Power) WakeCause() WakeCause { return CauseColdBoot }

func (rp2Power) EnterRetention(w WakeSpec) {
	pin := machine.Pin(w.SensorPin)
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	deadline := int64(-1)
	if w.TimerMs > 0 {
		deadline = time.Now().UnixMilli() + int64(w.TimerMs)
	}
	for {
		if pin.Get() == w.WakeLevel {
			break
		}
		if deadline >= 0 && time.Now().UnixMilli() >= deadline {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	machine.CPUReset()
}

// ----------------------------- Board -----------------------------------------

// NewBoard claims and configures the real resources.
func NewBoard() Board {
	lens, err := newRP2PWM(LensPin)
	if err != nil {
		panic("lens pin has no PWM slice")
	}

	hall := &rp2Pin{p: machine.Pin(HallPin), n: HallPin}
	_ = hall.ConfigureInput(PullUp)

	_ = uartx.UART0.Configure(uartx.UARTConfig{
		BaudRate: uartBaud,
		TX:       machine.Pin(uartTXPin),
		RX:       machine.Pin(uartRXPin),
	})

	sda := machine.Pin(i2cSDAPin)
	scl := machine.Pin(i2cSCLPin)
	sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
	scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
	_ = machine.I2C1.Configure(machine.I2CConfig{SDA: sda, SCL: scl, Frequency: i2cFreq})

	return Board{
		Lens:  lens,
		Hall:  hall,
		Link:  newUARTLink(uartx.UART0),
		Gauge: machine.I2C1,
		Power: rp2Power{},
	}
}
