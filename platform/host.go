//go:build !rp2040

package platform

import (
	"sync"

	"tinygo.org/x/drivers"
)

// Host-side fakes. They carry enough behaviour for the service loops and
// package tests to run unmodified on a development machine.

// ----------------------------- PWM (host) ------------------------------------

type HostPWM struct {
	mu   sync.Mutex
	top  uint16
	last uint16
	Hist []uint16 // raw values in Set order
}

func (p *HostPWM) Configure(freqHz uint64, top uint16) error {
	p.mu.Lock()
	p.top = top
	p.mu.Unlock()
	return nil
}

func (p *HostPWM) Set(raw uint16) {
	p.mu.Lock()
	if p.top != 0 && raw > p.top {
		raw = p.top
	}
	p.last = raw
	p.Hist = append(p.Hist, raw)
	p.mu.Unlock()
}

func (p *HostPWM) Top() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.top
}

func (p *HostPWM) Last() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// ----------------------------- GPIO (host) -----------------------------------

type HostPin struct {
	mu     sync.RWMutex
	number int
	level  bool
}

func NewHostPin(number int) *HostPin { return &HostPin{number: number} }

func (p *HostPin) Number() int                    { return p.number }
func (p *HostPin) ConfigureInput(_ Pull) error    { return nil }
func (p *HostPin) ConfigureOutput(init bool) error { p.Set(init); return nil }

func (p *HostPin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *HostPin) Get() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

// ----------------------------- Link (host) -----------------------------------

// HostLink feeds inbound writes from a channel and counts acks.
type HostLink struct {
	mu   sync.Mutex
	ch   chan []byte
	acks int
}

func NewHostLink(queue int) *HostLink {
	if queue <= 0 {
		queue = 8
	}
	return &HostLink{ch: make(chan []byte, queue)}
}

func (l *HostLink) Frames() <-chan []byte { return l.ch }

func (l *HostLink) Ack() {
	l.mu.Lock()
	l.acks++
	l.mu.Unlock()
}

// Inject queues one inbound write; it reports false if the queue is full.
func (l *HostLink) Inject(p []byte) bool {
	select {
	case l.ch <- p:
		return true
	default:
		return false
	}
}

func (l *HostLink) Acks() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.acks
}

// ----------------------------- Power (host) ----------------------------------

// HostPower records retention requests. EnterRetention parks the calling
// goroutine forever, matching the does-not-return contract.
type HostPower struct {
	mu       sync.Mutex
	cause    WakeCause
	requests []WakeSpec
}

func NewHostPower(cause WakeCause) *HostPower { return &HostPower{cause: cause} }

func (p *HostPower) WakeCause() WakeCause {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cause
}

func (p *HostPower) EnterRetention(w WakeSpec) {
	p.mu.Lock()
	p.requests = append(p.requests, w)
	p.mu.Unlock()
	println("[power] retention requested; parking")
	select {}
}

func (p *HostPower) Requests() []WakeSpec {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]WakeSpec(nil), p.requests...)
}

// ----------------------------- I2C (host) ------------------------------------

// HostI2C emulates a MAX17048 fuel gauge well enough for the powermon
// poller: VCELL and SOC register reads return canned values.
type HostI2C struct {
	mu     sync.Mutex
	VCell  uint16 // raw VCELL register
	SOC    uint16 // raw SOC register
	LastTx struct {
		Addr uint16
		W    []byte
		Rn   int
	}
}

var _ drivers.I2C = (*HostI2C)(nil)

func (h *HostI2C) Tx(addr uint16, w, r []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastTx.Addr = addr
	h.LastTx.W = append([]byte(nil), w...)
	h.LastTx.Rn = len(r)
	if len(w) == 1 && len(r) >= 2 {
		var v uint16
		switch w[0] {
		case 0x02: // VCELL
			v = h.VCell
		case 0x04: // SOC
			v = h.SOC
		}
		r[0] = byte(v >> 8)
		r[1] = byte(v)
	}
	return nil
}

// ----------------------------- Board (host) ----------------------------------

// NewBoard assembles a fully fake board for host runs.
func NewBoard() Board {
	lens := &HostPWM{}
	return Board{
		Lens: lens,
		Hall: NewHostPin(HallPin),
		Link: NewHostLink(8),
		// ~3.9 V, 76.5 %: plausible mid-discharge figures.
		Gauge: &HostI2C{VCell: 0xC350, SOC: 0x4C80},
		Power: NewHostPower(CauseColdBoot),
	}
}
