package timex

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock for tests. Sleep advances the clock
// instead of blocking.
type Fake struct {
	mu sync.Mutex
	ms int64
}

func NewFake(startMs int64) *Fake { return &Fake{ms: startMs} }

func (f *Fake) NowMs() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ms
}

func (f *Fake) Sleep(d time.Duration) { f.Advance(d) }

func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.ms += d.Milliseconds()
	f.mu.Unlock()
}

func (f *Fake) Set(ms int64) {
	f.mu.Lock()
	f.ms = ms
	f.mu.Unlock()
}
