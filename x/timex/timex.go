package timex

import "time"

// Clock abstracts time and suspension for tasks that pace themselves with
// fixed-duration sleeps. Production code uses Wall; tests substitute a fake
// that advances a simulated clock instead of waiting.
type Clock interface {
	NowMs() int64
	Sleep(d time.Duration)
}

// Wall is the wall-time clock.
type Wall struct{}

func (Wall) NowMs() int64          { return time.Now().UnixMilli() }
func (Wall) Sleep(d time.Duration) { time.Sleep(d) }

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }
