//go:build !rp2040

package link

import (
	"context"
	"testing"
	"time"

	"glasscode-go/bus"
	"glasscode-go/platform"
	"glasscode-go/types"
	"glasscode-go/x/timex"
)

func TestStart_AcksAndPublishes(t *testing.T) {
	b := bus.NewBus(8)
	hl := platform.NewHostLink(4)
	clock := timex.NewFake(42)

	rx := b.NewConnection("test").Subscribe(bus.T("link", "rx"))
	defer rx.Unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Start(ctx, b.NewConnection("link"), hl, clock)

	if !hl.Inject([]byte{0xA2, 50}) {
		t.Fatal("inject failed")
	}

	select {
	case m := <-rx.Channel():
		f := m.Payload.(types.LinkFrame)
		if len(f.Data) != 2 || f.Data[0] != 0xA2 {
			t.Fatalf("frame = %v", f.Data)
		}
		if f.TSms != 42 {
			t.Fatalf("ts = %d, want 42", f.TSms)
		}
	case <-time.After(time.Second):
		t.Fatal("no frame on link/rx")
	}

	// Ack happens even though nothing validated the payload yet.
	if hl.Acks() != 1 {
		t.Fatalf("acks = %d, want 1", hl.Acks())
	}
}
