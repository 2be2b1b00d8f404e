// Package link bridges the wireless transport onto the bus: every inbound
// write is acknowledged at the transport level first, then published as an
// opaque frame on link/rx for the controller to decode.
package link

import (
	"context"

	"glasscode-go/bus"
	"glasscode-go/platform"
	"glasscode-go/types"
	"glasscode-go/x/timex"
)

// Start runs the bridge until ctx is cancelled.
func Start(ctx context.Context, conn *bus.Connection, l platform.Link, clock timex.Clock) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-l.Frames():
			if !ok {
				return
			}
			// Ack before decode: the peer's write completes regardless of
			// whether the payload turns out to be valid.
			l.Ack()
			conn.Publish(conn.NewMessage(bus.T("link", "rx"), types.LinkFrame{
				Data: data,
				TSms: clock.NowMs(),
			}, false))
		}
	}
}
