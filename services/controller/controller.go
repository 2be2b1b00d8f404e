// Package controller implements the glasses session controller: the
// command intake that decodes wireless writes, and the engine that runs
// the timed light-and-breathing session on the lens.
package controller

import (
	"context"

	"glasscode-go/bus"
	"glasscode-go/drivers/lens"
	"glasscode-go/errcode"
	"glasscode-go/protocol"
	"glasscode-go/types"
	"glasscode-go/x/fmtx"
)

// StartIntake runs the command intake until ctx is cancelled. It consumes
// raw frames from link/rx, decodes them, and forwards typed commands to
// the engine on ctl/cmd. Direct duty commands also hit the lens here, so
// the wearer sees the effect without waiting for the modulation loop.
func StartIntake(ctx context.Context, conn *bus.Connection, d *lens.Driver) {
	in := &intake{conn: conn, lens: d}
	in.run(ctx)
}

type intake struct {
	conn *bus.Connection
	lens *lens.Driver
}

func (in *intake) run(ctx context.Context) {
	rxSub := in.conn.Subscribe(bus.T("link", "rx"))
	defer in.conn.Unsubscribe(rxSub)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-rxSub.Channel():
			if !ok {
				return
			}
			in.handle(msg)
		}
	}
}

func (in *intake) handle(msg *bus.Message) {
	frame, ok := msg.Payload.(types.LinkFrame)
	if !ok {
		return
	}
	cmd, err := protocol.Parse(frame.Data)
	if err != nil {
		// Unknown opcodes get a diagnostic; short payloads of known
		// commands are dropped without comment.
		if err == errcode.UnknownCommand {
			fmtx.Printf("[ctl] unrecognized write (%d bytes)\n", len(frame.Data))
		}
		if msg.CanReply() {
			in.conn.Reply(msg, types.ErrorReply{Error: err.Error()}, false)
		}
		return
	}

	switch cmd.Kind {
	case protocol.KindLegacyDuty, protocol.KindOverride:
		in.lens.SetPercent(cmd.Duty)
	}

	in.conn.Publish(in.conn.NewMessage(bus.T("ctl", "cmd"), cmd, false))
	if msg.CanReply() {
		in.conn.Reply(msg, types.OKReply{OK: true}, false)
	}
	fmtx.Printf("[ctl] cmd %s\n", cmd.Kind.String())
}
