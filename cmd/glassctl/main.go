//go:build !rp2040

// glassctl is a small host console for exercising the glasses over a
// serial bridge. It reads commands from stdin, encodes them with the wire
// protocol, and writes the payload either to a device file or, with no
// -dev flag, as hex on stdout for inspection.
//
// Commands:
//
//	duty <0-255>                       legacy single-byte duty
//	strobe <start_hz> <end_hz>
//	brightness <0-100>
//	breathing <inh> <hold_in> <exh> <hold_out>   tenths of a second
//	minutes <1-60>
//	override <0-100>
//	resume
//	sleep
//	quit
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/shlex"

	"glasscode-go/protocol"
)

func main() {
	dev := flag.String("dev", "", "serial device to write to (default: hex to stdout)")
	flag.Parse()

	var out *os.File
	if *dev != "" {
		f, err := os.OpenFile(*dev, os.O_RDWR, 0)
		if err != nil {
			fmt.Fprintln(os.Stderr, "glassctl:", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	sc := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for sc.Scan() {
		args, err := shlex.Split(sc.Text())
		if err != nil {
			fmt.Fprintln(os.Stderr, "parse:", err)
			fmt.Print("> ")
			continue
		}
		if len(args) == 0 {
			fmt.Print("> ")
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return
		}
		payload, err := encode(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			fmt.Print("> ")
			continue
		}
		if err := send(out, payload); err != nil {
			fmt.Fprintln(os.Stderr, "write:", err)
		}
		fmt.Print("> ")
	}
}

func encode(args []string) ([]byte, error) {
	n := func(i int) (uint8, error) {
		if i >= len(args) {
			return 0, fmt.Errorf("%s: missing argument", args[0])
		}
		v, err := strconv.ParseUint(args[i], 10, 8)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not a byte value", args[0], args[i])
		}
		return uint8(v), nil
	}

	switch args[0] {
	case "duty":
		v, err := n(1)
		if err != nil {
			return nil, err
		}
		return protocol.EncodeLegacyDuty(v), nil
	case "strobe":
		a, err := n(1)
		if err != nil {
			return nil, err
		}
		b, err := n(2)
		if err != nil {
			return nil, err
		}
		return protocol.EncodeStrobe(a, b), nil
	case "brightness":
		v, err := n(1)
		if err != nil {
			return nil, err
		}
		return protocol.EncodeBrightness(v), nil
	case "breathing":
		var t [4]uint8
		for i := range t {
			v, err := n(i + 1)
			if err != nil {
				return nil, err
			}
			t[i] = v
		}
		return protocol.EncodeBreathing(t[0], t[1], t[2], t[3]), nil
	case "minutes":
		v, err := n(1)
		if err != nil {
			return nil, err
		}
		return protocol.EncodeMinutes(v), nil
	case "override":
		v, err := n(1)
		if err != nil {
			return nil, err
		}
		return protocol.EncodeOverride(v), nil
	case "resume":
		return protocol.EncodeResume(), nil
	case "sleep":
		return protocol.EncodeSleep(), nil
	default:
		return nil, fmt.Errorf("unknown command %q", args[0])
	}
}

// send frames the payload the way the BLE bridge does on the wire:
// SOF, length, payload. With no device it prints the framed bytes as hex.
func send(out *os.File, payload []byte) error {
	framed := append([]byte{0x5A, byte(len(payload))}, payload...)
	if out == nil {
		for i, b := range framed {
			if i > 0 {
				fmt.Print(" ")
			}
			fmt.Printf("%02X", b)
		}
		fmt.Println()
		return nil
	}
	_, err := out.Write(framed)
	return err
}
