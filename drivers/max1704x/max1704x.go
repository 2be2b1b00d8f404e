// Package max1704x provides a driver for the MAX17048/MAX17049 fuel gauge.
// The gauge runs its ModelGauge algorithm autonomously, so reads are simple
// register transactions with no trigger/collect phase.
//
// The driver avoids floating-point on the hot path; fixed-point helpers
// return millivolts and tenths of a percent.
package max1704x

import (
	"errors"

	"tinygo.org/x/drivers"
)

// I2C address (fixed for this part).
const Address = 0x36

// Registers.
const (
	regVCell   = 0x02 // 78.125 uV/LSB
	regSOC     = 0x04 // 1/256 %/LSB
	regMode    = 0x06
	regVersion = 0x08
	regCmd     = 0xFE
)

const (
	modeQuickStart = 0x4000
	cmdPOR         = 0x5400
)

var ErrProtocol = errors.New("max1704x: protocol error")

// Device wraps an I2C connection to a MAX1704x gauge.
type Device struct {
	bus     drivers.I2C
	Address uint16

	buf   [2]byte
	vcell uint16 // last raw VCELL sample
	soc   uint16 // last raw SOC sample
}

// New creates a new gauge connection. The I2C bus must already be configured.
func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: Address}
}

func (d *Device) readReg(reg byte) (uint16, error) {
	if err := d.bus.Tx(d.Address, []byte{reg}, d.buf[:]); err != nil {
		return 0, err
	}
	return uint16(d.buf[0])<<8 | uint16(d.buf[1]), nil
}

func (d *Device) writeReg(reg byte, v uint16) error {
	return d.bus.Tx(d.Address, []byte{reg, byte(v >> 8), byte(v)}, nil)
}

// Version reads the production version register; useful as a presence probe.
func (d *Device) Version() (uint16, error) {
	return d.readReg(regVersion)
}

// QuickStart restarts the fuel-gauge calculation from the present cell
// voltage. Only use after a known battery swap; it discards learned state.
func (d *Device) QuickStart() error {
	return d.writeReg(regMode, modeQuickStart)
}

// Reset issues a power-on reset command.
func (d *Device) Reset() error {
	return d.writeReg(regCmd, cmdPOR)
}

// Read fetches one voltage and charge sample into the device cache.
func (d *Device) Read() error {
	v, err := d.readReg(regVCell)
	if err != nil {
		return err
	}
	s, err := d.readReg(regSOC)
	if err != nil {
		return err
	}
	d.vcell, d.soc = v, s
	return nil
}

// Accessors operate on the last cached sample.

func (d *Device) RawVCell() uint16 { return d.vcell }
func (d *Device) RawSOC() uint16   { return d.soc }

// MilliVolts returns the cell voltage in mV (78.125 uV/LSB => raw*5/64).
func (d *Device) MilliVolts() uint16 {
	return uint16(uint32(d.vcell) * 5 / 64)
}

// DeciSOC returns the state of charge in tenths of a percent. Readings can
// exceed 100.0% slightly near full charge; callers clamp if they care.
func (d *Device) DeciSOC() uint16 {
	return uint16(uint32(d.soc) * 5 / 128)
}
