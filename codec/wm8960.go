// Package codec drives the WM8960 audio codec that usually sits in front
// of the I2S bus on microphone boards. Control is I2C, write-only: the
// codec has no register readback, so last written values are kept in a
// shadow table.
//
// Datasheet reference: Cirrus/Wolfson WM8960, register map chapter.
// Only the input path subset needed for master-receive capture is
// implemented.
//
// Example usage:
//
//	adaptor := nanopi.NewNeoAdaptor()
//	c := codec.NewWM8960(adaptor, func(cfg i2c.Config) { cfg.SetBus(2) })
//	if err := c.Start(); err != nil { log.Fatal(err) }
//	_ = c.EnableMicInput()
//	_ = c.SetInputVolume(0x2B)
//	_ = c.Halt()
package codec

import (
	"fmt"

	"gobot.io/x/gobot/v2/drivers/i2c"
)

// WM8960Address is the fixed 7-bit I2C address.
const WM8960Address = 0x1A

// Register subset (7-bit addresses, 9-bit values)
const (
	regLeftInputVolume  = 0x00
	regRightInputVolume = 0x01
	regPower1           = 0x19
	regADCLPath         = 0x20
	regADCRPath         = 0x21
	regReset            = 0x0F
)

// regPower1 bits: VMIDSEL[1]=50k divider, VREF, AINL, AINR, ADCL, ADCR, MICB
const power1MicCapture = 0b0_1111_1110

// ADC path: connect INPUT1 to the PGA, connect PGA to boost mixer
const adcPathInput1 = 0b1_0010_0000

const maxInputVolume = 0x3F

// input volume update bit, latches left+right together
const volumeIPVU = 0x100

// WM8960 is the codec control driver.
type WM8960 struct {
	drv    *i2c.GenericDriver
	shadow [56]uint16
}

// NewWM8960 binds the codec to a gobot I2C adaptor.
func NewWM8960(conn i2c.Connector, options ...func(i2c.Config)) *WM8960 {
	return &WM8960{drv: i2c.NewGenericDriver(conn, "wm8960", WM8960Address, options...)}
}

// Start establishes the I2C connection.
func (c *WM8960) Start() error { return c.drv.Start() }

// Halt releases the connection.
func (c *WM8960) Halt() error { return c.drv.Halt() }

// Reset restores all registers to their power-on defaults.
func (c *WM8960) Reset() error {
	return c.write(regReset, 0)
}

// EnableMicInput powers the reference, input PGAs and ADCs and routes
// INPUT1 on both channels into the ADC path.
func (c *WM8960) EnableMicInput() error {
	if err := c.write(regPower1, power1MicCapture); err != nil {
		return err
	}
	if err := c.write(regADCLPath, adcPathInput1); err != nil {
		return err
	}
	return c.write(regADCRPath, adcPathInput1)
}

// SetInputVolume sets both input PGAs. vol is the raw 6-bit gain code,
// 0x00 = -17.25dB up to 0x3F = +30dB in 0.75dB steps.
func (c *WM8960) SetInputVolume(vol uint16) error {
	if vol > maxInputVolume {
		return fmt.Errorf("wm8960: input volume %#x out of range [0, %#x]", vol, maxInputVolume)
	}
	if err := c.write(regLeftInputVolume, vol|volumeIPVU); err != nil {
		return err
	}
	return c.write(regRightInputVolume, vol|volumeIPVU)
}

// Register returns the last value written to a register. The hardware is
// write-only, so this reflects driver state, not a readback.
func (c *WM8960) Register(reg byte) uint16 {
	if int(reg) >= len(c.shadow) {
		return 0
	}
	return c.shadow[reg]
}

// write sends one register write: 7-bit address and 9-bit value packed
// into two bytes on the wire.
func (c *WM8960) write(reg byte, val uint16) error {
	err := c.drv.Write([]byte{reg<<1 | byte(val>>8&0x01), byte(val)})
	if err != nil {
		return fmt.Errorf("wm8960: register %#x write failed: %w", reg, err)
	}
	c.shadow[reg] = val & 0x1FF
	return nil
}
