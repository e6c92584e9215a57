package i2s

import (
	"context"
	"errors"
	"time"
)

// Status mirrors the esp_err_t codes returned by the vendor I2S driver.
// Codes outside the mapped failure set are passed through as success,
// matching the vendor binding contract.
type Status int

const (
	StatusOK         Status = 0
	StatusFail       Status = -1
	StatusNoMem      Status = 0x101
	StatusInvalidArg Status = 0x102
)

// WaitForever makes ReadInto block until the requested buffer is filled.
const WaitForever time.Duration = -1

// DriverConfig is the install-time configuration of the vendor driver
// (i2s_config_t). It is produced from a validated Config; callers never
// build it by hand.
type DriverConfig struct {
	Mode           Mode
	SampleRate     int
	Bits           BitsPerSample
	ChannelFormat  ChannelFormat
	CommFormat     CommFormat
	IntrAllocFlags int
	DMABufCount    int
	DMABufLen      int
	UseAPLL        bool
	FixedMCLK      int
}

// PinAssignment is the vendor pin routing struct (i2s_pin_config_t).
// Pins carry resolved gpio numbers or PinNoChange.
type PinAssignment struct {
	BCK     int
	WS      int
	DataOut int
	DataIn  int
}

// Driver is the vendor I2S peripheral driver. Implementations own DMA
// buffering, interrupts and clocking; the binding only translates
// configuration and shuttles read results.
type Driver interface {
	Install(ctx context.Context, port Port, cfg DriverConfig) Status
	SetPin(ctx context.Context, port Port, pins PinAssignment) Status
	Read(ctx context.Context, port Port, buf []byte, timeout time.Duration) (int, Status)
	Uninstall(ctx context.Context, port Port) Status
}

// Validation failures. Raised before any hardware state is touched.
var (
	ErrInvalidPort          = errors.New("i2s: port id is not valid")
	ErrUnsupportedMode      = errors.New("i2s: only master rx mode is supported")
	ErrInvalidBits          = errors.New("i2s: bits per sample is not valid")
	ErrInvalidChannelFormat = errors.New("i2s: channel format is not valid")
	ErrInvalidCommFormat    = errors.New("i2s: communication format is not valid")
	ErrInvalidDMACount      = errors.New("i2s: dma buffer count is not valid, allowed range is [2, 128]")
	ErrInvalidDMALen        = errors.New("i2s: dma buffer length is not valid, allowed range is [8, 1024]")
	ErrPortInUse            = errors.New("i2s: port is already in use")
)

// Driver failures. Raised after the port claim has been taken; the claim
// is not rolled back, the caller owns recovery.
var (
	ErrInstallParam = errors.New("i2s: driver install: parameter error")
	ErrInstallNoMem = errors.New("i2s: driver install: out of memory")
	ErrSetPinParam  = errors.New("i2s: set pin: parameter error")
	ErrSetPinIO     = errors.New("i2s: set pin: io error")
	ErrReadParam    = errors.New("i2s: read: parameter error")
)

func installError(st Status) error {
	switch st {
	case StatusInvalidArg:
		return ErrInstallParam
	case StatusNoMem:
		return ErrInstallNoMem
	}
	return nil
}

func setPinError(st Status) error {
	switch st {
	case StatusInvalidArg:
		return ErrSetPinParam
	case StatusFail:
		return ErrSetPinIO
	}
	return nil
}
