package i2s

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// I2S binds one physical I2S port configured for master receive.
// Typical usage:
//
//	inst, err := i2s.New(ctx, drv, i2s.Config{
//		Port:          i2s.Port0,
//		Mode:          i2s.ModeMaster | i2s.ModeRX,
//		SampleRate:    16000,
//		Bits:          i2s.Bits16,
//		ChannelFormat: i2s.ChannelOnlyLeft,
//		CommFormat:    i2s.CommI2S | i2s.CommMSB,
//		SCK:           i2s.GPIO(26),
//		WS:            i2s.GPIO(25),
//		SDIn:          i2s.GPIO(22),
//	})
//	n, err := inst.ReadInto(ctx, buf, i2s.WaitForever)
//
// Instances are not safe for concurrent use; the port claim registry is
// the only shared state guarded internally.
type I2S struct {
	drv Driver
	cfg Config

	// resolved gpio numbers
	sck   int
	ws    int
	sdout int
	sdin  int
}

// New validates cfg, claims the port and programs the vendor driver.
// Construction fails atomically on validation errors; a driver error
// after the claim leaves the port claimed (see Deinit).
func New(ctx context.Context, drv Driver, cfg Config) (*I2S, error) {
	if drv == nil {
		return nil, errors.New("i2s: driver is required")
	}
	inst := &I2S{drv: drv}
	if err := inst.configure(ctx, cfg); err != nil {
		return nil, err
	}
	return inst, nil
}

// configure runs the full construction sequence: defaults, ordered
// validation, pin resolution, port claim, then driver install and pin
// routing. The claim comes last among the checks so that a rejected
// configuration never leaves a port claimed.
func (i *I2S) configure(ctx context.Context, cfg Config) error {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return err
	}
	sck, err := pinNumber("sck", cfg.SCK)
	if err != nil {
		return err
	}
	ws, err := pinNumber("ws", cfg.WS)
	if err != nil {
		return err
	}
	// sdout stays unresolved until the transmit path exists
	sdin, err := pinNumber("sdin", cfg.SDIn)
	if err != nil {
		return err
	}
	if !ports.acquire(cfg.Port) {
		return ErrPortInUse
	}

	i.cfg = cfg
	i.sck = sck
	i.ws = ws
	i.sdout = PinNoChange
	i.sdin = sdin

	dcfg := DriverConfig{
		Mode:           cfg.Mode,
		SampleRate:     cfg.SampleRate,
		Bits:           cfg.Bits,
		ChannelFormat:  cfg.ChannelFormat,
		CommFormat:     cfg.CommFormat,
		IntrAllocFlags: IntrFlagLevel1,
		DMABufCount:    cfg.DMACount,
		DMABufLen:      cfg.DMALen,
		UseAPLL:        cfg.UseAPLL,
		FixedMCLK:      cfg.FixedMCLK,
	}
	if err := installError(i.drv.Install(ctx, cfg.Port, dcfg)); err != nil {
		return err
	}
	pins := PinAssignment{
		BCK:     i.sck,
		WS:      i.ws,
		DataOut: PinNoChange,
		DataIn:  i.sdin,
	}
	if err := setPinError(i.drv.SetPin(ctx, cfg.Port, pins)); err != nil {
		return err
	}
	return nil
}

// Init tears the instance down and reconfigures it from scratch. The old
// claim and driver installation are gone before the new arguments are
// looked at, so a failed Init leaves the instance released and
// uninstalled, not restored to its previous configuration.
func (i *I2S) Init(ctx context.Context, cfg Config) error {
	ports.release(i.cfg.Port)
	i.drv.Uninstall(ctx, i.cfg.Port)
	return i.configure(ctx, cfg)
}

// Deinit releases the port claim and uninstalls the vendor driver.
// Calling it twice is safe.
func (i *I2S) Deinit(ctx context.Context) {
	ports.release(i.cfg.Port)
	i.drv.Uninstall(ctx, i.cfg.Port)
}

// ReadInto performs one blocking transfer into buf and returns the number
// of bytes actually read, which may be less than len(buf) when the
// timeout expires first. A negative timeout (WaitForever) blocks until
// the buffer is filled.
func (i *I2S) ReadInto(ctx context.Context, buf []byte, timeout time.Duration) (int, error) {
	if i.cfg.Mode != ModeMaster|ModeRX {
		return 0, ErrUnsupportedMode
	}
	if timeout < 0 {
		timeout = WaitForever
	}
	n, st := i.drv.Read(ctx, i.cfg.Port, buf, timeout)
	if st == StatusInvalidArg {
		return 0, ErrReadParam
	}
	return n, nil
}

// Config returns the validated configuration snapshot.
func (i *I2S) Config() Config {
	return i.cfg
}

// Pins returns the resolved gpio numbers for sck, ws, sdout and sdin.
// sdout is PinNoChange until transmit is supported.
func (i *I2S) Pins() PinAssignment {
	return PinAssignment{BCK: i.sck, WS: i.ws, DataOut: i.sdout, DataIn: i.sdin}
}

func (i *I2S) String() string {
	return fmt.Sprintf("I2S(id=%d, mode=%d, samplerate=%d, bits=%d, channelformat=%d, commformat=%d, dmacount=%d, dmalen=%d, useapll=%t, fixedmclk=%d, sck=%d, ws=%d, sdout=%d, sdin=%d)",
		i.cfg.Port, i.cfg.Mode, i.cfg.SampleRate, i.cfg.Bits,
		i.cfg.ChannelFormat, i.cfg.CommFormat,
		i.cfg.DMACount, i.cfg.DMALen,
		i.cfg.UseAPLL, i.cfg.FixedMCLK,
		i.sck, i.ws, i.sdout, i.sdin)
}
