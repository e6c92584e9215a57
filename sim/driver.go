// Package sim provides a host-side stand-in for the vendor I2S driver.
// It reproduces the observable contract of the hardware DMA engine: a
// ring of dmacount buffers of dmalen frames filled in the background,
// and a blocking read that drains the ring and returns short on timeout.
// It exists so the binding can be exercised on a development machine
// with no ESP32 attached.
package sim

import (
	"context"
	"sync"
	"time"

	"github.com/mklimuk/i2s"
)

// DefaultMemoryLimit caps the simulated DMA allocation, standing in for
// the vendor driver's out-of-memory failure mode.
const DefaultMemoryLimit = 256 * 1024

// SourceFunc fills one DMA buffer with sample data. The buffer length is
// dmalen frames of the installed configuration.
type SourceFunc func(cfg i2s.DriverConfig, buf []byte)

// Silence leaves the buffer zeroed.
func Silence(cfg i2s.DriverConfig, buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

type Opts struct {
	Source      SourceFunc
	MemoryLimit int
}

type Opt func(*Opts)

func WithSource(src SourceFunc) Opt {
	return func(o *Opts) {
		o.Source = src
	}
}

func WithMemoryLimit(limit int) Opt {
	return func(o *Opts) {
		o.MemoryLimit = limit
	}
}

// Driver implements i2s.Driver in software.
type Driver struct {
	mx    sync.Mutex
	opts  Opts
	ports [i2s.PortMax]*portState
}

type portState struct {
	mx       sync.Mutex
	cfg      i2s.DriverConfig
	pins     i2s.PinAssignment
	ring     chan []byte
	stop     chan struct{}
	leftover []byte
}

func NewDriver(opts ...Opt) *Driver {
	o := Opts{
		Source:      Silence,
		MemoryLimit: DefaultMemoryLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Driver{opts: o}
}

// frameBytes is the size of one frame for the installed configuration.
func frameBytes(cfg i2s.DriverConfig) int {
	return int(cfg.Bits) / 8 * cfg.ChannelFormat.Channels()
}

func (d *Driver) Install(ctx context.Context, port i2s.Port, cfg i2s.DriverConfig) i2s.Status {
	d.mx.Lock()
	defer d.mx.Unlock()
	if port < 0 || port >= i2s.PortMax {
		return i2s.StatusInvalidArg
	}
	if d.ports[port] != nil {
		return i2s.StatusInvalidArg
	}
	// the vendor driver re-checks the dma geometry on install
	if cfg.DMABufCount < 2 || cfg.DMABufCount > 128 {
		return i2s.StatusInvalidArg
	}
	if cfg.DMABufLen < 8 || cfg.DMABufLen > 1024 {
		return i2s.StatusInvalidArg
	}
	frame := frameBytes(cfg)
	if frame == 0 {
		return i2s.StatusInvalidArg
	}
	if cfg.DMABufCount*cfg.DMABufLen*frame > d.opts.MemoryLimit {
		return i2s.StatusNoMem
	}
	ps := &portState{
		cfg:  cfg,
		ring: make(chan []byte, cfg.DMABufCount),
		stop: make(chan struct{}),
	}
	d.ports[port] = ps
	go d.fill(ps)
	return i2s.StatusOK
}

// fill produces DMA buffers at the pace the configured sample rate would
// deliver them, dropping the oldest buffer on overrun like the hardware
// ring does.
func (d *Driver) fill(ps *portState) {
	frame := frameBytes(ps.cfg)
	interval := time.Millisecond
	if ps.cfg.SampleRate > 0 {
		interval = time.Duration(ps.cfg.DMABufLen) * time.Second / time.Duration(ps.cfg.SampleRate)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ps.stop:
			return
		case <-ticker.C:
			buf := make([]byte, frame*ps.cfg.DMABufLen)
			d.opts.Source(ps.cfg, buf)
			select {
			case ps.ring <- buf:
			default:
				// overrun: drop the oldest buffer
				select {
				case <-ps.ring:
				default:
				}
				select {
				case ps.ring <- buf:
				default:
				}
			}
		}
	}
}

func (d *Driver) state(port i2s.Port) *portState {
	d.mx.Lock()
	defer d.mx.Unlock()
	if port < 0 || port >= i2s.PortMax {
		return nil
	}
	return d.ports[port]
}

func (d *Driver) SetPin(ctx context.Context, port i2s.Port, pins i2s.PinAssignment) i2s.Status {
	ps := d.state(port)
	if ps == nil {
		return i2s.StatusInvalidArg
	}
	for _, n := range []int{pins.BCK, pins.WS, pins.DataOut, pins.DataIn} {
		if n != i2s.PinNoChange && (n < 0 || n > 39) {
			return i2s.StatusInvalidArg
		}
	}
	ps.mx.Lock()
	ps.pins = pins
	ps.mx.Unlock()
	return i2s.StatusOK
}

// Pins returns the last routing set on a port, for inspection in tests
// and tooling.
func (d *Driver) Pins(port i2s.Port) (i2s.PinAssignment, bool) {
	ps := d.state(port)
	if ps == nil {
		return i2s.PinAssignment{}, false
	}
	ps.mx.Lock()
	defer ps.mx.Unlock()
	return ps.pins, true
}

func (d *Driver) Read(ctx context.Context, port i2s.Port, buf []byte, timeout time.Duration) (int, i2s.Status) {
	ps := d.state(port)
	if ps == nil || buf == nil {
		return 0, i2s.StatusInvalidArg
	}
	var expire <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expire = t.C
	}
	n := 0
	ps.mx.Lock()
	if len(ps.leftover) > 0 {
		n += copy(buf, ps.leftover)
		ps.leftover = ps.leftover[n:]
	}
	ps.mx.Unlock()
	for n < len(buf) {
		select {
		case b := <-ps.ring:
			c := copy(buf[n:], b)
			n += c
			if c < len(b) {
				ps.mx.Lock()
				ps.leftover = b[c:]
				ps.mx.Unlock()
			}
		case <-expire:
			return n, i2s.StatusOK
		case <-ctx.Done():
			return n, i2s.StatusOK
		case <-ps.stop:
			return n, i2s.StatusOK
		}
	}
	return n, i2s.StatusOK
}

func (d *Driver) Uninstall(ctx context.Context, port i2s.Port) i2s.Status {
	d.mx.Lock()
	defer d.mx.Unlock()
	if port < 0 || port >= i2s.PortMax {
		return i2s.StatusInvalidArg
	}
	ps := d.ports[port]
	if ps == nil {
		return i2s.StatusInvalidArg
	}
	close(ps.stop)
	d.ports[port] = nil
	return i2s.StatusOK
}
