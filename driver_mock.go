package i2s

import (
	"context"
	"time"
)

// InstallBehaviorFunc defines the behavior of the mock driver's Install call.
type InstallBehaviorFunc func(ctx context.Context, port Port, cfg DriverConfig) Status

// SetPinBehaviorFunc defines the behavior of the mock driver's SetPin call.
type SetPinBehaviorFunc func(ctx context.Context, port Port, pins PinAssignment) Status

// ReadBehaviorFunc defines the behavior of the mock driver's Read call.
type ReadBehaviorFunc func(ctx context.Context, port Port, buf []byte, timeout time.Duration) (int, Status)

// UninstallBehaviorFunc defines the behavior of the mock driver's Uninstall call.
type UninstallBehaviorFunc func(ctx context.Context, port Port) Status

// MockDriver is a Driver implementation that uses behavior functions to
// produce results without requiring any hardware. Nil behaviors default
// to success; the default read zero-fills the whole buffer.
//
// Example usage:
//
//	// fixed short reads
//	drv := i2s.NewMockDriver(nil, nil,
//		func(ctx context.Context, port i2s.Port, buf []byte, timeout time.Duration) (int, i2s.Status) {
//			return len(buf) / 2, i2s.StatusOK
//		}, nil)
//	inst, err := i2s.New(ctx, drv, cfg)
type MockDriver struct {
	install   InstallBehaviorFunc
	setPin    SetPinBehaviorFunc
	read      ReadBehaviorFunc
	uninstall UninstallBehaviorFunc
}

// NewMockDriver creates a new mock driver with the given behavior
// functions. Any of them may be nil.
func NewMockDriver(install InstallBehaviorFunc, setPin SetPinBehaviorFunc, read ReadBehaviorFunc, uninstall UninstallBehaviorFunc) *MockDriver {
	return &MockDriver{
		install:   install,
		setPin:    setPin,
		read:      read,
		uninstall: uninstall,
	}
}

func (m *MockDriver) Install(ctx context.Context, port Port, cfg DriverConfig) Status {
	if m.install == nil {
		return StatusOK
	}
	return m.install(ctx, port, cfg)
}

func (m *MockDriver) SetPin(ctx context.Context, port Port, pins PinAssignment) Status {
	if m.setPin == nil {
		return StatusOK
	}
	return m.setPin(ctx, port, pins)
}

func (m *MockDriver) Read(ctx context.Context, port Port, buf []byte, timeout time.Duration) (int, Status) {
	if m.read == nil {
		for i := range buf {
			buf[i] = 0
		}
		return len(buf), StatusOK
	}
	return m.read(ctx, port, buf, timeout)
}

func (m *MockDriver) Uninstall(ctx context.Context, port Port) Status {
	if m.uninstall == nil {
		return StatusOK
	}
	return m.uninstall(ctx, port)
}
