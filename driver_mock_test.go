package i2s

import (
	"context"
	"testing"
	"time"
)

func TestMockDriverDefaults(t *testing.T) {
	drv := NewMockDriver(nil, nil, nil, nil)
	ctx := context.Background()

	if st := drv.Install(ctx, Port0, DriverConfig{}); st != StatusOK {
		t.Errorf("expected default install status %d, got %d", StatusOK, st)
	}
	if st := drv.SetPin(ctx, Port0, PinAssignment{}); st != StatusOK {
		t.Errorf("expected default set pin status %d, got %d", StatusOK, st)
	}
	buf := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	n, st := drv.Read(ctx, Port0, buf, WaitForever)
	if st != StatusOK {
		t.Errorf("expected default read status %d, got %d", StatusOK, st)
	}
	if n != len(buf) {
		t.Errorf("expected default read to fill the buffer, got %d of %d", n, len(buf))
	}
	for i, b := range buf {
		if b != 0 {
			t.Errorf("expected zero filled buffer, got %#x at %d", b, i)
		}
	}
	if st := drv.Uninstall(ctx, Port0); st != StatusOK {
		t.Errorf("expected default uninstall status %d, got %d", StatusOK, st)
	}
}

func TestMockDriverBehaviors(t *testing.T) {
	installs := 0
	reads := 0
	drv := NewMockDriver(
		func(ctx context.Context, port Port, cfg DriverConfig) Status {
			installs++
			if port != Port1 {
				t.Errorf("expected port %d, got %d", Port1, port)
			}
			return StatusNoMem
		},
		nil,
		func(ctx context.Context, port Port, buf []byte, timeout time.Duration) (int, Status) {
			reads++
			if timeout != 50*time.Millisecond {
				t.Errorf("expected timeout %s, got %s", 50*time.Millisecond, timeout)
			}
			return len(buf) / 2, StatusOK
		},
		func(ctx context.Context, port Port) Status {
			return StatusInvalidArg
		})
	ctx := context.Background()

	if st := drv.Install(ctx, Port1, DriverConfig{}); st != StatusNoMem {
		t.Errorf("expected install status %d, got %d", StatusNoMem, st)
	}
	n, st := drv.Read(ctx, Port1, make([]byte, 64), 50*time.Millisecond)
	if st != StatusOK {
		t.Errorf("expected read status %d, got %d", StatusOK, st)
	}
	if n != 32 {
		t.Errorf("expected short read of 32 bytes, got %d", n)
	}
	if st := drv.Uninstall(ctx, Port1); st != StatusInvalidArg {
		t.Errorf("expected uninstall status %d, got %d", StatusInvalidArg, st)
	}
	if installs != 1 {
		t.Errorf("expected 1 install call, got %d", installs)
	}
	if reads != 1 {
		t.Errorf("expected 1 read call, got %d", reads)
	}
}

func TestMockDriverContextPassthrough(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "marker")
	drv := NewMockDriver(func(c context.Context, port Port, cfg DriverConfig) Status {
		if c.Value(key{}) != "marker" {
			t.Error("expected the caller context to be passed through")
		}
		return StatusOK
	}, nil, nil, nil)
	drv.Install(ctx, Port0, DriverConfig{})
}
