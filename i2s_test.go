package i2s

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockVendorDriver struct {
	mock.Mock
}

func (m *MockVendorDriver) Install(ctx context.Context, port Port, cfg DriverConfig) Status {
	args := m.Called(ctx, port, cfg)
	return args.Get(0).(Status)
}

func (m *MockVendorDriver) SetPin(ctx context.Context, port Port, pins PinAssignment) Status {
	args := m.Called(ctx, port, pins)
	return args.Get(0).(Status)
}

func (m *MockVendorDriver) Read(ctx context.Context, port Port, buf []byte, timeout time.Duration) (int, Status) {
	args := m.Called(ctx, port, buf, timeout)
	return args.Int(0), args.Get(1).(Status)
}

func (m *MockVendorDriver) Uninstall(ctx context.Context, port Port) Status {
	args := m.Called(ctx, port)
	return args.Get(0).(Status)
}

// resetPorts frees the shared claim registry once the test is done.
func resetPorts(t *testing.T) {
	t.Cleanup(func() {
		ports.release(Port0)
		ports.release(Port1)
	})
}

func TestNew_NilDriver(t *testing.T) {
	_, err := New(context.Background(), nil, validConfig(Port0))
	assert.EqualError(t, err, "i2s: driver is required")
}

func TestNew_InstallsAndRoutesPins(t *testing.T) {
	resetPorts(t)
	drv := &MockVendorDriver{}
	expected := DriverConfig{
		Mode:           ModeMaster | ModeRX,
		SampleRate:     16000,
		Bits:           Bits16,
		ChannelFormat:  ChannelOnlyLeft,
		CommFormat:     CommI2S | CommMSB,
		IntrAllocFlags: IntrFlagLevel1,
		DMABufCount:    DefaultDMACount,
		DMABufLen:      DefaultDMALen,
	}
	drv.On("Install", mock.Anything, Port0, expected).Return(StatusOK).Once()
	drv.On("SetPin", mock.Anything, Port0, PinAssignment{BCK: 26, WS: 25, DataOut: PinNoChange, DataIn: 22}).Return(StatusOK).Once()

	inst, err := New(context.Background(), drv, validConfig(Port0))
	assert.NoError(t, err)
	assert.True(t, PortInUse(Port0))
	assert.Equal(t, PinAssignment{BCK: 26, WS: 25, DataOut: PinNoChange, DataIn: 22}, inst.Pins())
	assert.Equal(t, DefaultDMACount, inst.Config().DMACount)
	assert.Equal(t, DefaultDMALen, inst.Config().DMALen)
	drv.AssertExpectations(t)
}

func TestNew_PortExclusive(t *testing.T) {
	resetPorts(t)
	drv := &MockVendorDriver{}
	drv.On("Install", mock.Anything, Port0, mock.Anything).Return(StatusOK).Once()
	drv.On("SetPin", mock.Anything, Port0, mock.Anything).Return(StatusOK).Once()

	_, err := New(context.Background(), drv, validConfig(Port0))
	assert.NoError(t, err)

	_, err = New(context.Background(), drv, validConfig(Port0))
	assert.ErrorIs(t, err, ErrPortInUse)
	drv.AssertExpectations(t)
}

func TestNew_ValidationDoesNotClaim(t *testing.T) {
	resetPorts(t)
	drv := &MockVendorDriver{}

	cfg := validConfig(Port0)
	cfg.Bits = 12
	_, err := New(context.Background(), drv, cfg)
	assert.ErrorIs(t, err, ErrInvalidBits)
	assert.False(t, PortInUse(Port0))
	drv.AssertNotCalled(t, "Install", mock.Anything, mock.Anything, mock.Anything)
}

func TestNew_PinErrors(t *testing.T) {
	resetPorts(t)
	drv := &MockVendorDriver{}

	cfg := validConfig(Port0)
	cfg.SCK = nil
	_, err := New(context.Background(), drv, cfg)
	assert.EqualError(t, err, "i2s: sck pin is required")

	cfg = validConfig(Port0)
	cfg.WS = GPIO(40)
	_, err = New(context.Background(), drv, cfg)
	assert.EqualError(t, err, "i2s: ws pin 40 is not a valid gpio")

	assert.False(t, PortInUse(Port0))
	drv.AssertNotCalled(t, "Install", mock.Anything, mock.Anything, mock.Anything)
}

func TestNew_InstallFailure(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		expected error
	}{
		{"parameter error", StatusInvalidArg, ErrInstallParam},
		{"out of memory", StatusNoMem, ErrInstallNoMem},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resetPorts(t)
			drv := &MockVendorDriver{}
			drv.On("Install", mock.Anything, Port0, mock.Anything).Return(test.status).Once()

			_, err := New(context.Background(), drv, validConfig(Port0))
			assert.ErrorIs(t, err, test.expected)
			// the claim survives the failure; the caller recovers via Deinit
			assert.True(t, PortInUse(Port0))
			drv.AssertNotCalled(t, "SetPin", mock.Anything, mock.Anything, mock.Anything)
			drv.AssertExpectations(t)
		})
	}
}

func TestNew_SetPinFailure(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		expected error
	}{
		{"parameter error", StatusInvalidArg, ErrSetPinParam},
		{"io error", StatusFail, ErrSetPinIO},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resetPorts(t)
			drv := &MockVendorDriver{}
			drv.On("Install", mock.Anything, Port0, mock.Anything).Return(StatusOK).Once()
			drv.On("SetPin", mock.Anything, Port0, mock.Anything).Return(test.status).Once()

			_, err := New(context.Background(), drv, validConfig(Port0))
			assert.ErrorIs(t, err, test.expected)
			assert.True(t, PortInUse(Port0))
			drv.AssertExpectations(t)
		})
	}
}

func TestNew_UnknownStatusPassesThrough(t *testing.T) {
	resetPorts(t)
	drv := &MockVendorDriver{}
	drv.On("Install", mock.Anything, Port0, mock.Anything).Return(Status(0x107)).Once()
	drv.On("SetPin", mock.Anything, Port0, mock.Anything).Return(Status(0x107)).Once()

	inst, err := New(context.Background(), drv, validConfig(Port0))
	assert.NoError(t, err)
	assert.NotNil(t, inst)
	drv.AssertExpectations(t)
}

func TestReadInto(t *testing.T) {
	resetPorts(t)
	drv := &MockVendorDriver{}
	drv.On("Install", mock.Anything, Port0, mock.Anything).Return(StatusOK).Once()
	drv.On("SetPin", mock.Anything, Port0, mock.Anything).Return(StatusOK).Once()

	inst, err := New(context.Background(), drv, validConfig(Port0))
	assert.NoError(t, err)

	buf := make([]byte, 512)
	drv.On("Read", mock.Anything, Port0, buf, 100*time.Millisecond).Return(256, StatusOK).Once()
	n, err := inst.ReadInto(context.Background(), buf, 100*time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, 256, n)
	assert.LessOrEqual(t, n, len(buf))

	// every negative timeout is normalized to the blocking sentinel
	drv.On("Read", mock.Anything, Port0, buf, WaitForever).Return(512, StatusOK).Once()
	n, err = inst.ReadInto(context.Background(), buf, -5*time.Second)
	assert.NoError(t, err)
	assert.Equal(t, 512, n)

	drv.On("Read", mock.Anything, Port0, buf, WaitForever).Return(0, StatusInvalidArg).Once()
	_, err = inst.ReadInto(context.Background(), buf, WaitForever)
	assert.ErrorIs(t, err, ErrReadParam)

	drv.AssertExpectations(t)
}

func TestReadInto_ModeGate(t *testing.T) {
	inst := &I2S{drv: NewMockDriver(nil, nil, nil, nil)}
	inst.cfg.Mode = ModeMaster | ModeTX
	_, err := inst.ReadInto(context.Background(), make([]byte, 16), WaitForever)
	assert.ErrorIs(t, err, ErrUnsupportedMode)
}

func TestDeinit_Idempotent(t *testing.T) {
	resetPorts(t)
	drv := &MockVendorDriver{}
	drv.On("Install", mock.Anything, Port0, mock.Anything).Return(StatusOK)
	drv.On("SetPin", mock.Anything, Port0, mock.Anything).Return(StatusOK)
	drv.On("Uninstall", mock.Anything, Port0).Return(StatusOK)

	inst, err := New(context.Background(), drv, validConfig(Port0))
	assert.NoError(t, err)

	inst.Deinit(context.Background())
	assert.False(t, PortInUse(Port0))
	inst.Deinit(context.Background())
	assert.False(t, PortInUse(Port0))

	// the port is claimable again
	_, err = New(context.Background(), drv, validConfig(Port0))
	assert.NoError(t, err)
}

func TestInit_Reconfigure(t *testing.T) {
	resetPorts(t)
	drv := &MockVendorDriver{}
	drv.On("Install", mock.Anything, Port0, mock.Anything).Return(StatusOK).Once()
	drv.On("SetPin", mock.Anything, Port0, mock.Anything).Return(StatusOK).Once()

	inst, err := New(context.Background(), drv, validConfig(Port0))
	assert.NoError(t, err)

	drv.On("Uninstall", mock.Anything, Port0).Return(StatusOK).Once()
	drv.On("Install", mock.Anything, Port1, mock.Anything).Return(StatusOK).Once()
	drv.On("SetPin", mock.Anything, Port1, mock.Anything).Return(StatusOK).Once()

	err = inst.Init(context.Background(), validConfig(Port1))
	assert.NoError(t, err)
	assert.False(t, PortInUse(Port0))
	assert.True(t, PortInUse(Port1))
	assert.Equal(t, Port1, inst.Config().Port)
	drv.AssertExpectations(t)
}

func TestInit_FailureLeavesReleased(t *testing.T) {
	resetPorts(t)
	drv := &MockVendorDriver{}
	drv.On("Install", mock.Anything, Port0, mock.Anything).Return(StatusOK).Once()
	drv.On("SetPin", mock.Anything, Port0, mock.Anything).Return(StatusOK).Once()

	inst, err := New(context.Background(), drv, validConfig(Port0))
	assert.NoError(t, err)

	drv.On("Uninstall", mock.Anything, Port0).Return(StatusOK).Once()
	bad := validConfig(Port0)
	bad.DMACount = 1
	err = inst.Init(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidDMACount)
	// the old claim and installation are already gone
	assert.False(t, PortInUse(Port0))
	drv.AssertExpectations(t)
}

func TestI2S_String(t *testing.T) {
	resetPorts(t)
	drv := NewMockDriver(nil, nil, nil, nil)
	inst, err := New(context.Background(), drv, validConfig(Port0))
	assert.NoError(t, err)
	assert.Equal(t,
		"I2S(id=0, mode=9, samplerate=16000, bits=16, channelformat=4, commformat=3, dmacount=16, dmalen=64, useapll=false, fixedmclk=0, sck=26, ws=25, sdout=-1, sdin=22)",
		inst.String())
}
