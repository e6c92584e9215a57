package i2s

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig(port Port) Config {
	return Config{
		Port:          port,
		Mode:          ModeMaster | ModeRX,
		SampleRate:    16000,
		Bits:          Bits16,
		ChannelFormat: ChannelOnlyLeft,
		CommFormat:    CommI2S | CommMSB,
		SCK:           GPIO(26),
		WS:            GPIO(25),
		SDIn:          GPIO(22),
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		expected error
	}{
		{"valid", func(c *Config) {}, nil},
		{"port negative", func(c *Config) { c.Port = -1 }, ErrInvalidPort},
		{"port too high", func(c *Config) { c.Port = 2 }, ErrInvalidPort},
		{"mode zero", func(c *Config) { c.Mode = 0 }, ErrUnsupportedMode},
		{"mode master tx", func(c *Config) { c.Mode = ModeMaster | ModeTX }, ErrUnsupportedMode},
		{"mode slave rx", func(c *Config) { c.Mode = ModeSlave | ModeRX }, ErrUnsupportedMode},
		{"bits 12", func(c *Config) { c.Bits = 12 }, ErrInvalidBits},
		{"bits zero", func(c *Config) { c.Bits = 0 }, ErrInvalidBits},
		{"channel format out of range", func(c *Config) { c.ChannelFormat = 5 }, ErrInvalidChannelFormat},
		{"comm format i2s only", func(c *Config) { c.CommFormat = CommI2S }, ErrInvalidCommFormat},
		{"comm format msb only", func(c *Config) { c.CommFormat = CommMSB }, ErrInvalidCommFormat},
		{"dma count below range", func(c *Config) { c.DMACount = 1 }, ErrInvalidDMACount},
		{"dma count above range", func(c *Config) { c.DMACount = 129 }, ErrInvalidDMACount},
		{"dma length below range", func(c *Config) { c.DMALen = 7 }, ErrInvalidDMALen},
		{"dma length above range", func(c *Config) { c.DMALen = 1025 }, ErrInvalidDMALen},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := validConfig(Port0).withDefaults()
			test.mutate(&cfg)
			assert.ErrorIs(t, cfg.validate(), test.expected)
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := validConfig(Port0).withDefaults()
	assert.Equal(t, DefaultDMACount, cfg.DMACount)
	assert.Equal(t, DefaultDMALen, cfg.DMALen)
	assert.False(t, cfg.UseAPLL)
	assert.Equal(t, 0, cfg.FixedMCLK)

	explicit := validConfig(Port0)
	explicit.DMACount = 4
	explicit.DMALen = 128
	explicit = explicit.withDefaults()
	assert.Equal(t, 4, explicit.DMACount)
	assert.Equal(t, 128, explicit.DMALen)
}

func TestChannelFormat_Channels(t *testing.T) {
	assert.Equal(t, 2, ChannelRightLeft.Channels())
	assert.Equal(t, 1, ChannelAllRight.Channels())
	assert.Equal(t, 1, ChannelAllLeft.Channels())
	assert.Equal(t, 1, ChannelOnlyRight.Channels())
	assert.Equal(t, 1, ChannelOnlyLeft.Channels())
}

func TestConfig_EdgeOfDMARanges(t *testing.T) {
	cfg := validConfig(Port0)
	cfg.DMACount = 2
	cfg.DMALen = 8
	assert.NoError(t, cfg.validate())

	cfg.DMACount = 128
	cfg.DMALen = 1024
	assert.NoError(t, cfg.validate())
}
