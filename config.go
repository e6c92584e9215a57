package i2s

// Port identifies one of the two physical I2S units.
type Port int

const (
	Port0 Port = iota
	Port1
	PortMax
)

func (p Port) valid() bool {
	return p == Port0 || p == Port1
}

// Mode is the vendor mode bitmask. Only ModeMaster|ModeRX is accepted
// until the transmit path is implemented.
type Mode uint8

const (
	ModeMaster Mode = 1 << iota
	ModeSlave
	ModeTX
	ModeRX
)

type BitsPerSample int

const (
	Bits8  BitsPerSample = 8
	Bits16 BitsPerSample = 16
	Bits24 BitsPerSample = 24
	Bits32 BitsPerSample = 32
)

func (b BitsPerSample) valid() bool {
	switch b {
	case Bits8, Bits16, Bits24, Bits32:
		return true
	}
	return false
}

// ChannelFormat selects how samples map onto the left/right slots.
type ChannelFormat int

const (
	ChannelRightLeft ChannelFormat = iota
	ChannelAllRight
	ChannelAllLeft
	ChannelOnlyRight
	ChannelOnlyLeft
)

func (f ChannelFormat) valid() bool {
	switch f {
	case ChannelRightLeft, ChannelAllRight, ChannelAllLeft, ChannelOnlyRight, ChannelOnlyLeft:
		return true
	}
	return false
}

// Channels reports how many sample slots a frame carries.
func (f ChannelFormat) Channels() int {
	if f == ChannelRightLeft {
		return 2
	}
	return 1
}

// CommFormat is the vendor communication format bitmask. The two layouts
// the hardware accepts are CommI2S|CommMSB and CommI2S|CommLSB.
type CommFormat int

const (
	CommI2S CommFormat = 0x01
	CommMSB CommFormat = 0x02
	CommLSB CommFormat = 0x04
)

func (f CommFormat) valid() bool {
	return f == CommI2S|CommMSB || f == CommI2S|CommLSB
}

const (
	DefaultDMACount = 16
	DefaultDMALen   = 64

	minDMACount = 2
	maxDMACount = 128
	minDMALen   = 8
	maxDMALen   = 1024
)

// IntrFlagLevel1 allocates the driver interrupt at the lowest priority.
// The binding always installs with this flag.
const IntrFlagLevel1 = 1 << 1

// Config is the full operating configuration of one I2S instance.
// Scalar fields carry the vendor keyword names in yaml for status output.
type Config struct {
	Port          Port          `yaml:"id"`
	Mode          Mode          `yaml:"mode"`
	SampleRate    int           `yaml:"samplerate"`
	Bits          BitsPerSample `yaml:"bits"`
	ChannelFormat ChannelFormat `yaml:"channelformat"`
	CommFormat    CommFormat    `yaml:"commformat"`
	DMACount      int           `yaml:"dmacount"`
	DMALen        int           `yaml:"dmalen"`
	UseAPLL       bool          `yaml:"useapll"`
	FixedMCLK     int           `yaml:"fixedmclk"`
	SCK           Pin           `yaml:"-"`
	WS            Pin           `yaml:"-"`
	// SDOut is reserved for the future transmit path; it is accepted but
	// never resolved or routed.
	SDOut Pin `yaml:"-"`
	SDIn  Pin `yaml:"-"`
}

func (c Config) withDefaults() Config {
	if c.DMACount == 0 {
		c.DMACount = DefaultDMACount
	}
	if c.DMALen == 0 {
		c.DMALen = DefaultDMALen
	}
	return c
}

// validate checks the scalar arguments in a fixed order, stopping at the
// first violation. Cheap checks come before pin resolution and the port
// claim so that a rejected configuration never touches shared state.
func (c Config) validate() error {
	if !c.Port.valid() {
		return ErrInvalidPort
	}
	if c.Mode != ModeMaster|ModeRX {
		return ErrUnsupportedMode
	}
	// samplerate has no documented valid range in the vendor api
	if !c.Bits.valid() {
		return ErrInvalidBits
	}
	if !c.ChannelFormat.valid() {
		return ErrInvalidChannelFormat
	}
	if !c.CommFormat.valid() {
		return ErrInvalidCommFormat
	}
	if c.DMACount < minDMACount || c.DMACount > maxDMACount {
		return ErrInvalidDMACount
	}
	if c.DMALen < minDMALen || c.DMALen > maxDMALen {
		return ErrInvalidDMALen
	}
	// fixedmclk has no documented valid range either
	return nil
}
