package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/i2s"
	"github.com/mklimuk/i2s/gpio"
)

// captureConfig is the YAML surface of a capture setup. Field names
// follow the vendor keyword names.
type captureConfig struct {
	ID            int    `yaml:"id"`
	SampleRate    int    `yaml:"samplerate"`
	Bits          int    `yaml:"bits"`
	ChannelFormat string `yaml:"channelformat"`
	CommFormat    string `yaml:"commformat"`
	DMACount      int    `yaml:"dmacount"`
	DMALen        int    `yaml:"dmalen"`
	UseAPLL       bool   `yaml:"useapll"`
	FixedMCLK     int    `yaml:"fixedmclk"`
	SCK           string `yaml:"sck"`
	WS            string `yaml:"ws"`
	SDIn          string `yaml:"sdin"`
}

// defaultCapture matches a common INMP441 microphone wiring.
var defaultCapture = captureConfig{
	ID:            0,
	SampleRate:    16000,
	Bits:          16,
	ChannelFormat: "only-left",
	CommFormat:    "i2s-msb",
	SCK:           "26",
	WS:            "25",
	SDIn:          "22",
}

func loadCaptureConfig(path string) (captureConfig, error) {
	cfg := defaultCapture
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config file: %w", err)
	}
	err = yaml.Unmarshal(raw, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("could not parse config file: %w", err)
	}
	return cfg, nil
}

func (c captureConfig) toConfig() (i2s.Config, error) {
	var cfg i2s.Config
	channel, err := parseChannelFormat(c.ChannelFormat)
	if err != nil {
		return cfg, err
	}
	comm, err := parseCommFormat(c.CommFormat)
	if err != nil {
		return cfg, err
	}
	sck, err := resolvePin("sck", c.SCK)
	if err != nil {
		return cfg, err
	}
	ws, err := resolvePin("ws", c.WS)
	if err != nil {
		return cfg, err
	}
	sdin, err := resolvePin("sdin", c.SDIn)
	if err != nil {
		return cfg, err
	}
	cfg = i2s.Config{
		Port:          i2s.Port(c.ID),
		Mode:          i2s.ModeMaster | i2s.ModeRX,
		SampleRate:    c.SampleRate,
		Bits:          i2s.BitsPerSample(c.Bits),
		ChannelFormat: channel,
		CommFormat:    comm,
		DMACount:      c.DMACount,
		DMALen:        c.DMALen,
		UseAPLL:       c.UseAPLL,
		FixedMCLK:     c.FixedMCLK,
		SCK:           sck,
		WS:            ws,
		SDIn:          sdin,
	}
	return cfg, nil
}

func parseChannelFormat(name string) (i2s.ChannelFormat, error) {
	switch name {
	case "right-left":
		return i2s.ChannelRightLeft, nil
	case "all-right":
		return i2s.ChannelAllRight, nil
	case "all-left":
		return i2s.ChannelAllLeft, nil
	case "only-right":
		return i2s.ChannelOnlyRight, nil
	case "only-left":
		return i2s.ChannelOnlyLeft, nil
	}
	return 0, fmt.Errorf("unknown channel format %q", name)
}

func parseCommFormat(name string) (i2s.CommFormat, error) {
	switch name {
	case "i2s-msb":
		return i2s.CommI2S | i2s.CommMSB, nil
	case "i2s-lsb":
		return i2s.CommI2S | i2s.CommLSB, nil
	}
	return 0, fmt.Errorf("unknown communication format %q", name)
}

// resolvePin accepts a bare gpio number or a periph.io pin name.
func resolvePin(name, ref string) (i2s.Pin, error) {
	if ref == "" {
		return nil, fmt.Errorf("%s pin is not set", name)
	}
	if n, err := strconv.Atoi(ref); err == nil {
		return i2s.GPIO(n), nil
	}
	pin, err := gpio.Lookup(ref)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s pin: %w", name, err)
	}
	return pin, nil
}

// effectiveConfig is the YAML status block of a live instance: the
// validated configuration with defaults applied and pins resolved.
func effectiveConfig(inst *i2s.I2S) any {
	pins := inst.Pins()
	return struct {
		i2s.Config `yaml:",inline"`
		SCK        int `yaml:"sck"`
		WS         int `yaml:"ws"`
		SDOut      int `yaml:"sdout"`
		SDIn       int `yaml:"sdin"`
	}{inst.Config(), pins.BCK, pins.WS, pins.DataOut, pins.DataIn}
}
