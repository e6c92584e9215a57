package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/drivers/i2c"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	"github.com/mklimuk/i2s/codec"
	"github.com/mklimuk/i2s/cmd/i2s/console"
)

var codecCmd = cli.Command{
	Name:  "codec",
	Usage: "control the wm8960 codec on the capture rig",
	Subcommands: cli.Commands{
		&codecInitCmd,
		&codecVolumeCmd,
	},
}

func openCodec() (*codec.WM8960, error) {
	npi := nanopi.NewNeoAdaptor()
	err := npi.I2cBusAdaptor.Connect()
	if err != nil {
		return nil, fmt.Errorf("adaptor connect error: %w", err)
	}
	c := codec.NewWM8960(npi, func(cfg i2c.Config) {
		cfg.SetBus(2)
	})
	if err := c.Start(); err != nil {
		return nil, fmt.Errorf("codec start error: %w", err)
	}
	return c, nil
}

var codecInitCmd = cli.Command{
	Name:  "init",
	Usage: "reset the codec and enable the microphone input path",
	Action: func(c *cli.Context) error {
		dev, err := openCodec()
		if err != nil {
			return console.Exit(1, "codec error: %s", console.Red(err))
		}
		defer func() { _ = dev.Halt() }()
		if err := dev.Reset(); err != nil {
			return console.Exit(1, "codec reset error: %s", console.Red(err))
		}
		if err := dev.EnableMicInput(); err != nil {
			return console.Exit(1, "codec configuration error: %s", console.Red(err))
		}
		console.PInfof(console.PictoSpeaker, "microphone input path enabled")
		return nil
	},
}

var codecVolumeCmd = cli.Command{
	Name:      "volume",
	Usage:     "set the input gain code (0-63)",
	ArgsUsage: "<gain>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		gain, err := strconv.ParseUint(c.Args().Get(0), 10, 16)
		if err != nil {
			return console.Exit(1, "invalid gain value: %s", console.Red(err))
		}
		dev, err := openCodec()
		if err != nil {
			return console.Exit(1, "codec error: %s", console.Red(err))
		}
		defer func() { _ = dev.Halt() }()
		if err := dev.SetInputVolume(uint16(gain)); err != nil {
			return console.Exit(1, "codec volume error: %s", console.Red(err))
		}
		console.PInfof(console.PictoSpeaker, "input gain set to %s", console.White(gain))
		return nil
	},
}
