package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/i2s"
	"github.com/mklimuk/i2s/cmd/i2s/console"
)

var configCmd = cli.Command{
	Name:  "config",
	Usage: "validate a capture config and print the effective configuration",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "capture config file (yaml)",
		},
	},
	Action: func(c *cli.Context) error {
		ctx := context.Background()

		fileCfg, err := loadCaptureConfig(c.String("config"))
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		cfg, err := fileCfg.toConfig()
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}

		// run the full construction path against the mock driver so the
		// claim and translation logic sees the same config capture would
		inst, err := i2s.New(ctx, i2s.NewMockDriver(nil, nil, nil, nil), cfg)
		if err != nil {
			return console.Exit(1, "validation failed: %s", console.Red(err))
		}
		defer inst.Deinit(ctx)

		console.PInfof(console.PictoPin, "configuration is valid")
		enc := yaml.NewEncoder(os.Stdout)
		if err := enc.Encode(effectiveConfig(inst)); err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}
