package main

import (
	"context"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/i2s"
	"github.com/mklimuk/i2s/cmd/i2s/console"
	"github.com/mklimuk/i2s/sim"
)

var captureCmd = cli.Command{
	Name:    "capture",
	Aliases: []string{"cap"},
	Usage:   "capture raw samples from the simulated peripheral into a file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "capture config file (yaml)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   "capture.raw",
		},
		&cli.IntFlag{
			Name:    "bytes",
			Aliases: []string{"n"},
			Usage:   "number of bytes to capture",
			Value:   32768,
		},
		&cli.IntFlag{
			Name:  "timeout",
			Usage: "per-read timeout in milliseconds, -1 waits indefinitely",
			Value: -1,
		},
		&cli.Float64Flag{
			Name:  "tone",
			Usage: "frequency of the simulated tone in Hz",
			Value: 440,
		},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		console.Trace = c.Bool("verbose")

		fileCfg, err := loadCaptureConfig(c.String("config"))
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		cfg, err := fileCfg.toConfig()
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}

		drv := sim.NewDriver(sim.WithSource(sim.Sine(c.Float64("tone"), 0.8)))
		inst, err := i2s.New(ctx, drv, cfg)
		if err != nil {
			return console.Exit(1, "peripheral setup error: %s", console.Red(err))
		}
		defer inst.Deinit(ctx)
		if console.IsVerbose(ctx) {
			console.Debugf("configured %s", inst)
		}

		output := c.String("output")
		if _, err := os.Stat(output); err == nil {
			answer, err := console.YesOrNo("overwrite " + output + "?")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if answer == console.No {
				console.PInfof(console.PictoStop, "capture aborted")
				return nil
			}
		}
		out, err := os.Create(output)
		if err != nil {
			return console.Exit(1, "could not create output file: %s", console.Red(err))
		}
		defer func() { _ = out.Close() }()

		timeout := i2s.WaitForever
		if ms := c.Int("timeout"); ms >= 0 {
			timeout = time.Duration(ms) * time.Millisecond
		}

		want := c.Int("bytes")
		buf := make([]byte, 4096)
		total := 0
		for total < want {
			chunk := buf
			if remaining := want - total; remaining < len(buf) {
				chunk = buf[:remaining]
			}
			n, err := inst.ReadInto(ctx, chunk, timeout)
			if err != nil {
				return console.Exit(1, "read error: %s", console.Red(err))
			}
			if n == 0 {
				console.Warnf("no data before timeout, stopping at %d bytes", total)
				break
			}
			if _, err := out.Write(chunk[:n]); err != nil {
				return console.Exit(1, "write error: %s", console.Red(err))
			}
			total += n
		}

		console.PInfof(console.PictoMicrophone, "captured %s bytes to %s", console.White(total), console.White(output))
		if console.IsVerbose(ctx) {
			enc := yaml.NewEncoder(os.Stdout)
			if err := enc.Encode(effectiveConfig(inst)); err != nil {
				return console.Exit(1, "encoding error: %s", console.Red(err))
			}
		}
		return nil
	},
}
