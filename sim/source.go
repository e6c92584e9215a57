package sim

import (
	"encoding/binary"
	"math"

	"github.com/mklimuk/i2s"
)

// Sine returns a source producing a sine tone at the given frequency.
// amplitude is relative, 0..1. Samples are encoded little endian, signed,
// at the installed bit depth; stereo layouts get the tone on both slots.
func Sine(freq, amplitude float64) SourceFunc {
	var phase float64
	return func(cfg i2s.DriverConfig, buf []byte) {
		rate := float64(cfg.SampleRate)
		if rate <= 0 {
			rate = 44100
		}
		step := 2 * math.Pi * freq / rate
		sample := int(cfg.Bits) / 8
		frame := sample * cfg.ChannelFormat.Channels()
		for off := 0; off+frame <= len(buf); off += frame {
			v := math.Sin(phase) * amplitude
			phase += step
			for s := 0; s < frame; s += sample {
				writeSample(buf[off+s:], cfg.Bits, v)
			}
		}
		phase = math.Mod(phase, 2*math.Pi)
	}
}

func writeSample(b []byte, bits i2s.BitsPerSample, v float64) {
	switch bits {
	case i2s.Bits8:
		b[0] = byte(int8(v * math.MaxInt8))
	case i2s.Bits16:
		binary.LittleEndian.PutUint16(b, uint16(int16(v*math.MaxInt16)))
	case i2s.Bits24:
		s := int32(v * (1<<23 - 1))
		b[0] = byte(s)
		b[1] = byte(s >> 8)
		b[2] = byte(s >> 16)
	case i2s.Bits32:
		binary.LittleEndian.PutUint32(b, uint32(int32(v*math.MaxInt32)))
	}
}
