package types

import (
	"fmt"
	"strings"
)

type Channel uint16

type SampleRate uint32

// SampleFormat is the encoding of a single sample as delivered by an input
// device. All the formats are little-endian and interleaved.
type SampleFormat uint

const (
	SampleFormatUndefined = SampleFormat(iota)
	SampleFormatFloat32
	SampleFormatSignedInt16
	SampleFormatUnsignedInt16
	EndOfSampleFormat
)

func (f SampleFormat) String() string {
	switch f {
	case SampleFormatUndefined:
		return "<undefined>"
	case SampleFormatFloat32:
		return "f32"
	case SampleFormatSignedInt16:
		return "s16"
	case SampleFormatUnsignedInt16:
		return "u16"
	default:
		return fmt.Sprintf("<unknown_%d>", uint(f))
	}
}

// Size returns the amount of bytes a single sample takes.
func (f SampleFormat) Size() uint {
	switch f {
	case SampleFormatFloat32:
		return 4
	case SampleFormatSignedInt16, SampleFormatUnsignedInt16:
		return 2
	default:
		return 0
	}
}

func ParseSampleFormat(s string) (SampleFormat, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f := SampleFormatFloat32; f < EndOfSampleFormat; f++ {
		if f.String() == s {
			return f, nil
		}
	}
	return SampleFormatUndefined, fmt.Errorf("%w: '%s'", ErrUnsupportedSampleFormat, s)
}

type StreamConfig struct {
	Channels   Channel
	SampleRate SampleRate
}

func (cfg StreamConfig) Validate() error {
	if cfg.Channels == 0 {
		return fmt.Errorf("the amount of channels must be positive")
	}
	if cfg.SampleRate == 0 {
		return fmt.Errorf("the sample rate must be positive")
	}
	return nil
}

func (cfg StreamConfig) String() string {
	return fmt.Sprintf("%dch@%dHz", cfg.Channels, cfg.SampleRate)
}

// InputConfig is the configuration an input device captures with by default.
type InputConfig struct {
	Format SampleFormat
	StreamConfig
}

func (cfg InputConfig) String() string {
	return fmt.Sprintf("%s/%s", cfg.Format, cfg.StreamConfig)
}

// BytesPerFrame returns the size of one interleaved frame (a sample per channel).
func (cfg InputConfig) BytesPerFrame() uint {
	return cfg.Format.Size() * uint(cfg.Channels)
}
