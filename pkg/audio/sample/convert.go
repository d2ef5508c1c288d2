package sample

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

const (
	unsignedInt16Midpoint = 32768
)

// Float32ToInt16 scales a full-scale float sample to the signed 16-bit
// range, truncating toward zero. Out-of-range input is clamped instead of
// wrapping around.
func Float32ToInt16(v float32) int16 {
	if math.IsNaN(float64(v)) {
		return 0
	}
	scaled := v * math.MaxInt16
	switch {
	case scaled >= math.MaxInt16:
		return math.MaxInt16
	case scaled <= math.MinInt16:
		return math.MinInt16
	}
	return int16(scaled)
}

func Int16ToInt16(v int16) int16 {
	return v
}

func Uint16ToInt16(v uint16) int16 {
	return int16(int32(v) - unsignedInt16Midpoint)
}

// Converter turns raw device bytes of one specific format into canonical
// samples. It is resolved once per stream, so the per-sample loop never
// switches over the format.
type Converter interface {
	Format() types.SampleFormat
	SampleSize() uint

	// Convert appends a canonical sample for every whole sample in src to
	// dst and returns the extended slice. A trailing incomplete sample is
	// ignored; it is the caller's job to carry it over.
	Convert(dst []int16, src []byte) []int16
}

func NewConverter(format types.SampleFormat) (Converter, error) {
	switch format {
	case types.SampleFormatFloat32:
		return converterFloat32{}, nil
	case types.SampleFormatSignedInt16:
		return converterSignedInt16{}, nil
	case types.SampleFormatUnsignedInt16:
		return converterUnsignedInt16{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedSampleFormat, format)
	}
}

type converterFloat32 struct{}

func (converterFloat32) Format() types.SampleFormat { return types.SampleFormatFloat32 }
func (converterFloat32) SampleSize() uint           { return 4 }
func (converterFloat32) Convert(dst []int16, src []byte) []int16 {
	for len(src) >= 4 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(src))
		dst = append(dst, Float32ToInt16(v))
		src = src[4:]
	}
	return dst
}

type converterSignedInt16 struct{}

func (converterSignedInt16) Format() types.SampleFormat { return types.SampleFormatSignedInt16 }
func (converterSignedInt16) SampleSize() uint           { return 2 }
func (converterSignedInt16) Convert(dst []int16, src []byte) []int16 {
	for len(src) >= 2 {
		dst = append(dst, Int16ToInt16(int16(binary.LittleEndian.Uint16(src))))
		src = src[2:]
	}
	return dst
}

type converterUnsignedInt16 struct{}

func (converterUnsignedInt16) Format() types.SampleFormat { return types.SampleFormatUnsignedInt16 }
func (converterUnsignedInt16) SampleSize() uint           { return 2 }
func (converterUnsignedInt16) Convert(dst []int16, src []byte) []int16 {
	for len(src) >= 2 {
		dst = append(dst, Uint16ToInt16(binary.LittleEndian.Uint16(src)))
		src = src[2:]
	}
	return dst
}
