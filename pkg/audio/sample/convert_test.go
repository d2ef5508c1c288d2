package sample

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

func TestScalarConversions(t *testing.T) {
	t.Run("Float32", func(t *testing.T) {
		assert.Equal(t, int16(0), Float32ToInt16(0))
		assert.InDelta(t, math.MaxInt16, Float32ToInt16(1.0), 1)
		assert.Equal(t, int16(-math.MaxInt16), Float32ToInt16(-1.0))
		assert.Equal(t, int16(16383), Float32ToInt16(0.5))
		assert.Equal(t, int16(-16383), Float32ToInt16(-0.5))
	})
	t.Run("Float32_OutOfRange", func(t *testing.T) {
		assert.Equal(t, int16(math.MaxInt16), Float32ToInt16(1.5))
		assert.Equal(t, int16(math.MinInt16), Float32ToInt16(-2))
		assert.Equal(t, int16(0), Float32ToInt16(float32(math.NaN())))
		assert.Equal(t, int16(math.MaxInt16), Float32ToInt16(float32(math.Inf(1))))
	})
	t.Run("SignedInt16", func(t *testing.T) {
		assert.Equal(t, int16(0), Int16ToInt16(0))
		assert.Equal(t, int16(math.MaxInt16), Int16ToInt16(math.MaxInt16))
		assert.Equal(t, int16(math.MinInt16), Int16ToInt16(math.MinInt16))
	})
	t.Run("UnsignedInt16", func(t *testing.T) {
		assert.Equal(t, int16(0), Uint16ToInt16(32768))
		assert.Equal(t, int16(math.MaxInt16), Uint16ToInt16(math.MaxUint16))
		assert.Equal(t, int16(math.MinInt16), Uint16ToInt16(0))
	})
}

func TestConverter(t *testing.T) {
	for _, tc := range []struct {
		Format   types.SampleFormat
		Input    []float64
		Expected []int16
	}{
		{
			Format:   types.SampleFormatFloat32,
			Input:    []float64{0, 1, -1, 0.5},
			Expected: []int16{0, 32767, -32767, 16383},
		},
		{
			Format:   types.SampleFormatSignedInt16,
			Input:    []float64{0, 1, -1},
			Expected: []int16{0, 32767, -32767},
		},
		{
			Format:   types.SampleFormatUnsignedInt16,
			Input:    []float64{0, 1, -1},
			Expected: []int16{0, 32767, -32767},
		},
	} {
		t.Run(tc.Format.String(), func(t *testing.T) {
			conv, err := NewConverter(tc.Format)
			require.NoError(t, err)
			require.Equal(t, tc.Format, conv.Format())
			require.Equal(t, tc.Format.Size(), conv.SampleSize())

			raw := Encode(tc.Format, nil, tc.Input...)
			out := conv.Convert(make([]int16, 0, len(tc.Input)), raw)
			require.Equal(t, tc.Expected, out, spew.Sdump(raw))

			// a trailing incomplete sample is not converted
			out = conv.Convert(nil, raw[:len(raw)-1])
			require.Len(t, out, len(tc.Input)-1)
		})
	}
}

func TestConverterDoesNotAllocate(t *testing.T) {
	conv, err := NewConverter(types.SampleFormatFloat32)
	require.NoError(t, err)

	raw := make([]byte, 4*256)
	for i := 0; i < 256; i++ {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(0.25))
	}
	dst := make([]int16, 0, 256)
	allocs := testing.AllocsPerRun(100, func() {
		dst = conv.Convert(dst[:0], raw)
	})
	require.Zero(t, allocs)
}

func TestNewConverterUnsupported(t *testing.T) {
	_, err := NewConverter(types.SampleFormatUndefined)
	require.ErrorIs(t, err, types.ErrUnsupportedSampleFormat)
}
