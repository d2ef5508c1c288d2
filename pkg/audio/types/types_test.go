package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSampleFormat(t *testing.T) {
	for f := SampleFormatFloat32; f < EndOfSampleFormat; f++ {
		parsed, err := ParseSampleFormat(f.String())
		require.NoError(t, err)
		require.Equal(t, f, parsed)
	}

	_, err := ParseSampleFormat("s24")
	require.ErrorIs(t, err, ErrUnsupportedSampleFormat)
}

func TestInputConfigBytesPerFrame(t *testing.T) {
	cfg := InputConfig{
		Format: SampleFormatFloat32,
		StreamConfig: StreamConfig{
			Channels:   2,
			SampleRate: 48000,
		},
	}
	require.Equal(t, uint(8), cfg.BytesPerFrame())
	require.NoError(t, cfg.Validate())
	require.Error(t, StreamConfig{Channels: 1}.Validate())
}
