package malgo

import (
	"testing"

	"github.com/gen2brain/malgo"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

func TestFormatMapping(t *testing.T) {
	for _, format := range []types.SampleFormat{types.SampleFormatFloat32, types.SampleFormatSignedInt16} {
		malgoFormat, ok := toMalgoFormat(format)
		require.True(t, ok)
		back, ok := fromMalgoFormat(malgoFormat)
		require.True(t, ok)
		require.Equal(t, format, back)
	}

	_, ok := toMalgoFormat(types.SampleFormatUnsignedInt16)
	require.False(t, ok)
	_, ok = fromMalgoFormat(malgo.FormatS24)
	require.False(t, ok)
}
