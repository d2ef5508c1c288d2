package audio_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/micrecorder/pkg/audio"
	"github.com/xaionaro-go/micrecorder/pkg/audio/backends/synthetic"
)

func TestNewHost(t *testing.T) {
	ctx := context.Background()

	host, err := audio.NewHost(ctx, synthetic.BackendName)
	require.NoError(t, err)
	defer host.Close()
	require.Equal(t, synthetic.BackendName, host.Name())

	_, err = audio.NewHost(ctx, "no-such-backend")
	require.Error(t, err)
}

func TestHostDummy(t *testing.T) {
	_, err := audio.HostDummy{}.DefaultInputDevice(context.Background())
	require.ErrorIs(t, err, audio.ErrNoInputDevice)
}
