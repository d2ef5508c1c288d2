package synthetic

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

type lockedBuffer struct {
	locker sync.Mutex
	bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.locker.Lock()
	defer b.locker.Unlock()
	return b.Buffer.Write(p)
}

func (b *lockedBuffer) Len() int {
	b.locker.Lock()
	defer b.locker.Unlock()
	return b.Buffer.Len()
}

func TestManualDelivery(t *testing.T) {
	ctx := context.Background()
	host := NewHost(DeviceConfig{Input: DefaultConfig.Input})
	device, err := host.DefaultInputDevice(ctx)
	require.NoError(t, err)
	cfg, err := device.DefaultInputConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig.Input, cfg)

	var buf lockedBuffer
	stream, err := device.OpenInputStream(ctx, cfg, &buf)
	require.NoError(t, err)
	require.ErrorIs(t, host.Device.Deliver([]byte{1}), ErrNoActiveStream, "not played yet")

	require.NoError(t, stream.Play(ctx))
	require.NoError(t, host.Device.Deliver([]byte{1, 2, 3}))
	require.Equal(t, []byte{1, 2, 3}, buf.Bytes())

	require.NoError(t, stream.Close())
	require.NoError(t, stream.Close())
	require.ErrorIs(t, host.Device.Deliver([]byte{4}), ErrNoActiveStream)
	require.Equal(t, 3, buf.Len())
	require.Error(t, stream.Play(ctx))
}

func TestRealtimeGeneration(t *testing.T) {
	ctx := context.Background()
	cfg := DeviceConfig{
		Input: types.InputConfig{
			Format: types.SampleFormatSignedInt16,
			StreamConfig: types.StreamConfig{
				Channels:   2,
				SampleRate: 1000,
			},
		},
		BufferDuration: 5 * time.Millisecond,
	}
	device := NewHost(cfg).Device

	var buf lockedBuffer
	stream, err := device.OpenInputStream(ctx, cfg.Input, &buf)
	require.NoError(t, err)
	require.NoError(t, stream.Play(ctx))
	require.Eventually(t, func() bool {
		return buf.Len() >= 4*5*3
	}, 5*time.Second, time.Millisecond)
	require.NoError(t, stream.Close())

	written := buf.Len()
	require.Zero(t, written%(4*5), "whole buffers only")
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, written, buf.Len(), "no writes after Close")
}

func TestOpenInputStreamErrors(t *testing.T) {
	ctx := context.Background()
	device := NewHost(DefaultConfig).Device

	_, err := device.OpenInputStream(ctx, types.InputConfig{StreamConfig: DefaultConfig.Input.StreamConfig}, &lockedBuffer{})
	require.ErrorIs(t, err, types.ErrUnsupportedSampleFormat)

	_, err = device.OpenInputStream(ctx, types.InputConfig{Format: types.SampleFormatFloat32}, &lockedBuffer{})
	require.Error(t, err)
}

func TestConfigure(t *testing.T) {
	defer Configure(DefaultConfig)
	Configure(DeviceConfig{NoDevice: true})

	host, err := HostFactory{}.NewHost()
	require.NoError(t, err)
	_, err = host.DefaultInputDevice(context.Background())
	require.ErrorIs(t, err, types.ErrNoInputDevice)
}
