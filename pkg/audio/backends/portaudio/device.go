package portaudio

import (
	"context"
	"fmt"
	"io"

	"github.com/gordonklaus/portaudio"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

// maxChannels limits the amount of captured channels for devices
// exposing more inputs than a microphone reasonably has.
const maxChannels = 2

type InputDevice struct {
	DeviceInfo *portaudio.DeviceInfo
}

var _ types.InputDevice = (*InputDevice)(nil)

func (d *InputDevice) Name() string {
	return d.DeviceInfo.Name
}

// DefaultInputConfig reports float32 samples: this is the format PortAudio
// converts to most reliably regardless of the hardware.
func (d *InputDevice) DefaultInputConfig(context.Context) (types.InputConfig, error) {
	channels := d.DeviceInfo.MaxInputChannels
	if channels > maxChannels {
		channels = maxChannels
	}
	if channels <= 0 || d.DeviceInfo.DefaultSampleRate <= 0 {
		return types.InputConfig{}, fmt.Errorf("the device '%s' reports no usable input config", d.DeviceInfo.Name)
	}
	return types.InputConfig{
		Format: types.SampleFormatFloat32,
		StreamConfig: types.StreamConfig{
			Channels:   types.Channel(channels),
			SampleRate: types.SampleRate(d.DeviceInfo.DefaultSampleRate),
		},
	}, nil
}

func (d *InputDevice) OpenInputStream(
	ctx context.Context,
	cfg types.InputConfig,
	writer io.Writer,
) (types.InputStream, error) {
	switch cfg.Format {
	case types.SampleFormatFloat32:
		return newRecordPCMStream[float32](ctx, d.DeviceInfo, cfg, writer)
	case types.SampleFormatSignedInt16:
		return newRecordPCMStream[int16](ctx, d.DeviceInfo, cfg, writer)
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedSampleFormat, cfg.Format)
	}
}
