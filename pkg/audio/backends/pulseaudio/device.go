package pulseaudio

import (
	"context"
	"fmt"
	"io"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

const recordLatency = 0.1

type InputDevice struct {
	PulseClient *pulse.Client
	Source      *pulse.Source
}

var _ types.InputDevice = (*InputDevice)(nil)

func (d *InputDevice) Name() string {
	return d.Source.Name()
}

// DefaultInputConfig reports the native rate and channels of the source;
// the server converts the samples to float32 for us.
func (d *InputDevice) DefaultInputConfig(context.Context) (types.InputConfig, error) {
	channels := len(d.Source.Channels())
	if channels == 0 || d.Source.SampleRate() <= 0 {
		return types.InputConfig{}, fmt.Errorf("the source '%s' reports no usable sample spec", d.Source.ID())
	}
	return types.InputConfig{
		Format: types.SampleFormatFloat32,
		StreamConfig: types.StreamConfig{
			Channels:   types.Channel(channels),
			SampleRate: types.SampleRate(d.Source.SampleRate()),
		},
	}, nil
}

func (d *InputDevice) OpenInputStream(
	ctx context.Context,
	cfg types.InputConfig,
	rawWriter io.Writer,
) (_ types.InputStream, _err error) {
	logger.Debugf(ctx, "OpenInputStream: %s", cfg)
	defer func() { logger.Debugf(ctx, "/OpenInputStream: %v", _err) }()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfg, err)
	}
	writer, err := newPulseWriter(cfg.Format, rawWriter)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize a writer for Pulse: %w", err)
	}

	chanMap, err := channelMap(cfg.Channels, d.Source.Channels())
	if err != nil {
		return nil, err
	}

	stream, err := d.PulseClient.NewRecord(
		writer,
		pulse.RecordSource(d.Source),
		pulse.RecordSampleRate(int(cfg.SampleRate)),
		pulse.RecordChannels(chanMap),
		pulse.RecordLatency(recordLatency),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize a record stream: %w", err)
	}

	return newRecordStream(stream, writer), nil
}

func channelMap(
	channels types.Channel,
	native proto.ChannelMap,
) (proto.ChannelMap, error) {
	switch {
	case int(channels) == len(native):
		return native, nil
	case channels == 1:
		return proto.ChannelMap{proto.ChannelMono}, nil
	case channels == 2:
		return proto.ChannelMap{proto.ChannelLeft, proto.ChannelRight}, nil
	default:
		return nil, fmt.Errorf("do not know how to configure %d channels", channels)
	}
}
