package malgo

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/gen2brain/malgo"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

type InputDevice struct {
	Context *malgo.AllocatedContext
	Info    malgo.DeviceInfo
}

var _ types.InputDevice = (*InputDevice)(nil)

func (d *InputDevice) Name() string {
	return d.Info.Name()
}

func (d *InputDevice) deviceConfig() malgo.DeviceConfig {
	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.DeviceID = d.Info.ID.Pointer()
	return cfg
}

// DefaultInputConfig opens the device with the native parameters to learn
// them. Native formats other than f32 and s16 are reported as f32, which
// miniaudio converts to.
func (d *InputDevice) DefaultInputConfig(ctx context.Context) (types.InputConfig, error) {
	dev, err := malgo.InitDevice(d.Context.Context, d.deviceConfig(), malgo.DeviceCallbacks{})
	if err != nil {
		return types.InputConfig{}, fmt.Errorf("unable to probe the device '%s': %w", d.Name(), err)
	}
	defer dev.Uninit()

	nativeFormat := dev.CaptureFormat()
	logger.Debugf(ctx, "native format of '%s': %v", d.Name(), nativeFormat)
	format, ok := fromMalgoFormat(nativeFormat)
	if !ok {
		format = types.SampleFormatFloat32
		logger.Infof(ctx, "the device '%s' captures in format %v natively, requesting %s converted by miniaudio", d.Name(), nativeFormat, format)
	}
	return types.InputConfig{
		Format: format,
		StreamConfig: types.StreamConfig{
			Channels:   types.Channel(dev.CaptureChannels()),
			SampleRate: types.SampleRate(dev.SampleRate()),
		},
	}, nil
}

func (d *InputDevice) OpenInputStream(
	ctx context.Context,
	cfg types.InputConfig,
	writer io.Writer,
) (_ types.InputStream, _err error) {
	logger.Debugf(ctx, "OpenInputStream: %s", cfg)
	defer func() { logger.Debugf(ctx, "/OpenInputStream: %v", _err) }()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfg, err)
	}
	format, ok := toMalgoFormat(cfg.Format)
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedSampleFormat, cfg.Format)
	}

	deviceConfig := d.deviceConfig()
	deviceConfig.Capture.Format = format
	deviceConfig.Capture.Channels = uint32(cfg.Channels)
	deviceConfig.SampleRate = uint32(cfg.SampleRate)

	s := &InputStream{writer: writer}
	dev, err := malgo.InitDevice(d.Context.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: s.onData,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the device '%s': %w", d.Name(), err)
	}
	s.device = dev
	return s, nil
}

func fromMalgoFormat(format malgo.FormatType) (types.SampleFormat, bool) {
	switch format {
	case malgo.FormatF32:
		return types.SampleFormatFloat32, true
	case malgo.FormatS16:
		return types.SampleFormatSignedInt16, true
	default:
		return types.SampleFormatUndefined, false
	}
}

func toMalgoFormat(format types.SampleFormat) (malgo.FormatType, bool) {
	switch format {
	case types.SampleFormatFloat32:
		return malgo.FormatF32, true
	case types.SampleFormatSignedInt16:
		return malgo.FormatS16, true
	default:
		return malgo.FormatUnknown, false
	}
}

type InputStream struct {
	device *malgo.Device

	locker sync.Mutex
	closed bool
	writer io.Writer
}

var _ types.InputStream = (*InputStream)(nil)

func (s *InputStream) onData(_, input []byte, _ uint32) {
	s.locker.Lock()
	defer s.locker.Unlock()
	if s.closed {
		return
	}
	s.writer.Write(input)
}

func (s *InputStream) Play(context.Context) error {
	if err := s.device.Start(); err != nil {
		return fmt.Errorf("unable to start the device: %w", err)
	}
	return nil
}

func (s *InputStream) Close() error {
	s.locker.Lock()
	if s.closed {
		s.locker.Unlock()
		return nil
	}
	s.closed = true
	s.locker.Unlock()

	err := s.device.Stop()
	s.device.Uninit()
	return err
}
