package portaudio

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/gordonklaus/portaudio"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

type Host struct{}

var _ types.Host = (*Host)(nil)

func NewHost() (*Host, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("unable to initialize PortAudio: %w", err)
	}
	return &Host{}, nil
}

func (*Host) Name() string {
	return BackendName
}

func (*Host) Close() error {
	return portaudio.Terminate()
}

func (*Host) Ping(
	ctx context.Context,
) error {
	info, err := portaudio.DefaultInputDevice()
	if err != nil {
		return err
	}
	logger.Debugf(ctx, "device info: %#+v", info)

	if devices, err := portaudio.Devices(); err == nil {
		for idx, device := range devices {
			logger.Tracef(ctx, "devices[%d]: %#+v", idx, device)
		}
	}
	return nil
}

func (*Host) DefaultInputDevice(
	ctx context.Context,
) (types.InputDevice, error) {
	info, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrNoInputDevice, err)
	}
	if info == nil || info.MaxInputChannels <= 0 {
		return nil, types.ErrNoInputDevice
	}
	logger.Debugf(ctx, "default input device: %s", info.Name)
	return &InputDevice{DeviceInfo: info}, nil
}
