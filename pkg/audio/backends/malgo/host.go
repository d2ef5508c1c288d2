// Package malgo implements the capture through miniaudio, which picks
// the native API of the platform (WASAPI, CoreAudio, ALSA, ...).
package malgo

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/gen2brain/malgo"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

type Host struct {
	Context *malgo.AllocatedContext
}

var _ types.Host = (*Host)(nil)

func NewHost() (*Host, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize a miniaudio context: %w", err)
	}
	return &Host{
		Context: ctx,
	}, nil
}

func (*Host) Name() string {
	return BackendName
}

func (h *Host) Close() error {
	err := h.Context.Uninit()
	h.Context.Free()
	return err
}

func (h *Host) Ping(ctx context.Context) error {
	devices, err := h.Context.Devices(malgo.Capture)
	if err != nil {
		return fmt.Errorf("unable to list the capture devices: %w", err)
	}
	for idx, device := range devices {
		logger.Tracef(ctx, "devices[%d]: %s (default: %d)", idx, device.Name(), device.IsDefault)
	}
	return nil
}

func (h *Host) DefaultInputDevice(ctx context.Context) (types.InputDevice, error) {
	devices, err := h.Context.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("unable to list the capture devices: %w", err)
	}
	if len(devices) == 0 {
		return nil, types.ErrNoInputDevice
	}

	info := devices[0]
	for _, device := range devices {
		if device.IsDefault != 0 {
			info = device
			break
		}
	}
	logger.Debugf(ctx, "default input device: %s", info.Name())
	return &InputDevice{
		Context: h.Context,
		Info:    info,
	}, nil
}
