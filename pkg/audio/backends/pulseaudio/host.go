package pulseaudio

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/jfreymuth/pulse"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

const applicationName = "micrecorder"

type Host struct {
	PulseClient *pulse.Client
}

var _ types.Host = (*Host)(nil)

func NewHost() (*Host, error) {
	c, err := pulse.NewClient(pulse.ClientApplicationName(applicationName))
	if err != nil {
		return nil, fmt.Errorf("unable to open a client to Pulse: %w", err)
	}
	return &Host{
		PulseClient: c,
	}, nil
}

func (*Host) Name() string {
	return BackendName
}

func (h *Host) Close() error {
	h.PulseClient.Close()
	return nil
}

func (h *Host) Ping(ctx context.Context) error {
	source, err := h.PulseClient.DefaultSource()
	if err != nil {
		return err
	}
	logger.Debugf(ctx, "default source: %s (%s)", source.Name(), source.ID())
	return nil
}

func (h *Host) DefaultInputDevice(ctx context.Context) (types.InputDevice, error) {
	source, err := h.PulseClient.DefaultSource()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrNoInputDevice, err)
	}
	if source == nil {
		return nil, types.ErrNoInputDevice
	}
	return &InputDevice{
		PulseClient: h.PulseClient,
		Source:      source,
	}, nil
}
