package synthetic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

var ErrNoActiveStream = errors.New("no stream is playing")

type Device struct {
	Config DeviceConfig

	locker        sync.Mutex
	activeStreams map[*InputStream]struct{}
	openedCount   uint
}

var _ types.InputDevice = (*Device)(nil)

func (d *Device) Name() string {
	return d.Config.Name
}

func (d *Device) DefaultInputConfig(context.Context) (types.InputConfig, error) {
	if d.Config.ConfigError != nil {
		return types.InputConfig{}, d.Config.ConfigError
	}
	return d.Config.Input, nil
}

func (d *Device) OpenInputStream(
	ctx context.Context,
	cfg types.InputConfig,
	writer io.Writer,
) (types.InputStream, error) {
	if d.Config.OpenError != nil {
		return nil, d.Config.OpenError
	}
	if cfg.Format.Size() == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedSampleFormat, cfg.Format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfg, err)
	}

	d.locker.Lock()
	defer d.locker.Unlock()
	d.openedCount++
	return &InputStream{
		device: d,
		config: cfg,
		writer: writer,
	}, nil
}

// OpenedCount returns how many streams were ever opened on the device.
func (d *Device) OpenedCount() uint {
	d.locker.Lock()
	defer d.locker.Unlock()
	return d.openedCount
}

// ActiveStreams returns the amount of streams that are playing.
func (d *Device) ActiveStreams() int {
	d.locker.Lock()
	defer d.locker.Unlock()
	return len(d.activeStreams)
}

// Deliver hands a buffer of raw samples to every playing stream, the same
// way a hardware callback would.
func (d *Device) Deliver(p []byte) error {
	d.locker.Lock()
	streams := make([]*InputStream, 0, len(d.activeStreams))
	for s := range d.activeStreams {
		streams = append(streams, s)
	}
	d.locker.Unlock()

	if len(streams) == 0 {
		return ErrNoActiveStream
	}
	for _, s := range streams {
		s.deliver(p)
	}
	return nil
}

func (d *Device) addActiveStream(s *InputStream) {
	d.locker.Lock()
	defer d.locker.Unlock()
	if d.activeStreams == nil {
		d.activeStreams = map[*InputStream]struct{}{}
	}
	d.activeStreams[s] = struct{}{}
}

func (d *Device) removeActiveStream(s *InputStream) {
	d.locker.Lock()
	defer d.locker.Unlock()
	delete(d.activeStreams, s)
}
