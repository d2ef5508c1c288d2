// Package synthetic implements an audio backend without any hardware
// behind it. The samples are either generated in realtime or delivered
// manually, which makes it suitable for tests and dry runs.
package synthetic

import (
	"context"
	"sync"
	"time"

	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

type DeviceConfig struct {
	Name  string
	Input types.InputConfig

	// BufferDuration is the period of the realtime generator. If zero, no
	// data is generated and the samples come only from Device.Deliver.
	BufferDuration time.Duration

	// SineFrequency is the frequency (Hz) of the generated tone; zero means silence.
	SineFrequency float64
	SineAmplitude float64

	// Errors to simulate failing hardware.
	NoDevice    bool
	ConfigError error
	OpenError   error
	PlayError   error

	// CloseGate, if set, makes InputStream.Close block until it is closed,
	// like a driver hanging on the stream teardown.
	CloseGate <-chan struct{}
}

var DefaultConfig = DeviceConfig{
	Name: "synthetic input",
	Input: types.InputConfig{
		Format: types.SampleFormatFloat32,
		StreamConfig: types.StreamConfig{
			Channels:   1,
			SampleRate: 44100,
		},
	},
	BufferDuration: 10 * time.Millisecond,
	SineAmplitude:  0.5,
}

var (
	defaultDeviceConfig       = DefaultConfig
	defaultDeviceConfigLocker sync.Mutex
)

// Configure sets the config of the hosts created through the registry.
func Configure(cfg DeviceConfig) {
	defaultDeviceConfigLocker.Lock()
	defer defaultDeviceConfigLocker.Unlock()
	defaultDeviceConfig = cfg
}

func getDefaultDeviceConfig() DeviceConfig {
	defaultDeviceConfigLocker.Lock()
	defer defaultDeviceConfigLocker.Unlock()
	return defaultDeviceConfig
}

type Host struct {
	Device *Device
}

var _ types.Host = (*Host)(nil)

func NewHost(cfg DeviceConfig) *Host {
	return &Host{
		Device: &Device{
			Config: cfg,
		},
	}
}

func (*Host) Name() string {
	return BackendName
}

func (*Host) Close() error {
	return nil
}

func (*Host) Ping(context.Context) error {
	return nil
}

func (h *Host) DefaultInputDevice(context.Context) (types.InputDevice, error) {
	if h.Device.Config.NoDevice {
		return nil, types.ErrNoInputDevice
	}
	return h.Device, nil
}
