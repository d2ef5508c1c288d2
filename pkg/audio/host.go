package audio

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/micrecorder/pkg/audio/registry"
)

const (
	BackendAuto = "auto"
)

var hostPicker = &backendPicker[registry.HostFactory, Host]{
	kind:      "audio host",
	factories: registry.HostFactories,
	initFunc: func(factory registry.HostFactory) (Host, error) {
		return factory.NewHost()
	},
}

// NewHostAuto returns the most preferred backend that could be initialized
// and pinged. If none works, it returns HostDummy, which has no input device.
func NewHostAuto(
	ctx context.Context,
) Host {
	host, err := hostPicker.pick(ctx)
	if err != nil {
		logger.Infof(ctx, "was unable to initialize any audio host: %v", err)
		return HostDummy{}
	}
	return host
}

// NewHost initializes the backend with the given name, or picks one
// automatically if the name is empty or BackendAuto.
func NewHost(
	ctx context.Context,
	backendName string,
) (Host, error) {
	if backendName == "" || backendName == BackendAuto {
		return NewHostAuto(ctx), nil
	}

	factory, ok := registry.HostFactoryByName(backendName)
	if !ok {
		return nil, fmt.Errorf("unknown audio backend '%s', known backends: %v", backendName, registry.HostBackendNames())
	}

	host, err := factory.NewHost()
	if err != nil {
		return nil, fmt.Errorf("unable to initialize '%s': %w", backendName, err)
	}
	if err := host.Ping(ctx); err != nil {
		logger.Warnf(ctx, "the audio backend '%s' does not respond properly: %v", backendName, err)
	}
	return host, nil
}
