package synthetic

import (
	"github.com/xaionaro-go/micrecorder/pkg/audio/registry"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

const (
	BackendName = "synthetic"
	Priority    = registry.PriorityManual
)

func init() {
	registry.RegisterHostFactory(Priority, HostFactory{})
}

type HostFactory struct{}

func (HostFactory) BackendName() string {
	return BackendName
}

// NewHost returns a host generating silence in realtime with DefaultConfig.
// Use Configure to change what the synthetic backends initialized from the
// registry produce.
func (HostFactory) NewHost() (types.Host, error) {
	return NewHost(getDefaultDeviceConfig()), nil
}
