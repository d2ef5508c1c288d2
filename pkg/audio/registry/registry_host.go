package registry

import (
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

type HostFactory interface {
	BackendName() string
	NewHost() (types.Host, error)
}

var hostFactories = newFactoryRegistry[HostFactory]("Host")

func RegisterHostFactory(
	priority int,
	hostFactory HostFactory,
) {
	hostFactories.register(priority, hostFactory)
}

func HostFactories() []HostFactory {
	return hostFactories.byPriority()
}

func HostFactoryByName(name string) (HostFactory, bool) {
	return hostFactories.byName(name)
}

// HostBackendNames returns the names of all the registered backends, including the manual ones.
func HostBackendNames() []string {
	return hostFactories.names()
}
