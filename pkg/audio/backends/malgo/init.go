package malgo

import (
	"github.com/xaionaro-go/micrecorder/pkg/audio/registry"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

const (
	BackendName = "miniaudio"
	Priority    = 40
)

func init() {
	registry.RegisterHostFactory(Priority, HostFactory{})
}

type HostFactory struct{}

func (HostFactory) BackendName() string {
	return BackendName
}

func (HostFactory) NewHost() (types.Host, error) {
	return NewHost()
}
