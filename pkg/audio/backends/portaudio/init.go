package portaudio

import (
	"github.com/xaionaro-go/micrecorder/pkg/audio/registry"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

const (
	BackendName = "portaudio"
	Priority    = 60
)

func init() {
	registry.RegisterPlayerFactory(Priority, PlayerPCMFactory{})
	registry.RegisterHostFactory(Priority, HostFactory{})
}

type PlayerPCMFactory struct{}

func (PlayerPCMFactory) BackendName() string {
	return BackendName
}

func (PlayerPCMFactory) NewPlayerPCM() (types.PlayerPCM, error) {
	return NewPlayerPCM()
}

type HostFactory struct{}

func (HostFactory) BackendName() string {
	return BackendName
}

func (HostFactory) NewHost() (types.Host, error) {
	return NewHost()
}
