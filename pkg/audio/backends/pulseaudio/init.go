package pulseaudio

import (
	"github.com/xaionaro-go/micrecorder/pkg/audio/registry"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

const (
	BackendName = "pulseaudio"
	Priority    = 100
)

func init() {
	registry.RegisterPlayerFactory(Priority, PlayerPCMPulseFactory{})
	registry.RegisterHostFactory(Priority, HostPulseFactory{})
}

type PlayerPCMPulseFactory struct{}

func (PlayerPCMPulseFactory) BackendName() string {
	return BackendName
}

func (PlayerPCMPulseFactory) NewPlayerPCM() (types.PlayerPCM, error) {
	return NewPlayerPCM()
}

type HostPulseFactory struct{}

func (HostPulseFactory) BackendName() string {
	return BackendName
}

func (HostPulseFactory) NewHost() (types.Host, error) {
	return NewHost()
}
