package oto

import (
	"github.com/xaionaro-go/micrecorder/pkg/audio/registry"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

const (
	BackendName = "oto"
	Priority    = 50
)

func init() {
	registry.RegisterPlayerFactory(Priority, PlayerPCMOtoFactory{})
}

type PlayerPCMOtoFactory struct{}

func (PlayerPCMOtoFactory) BackendName() string {
	return BackendName
}

func (PlayerPCMOtoFactory) NewPlayerPCM() (types.PlayerPCM, error) {
	return NewPlayerPCM(), nil
}
