package registry

import (
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

type PlayerPCMFactory interface {
	BackendName() string
	NewPlayerPCM() (types.PlayerPCM, error)
}

var playerFactories = newFactoryRegistry[PlayerPCMFactory]("PlayerPCM")

func RegisterPlayerFactory(
	priority int,
	playerPCMFactory PlayerPCMFactory,
) {
	playerFactories.register(priority, playerPCMFactory)
}

func PlayerFactories() []PlayerPCMFactory {
	return playerFactories.byPriority()
}

func PlayerBackendNames() []string {
	return playerFactories.names()
}
