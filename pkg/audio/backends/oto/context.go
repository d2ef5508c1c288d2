package oto

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

// oto allows a single context per process, so the first playback
// decides the stream config for all the following ones.
var (
	otoContextLocker sync.Mutex
	otoContext       *oto.Context
	otoContextConfig types.StreamConfig
)

func getOtoContext(
	cfg types.StreamConfig,
	bufferSize time.Duration,
) (*oto.Context, error) {
	otoContextLocker.Lock()
	defer otoContextLocker.Unlock()

	if otoContext != nil {
		if cfg != otoContextConfig {
			return nil, fmt.Errorf("the output is already initialized for %s, cannot play %s", otoContextConfig, cfg)
		}
		return otoContext, nil
	}

	otoCtx, readyChan, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(cfg.SampleRate),
		ChannelCount: int(cfg.Channels),
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to initialize an oto context: %w", err)
	}
	<-readyChan

	otoContext = otoCtx
	otoContextConfig = cfg
	return otoContext, nil
}
