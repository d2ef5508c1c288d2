package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/go-audio/wav"
	"github.com/xaionaro-go/micrecorder/pkg/audio/registry"
)

const BufferSize = 100 * time.Millisecond

type Player struct {
	PlayerPCM
}

func NewPlayer(playerPCM PlayerPCM) *Player {
	return &Player{
		PlayerPCM: playerPCM,
	}
}

var playerPicker = &backendPicker[registry.PlayerPCMFactory, PlayerPCM]{
	kind:      "PCM player",
	factories: registry.PlayerFactories,
	initFunc: func(factory registry.PlayerPCMFactory) (PlayerPCM, error) {
		return factory.NewPlayerPCM()
	},
}

// NewPlayerAuto returns a player on the most preferred backend that works,
// or a player that discards everything.
func NewPlayerAuto(
	ctx context.Context,
) *Player {
	player, err := playerPicker.pick(ctx)
	if err != nil {
		logger.Infof(ctx, "was unable to initialize any PCM player: %v", err)
		return NewPlayer(PlayerPCMDummy{})
	}
	return NewPlayer(player)
}

// PlayWAV plays a 16-bit integer PCM WAV file, such as the ones produced
// by the recorder.
func (a *Player) PlayWAV(
	ctx context.Context,
	filePath string,
) (PlayStream, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("unable to open '%s': %w", filePath, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("unable to decode '%s': %w", filePath, err)
	}
	if decoder.BitDepth != 16 {
		return nil, fmt.Errorf("only 16-bit WAV files are supported, but '%s' is %d-bit", filePath, decoder.BitDepth)
	}
	logger.Debugf(ctx, "decoded '%s': %dch@%dHz, %d samples", filePath, decoder.NumChans, decoder.SampleRate, len(pcm.Data))

	raw := make([]byte, 0, len(pcm.Data)*2)
	for _, v := range pcm.Data {
		raw = binary.LittleEndian.AppendUint16(raw, uint16(int16(v)))
	}

	stream, err := a.PlayerPCM.PlayPCM(
		ctx,
		StreamConfig{
			Channels:   Channel(decoder.NumChans),
			SampleRate: SampleRate(decoder.SampleRate),
		},
		BufferSize,
		bytes.NewReader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to playback as PCM: %w", err)
	}
	return stream, nil
}
