package oto

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

const drainCheckInterval = 10 * time.Millisecond

type PlayerPCM struct{}

var _ types.PlayerPCM = (*PlayerPCM)(nil)

func NewPlayerPCM() *PlayerPCM {
	return &PlayerPCM{}
}

func (p *PlayerPCM) Close() error {
	return nil
}

func (*PlayerPCM) Ping(context.Context) error {
	// do not know how to do that, yet
	return nil
}

func (p *PlayerPCM) PlayPCM(
	ctx context.Context,
	cfg types.StreamConfig,
	bufferSize time.Duration,
	reader io.Reader,
) (types.PlayStream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfg, err)
	}
	otoCtx, err := getOtoContext(cfg, bufferSize)
	if err != nil {
		return nil, err
	}

	player := otoCtx.NewPlayer(reader)
	player.Play()

	return newStream(player), nil
}

type Stream struct {
	Player *oto.Player
}

var _ types.PlayStream = (*Stream)(nil)

func newStream(player *oto.Player) *Stream {
	return &Stream{
		Player: player,
	}
}

func (s *Stream) Drain() error {
	for s.Player.IsPlaying() {
		time.Sleep(drainCheckInterval)
	}
	return s.Player.Err()
}

func (s *Stream) Close() error {
	return s.Player.Close()
}
