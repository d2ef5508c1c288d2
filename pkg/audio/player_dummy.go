package audio

import (
	"context"
	"fmt"
	"io"
	"time"
)

// PlayerPCMDummy is the player of a system without any usable output. It
// consumes the data without playing it.
type PlayerPCMDummy struct{}

var _ PlayerPCM = PlayerPCMDummy{}

func (PlayerPCMDummy) Close() error {
	return nil
}

func (PlayerPCMDummy) Ping(context.Context) error {
	return nil
}

func (PlayerPCMDummy) PlayPCM(
	_ context.Context,
	cfg StreamConfig,
	_ time.Duration,
	reader io.Reader,
) (PlayStream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfg, err)
	}
	return StreamDummy{Reader: reader}, nil
}

// StreamDummy discards Reader on Drain. A zero value has nothing to discard.
type StreamDummy struct {
	Reader io.Reader
}

var _ PlayStream = StreamDummy{}

func (s StreamDummy) Drain() error {
	if s.Reader == nil {
		return nil
	}
	if _, err := io.Copy(io.Discard, s.Reader); err != nil {
		return fmt.Errorf("unable to read the data to play: %w", err)
	}
	return nil
}

func (StreamDummy) Close() error {
	return nil
}
