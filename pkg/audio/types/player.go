package types

import (
	"context"
	"io"
	"time"
)

// PlayerPCM plays interleaved signed 16-bit little-endian PCM.
type PlayerPCM interface {
	io.Closer
	Ping(context.Context) error
	PlayPCM(
		ctx context.Context,
		cfg StreamConfig,
		bufferSize time.Duration,
		reader io.Reader,
	) (PlayStream, error)
}
