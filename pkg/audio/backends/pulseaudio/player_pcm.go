package pulseaudio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

type PlayerPCM struct {
	PulseClient *pulse.Client
}

var _ types.PlayerPCM = (*PlayerPCM)(nil)

func NewPlayerPCM() (*PlayerPCM, error) {
	c, err := pulse.NewClient(pulse.ClientApplicationName(applicationName))
	if err != nil {
		return nil, fmt.Errorf("unable to open a client to Pulse: %w", err)
	}
	return &PlayerPCM{
		PulseClient: c,
	}, nil
}

func (p *PlayerPCM) Close() error {
	p.PulseClient.Close()
	return nil
}

func (p *PlayerPCM) Ping(context.Context) error {
	_, err := p.PulseClient.DefaultSink()
	return err
}

func (p *PlayerPCM) PlayPCM(
	ctx context.Context,
	cfg types.StreamConfig,
	bufferSize time.Duration,
	rawReader io.Reader,
) (_ types.PlayStream, _err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfg, err)
	}
	reader := &pulseReader{
		pulseFormat: proto.FormatInt16LE,
		Reader:      rawReader,
	}

	chanMap, err := channelMap(cfg.Channels, nil)
	if err != nil {
		return nil, err
	}

	stream, err := p.PulseClient.NewPlayback(
		reader,
		pulse.PlaybackLatency(bufferSize.Seconds()),
		pulse.PlaybackSampleRate(int(cfg.SampleRate)),
		pulse.PlaybackChannels(chanMap),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize a playback: %w", err)
	}

	stream.Start()
	if stream.Error() != nil {
		stream.Close()
		return nil, fmt.Errorf("an error occurred during playback: %w", stream.Error())
	}

	return &PlayStream{PlaybackStream: stream}, nil
}

type PlayStream struct {
	*pulse.PlaybackStream
}

var _ types.PlayStream = (*PlayStream)(nil)

// Drain blocks until the server played everything; an underflow in the
// middle of the playback is reported as an error.
func (stream *PlayStream) Drain() error {
	stream.PlaybackStream.Drain()
	switch {
	case stream.Error() != nil:
		return fmt.Errorf("an error occurred during playback: %w", stream.Error())
	case stream.Underflow():
		return fmt.Errorf("playback underflow")
	}
	return nil
}

func (stream *PlayStream) Close() error {
	return stopAndClose(stream.PlaybackStream)
}

type pulseReader struct {
	pulseFormat byte
	io.Reader
}

var _ pulse.Reader = (*pulseReader)(nil)

func (r pulseReader) Format() byte {
	return r.pulseFormat
}

func (r pulseReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	if errors.Is(err, io.EOF) {
		err = pulse.EndOfData
	}
	return n, err
}
