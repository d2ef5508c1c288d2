package portaudio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
	"unsafe"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/gordonklaus/portaudio"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

// PlayPCMStream feeds S16LE data from Reader into the default output device.
type PlayPCMStream struct {
	PortAudioStream *portaudio.Stream
	Reader          io.Reader

	pump      *bufferPump
	closeOnce sync.Once
	closeErr  error
}

var _ types.PlayStream = (*PlayPCMStream)(nil)

func newPlayPCMStream(
	ctx context.Context,
	cfg types.StreamConfig,
	bufferSize time.Duration,
	reader io.Reader,
) (*PlayPCMStream, error) {
	framesPerBuffer := int(bufferSize.Seconds() * float64(cfg.SampleRate))

	var sample int16
	deviceBuf := make([]int16, framesPerBuffer*int(cfg.Channels))
	logger.Debugf(ctx, "newPlayPCMStream: %s %s(%d)", cfg, bufferSize, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(0, int(cfg.Channels), float64(cfg.SampleRate), framesPerBuffer, &deviceBuf)
	if err != nil {
		return nil, err
	}

	deviceBytes := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(deviceBuf))), len(deviceBuf)*int(unsafe.Sizeof(sample)))
	return &PlayPCMStream{
		PortAudioStream: stream,
		Reader:          reader,
		pump:            newBufferPump(make([]byte, len(deviceBytes)), deviceBytes),
	}, nil
}

func (s *PlayPCMStream) start(ctx context.Context) error {
	if err := s.PortAudioStream.Start(); err != nil {
		return fmt.Errorf("unable to start the stream: %w", err)
	}
	s.pump.start(ctx, s.readIn, s.writeDevice, func() {
		s.PortAudioStream.Stop()
	})
	return nil
}

// readIn fills the whole buffer; the tail of the last one is padded with
// silence.
func (s *PlayPCMStream) readIn(ctx context.Context, buf []byte) (int, error) {
	n, err := io.ReadFull(s.Reader, buf)
	logger.Tracef(ctx, "/Read: %d %v", n, err)
	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		if n == 0 {
			return 0, io.EOF
		}
		clear(buf[n:])
		return len(buf), io.EOF
	default:
		return 0, err
	}
}

func (s *PlayPCMStream) writeDevice(ctx context.Context, _ []byte) error {
	err := s.PortAudioStream.Write()
	logger.Tracef(ctx, "/Write: %v", err)
	if err != nil {
		return fmt.Errorf("unable to write: %w", err)
	}
	return nil
}

// Drain blocks until everything read from Reader is handed to the device.
func (s *PlayPCMStream) Drain() error {
	return s.pump.wait()
}

func (s *PlayPCMStream) Close() error {
	s.closeOnce.Do(func() {
		s.pump.stop()
		s.pump.wait()
		s.closeErr = s.PortAudioStream.Close()
	})
	return s.closeErr
}
