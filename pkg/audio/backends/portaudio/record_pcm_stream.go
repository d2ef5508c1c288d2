package portaudio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
	"unsafe"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/gordonklaus/portaudio"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

const (
	RecordBufferSize = time.Millisecond * 100
)

// RecordPCMStream reads blocking from a PortAudio input stream and forwards
// every buffer to Writer as little-endian interleaved bytes.
type RecordPCMStream struct {
	PortAudioStream *portaudio.Stream
	Writer          io.Writer

	pump    *bufferPump
	locker  sync.Mutex
	started bool
	closed  bool
}

var _ types.InputStream = (*RecordPCMStream)(nil)

func newRecordPCMStream[T float32 | int16](
	ctx context.Context,
	device *portaudio.DeviceInfo,
	cfg types.InputConfig,
	writer io.Writer,
) (*RecordPCMStream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfg, err)
	}
	framesPerBuffer := int(RecordBufferSize.Seconds() * float64(cfg.SampleRate))

	var sample T
	deviceBuf := make([]T, framesPerBuffer*int(cfg.Channels))
	logger.Debugf(ctx, "newRecordPCMStream: %T, %s %s(%d)", sample, cfg, RecordBufferSize, framesPerBuffer)
	params := portaudio.LowLatencyParameters(device, nil)
	params.Input.Channels = int(cfg.Channels)
	params.SampleRate = float64(cfg.SampleRate)
	params.FramesPerBuffer = framesPerBuffer
	stream, err := portaudio.OpenStream(params, deviceBuf)
	if err != nil {
		return nil, fmt.Errorf("unable to open a stream on '%s': %w", device.Name, err)
	}

	deviceBytes := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(deviceBuf))), len(deviceBuf)*int(unsafe.Sizeof(sample)))
	return &RecordPCMStream{
		PortAudioStream: stream,
		Writer:          writer,
		pump:            newBufferPump(deviceBytes, make([]byte, len(deviceBytes))),
	}, nil
}

func (s *RecordPCMStream) Play(
	ctx context.Context,
) error {
	s.locker.Lock()
	defer s.locker.Unlock()
	if s.closed {
		return fmt.Errorf("the stream is closed")
	}
	if s.started {
		return nil
	}

	if err := s.PortAudioStream.Start(); err != nil {
		return fmt.Errorf("unable to start the stream: %w", err)
	}
	s.started = true
	s.pump.start(ctx, s.readDevice, s.writeOut, func() {
		s.PortAudioStream.Abort()
	})
	return nil
}

func (s *RecordPCMStream) readDevice(ctx context.Context, buf []byte) (int, error) {
	logger.Tracef(ctx, "Read")
	err := s.PortAudioStream.Read()
	logger.Tracef(ctx, "/Read: %v", err)
	if err != nil {
		return 0, err
	}
	return len(buf), nil
}

func (s *RecordPCMStream) writeOut(ctx context.Context, buf []byte) error {
	n, err := s.Writer.Write(buf)
	logger.Tracef(ctx, "/Write: %d %v", n, err)
	if n != len(buf) {
		return fmt.Errorf("invalid write length: %d != %d", n, len(buf))
	}
	return nil
}

// Close stops the capture and waits until the last write is done.
func (s *RecordPCMStream) Close() error {
	s.locker.Lock()
	if s.closed {
		s.locker.Unlock()
		return nil
	}
	s.closed = true
	started := s.started
	s.locker.Unlock()

	if started {
		s.pump.stop()
		if err := s.pump.wait(); err != nil {
			logger.Default().Debugf("the capture loops ended with: %v", err)
		}
	}
	return s.PortAudioStream.Close()
}
