package synthetic

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/micrecorder/pkg/audio/sample"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
	"github.com/xaionaro-go/observability"
)

type InputStream struct {
	device *Device
	config types.InputConfig
	writer io.Writer

	// deliverLocker serializes the writes, like a hardware callback thread
	// does, and makes Close wait for an in-flight delivery.
	deliverLocker sync.Mutex
	playing       bool
	closed        bool
	cancelFunc    context.CancelFunc
	waitGroup     sync.WaitGroup
}

var _ types.InputStream = (*InputStream)(nil)

func (s *InputStream) Play(ctx context.Context) error {
	if s.device.Config.PlayError != nil {
		return s.device.Config.PlayError
	}

	s.deliverLocker.Lock()
	defer s.deliverLocker.Unlock()
	if s.closed {
		return fmt.Errorf("the stream is closed")
	}
	if s.playing {
		return nil
	}
	s.playing = true
	s.device.addActiveStream(s)

	if s.device.Config.BufferDuration > 0 {
		ctx, s.cancelFunc = context.WithCancel(context.WithoutCancel(ctx))
		s.waitGroup.Add(1)
		observability.Go(ctx, func() {
			defer s.waitGroup.Done()
			s.generatorLoop(ctx)
		})
	}
	return nil
}

func (s *InputStream) generatorLoop(ctx context.Context) {
	logger.Debugf(ctx, "generatorLoop")
	defer func() { logger.Debugf(ctx, "/generatorLoop") }()

	cfg := s.device.Config
	frames := int(cfg.BufferDuration.Seconds() * float64(s.config.SampleRate))
	if frames <= 0 {
		frames = 1
	}
	values := make([]float64, frames*int(s.config.Channels))
	buf := make([]byte, 0, len(values)*int(s.config.Format.Size()))

	var phase float64
	phaseStep := 2 * math.Pi * cfg.SineFrequency / float64(s.config.SampleRate)

	t := time.NewTicker(cfg.BufferDuration)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}

		for frame := 0; frame < frames; frame++ {
			var v float64
			if cfg.SineFrequency > 0 {
				v = cfg.SineAmplitude * math.Sin(phase)
				phase = math.Mod(phase+phaseStep, 2*math.Pi)
			}
			for ch := 0; ch < int(s.config.Channels); ch++ {
				values[frame*int(s.config.Channels)+ch] = v
			}
		}
		buf = sample.Encode(s.config.Format, buf[:0], values...)
		s.deliver(buf)
	}
}

func (s *InputStream) deliver(p []byte) {
	s.deliverLocker.Lock()
	defer s.deliverLocker.Unlock()
	if !s.playing || s.closed {
		return
	}
	s.writer.Write(p)
}

func (s *InputStream) Close() error {
	s.deliverLocker.Lock()
	if s.closed {
		s.deliverLocker.Unlock()
		return nil
	}
	s.closed = true
	s.playing = false
	cancelFunc := s.cancelFunc
	s.deliverLocker.Unlock()

	s.device.removeActiveStream(s)
	if cancelFunc != nil {
		cancelFunc()
	}
	s.waitGroup.Wait()
	if gate := s.device.Config.CloseGate; gate != nil {
		<-gate
	}
	return nil
}
