package capture

import (
	"context"
	"fmt"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/micrecorder/pkg/audio/sample"
	"github.com/xaionaro-go/micrecorder/pkg/wavfile"
)

type sampleAppender interface {
	Append(samples ...int16) error
}

var _ sampleAppender = (*wavfile.Writer)(nil)

// sink is the io.Writer handed to the input stream. It is called on a
// thread owned by the backend and never reports an error back to it.
type sink struct {
	ctx       context.Context
	stopFlag  *StopFlag
	converter sample.Converter
	writer    sampleAppender

	// the backend serializes the callbacks, the locker only protects
	// against backends that do not
	locker     sync.Mutex
	remainder  []byte
	samples    []int16
	errorCount uint64
}

func newSink(
	ctx context.Context,
	stopFlag *StopFlag,
	converter sample.Converter,
	writer sampleAppender,
) *sink {
	return &sink{
		ctx:       ctx,
		stopFlag:  stopFlag,
		converter: converter,
		writer:    writer,
		remainder: make([]byte, 0, converter.SampleSize()),
	}
}

func (s *sink) Write(p []byte) (_n int, _err error) {
	if s.stopFlag.IsStopped() {
		return len(p), nil
	}

	s.locker.Lock()
	defer s.locker.Unlock()
	defer func() {
		if r := recover(); r != nil {
			s.reportError(fmt.Errorf("got a panic: %v", r))
			_n, _err = len(p), nil
		}
	}()

	if err := s.writer.Append(s.convert(p)...); err != nil {
		s.reportError(err)
	}
	return len(p), nil
}

// convert handles buffers that split a sample across two callbacks.
func (s *sink) convert(p []byte) []int16 {
	sampleSize := int(s.converter.SampleSize())
	s.samples = s.samples[:0]

	if len(s.remainder) > 0 {
		n := copy(s.remainder[len(s.remainder):sampleSize], p)
		s.remainder = s.remainder[:len(s.remainder)+n]
		p = p[n:]
		if len(s.remainder) < sampleSize {
			return s.samples
		}
		s.samples = s.converter.Convert(s.samples, s.remainder)
		s.remainder = s.remainder[:0]
	}

	whole := len(p) - len(p)%sampleSize
	s.samples = s.converter.Convert(s.samples, p[:whole])
	s.remainder = append(s.remainder, p[whole:]...)
	return s.samples
}

func (s *sink) reportError(err error) {
	s.errorCount++
	if s.errorCount == 1 {
		logger.Errorf(s.ctx, "unable to store the captured samples (further errors are logged at the trace level): %v", err)
		return
	}
	logger.Tracef(s.ctx, "unable to store the captured samples (error #%d): %v", s.errorCount, err)
}

func (s *sink) ErrorCount() uint64 {
	s.locker.Lock()
	defer s.locker.Unlock()
	return s.errorCount
}
