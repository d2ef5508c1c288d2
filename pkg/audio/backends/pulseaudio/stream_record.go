package pulseaudio

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

type RecordStream struct {
	*pulse.RecordStream
	writer *pulseWriter
}

var _ types.InputStream = (*RecordStream)(nil)

func newRecordStream(
	pulseStream *pulse.RecordStream,
	writer *pulseWriter,
) *RecordStream {
	return &RecordStream{
		RecordStream: pulseStream,
		writer:       writer,
	}
}

func (stream *RecordStream) Play(context.Context) error {
	stream.RecordStream.Start()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("an error occurred during recording: %w", err)
	}
	return nil
}

// Close detaches the writer before stopping the stream, so nothing is
// written after Close returns even if the client delivers a late buffer.
func (stream *RecordStream) Close() error {
	stream.writer.close()
	return stopAndClose(stream.RecordStream)
}

// pulseWriter passes the raw samples through; the client calls it from
// its own goroutine, so it is gated to guarantee no writes after close.
type pulseWriter struct {
	pulseFormat byte

	locker sync.Mutex
	closed bool
	writer io.Writer
}

var _ pulse.Writer = (*pulseWriter)(nil)

func newPulseWriter(format types.SampleFormat, writer io.Writer) (*pulseWriter, error) {
	var pulseFormat byte
	switch format {
	case types.SampleFormatFloat32:
		pulseFormat = proto.FormatFloat32LE
	case types.SampleFormatSignedInt16:
		pulseFormat = proto.FormatInt16LE
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedSampleFormat, format)
	}
	return &pulseWriter{
		pulseFormat: pulseFormat,
		writer:      writer,
	}, nil
}

func (w *pulseWriter) Format() byte {
	return w.pulseFormat
}

func (w *pulseWriter) Write(p []byte) (int, error) {
	w.locker.Lock()
	defer w.locker.Unlock()
	if w.closed {
		return len(p), nil
	}
	return w.writer.Write(p)
}

func (w *pulseWriter) close() {
	w.locker.Lock()
	defer w.locker.Unlock()
	w.closed = true
}
