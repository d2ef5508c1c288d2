// Package capture records the default input device of an audio host into
// a WAV file until stopped.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/datacounter"
	"github.com/xaionaro-go/micrecorder/pkg/audio/sample"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
	"github.com/xaionaro-go/micrecorder/pkg/wavfile"
	"github.com/xaionaro-go/observability"
)

type Session struct {
	id         uuid.UUID
	host       types.Host
	outputPath string
	config     config

	stopFlag StopFlag
	doneCh   chan struct{}

	locker      sync.Mutex
	started     bool
	inputConfig types.InputConfig
	writer      *wavfile.Writer
	stream      types.InputStream
	counter     *datacounter.WriterCounter
	sink        *sink
	err         error
}

func NewSession(
	host types.Host,
	outputPath string,
	opts ...Option,
) *Session {
	return &Session{
		id:         uuid.New(),
		host:       host,
		outputPath: outputPath,
		config:     Options(opts).config(),
		doneCh:     make(chan struct{}),
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) OutputPath() string {
	return s.outputPath
}

// Start opens the default input device, creates the output file and
// starts the capture. On failure everything acquired is released and the
// error is a *StartError.
func (s *Session) Start(ctx context.Context) (_err error) {
	ctx = belt.WithField(ctx, "capture_session", s.id.String())
	logger.Debugf(ctx, "Start: %s", s.outputPath)
	defer func() { logger.Debugf(ctx, "/Start: %v", _err) }()

	s.locker.Lock()
	defer s.locker.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	err := s.start(ctx)
	if err != nil {
		s.err = err
		close(s.doneCh)
		return err
	}

	supervisorCtx := context.WithoutCancel(ctx)
	observability.Go(supervisorCtx, func() {
		s.supervise(supervisorCtx)
	})
	return nil
}

func (s *Session) start(ctx context.Context) error {
	device, err := s.host.DefaultInputDevice(ctx)
	if err != nil {
		return &StartError{Stage: StageDevice, Err: err}
	}
	logger.Debugf(ctx, "input device: '%s'", device.Name())

	inputConfig, err := device.DefaultInputConfig(ctx)
	if err != nil {
		return &StartError{Stage: StageConfig, Err: err}
	}
	if err := inputConfig.Validate(); err != nil {
		return &StartError{Stage: StageConfig, Err: err}
	}
	converter, err := sample.NewConverter(inputConfig.Format)
	if err != nil {
		return &StartError{Stage: StageConfig, Err: err}
	}
	logger.Debugf(ctx, "input config: %s", inputConfig)

	writer, err := wavfile.Create(s.outputPath, wavfile.Spec{
		Channels:   int(inputConfig.Channels),
		SampleRate: int(inputConfig.SampleRate),
	})
	if err != nil {
		return &StartError{Stage: StageOutput, Err: err}
	}

	sink := newSink(ctx, &s.stopFlag, converter, writer)
	counter := datacounter.NewWriterCounter(sink)
	stream, err := device.OpenInputStream(ctx, inputConfig, counter)
	if err != nil {
		return &StartError{Stage: StageStream, Err: s.abort(ctx, nil, writer, fmt.Errorf("unable to open the input stream: %w", err))}
	}

	if err := stream.Play(ctx); err != nil {
		return &StartError{Stage: StageStream, Err: s.abort(ctx, stream, writer, fmt.Errorf("unable to start the input stream: %w", err))}
	}

	s.inputConfig = inputConfig
	s.writer = writer
	s.stream = stream
	s.counter = counter
	s.sink = sink
	return nil
}

func (s *Session) abort(
	ctx context.Context,
	stream types.InputStream,
	writer *wavfile.Writer,
	cause error,
) error {
	s.stopFlag.Stop()
	mErr := multierror.Append(nil, cause)
	if stream != nil {
		if err := stream.Close(); err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("unable to close the input stream: %w", err))
		}
	}
	if err := writer.Abort(); err != nil {
		mErr = multierror.Append(mErr, fmt.Errorf("unable to remove the output file: %w", err))
	}
	if len(mErr.Errors) > 1 {
		logger.Errorf(ctx, "unable to release the resources: %v", mErr)
	}
	return mErr.ErrorOrNil()
}

func (s *Session) supervise(ctx context.Context) {
	logger.Debugf(ctx, "supervise")
	defer func() { logger.Debugf(ctx, "/supervise") }()

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = multierror.Append(err, fmt.Errorf("got a panic: %v", r))
		}
		s.locker.Lock()
		s.err = err
		s.locker.Unlock()
		if err != nil {
			logger.Errorf(ctx, "unable to finalize the recording '%s': %v", s.outputPath, err)
		}
		close(s.doneCh)
	}()

	t := time.NewTicker(s.config.PollInterval)
	defer t.Stop()
	for {
		select {
		case <-s.stopFlag.Stopped():
			err = s.finish(ctx)
			return
		case <-t.C:
			logger.Tracef(ctx, "captured: %d bytes, %d frames", s.counter.Count(), s.writer.FramesWritten())
		}
	}
}

// finish closes the stream first, so no callback can be in flight while
// the header is patched.
func (s *Session) finish(ctx context.Context) error {
	var mErr *multierror.Error
	if err := s.stream.Close(); err != nil {
		mErr = multierror.Append(mErr, fmt.Errorf("unable to close the input stream: %w", err))
	}
	if err := s.writer.Finalize(); err != nil {
		mErr = multierror.Append(mErr, fmt.Errorf("unable to finalize the output file: %w", err))
	}
	logger.Debugf(ctx, "finished '%s': %d frames, %d bytes captured, %d append errors",
		s.outputPath, s.writer.FramesWritten(), s.counter.Count(), s.sink.ErrorCount())
	return mErr.ErrorOrNil()
}

// Stop requests the end of the capture and returns immediately; use Done
// or Wait to learn when the file is finalized.
func (s *Session) Stop() {
	s.stopFlag.Stop()
}

func (s *Session) IsStopped() bool {
	return s.stopFlag.IsStopped()
}

// Done is closed when the output file is finalized, or when Start failed.
func (s *Session) Done() <-chan struct{} {
	return s.doneCh
}

// Err returns the error of Start or of the finalization.
func (s *Session) Err() error {
	s.locker.Lock()
	defer s.locker.Unlock()
	return s.err
}

func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.doneCh:
		return s.Err()
	}
}

func (s *Session) InputConfig() types.InputConfig {
	s.locker.Lock()
	defer s.locker.Unlock()
	return s.inputConfig
}

// CapturedBytes returns the amount of raw bytes received from the device.
func (s *Session) CapturedBytes() uint64 {
	s.locker.Lock()
	counter := s.counter
	s.locker.Unlock()
	if counter == nil {
		return 0
	}
	return counter.Count()
}

func (s *Session) FramesWritten() uint64 {
	s.locker.Lock()
	writer := s.writer
	s.locker.Unlock()
	if writer == nil {
		return 0
	}
	return writer.FramesWritten()
}

// IsStartError reports whether err happened during the setup at the given stage.
func IsStartError(err error, stage Stage) bool {
	var startErr *StartError
	return errors.As(err, &startErr) && startErr.Stage == stage
}
