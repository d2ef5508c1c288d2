// Package recording implements the start/stop control of a single
// recording at a time.
package recording

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
	"github.com/xaionaro-go/micrecorder/pkg/capture"
)

type state uint

const (
	stateIdle = state(iota)
	stateStarting
	stateRecording
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateStarting:
		return "starting"
	case stateRecording:
		return "recording"
	default:
		return fmt.Sprintf("<unknown_%d>", uint(s))
	}
}

type Controller struct {
	host     types.Host
	resolver PathResolver
	config   config

	locker     sync.Mutex
	state      state
	outputPath string

	// session is the active one while recording, and the last one
	// (possibly still finalizing) while idle.
	session *capture.Session
}

func New(
	host types.Host,
	resolver PathResolver,
	opts ...Option,
) *Controller {
	return &Controller{
		host:     host,
		resolver: resolver,
		config:   Options(opts).config(),
	}
}

// Start begins a new recording and returns the path of the output file.
// Only one recording may exist at a time: concurrent calls get
// ErrAlreadyRecording.
func (c *Controller) Start(ctx context.Context) (_ string, _err error) {
	logger.Debugf(ctx, "Start")
	defer func() { logger.Debugf(ctx, "/Start: %v", _err) }()

	c.locker.Lock()
	if c.state != stateIdle {
		st := c.state
		c.locker.Unlock()
		return "", fmt.Errorf("%w (state: %s)", ErrAlreadyRecording, st)
	}
	c.state = stateStarting
	prevSession := c.session
	c.locker.Unlock()

	session, path, err := c.startSession(ctx, prevSession)

	c.locker.Lock()
	defer c.locker.Unlock()
	if err != nil {
		c.state = stateIdle
		return "", err
	}
	c.state = stateRecording
	c.outputPath = path
	c.session = session
	return path, nil
}

func (c *Controller) startSession(
	ctx context.Context,
	prevSession *capture.Session,
) (*capture.Session, string, error) {
	if prevSession != nil {
		waitCtx, cancelFn := context.WithTimeout(ctx, c.config.FinalizeTimeout)
		err := prevSession.Wait(waitCtx)
		cancelFn()
		if err != nil && waitCtx.Err() != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrPreviousNotFinalized, err)
		}
	}

	dir, err := c.resolver.OutputDir(ctx)
	if err != nil {
		return nil, "", &PathResolutionError{Err: err}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", &PathResolutionError{Err: fmt.Errorf("unable to create '%s': %w", dir, err)}
	}
	path := filepath.Join(dir, c.config.FileName)

	session := capture.NewSession(c.host, path, c.config.SessionOptions...)
	err = session.Start(ctx)
	switch {
	case err == nil:
		return session, path, nil
	case capture.IsStartError(err, capture.StageOutput):
		return nil, "", &OutputFileError{Path: path, Err: err}
	default:
		return nil, "", &DeviceError{Err: err}
	}
}

// Stop ends the recording and waits (bounded by the finalize timeout) for
// the output file to be finalized. It returns the path of the file.
func (c *Controller) Stop(ctx context.Context) (_ string, _err error) {
	logger.Debugf(ctx, "Stop")
	defer func() { logger.Debugf(ctx, "/Stop: %v", _err) }()

	c.locker.Lock()
	if c.state != stateRecording {
		st := c.state
		c.locker.Unlock()
		return "", fmt.Errorf("%w (state: %s)", ErrNotRecording, st)
	}
	if c.outputPath == "" {
		c.locker.Unlock()
		return "", ErrNoOutputPath
	}
	session := c.session
	path := c.outputPath
	c.state = stateIdle
	c.locker.Unlock()

	session.Stop()

	waitCtx, cancelFn := context.WithTimeout(ctx, c.config.FinalizeTimeout)
	defer cancelFn()
	err := session.Wait(waitCtx)
	switch {
	case err == nil:
		return path, nil
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		logger.Warnf(ctx, "the recording '%s' is not finalized yet: %v", path, err)
		return path, nil
	default:
		return path, fmt.Errorf("unable to finalize the recording '%s': %w", path, err)
	}
}

func (c *Controller) IsRecording() bool {
	c.locker.Lock()
	defer c.locker.Unlock()
	return c.state == stateRecording
}

// OutputPath returns the path of the current or the last recording.
func (c *Controller) OutputPath() (string, bool) {
	c.locker.Lock()
	defer c.locker.Unlock()
	return c.outputPath, c.outputPath != ""
}

// CapturedBytes returns the amount of raw bytes captured by the current or the last recording.
func (c *Controller) CapturedBytes() uint64 {
	c.locker.Lock()
	session := c.session
	c.locker.Unlock()
	if session == nil {
		return 0
	}
	return session.CapturedBytes()
}

// Close stops the recording if any and waits (bounded by the finalize
// timeout) for the output file to be finalized.
func (c *Controller) Close(ctx context.Context) error {
	if _, err := c.Stop(ctx); err != nil && !errors.Is(err, ErrNotRecording) {
		return err
	}

	c.locker.Lock()
	session := c.session
	c.locker.Unlock()
	if session == nil {
		return nil
	}
	waitCtx, cancelFn := context.WithTimeout(ctx, c.config.FinalizeTimeout)
	defer cancelFn()
	if err := session.Wait(waitCtx); err != nil {
		return fmt.Errorf("unable to wait for the recording to be finalized: %w", err)
	}
	return nil
}
