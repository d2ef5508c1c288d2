package capture

import (
	"fmt"
)

type Stage uint

const (
	StageUndefined = Stage(iota)
	StageDevice
	StageConfig
	StageOutput
	StageStream
)

func (s Stage) String() string {
	switch s {
	case StageUndefined:
		return "<undefined>"
	case StageDevice:
		return "device"
	case StageConfig:
		return "config"
	case StageOutput:
		return "output"
	case StageStream:
		return "stream"
	default:
		return fmt.Sprintf("<unknown_%d>", uint(s))
	}
}

// StartError is returned by Session.Start; Stage tells which setup step failed.
type StartError struct {
	Stage Stage
	Err   error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("unable to set up the capture (stage '%s'): %v", e.Stage, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// ErrAlreadyStarted is returned when Start is called on a session more than once.
var ErrAlreadyStarted = fmt.Errorf("the session was already started")
