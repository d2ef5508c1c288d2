package recording

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not recording")
	ErrNoOutputPath     = errors.New("no output path was recorded")

	ErrPreviousNotFinalized = errors.New("the previous recording is still being finalized")
)

// PathResolutionError means the output directory could not be determined or created.
type PathResolutionError struct {
	Err error
}

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("unable to resolve the output directory: %v", e.Err)
}

func (e *PathResolutionError) Unwrap() error {
	return e.Err
}

// DeviceError means the input device could not be found, configured or started.
type DeviceError struct {
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("unable to set up the input device: %v", e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

type OutputFileError struct {
	Path string
	Err  error
}

func (e *OutputFileError) Error() string {
	return fmt.Sprintf("unable to create the output file '%s': %v", e.Path, e.Err)
}

func (e *OutputFileError) Unwrap() error {
	return e.Err
}
