package types

import (
	"context"
	"io"
)

// Host is an audio backend able to enumerate its input devices.
type Host interface {
	io.Closer
	Name() string
	Ping(context.Context) error

	// DefaultInputDevice returns ErrNoInputDevice (possibly wrapped) if
	// the backend has no input device.
	DefaultInputDevice(context.Context) (InputDevice, error)
}

type InputDevice interface {
	Name() string
	DefaultInputConfig(context.Context) (InputConfig, error)

	// OpenInputStream prepares a stream that, once played, writes every
	// captured buffer (raw bytes in cfg.Format) to the writer. The writes
	// happen on a thread owned by the backend.
	OpenInputStream(
		ctx context.Context,
		cfg InputConfig,
		writer io.Writer,
	) (InputStream, error)
}
