package types

import (
	"errors"
)

var (
	ErrNoInputDevice           = errors.New("no input device available")
	ErrUnsupportedSampleFormat = errors.New("unsupported sample format")
)
