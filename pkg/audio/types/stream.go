package types

import (
	"context"
	"io"
)

type Stream interface {
	io.Closer
}

type PlayStream interface {
	Stream
	Drain() error
}

// InputStream delivers no data until Play is called. Close stops the
// delivery: no writes happen after Close returns.
type InputStream interface {
	Stream
	Play(context.Context) error
}
