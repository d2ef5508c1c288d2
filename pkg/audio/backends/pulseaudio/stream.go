package pulseaudio

import (
	"fmt"
)

type pulseStream interface {
	Stop()
	Close()
	Error() error
}

// stopAndClose releases a pulse stream. The client panics when the stream
// is used after its connection is gone, so the panic is turned into an error.
func stopAndClose(s pulseStream) (_err error) {
	defer func() {
		if r := recover(); r != nil {
			_err = fmt.Errorf("got a panic: %v", r)
		}
	}()
	s.Stop()
	s.Close()
	return s.Error()
}
