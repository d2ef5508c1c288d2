package capture

import (
	"sync"
	"sync/atomic"
)

// StopFlag is a one-shot cancellation token shared between the control
// path and the capture callback.
type StopFlag struct {
	stopped   atomic.Bool
	once      sync.Once
	initOnce  sync.Once
	stoppedCh chan struct{}
}

func (f *StopFlag) init() {
	f.initOnce.Do(func() {
		f.stoppedCh = make(chan struct{})
	})
}

// Stop sets the flag; repeated calls do nothing.
func (f *StopFlag) Stop() {
	f.init()
	f.once.Do(func() {
		f.stopped.Store(true)
		close(f.stoppedCh)
	})
}

// IsStopped does not block, so it is safe to call from an audio callback.
func (f *StopFlag) IsStopped() bool {
	return f.stopped.Load()
}

func (f *StopFlag) Stopped() <-chan struct{} {
	f.init()
	return f.stoppedCh
}
