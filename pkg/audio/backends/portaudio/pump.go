package portaudio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/observability"
)

// bufferPump moves fixed-size buffers from a producer to a consumer through
// a single handoff, so the device side and the I/O side never wait for each
// other longer than one buffer.
type bufferPump struct {
	front []byte
	back  []byte
	ready chan struct{}
	taken chan struct{}

	cancelFunc context.CancelFunc
	waitGroup  sync.WaitGroup

	errLocker sync.Mutex
	err       *multierror.Error
}

// produceFunc fills buf and returns how many bytes it filled. io.EOF ends
// the pump normally after the filled part is handed off.
type produceFunc func(ctx context.Context, buf []byte) (int, error)

type consumeFunc func(ctx context.Context, buf []byte) error

func newBufferPump(front, back []byte) *bufferPump {
	if len(front) != len(back) {
		panic(fmt.Errorf("buffer sizes differ: %d != %d", len(front), len(back)))
	}
	return &bufferPump{
		front: front,
		back:  back,
		ready: make(chan struct{}),
		taken: make(chan struct{}),
	}
}

// start runs the loops until the producer is exhausted, either side fails
// or stop is called. onStop is called once the pump is cancelled, it must
// unblock a producer waiting on the device.
func (p *bufferPump) start(
	ctx context.Context,
	produce produceFunc,
	consume consumeFunc,
	onStop func(),
) {
	ctx, p.cancelFunc = context.WithCancel(context.WithoutCancel(ctx))

	p.waitGroup.Add(3)
	observability.Go(ctx, func() {
		defer p.waitGroup.Done()
		<-ctx.Done()
		onStop()
	})
	observability.Go(ctx, func() {
		defer p.waitGroup.Done()
		p.addError(p.produceLoop(ctx, produce))
	})
	observability.Go(ctx, func() {
		defer p.waitGroup.Done()
		defer p.cancelFunc()
		p.addError(p.consumeLoop(ctx, consume))
	})
}

func (p *bufferPump) produceLoop(
	ctx context.Context,
	produce produceFunc,
) (_err error) {
	logger.Debugf(ctx, "produceLoop")
	defer func() { logger.Debugf(ctx, "/produceLoop: %v", _err) }()
	defer close(p.ready)

	for {
		n, err := produce(ctx, p.front)
		if ctx.Err() != nil {
			return nil
		}
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return fmt.Errorf("unable to fill a buffer: %w", err)
		}
		if n > 0 {
			select {
			case p.ready <- struct{}{}:
			case <-ctx.Done():
				return nil
			}
			select {
			case <-p.taken:
			case <-ctx.Done():
				return nil
			}
		}
		if eof {
			return nil
		}
	}
}

func (p *bufferPump) consumeLoop(
	ctx context.Context,
	consume consumeFunc,
) (_err error) {
	logger.Debugf(ctx, "consumeLoop")
	defer func() { logger.Debugf(ctx, "/consumeLoop: %v", _err) }()

	for {
		select {
		case _, ok := <-p.ready:
			if !ok {
				return nil
			}
		case <-ctx.Done():
			return nil
		}
		copy(p.back, p.front)
		select {
		case p.taken <- struct{}{}:
		case <-ctx.Done():
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		if err := consume(ctx, p.back); err != nil {
			return err
		}
	}
}

func (p *bufferPump) addError(err error) {
	if err == nil {
		return
	}
	p.errLocker.Lock()
	defer p.errLocker.Unlock()
	p.err = multierror.Append(p.err, err)
}

func (p *bufferPump) stop() {
	if p.cancelFunc != nil {
		p.cancelFunc()
	}
}

// wait blocks until all the loops are finished and returns their errors.
func (p *bufferPump) wait() error {
	p.waitGroup.Wait()
	p.errLocker.Lock()
	defer p.errLocker.Unlock()
	return p.err.ErrorOrNil()
}
