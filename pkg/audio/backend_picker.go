package audio

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
)

type backendFactory interface {
	BackendName() string
}

type pingCloser interface {
	io.Closer
	Ping(ctx context.Context) error
}

// backendPicker initializes the first backend that responds to a ping,
// trying the one that worked the last time first.
type backendPicker[F backendFactory, T pingCloser] struct {
	kind      string
	factories func() []F
	initFunc  func(F) (T, error)

	locker         sync.Mutex
	lastSuccessful *F
}

func (p *backendPicker[F, T]) getLastSuccessful() *F {
	p.locker.Lock()
	defer p.locker.Unlock()
	return p.lastSuccessful
}

func (p *backendPicker[F, T]) setLastSuccessful(factory F) {
	p.locker.Lock()
	defer p.locker.Unlock()
	p.lastSuccessful = &factory
}

func (p *backendPicker[F, T]) try(ctx context.Context, factory F) (_ret T, _err error) {
	backend, err := p.initFunc(factory)
	logger.Debugf(ctx, "initializing %s '%s' result is %v", p.kind, factory.BackendName(), err)
	if err != nil {
		return _ret, fmt.Errorf("unable to initialize '%s': %w", factory.BackendName(), err)
	}

	err = backend.Ping(ctx)
	logger.Debugf(ctx, "pinging %s '%s' result is %v", p.kind, factory.BackendName(), err)
	if err != nil {
		backend.Close()
		return _ret, fmt.Errorf("unable to ping '%s': %w", factory.BackendName(), err)
	}
	return backend, nil
}

func (p *backendPicker[F, T]) pick(ctx context.Context) (_ret T, _err error) {
	if last := p.getLastSuccessful(); last != nil {
		if backend, err := p.try(ctx, *last); err == nil {
			return backend, nil
		}
	}

	var mErr *multierror.Error
	for _, factory := range p.factories() {
		backend, err := p.try(ctx, factory)
		if err != nil {
			mErr = multierror.Append(mErr, err)
			continue
		}
		p.setLastSuccessful(factory)
		return backend, nil
	}
	if mErr == nil {
		return _ret, fmt.Errorf("no %s backends are registered", p.kind)
	}
	return _ret, mErr
}
