package audio

import (
	"context"
)

// HostDummy is the host of a system without any usable audio backend.
type HostDummy struct{}

var _ Host = HostDummy{}

func (HostDummy) Close() error {
	return nil
}

func (HostDummy) Name() string {
	return "dummy"
}

func (HostDummy) Ping(context.Context) error {
	return nil
}

func (HostDummy) DefaultInputDevice(context.Context) (InputDevice, error) {
	return nil, ErrNoInputDevice
}
