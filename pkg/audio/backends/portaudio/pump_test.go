package portaudio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBufferPumpDeliversEverything(t *testing.T) {
	ctx := context.Background()
	src := bytes.NewReader([]byte("0123456789"))
	var out bytes.Buffer
	stopped := make(chan struct{})

	p := newBufferPump(make([]byte, 4), make([]byte, 4))
	p.start(ctx,
		func(_ context.Context, buf []byte) (int, error) {
			n, err := io.ReadFull(src, buf)
			if errors.Is(err, io.ErrUnexpectedEOF) {
				clear(buf[n:])
				return len(buf), io.EOF
			}
			return n, err
		},
		func(_ context.Context, buf []byte) error {
			out.Write(buf)
			return nil
		},
		func() { close(stopped) },
	)
	require.NoError(t, p.wait())
	require.Equal(t, []byte("0123456789\x00\x00"), out.Bytes())
	<-stopped
}

func TestBufferPumpStop(t *testing.T) {
	ctx := context.Background()
	unblock := make(chan struct{})
	var consumed int

	p := newBufferPump(make([]byte, 2), make([]byte, 2))
	p.start(ctx,
		func(ctx context.Context, buf []byte) (int, error) {
			select {
			case <-unblock:
				return 0, errors.New("aborted")
			case <-time.After(time.Millisecond):
				return len(buf), nil
			}
		},
		func(_ context.Context, buf []byte) error {
			consumed++
			return nil
		},
		func() { close(unblock) },
	)
	time.Sleep(20 * time.Millisecond)
	p.stop()
	require.NoError(t, p.wait())
	after := consumed
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, after, consumed)
}

func TestBufferPumpConsumerError(t *testing.T) {
	ctx := context.Background()
	unblock := make(chan struct{})
	p := newBufferPump(make([]byte, 2), make([]byte, 2))
	p.start(ctx,
		func(ctx context.Context, buf []byte) (int, error) {
			select {
			case <-unblock:
				return 0, errors.New("aborted")
			default:
				return len(buf), nil
			}
		},
		func(context.Context, []byte) error {
			return errors.New("disk full")
		},
		func() { close(unblock) },
	)
	require.ErrorContains(t, p.wait(), "disk full")
}
