package recording

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/micrecorder/pkg/audio/backends/synthetic"
	"github.com/xaionaro-go/micrecorder/pkg/audio/sample"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
	"github.com/xaionaro-go/micrecorder/pkg/capture"
)

var testInputConfig = types.InputConfig{
	Format: types.SampleFormatSignedInt16,
	StreamConfig: types.StreamConfig{
		Channels:   1,
		SampleRate: 16000,
	},
}

func newTestController(t *testing.T, deviceCfg synthetic.DeviceConfig) (*Controller, *synthetic.Host, string) {
	dir := filepath.Join(t.TempDir(), "data")
	host := synthetic.NewHost(deviceCfg)
	c := New(host, StaticDir(dir), OptionSessionOptions{capture.OptionPollInterval(time.Millisecond)})
	return c, host, dir
}

func readSamples(t *testing.T, path string) []int {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	buf, err := wav.NewDecoder(f).FullPCMBuffer()
	require.NoError(t, err)
	return buf.Data
}

func TestControllerStartStop(t *testing.T) {
	ctx := context.Background()
	c, host, dir := newTestController(t, synthetic.DeviceConfig{Input: testInputConfig})
	require.False(t, c.IsRecording())
	_, ok := c.OutputPath()
	require.False(t, ok)

	path, err := c.Start(ctx)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, DefaultFileName), path)
	require.True(t, c.IsRecording())

	raw := sample.Encode(types.SampleFormatSignedInt16, nil, 0.25, -0.25, 0.5)
	require.NoError(t, host.Device.Deliver(raw))
	require.Equal(t, uint64(len(raw)), c.CapturedBytes())

	stoppedPath, err := c.Stop(ctx)
	require.NoError(t, err)
	require.Equal(t, path, stoppedPath)
	require.False(t, c.IsRecording())

	outputPath, ok := c.OutputPath()
	require.True(t, ok)
	require.Equal(t, path, outputPath)
	require.Equal(t, []int{8192, -8192, 16384}, readSamples(t, path))
}

func TestControllerStopBeforeStart(t *testing.T) {
	c, _, _ := newTestController(t, synthetic.DeviceConfig{Input: testInputConfig})
	_, err := c.Stop(context.Background())
	require.ErrorIs(t, err, ErrNotRecording)
	require.False(t, c.IsRecording())
}

func TestControllerDoubleStop(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestController(t, synthetic.DeviceConfig{Input: testInputConfig})
	_, err := c.Start(ctx)
	require.NoError(t, err)
	_, err = c.Stop(ctx)
	require.NoError(t, err)
	_, err = c.Stop(ctx)
	require.ErrorIs(t, err, ErrNotRecording)
}

func TestControllerConcurrentStart(t *testing.T) {
	ctx := context.Background()
	c, host, _ := newTestController(t, synthetic.DeviceConfig{Input: testInputConfig})

	const count = 8
	var (
		wg      sync.WaitGroup
		results = make([]error, count)
		start   = make(chan struct{})
	)
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, results[i] = c.Start(ctx)
		}(i)
	}
	close(start)
	wg.Wait()

	var successes int
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyRecording)
	}
	require.Equal(t, 1, successes)
	require.Equal(t, uint(1), host.Device.OpenedCount())

	_, err := c.Stop(ctx)
	require.NoError(t, err)
}

func TestControllerCycles(t *testing.T) {
	ctx := context.Background()
	c, host, _ := newTestController(t, synthetic.DeviceConfig{Input: testInputConfig})

	for i := 1; i <= 5; i++ {
		path, err := c.Start(ctx)
		require.NoError(t, err)

		var values []float64
		for j := 0; j < i; j++ {
			values = append(values, 0.5)
		}
		require.NoError(t, host.Device.Deliver(sample.Encode(types.SampleFormatSignedInt16, nil, values...)))

		_, err = c.Stop(ctx)
		require.NoError(t, err)
		require.Len(t, readSamples(t, path), i, "cycle #%d", i)
	}
	require.Equal(t, uint(5), host.Device.OpenedCount())
	require.Zero(t, host.Device.ActiveStreams())
}

func TestControllerNoDevice(t *testing.T) {
	c, _, _ := newTestController(t, synthetic.DeviceConfig{NoDevice: true})

	_, err := c.Start(context.Background())
	var deviceErr *DeviceError
	require.ErrorAs(t, err, &deviceErr)
	require.ErrorIs(t, err, types.ErrNoInputDevice)
	require.False(t, c.IsRecording())

	_, err = c.Stop(context.Background())
	require.ErrorIs(t, err, ErrNotRecording)
}

func TestControllerStartErrors(t *testing.T) {
	t.Run("path_resolution", func(t *testing.T) {
		c := New(synthetic.NewHost(synthetic.DeviceConfig{Input: testInputConfig}), StaticDir(""))
		_, err := c.Start(context.Background())
		var pathErr *PathResolutionError
		require.ErrorAs(t, err, &pathErr)
		require.False(t, c.IsRecording())
	})

	t.Run("directory_is_a_file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0o644))
		c := New(synthetic.NewHost(synthetic.DeviceConfig{Input: testInputConfig}), StaticDir(file))
		_, err := c.Start(context.Background())
		var pathErr *PathResolutionError
		require.ErrorAs(t, err, &pathErr)
	})

	t.Run("output_file", func(t *testing.T) {
		dir := t.TempDir()
		c := New(
			synthetic.NewHost(synthetic.DeviceConfig{Input: testInputConfig}),
			StaticDir(dir),
			OptionFileName(filepath.Join("missing", "recording.wav")),
		)
		_, err := c.Start(context.Background())
		var fileErr *OutputFileError
		require.ErrorAs(t, err, &fileErr)
		require.Equal(t, filepath.Join(dir, "missing", "recording.wav"), fileErr.Path)
		require.False(t, c.IsRecording())
	})

	t.Run("stream", func(t *testing.T) {
		errTest := errors.New("test error")
		c, _, _ := newTestController(t, synthetic.DeviceConfig{Input: testInputConfig, PlayError: errTest})
		_, err := c.Start(context.Background())
		var deviceErr *DeviceError
		require.ErrorAs(t, err, &deviceErr)
		require.ErrorIs(t, err, errTest)
		require.False(t, c.IsRecording())
	})
}

func TestControllerClose(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestController(t, synthetic.DeviceConfig{Input: testInputConfig})
	require.NoError(t, c.Close(ctx))

	path, err := c.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Close(ctx))
	require.False(t, c.IsRecording())
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(44), info.Size())
}

func TestAppDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	dir, err := AppDataDir{AppName: "micrecorder"}.OutputDir(context.Background())
	require.NoError(t, err)
	require.Equal(t, "micrecorder", filepath.Base(dir))

	_, err = AppDataDir{}.OutputDir(context.Background())
	require.Error(t, err)
}

func TestControllerStartWhilePreviousHangs(t *testing.T) {
	ctx := context.Background()
	gate := make(chan struct{})
	host := synthetic.NewHost(synthetic.DeviceConfig{Input: testInputConfig, CloseGate: gate})
	c := New(host, StaticDir(t.TempDir()),
		OptionFinalizeTimeout(50*time.Millisecond),
		OptionSessionOptions{capture.OptionPollInterval(time.Millisecond)},
	)

	path, err := c.Start(ctx)
	require.NoError(t, err)
	stoppedPath, err := c.Stop(ctx)
	require.NoError(t, err, "a finalize timeout is only logged")
	require.Equal(t, path, stoppedPath)

	startedAt := time.Now()
	_, err = c.Start(ctx)
	require.ErrorIs(t, err, ErrPreviousNotFinalized)
	require.Less(t, time.Since(startedAt), time.Second)
	require.False(t, c.IsRecording())
	require.Error(t, c.Close(ctx))

	close(gate)
	_, err = c.Start(ctx)
	require.NoError(t, err)
	require.True(t, c.IsRecording())
	require.NoError(t, c.Close(ctx))
	require.False(t, c.IsRecording())
}
