package controlserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/micrecorder/pkg/audio/backends/synthetic"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
	"github.com/xaionaro-go/micrecorder/pkg/capture"
	"github.com/xaionaro-go/micrecorder/pkg/recording"
)

func newTestServer(t *testing.T, deviceCfg synthetic.DeviceConfig) (*httptest.Server, string) {
	dir := t.TempDir()
	controller := recording.New(
		synthetic.NewHost(deviceCfg),
		recording.StaticDir(dir),
		recording.OptionSessionOptions{capture.OptionPollInterval(time.Millisecond)},
	)
	t.Cleanup(func() {
		require.NoError(t, controller.Close(context.Background()))
	})
	srv := httptest.NewServer(New(controller))
	t.Cleanup(srv.Close)
	return srv, filepath.Join(dir, recording.DefaultFileName)
}

func do(t *testing.T, method, url string, expectedCode int, result any) {
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, expectedCode, resp.StatusCode)
	if result != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(result))
	}
}

var testDeviceConfig = synthetic.DeviceConfig{
	Input: types.InputConfig{
		Format: types.SampleFormatFloat32,
		StreamConfig: types.StreamConfig{
			Channels:   1,
			SampleRate: 8000,
		},
	},
}

func TestServer(t *testing.T) {
	srv, expectedPath := newTestServer(t, testDeviceConfig)

	var status StatusResponse
	do(t, http.MethodGet, srv.URL+"/recording/status", http.StatusOK, &status)
	require.Equal(t, StatusResponse{}, status)

	var errResp ErrorResponse
	do(t, http.MethodPost, srv.URL+"/recording/stop", http.StatusConflict, &errResp)
	require.NotEmpty(t, errResp.Error)

	var path PathResponse
	do(t, http.MethodPost, srv.URL+"/recording/start", http.StatusOK, &path)
	require.Equal(t, expectedPath, path.Path)

	do(t, http.MethodPost, srv.URL+"/recording/start", http.StatusConflict, &errResp)

	do(t, http.MethodGet, srv.URL+"/recording/status", http.StatusOK, &status)
	require.True(t, status.Recording)
	require.Equal(t, expectedPath, status.OutputPath)

	do(t, http.MethodPost, srv.URL+"/recording/stop", http.StatusOK, &path)
	require.Equal(t, expectedPath, path.Path)
	require.FileExists(t, expectedPath)

	status = StatusResponse{}
	do(t, http.MethodGet, srv.URL+"/recording/status", http.StatusOK, &status)
	require.False(t, status.Recording)
	require.Equal(t, expectedPath, status.OutputPath)

	do(t, http.MethodGet, srv.URL+"/recording/start", http.StatusMethodNotAllowed, nil)
}

func TestServerSetupError(t *testing.T) {
	srv, _ := newTestServer(t, synthetic.DeviceConfig{NoDevice: true})

	var errResp ErrorResponse
	do(t, http.MethodPost, srv.URL+"/recording/start", http.StatusInternalServerError, &errResp)
	require.Contains(t, errResp.Error, types.ErrNoInputDevice.Error())

	var status StatusResponse
	do(t, http.MethodGet, srv.URL+"/recording/status", http.StatusOK, &status)
	require.False(t, status.Recording)
}

func TestServe(t *testing.T) {
	ctx, cancelFn := context.WithCancel(context.Background())
	controller := recording.New(synthetic.NewHost(testDeviceConfig), recording.StaticDir(t.TempDir()))
	s := New(controller)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Serve(ctx, listener)
	}()

	var status StatusResponse
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + listener.Addr().String() + "/recording/status")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return json.NewDecoder(resp.Body).Decode(&status) == nil
	}, 5*time.Second, 10*time.Millisecond)

	cancelFn()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("the server did not stop")
	}
}

func TestStatusCode(t *testing.T) {
	for _, tc := range []struct {
		Err  error
		Code int
	}{
		{recording.ErrAlreadyRecording, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", recording.ErrNotRecording), http.StatusConflict},
		{fmt.Errorf("%w: %w", recording.ErrPreviousNotFinalized, context.DeadlineExceeded), http.StatusConflict},
		{&recording.DeviceError{Err: types.ErrNoInputDevice}, http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	} {
		t.Run(tc.Err.Error(), func(t *testing.T) {
			require.Equal(t, tc.Code, statusCode(tc.Err))
		})
	}
}
