package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), *cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
audio:
  backend: synthetic
output:
  directory: /tmp/recordings
capture:
  finalize_timeout: 5s
synthetic:
  format: s16
  channels: 2
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "synthetic", cfg.Audio.Backend)
	require.Equal(t, "/tmp/recordings", cfg.Output.Directory)
	require.Equal(t, "recording.wav", cfg.Output.FileName)
	require.Equal(t, 5*time.Second, cfg.Capture.FinalizeTimeout)
	require.Equal(t, 100*time.Millisecond, cfg.Capture.PollInterval)

	deviceCfg, err := cfg.Synthetic.DeviceConfig()
	require.NoError(t, err)
	require.Equal(t, types.SampleFormatSignedInt16, deviceCfg.Input.Format)
	require.Equal(t, types.Channel(2), deviceCfg.Input.Channels)
	require.Equal(t, types.SampleRate(44100), deviceCfg.Input.SampleRate)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("MICRECORDER_AUDIO_BACKEND", "portaudio")
	t.Setenv("MICRECORDER_CAPTURE_POLL_INTERVAL", "250ms")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "portaudio", cfg.Audio.Backend)
	require.Equal(t, 250*time.Millisecond, cfg.Capture.PollInterval)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  file_name: a/b.wav\n"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"empty_backend":     func(cfg *Config) { cfg.Audio.Backend = "" },
		"empty_file_name":   func(cfg *Config) { cfg.Output.FileName = "" },
		"file_name_dir":     func(cfg *Config) { cfg.Output.FileName = "../x.wav" },
		"zero_poll":         func(cfg *Config) { cfg.Capture.PollInterval = 0 },
		"zero_finalize":     func(cfg *Config) { cfg.Capture.FinalizeTimeout = 0 },
		"bad_format":        func(cfg *Config) { cfg.Synthetic.Format = "s24" },
		"zero_channels":     func(cfg *Config) { cfg.Synthetic.Channels = 0 },
		"negative_buffer":   func(cfg *Config) { cfg.Synthetic.BufferDuration = -time.Second },
		"empty_listen_addr": func(cfg *Config) { cfg.Server.ListenAddr = "" },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, cfg.Validate())
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Default()
	cfg.Audio.Backend = "synthetic"
	cfg.Capture.PollInterval = 30 * time.Millisecond
	require.NoError(t, WriteFile(path, cfg))
	require.Error(t, WriteFile(path, cfg), "must not overwrite")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "poll_interval: 30ms")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, *loaded)
}
