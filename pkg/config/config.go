// Package config loads the settings of micrecorder from a YAML file and
// MICRECORDER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
	"github.com/xaionaro-go/micrecorder/pkg/audio/backends/synthetic"
	"github.com/xaionaro-go/micrecorder/pkg/audio/types"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix = "MICRECORDER"
	AppName   = "micrecorder"
)

type Config struct {
	Audio     AudioConfig     `mapstructure:"audio" yaml:"audio"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output"`
	Capture   CaptureConfig   `mapstructure:"capture" yaml:"capture"`
	Synthetic SyntheticConfig `mapstructure:"synthetic" yaml:"synthetic"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
}

type AudioConfig struct {
	// Backend is a registered backend name or "auto".
	Backend string `mapstructure:"backend" yaml:"backend"`
}

type OutputConfig struct {
	// Directory is where the recording is written; empty means the
	// per-user data directory of the application.
	Directory string `mapstructure:"directory" yaml:"directory"`
	FileName  string `mapstructure:"file_name" yaml:"file_name"`
}

type CaptureConfig struct {
	PollInterval    time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	FinalizeTimeout time.Duration `mapstructure:"finalize_timeout" yaml:"finalize_timeout"`
}

// SyntheticConfig configures the "synthetic" backend.
type SyntheticConfig struct {
	Format         string        `mapstructure:"format" yaml:"format"`
	Channels       int           `mapstructure:"channels" yaml:"channels"`
	SampleRate     int           `mapstructure:"sample_rate" yaml:"sample_rate"`
	BufferDuration time.Duration `mapstructure:"buffer_duration" yaml:"buffer_duration"`
	SineFrequency  float64       `mapstructure:"sine_frequency" yaml:"sine_frequency"`
	SineAmplitude  float64       `mapstructure:"sine_amplitude" yaml:"sine_amplitude"`
}

type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
}

func Default() Config {
	return Config{
		Audio: AudioConfig{
			Backend: "auto",
		},
		Output: OutputConfig{
			FileName: "recording.wav",
		},
		Capture: CaptureConfig{
			PollInterval:    100 * time.Millisecond,
			FinalizeTimeout: 2 * time.Second,
		},
		Synthetic: SyntheticConfig{
			Format:         types.SampleFormatFloat32.String(),
			Channels:       1,
			SampleRate:     44100,
			BufferDuration: 10 * time.Millisecond,
			SineFrequency:  440,
			SineAmplitude:  0.5,
		},
		Server: ServerConfig{
			ListenAddr: "127.0.0.1:8788",
		},
	}
}

func setDefaults(v *viper.Viper) {
	cfg := Default()
	v.SetDefault("audio.backend", cfg.Audio.Backend)
	v.SetDefault("output.directory", cfg.Output.Directory)
	v.SetDefault("output.file_name", cfg.Output.FileName)
	v.SetDefault("capture.poll_interval", cfg.Capture.PollInterval)
	v.SetDefault("capture.finalize_timeout", cfg.Capture.FinalizeTimeout)
	v.SetDefault("synthetic.format", cfg.Synthetic.Format)
	v.SetDefault("synthetic.channels", cfg.Synthetic.Channels)
	v.SetDefault("synthetic.sample_rate", cfg.Synthetic.SampleRate)
	v.SetDefault("synthetic.buffer_duration", cfg.Synthetic.BufferDuration)
	v.SetDefault("synthetic.sine_frequency", cfg.Synthetic.SineFrequency)
	v.SetDefault("synthetic.sine_amplitude", cfg.Synthetic.SineAmplitude)
	v.SetDefault("server.listen_addr", cfg.Server.ListenAddr)
}

// Load reads the config file (if configFile is not empty), applies the
// environment overrides on top of it and validates the result.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read the config file '%s': %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to parse the config: %w", err)
	}
	cfg.Output.Directory = expandPath(cfg.Output.Directory)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (cfg Config) Validate() error {
	var mErr *multierror.Error
	if cfg.Audio.Backend == "" {
		mErr = multierror.Append(mErr, errors.New("audio.backend is empty"))
	}
	switch {
	case cfg.Output.FileName == "":
		mErr = multierror.Append(mErr, errors.New("output.file_name is empty"))
	case filepath.Base(cfg.Output.FileName) != cfg.Output.FileName:
		mErr = multierror.Append(mErr, fmt.Errorf("output.file_name '%s' must not contain a directory", cfg.Output.FileName))
	}
	if cfg.Capture.PollInterval <= 0 {
		mErr = multierror.Append(mErr, fmt.Errorf("capture.poll_interval must be positive, got %v", cfg.Capture.PollInterval))
	}
	if cfg.Capture.FinalizeTimeout <= 0 {
		mErr = multierror.Append(mErr, fmt.Errorf("capture.finalize_timeout must be positive, got %v", cfg.Capture.FinalizeTimeout))
	}
	if _, err := cfg.Synthetic.DeviceConfig(); err != nil {
		mErr = multierror.Append(mErr, err)
	}
	if cfg.Server.ListenAddr == "" {
		mErr = multierror.Append(mErr, errors.New("server.listen_addr is empty"))
	}
	return mErr.ErrorOrNil()
}

// DeviceConfig converts the settings to the config of the synthetic backend.
func (cfg SyntheticConfig) DeviceConfig() (synthetic.DeviceConfig, error) {
	format, err := types.ParseSampleFormat(cfg.Format)
	if err != nil {
		return synthetic.DeviceConfig{}, fmt.Errorf("synthetic.format: %w", err)
	}
	if cfg.Channels <= 0 || cfg.SampleRate <= 0 {
		return synthetic.DeviceConfig{}, fmt.Errorf("synthetic.channels and synthetic.sample_rate must be positive, got %d and %d", cfg.Channels, cfg.SampleRate)
	}
	if cfg.BufferDuration < 0 {
		return synthetic.DeviceConfig{}, fmt.Errorf("synthetic.buffer_duration must not be negative, got %v", cfg.BufferDuration)
	}

	deviceCfg := synthetic.DefaultConfig
	deviceCfg.Input = types.InputConfig{
		Format: format,
		StreamConfig: types.StreamConfig{
			Channels:   types.Channel(cfg.Channels),
			SampleRate: types.SampleRate(cfg.SampleRate),
		},
	}
	deviceCfg.BufferDuration = cfg.BufferDuration
	deviceCfg.SineFrequency = cfg.SineFrequency
	deviceCfg.SineAmplitude = cfg.SineAmplitude
	return deviceCfg, nil
}

// WriteFile stores the config as YAML; it refuses to overwrite an existing file.
func WriteFile(path string, cfg Config) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("unable to serialize the config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create the directory for '%s': %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("unable to create '%s': %w", path, err)
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return fmt.Errorf("unable to write '%s': %w", path, err)
	}
	return f.Close()
}

// DefaultPath returns the path the config is looked up at when no
// --config is given.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("unable to get the user config directory: %w", err)
	}
	return filepath.Join(dir, AppName, "config.yaml"), nil
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return os.ExpandEnv(path)
}

// yaml.v3 would write the durations as nanoseconds.

func (cfg CaptureConfig) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			scalar("poll_interval"), scalar(cfg.PollInterval.String()),
			scalar("finalize_timeout"), scalar(cfg.FinalizeTimeout.String()),
		},
	}, nil
}

func (cfg SyntheticConfig) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			scalar("format"), scalar(cfg.Format),
			scalar("channels"), scalar(fmt.Sprint(cfg.Channels)),
			scalar("sample_rate"), scalar(fmt.Sprint(cfg.SampleRate)),
			scalar("buffer_duration"), scalar(cfg.BufferDuration.String()),
			scalar("sine_frequency"), scalar(fmt.Sprint(cfg.SineFrequency)),
			scalar("sine_amplitude"), scalar(fmt.Sprint(cfg.SineAmplitude)),
		},
	}, nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}
