package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/micrecorder/pkg/audio"
	_ "github.com/xaionaro-go/micrecorder/pkg/audio/backends/malgo"
	_ "github.com/xaionaro-go/micrecorder/pkg/audio/backends/oto"
	_ "github.com/xaionaro-go/micrecorder/pkg/audio/backends/portaudio"
	_ "github.com/xaionaro-go/micrecorder/pkg/audio/backends/pulseaudio"
	"github.com/xaionaro-go/micrecorder/pkg/audio/backends/synthetic"
	"github.com/xaionaro-go/micrecorder/pkg/capture"
	"github.com/xaionaro-go/micrecorder/pkg/config"
	"github.com/xaionaro-go/micrecorder/pkg/recording"
)

type globalFlags struct {
	ConfigFile string
	LogLevel   logger.Level
	LogFile    string
	Backend    string
}

type app struct {
	flags  globalFlags
	config *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{
		flags: globalFlags{
			LogLevel: logger.LevelInfo,
		},
	}

	cmd := &cobra.Command{
		Use:           "micrecorder",
		Short:         "Records the default microphone into a WAV file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := initLogger(cmd.Context(), a.flags.LogLevel, a.flags.LogFile)
			cmd.SetContext(ctx)
			if cmd.Annotations[annotationNoConfig] != "" {
				return nil
			}
			return a.loadConfig(ctx)
		},
	}

	a.flags.register(cmd.PersistentFlags())

	cmd.AddCommand(
		a.newRecordCommand(),
		a.newServeCommand(),
		a.newDevicesCommand(),
		a.newPlayCommand(),
		a.newBeepCommand(),
		a.newConfigCommand(),
	)
	return cmd
}

func (f *globalFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.ConfigFile, "config", "", "path to the config file (default: the user config directory)")
	flags.Var(&f.LogLevel, "log-level", "logging level")
	flags.StringVar(&f.LogFile, "log-file", "", "also write the logs to this file (rotated)")
	flags.StringVar(&f.Backend, "backend", "", "audio backend, overrides audio.backend from the config")
}

const annotationNoConfig = "no-config"

func (a *app) loadConfig(ctx context.Context) error {
	configFile := a.flags.ConfigFile
	if configFile == "" {
		defaultPath, err := config.DefaultPath()
		if err == nil {
			if _, err := os.Stat(defaultPath); err == nil {
				configFile = defaultPath
			} else if !errors.Is(err, fs.ErrNotExist) {
				logger.Warnf(ctx, "unable to access '%s': %v", defaultPath, err)
			}
		}
	}
	logger.Debugf(ctx, "config file: '%s'", configFile)

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if a.flags.Backend != "" {
		cfg.Audio.Backend = a.flags.Backend
	}
	a.config = cfg
	return nil
}

func (a *app) newHost(ctx context.Context) (audio.Host, error) {
	deviceCfg, err := a.config.Synthetic.DeviceConfig()
	if err != nil {
		return nil, err
	}
	synthetic.Configure(deviceCfg)

	host, err := audio.NewHost(ctx, a.config.Audio.Backend)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the audio backend: %w", err)
	}
	logger.Debugf(ctx, "audio backend: %s", host.Name())
	return host, nil
}

// releaseRecording finalizes the recording before releasing the host. A host
// with a stream still being torn down is left open.
func releaseRecording(
	ctx context.Context,
	controller *recording.Controller,
	host audio.Host,
) error {
	if err := controller.Close(ctx); err != nil {
		return fmt.Errorf("unable to finalize the recording, leaving the audio backend open: %w", err)
	}
	return host.Close()
}

func (a *app) pathResolver() recording.PathResolver {
	if a.config.Output.Directory != "" {
		return recording.StaticDir(a.config.Output.Directory)
	}
	return recording.AppDataDir{AppName: config.AppName}
}

func (a *app) newController(host audio.Host) *recording.Controller {
	return recording.New(
		host,
		a.pathResolver(),
		recording.OptionFileName(a.config.Output.FileName),
		recording.OptionFinalizeTimeout(a.config.Capture.FinalizeTimeout),
		recording.OptionSessionOptions{
			capture.OptionPollInterval(a.config.Capture.PollInterval),
		},
	)
}
