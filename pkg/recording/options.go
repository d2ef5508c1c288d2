package recording

import (
	"time"

	"github.com/xaionaro-go/micrecorder/pkg/capture"
)

const (
	DefaultFileName        = "recording.wav"
	DefaultFinalizeTimeout = 2 * time.Second
)

type config struct {
	FileName        string
	FinalizeTimeout time.Duration
	SessionOptions  []capture.Option
}

func defaultConfig() config {
	return config{
		FileName:        DefaultFileName,
		FinalizeTimeout: DefaultFinalizeTimeout,
	}
}

type Option interface {
	apply(*config)
}

type Options []Option

func (s Options) config() config {
	cfg := defaultConfig()
	for _, opt := range s {
		opt.apply(&cfg)
	}
	return cfg
}

// OptionFileName sets the name of the output file inside the output directory.
type OptionFileName string

func (opt OptionFileName) apply(cfg *config) {
	if opt != "" {
		cfg.FileName = string(opt)
	}
}

// OptionFinalizeTimeout bounds how long Stop waits for the file to be finalized.
type OptionFinalizeTimeout time.Duration

func (opt OptionFinalizeTimeout) apply(cfg *config) {
	if opt > 0 {
		cfg.FinalizeTimeout = time.Duration(opt)
	}
}

type OptionSessionOptions []capture.Option

func (opt OptionSessionOptions) apply(cfg *config) {
	cfg.SessionOptions = append(cfg.SessionOptions, opt...)
}
