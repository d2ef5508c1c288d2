package capture

import (
	"time"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
)

type config struct {
	PollInterval time.Duration
}

func defaultConfig() config {
	return config{
		PollInterval: DefaultPollInterval,
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

// OptionPollInterval sets how often the supervisor reports the progress.
type OptionPollInterval time.Duration

func (opt OptionPollInterval) apply(cfg *config) {
	if opt > 0 {
		cfg.PollInterval = time.Duration(opt)
	}
}
