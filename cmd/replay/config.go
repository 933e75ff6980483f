package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LogLevel string `envconfig:"REPLAY_LOG_LEVEL" default:"ERROR"`
	// REPLAY_SETTLE leaves time to the event sinks once the last step ran
	Settle time.Duration `envconfig:"REPLAY_SETTLE" default:"200ms"`
	// REPLAY_DEBOUNCE shortens the batcher debounce so judged rules replay quickly
	Debounce time.Duration `envconfig:"REPLAY_DEBOUNCE" default:"20ms"`
	// REPLAY_COLOURS enables colorized output for better readability
	Colours bool `envconfig:"REPLAY_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
