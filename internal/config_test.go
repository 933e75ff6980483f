package internal

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)

	// Given an empty environment
	var config Config
	err := env.Unmarshal(env.EnvSet{}, &config)
	req.NoError(err)

	// Then defaults match the documented behaviour
	req.NoError(config.Validate())
	req.Equal(CacheMemory, config.Cache())
	req.Equal(time.Minute, config.RuleTimeUnit)
	req.Equal(5*time.Second, config.NoticeDeleteDelay)

	batcher := config.Batcher()
	req.Equal(5, batcher.Capacity)
	req.Equal(2*time.Second, batcher.Debounce)
	req.Equal(time.Second, batcher.Spacing)
	req.Equal(4000, batcher.Budget.MaxTokens)
	req.Equal(400, batcher.Budget.SafetyMargin)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "unknown cache backend", mutate: func(c *Config) { c.CacheBackend = "memcached" }},
		{name: "empty batch", mutate: func(c *Config) { c.BatchCapacity = 0 }},
		{name: "margin above ceiling", mutate: func(c *Config) { c.TokenSafetyMargin = c.MaxTokens }},
		{name: "no time unit", mutate: func(c *Config) { c.RuleTimeUnit = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			var config Config
			err := env.Unmarshal(env.EnvSet{}, &config)
			req.NoError(err)

			// When one value is out of range
			tt.mutate(&config)

			// Then validation fails
			req.Error(config.Validate())
		})
	}
}
