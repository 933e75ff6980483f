package internal

import (
	"fmt"
	"time"

	"chat-rules/batcher"
	"chat-rules/judge"
)

type CacheBackend string

const (
	CacheMemory CacheBackend = "memory"
	CacheRedis  CacheBackend = "redis"
	CacheNone   CacheBackend = "none"
)

// Config is read from the environment, a .env file being loaded first
// when present.
type Config struct {
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	JudgeAPIKey     string        `env:"JUDGE_API_KEY"`
	JudgeBaseURL    string        `env:"JUDGE_BASE_URL,default=https://api.openai.com/v1"`
	JudgeModel      string        `env:"JUDGE_MODEL,default=gpt-3.5-turbo"`
	JudgeTimeout    time.Duration `env:"JUDGE_TIMEOUT,default=30s"`
	JudgeMaxRetries int           `env:"JUDGE_MAX_RETRIES,default=2"`

	BatchCapacity     int           `env:"BATCH_CAPACITY,default=5"`
	BatchDebounce     time.Duration `env:"BATCH_DEBOUNCE,default=2s"`
	BatchSpacing      time.Duration `env:"BATCH_SPACING,default=1s"`
	MaxTokens         int           `env:"MAX_TOKENS,default=4000"`
	TokenSafetyMargin int           `env:"TOKEN_SAFETY_MARGIN,default=400"`

	RuleTimeUnit      time.Duration `env:"RULE_TIME_UNIT,default=1m"`
	NoticeDeleteDelay time.Duration `env:"NOTICE_DELETE_DELAY,default=5s"`

	ChannelQueueSize     int           `env:"CHANNEL_QUEUE_SIZE,default=100"`
	TelemetryBufferSize  int           `env:"TELEMETRY_BUFFER_SIZE,default=1024"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=10s"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=5s"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,default=10"`

	CacheBackend string        `env:"CACHE_BACKEND,default=memory"`
	CacheSize    int           `env:"CACHE_SIZE,default=4096"`
	CacheTTL     time.Duration `env:"CACHE_TTL,default=1h"`
	RedisAddr    string        `env:"REDIS_ADDR,default=localhost:6379"`

	RhymeDictionaryPath string `env:"RHYME_DICTIONARY_PATH"`
	MetricsAddr         string `env:"METRICS_ADDR"`
}

// Validate rejects values the env decoder cannot check by itself.
func (c Config) Validate() error {
	switch CacheBackend(c.CacheBackend) {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of memory, redis or none, got %q", c.CacheBackend)
	}
	if c.BatchCapacity < 1 {
		return fmt.Errorf("BATCH_CAPACITY must be positive, got %d", c.BatchCapacity)
	}
	if c.ChannelQueueSize < 1 || c.TelemetryBufferSize < 1 {
		return fmt.Errorf("CHANNEL_QUEUE_SIZE and TELEMETRY_BUFFER_SIZE must be positive")
	}
	if c.MetricInterval <= 0 {
		return fmt.Errorf("METRIC_INTERVAL must be positive, got %s", c.MetricInterval)
	}
	if c.RuleTimeUnit <= 0 {
		return fmt.Errorf("RULE_TIME_UNIT must be positive, got %s", c.RuleTimeUnit)
	}
	if c.MaxTokens <= c.TokenSafetyMargin {
		return fmt.Errorf("MAX_TOKENS (%d) must exceed TOKEN_SAFETY_MARGIN (%d)", c.MaxTokens, c.TokenSafetyMargin)
	}
	return nil
}

func (c Config) Cache() CacheBackend {
	return CacheBackend(c.CacheBackend)
}

func (c Config) Batcher() batcher.Config {
	return batcher.Config{
		Capacity: c.BatchCapacity,
		Debounce: c.BatchDebounce,
		Spacing:  c.BatchSpacing,
		Budget:   judge.Budget{MaxTokens: c.MaxTokens, SafetyMargin: c.TokenSafetyMargin},
	}
}

func (c Config) Judge() []judge.Option {
	return []judge.Option{
		judge.WithBaseURL(c.JudgeBaseURL),
		judge.WithModel(c.JudgeModel),
		judge.WithTimeout(c.JudgeTimeout),
		judge.WithMaxRetries(c.JudgeMaxRetries),
	}
}
