package internal

import (
	"context"
	"fmt"
	"log/slog"

	"chat-rules/batcher"
	"chat-rules/cachestore"
	"chat-rules/contract"
	"chat-rules/domain/event"
	"chat-rules/moderation"
	"chat-rules/observability"
	"chat-rules/rhyme"
	"chat-rules/runtime"
	"chat-rules/runtime/workers"
)

// Stack is the assembled bot, ready to be started.
type Stack struct {
	Orchestrator *runtime.Orchestrator
	Machine      *runtime.StateMachine
	Batcher      *batcher.Batcher
	Monitoring   *observability.MonitoringManager
	Counter      *event.Counter
}

// NewCache builds the verdict cache selected by CACHE_BACKEND. The
// returned function releases it.
func NewCache(ctx context.Context, config Config) (cachestore.Store, func(), error) {
	switch config.Cache() {
	case CacheRedis:
		store, err := cachestore.NewRedisStore(ctx, config.RedisAddr, cachestore.WithTTL(config.CacheTTL))
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	case CacheNone:
		return cachestore.Nop{}, func() {}, nil
	default:
		return cachestore.NewMemStore(config.CacheSize, config.CacheTTL), func() {}, nil
	}
}

// Build wires every component of the bot around the given platform and
// judgment service.
func Build(log *slog.Logger, config Config, platform contract.Platform, judgment contract.Judge, store cachestore.Store) (*Stack, error) {
	dict, err := rhyme.Load(config.RhymeDictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("rhyme dictionary: %w", err)
	}
	pirate, err := moderation.LoadVocabulary("pirate")
	if err != nil {
		return nil, fmt.Errorf("pirate vocabulary: %w", err)
	}

	outbox := event.NewOutbox()
	telemetry := make(chan event.Event, config.TelemetryBufferSize)
	judgeBatcher := batcher.New(log, judgment, config.Batcher(),
		batcher.WithCache(store), batcher.WithTelemetry(telemetry))
	factory := moderation.NewFactory(log, judgeBatcher, judgment.Available(),
		rhyme.NewDetector(dict), pirate, moderation.WithTimeUnit(config.RuleTimeUnit))
	machine := runtime.NewStateMachine(log, runtime.NewRegistry(), outbox)
	supervisor := workers.NewSupervisor(log).WithRestartInterval(config.RestartInterval)

	orchestrator := runtime.NewOrchestrator(log, supervisor, machine, factory, judgeBatcher, outbox, telemetry,
		runtime.Config{
			ChannelQueueSize: config.ChannelQueueSize,
			SinkTimeout:      config.SinkTimeout,
			MetricInterval:   config.MetricInterval,
		})

	monitoring := observability.NewMonitoringManager(log)
	counter := event.NewCounter()
	orchestrator.RegisterSinks(
		runtime.NewNotifier(log, platform, machine, config.NoticeDeleteDelay),
		observability.NewTelemetrySink(monitoring,
			event.NewViolationHandler(log, counter),
			event.NewLifecycleHandler(log, counter),
			event.NewChannelCapacityHandler(log, config.LowCapacityThreshold),
		),
	)
	supervisor.Add(observability.NewMonitoringWorker(monitoring, config.MetricInterval))
	if config.MetricsAddr != "" {
		supervisor.Add(observability.NewMetricsServer(log, config.MetricsAddr, monitoring))
	}

	return &Stack{
		Orchestrator: orchestrator,
		Machine:      machine,
		Batcher:      judgeBatcher,
		Monitoring:   monitoring,
		Counter:      counter,
	}, nil
}
