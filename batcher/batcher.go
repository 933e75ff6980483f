// Package batcher buffers compliance requests per channel and releases them
// to the judgment service in debounced, spaced, size capped cycles.
//
// Every request handed to Add has its callback resolved exactly once, even
// when the service fails or the batcher is closed: the fallback is always
// a compliant verdict.
package batcher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"chat-rules/cachestore"
	"chat-rules/contract"
	"chat-rules/domain"
	"chat-rules/domain/event"
	"chat-rules/judge"

	"github.com/samber/lo"
	"golang.org/x/time/rate"
)

const (
	DefaultCapacity = 5
	DefaultDebounce = 2 * time.Second
	DefaultSpacing  = 1 * time.Second

	// Up to this many items are retried one by one when a batched call fails.
	maxIndividualRetries = 3
)

type Config struct {
	Capacity int
	Debounce time.Duration
	Spacing  time.Duration
	Budget   judge.Budget
}

func DefaultConfig() Config {
	return Config{
		Capacity: DefaultCapacity,
		Debounce: DefaultDebounce,
		Spacing:  DefaultSpacing,
		Budget:   judge.DefaultBudget(),
	}
}

// Request asks for one message to be judged against a rule.
type Request struct {
	ChannelID   domain.ChannelID
	RuleText    string
	MessageText string
	Callback    func(judge.Verdict)
}

type pending struct {
	Request
	once sync.Once
}

func (p *pending) resolve(v judge.Verdict) {
	p.once.Do(func() {
		if p.Callback != nil {
			p.Callback(v)
		}
	})
}

type channelQueue struct {
	mu         sync.Mutex
	pending    []*pending
	timer      *time.Timer
	generation uint64
	limiter    *rate.Limiter
	// Released cycles waiting for the channel's dispatch loop, oldest first.
	cycles     [][]*pending
	running    bool
}

type Batcher struct {
	log       *slog.Logger
	judge     contract.Judge
	cache     cachestore.Store
	telemetry chan<- event.Event
	cfg       Config

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	queues map[domain.ChannelID]*channelQueue
	closed bool
}

type Option func(*Batcher)

// WithCache consults store before calling the judgment service.
func WithCache(store cachestore.Store) Option {
	return func(b *Batcher) {
		b.cache = store
	}
}

// WithTelemetry publishes JudgeDegraded events, dropping them when
// telemetry is full.
func WithTelemetry(telemetry chan<- event.Event) Option {
	return func(b *Batcher) {
		b.telemetry = telemetry
	}
}

func New(log *slog.Logger, judgment contract.Judge, cfg Config, opts ...Option) *Batcher {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Batcher{
		log:    log,
		judge:  judgment,
		cache:  cachestore.Nop{},
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		queues: make(map[domain.ChannelID]*channelQueue),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add buffers the request. The callback runs later on a batcher goroutine,
// it must not block.
func (b *Batcher) Add(req Request) {
	p := &pending{Request: req}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.failOpen(req.ChannelID, "closed", p)
		return
	}
	q, ok := b.queues[req.ChannelID]
	if !ok {
		q = &channelQueue{limiter: rate.NewLimiter(rate.Every(b.cfg.Spacing), 1)}
		b.queues[req.ChannelID] = q
	}
	b.mu.Unlock()

	q.mu.Lock()
	q.pending = append(q.pending, p)
	if len(q.pending) >= b.cfg.Capacity {
		items := b.drain(q)
		q.mu.Unlock()
		b.log.Debug("batch capacity reached", "channel", req.ChannelID, "items", len(items))
		b.spawn(req.ChannelID, q, items)
		return
	}
	// Debounce: every arrival pushes the deadline back
	if q.timer != nil {
		q.timer.Stop()
	}
	q.generation++
	generation := q.generation
	q.timer = time.AfterFunc(b.cfg.Debounce, func() {
		b.flush(req.ChannelID, q, generation)
	})
	q.mu.Unlock()
}

// drain takes every pending request of q. Caller holds q.mu.
func (b *Batcher) drain(q *channelQueue) []*pending {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.generation++
	items := q.pending
	q.pending = nil
	return items
}

func (b *Batcher) flush(channel domain.ChannelID, q *channelQueue, generation uint64) {
	q.mu.Lock()
	if generation != q.generation {
		// Superseded by a newer arrival or a capacity dispatch
		q.mu.Unlock()
		return
	}
	items := b.drain(q)
	q.mu.Unlock()
	b.spawn(channel, q, items)
}

func (b *Batcher) spawn(channel domain.ChannelID, q *channelQueue, items []*pending) {
	if len(items) == 0 {
		return
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.failOpen(channel, "closed", items...)
		return
	}
	q.mu.Lock()
	q.cycles = append(q.cycles, items)
	start := !q.running
	q.running = true
	q.mu.Unlock()
	if start {
		b.wg.Add(1)
	}
	b.mu.Unlock()

	if start {
		go b.loop(channel, q)
	}
}

// loop is the only goroutine dispatching for the channel while it runs,
// so cycles resolve in release order. It exits once no cycle is left.
func (b *Batcher) loop(channel domain.ChannelID, q *channelQueue) {
	defer b.wg.Done()
	for {
		q.mu.Lock()
		if len(q.cycles) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		items := q.cycles[0]
		q.cycles = q.cycles[1:]
		q.mu.Unlock()
		b.dispatch(channel, q, items)
	}
}

// dispatch runs one cycle: spacing wait, then one pass per rule text group.
func (b *Batcher) dispatch(channel domain.ChannelID, q *channelQueue, items []*pending) {
	if err := q.limiter.Wait(b.ctx); err != nil {
		b.failOpen(channel, "cancelled", items...)
		return
	}
	dispatchSize.Observe(float64(len(items)))

	groups := lo.PartitionBy(items, func(p *pending) string { return p.RuleText })
	for _, group := range groups {
		b.processGroup(channel, group[0].RuleText, group)
	}
}

func (b *Batcher) processGroup(channel domain.ChannelID, ruleText string, group []*pending) {
	misses := b.resolveFromCache(ruleText, group)
	switch {
	case len(misses) == 0:
		return
	case len(misses) == 1:
		b.single(channel, ruleText, misses[0])
	case !b.cfg.Budget.FitsBatch(ruleText, messagesOf(misses)):
		b.log.Debug("batch too large, judging one by one", "channel", channel, "items", len(misses))
		for _, p := range misses {
			b.single(channel, ruleText, p)
		}
	default:
		b.batch(channel, ruleText, misses)
	}
}

func (b *Batcher) single(channel domain.ChannelID, ruleText string, p *pending) {
	if !b.cfg.Budget.FitsSingle(ruleText, p.MessageText) {
		b.log.Warn("message too large for the judgment service", "channel", channel,
			"estimated_tokens", judge.EstimateTokens(p.MessageText)+judge.EstimateTokens(ruleText)+b.cfg.Budget.SafetyMargin)
		b.failOpen(channel, "oversize", p)
		return
	}

	raw, err := b.evaluate("single", judge.NewRequest(ruleText, p.MessageText))
	if err != nil {
		b.log.Warn("judgment failed, letting message through", "channel", channel, "error", err)
		b.failOpen(channel, "error", p)
		return
	}
	verdict := judge.ParseVerdict(raw)
	b.remember(ruleText, p.MessageText, verdict)
	p.resolve(verdict)
}

func (b *Batcher) batch(channel domain.ChannelID, ruleText string, group []*pending) {
	raw, err := b.evaluate("batch", judge.NewRequest(ruleText, messagesOf(group)...))
	if err != nil {
		if len(group) <= maxIndividualRetries {
			b.log.Warn("batched judgment failed, retrying one by one", "channel", channel, "items", len(group), "error", err)
			for _, p := range group {
				b.single(channel, ruleText, p)
			}
			return
		}
		b.log.Warn("batched judgment failed, letting messages through", "channel", channel, "items", len(group), "error", err)
		b.failOpen(channel, "error", group...)
		return
	}

	verdicts, answered := judge.ParseBatchAnswered(raw, len(group))
	for i, p := range group {
		if answered[i] {
			b.remember(ruleText, p.MessageText, verdicts[i])
		}
		p.resolve(verdicts[i])
	}
}

func (b *Batcher) evaluate(mode string, request domain.JudgmentRequest) (string, error) {
	start := time.Now()
	raw, err := b.judge.Evaluate(b.ctx, request)
	judgeCallDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	judgeCallCount.WithLabelValues(mode, outcome).Inc()
	return raw, err
}

func (b *Batcher) resolveFromCache(ruleText string, group []*pending) []*pending {
	misses := make([]*pending, 0, len(group))
	for _, p := range group {
		val, ok, err := b.cache.Get(b.ctx, cachestore.Key(ruleText, p.MessageText))
		if err != nil {
			b.log.Warn("verdict cache unavailable", "error", err)
		}
		if err != nil || !ok {
			cacheLookupCount.WithLabelValues("miss").Inc()
			misses = append(misses, p)
			continue
		}
		cacheLookupCount.WithLabelValues("hit").Inc()
		p.resolve(judge.ParseVerdict(val))
	}
	return misses
}

func (b *Batcher) remember(ruleText, message string, verdict judge.Verdict) {
	if err := b.cache.Set(b.ctx, cachestore.Key(ruleText, message), verdict.String()); err != nil {
		b.log.Warn("could not cache verdict", "error", err)
	}
}

func (b *Batcher) failOpen(channel domain.ChannelID, cause string, items ...*pending) {
	failOpenCount.WithLabelValues(cause).Add(float64(len(items)))
	for _, p := range items {
		p.resolve(judge.Compliant)
	}
	if b.telemetry == nil {
		return
	}
	select {
	case b.telemetry <- event.New(event.JudgeDegradedType, event.JudgeDegraded{Channel: channel, Items: len(items), Cause: cause}):
	default:
		b.log.Debug("judge degraded event lost", "channel", channel)
	}
}

// Pending returns how many requests wait in the channel queue.
func (b *Batcher) Pending(channel domain.ChannelID) int {
	b.mu.Lock()
	q, ok := b.queues[channel]
	b.mu.Unlock()
	if !ok {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close resolves every buffered request as compliant, cancels in-flight
// waits and calls, and waits for running cycles to finish.
func (b *Batcher) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	queues := make(map[domain.ChannelID]*channelQueue, len(b.queues))
	for channel, q := range b.queues {
		queues[channel] = q
	}
	b.mu.Unlock()

	for channel, q := range queues {
		q.mu.Lock()
		items := b.drain(q)
		q.mu.Unlock()
		if len(items) > 0 {
			b.log.Info("flushing buffered requests on close", "channel", channel, "items", len(items))
			b.failOpen(channel, "closed", items...)
		}
	}
	b.cancel()
	b.wg.Wait()
}

func messagesOf(items []*pending) []string {
	return lo.Map(items, func(p *pending, _ int) string { return p.MessageText })
}
