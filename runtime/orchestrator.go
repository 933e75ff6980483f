// Package runtime owns the per-channel rule lifecycle and the boundary
// around it: activation intents, ordered message intake and the
// dispatch of events to the platform.
package runtime

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"chat-rules/contract"
	"chat-rules/domain"
	"chat-rules/domain/event"
	"chat-rules/errors"
	"chat-rules/moderation"
	"chat-rules/runtime/workers"

	"github.com/samber/lo"
)

// ActivationIntent is a request to put a rule in place in a channel.
// An empty Kind with FreeText builds an ai rule when UseExternalJudgment
// is set and a custom keyword rule otherwise. An empty Kind without
// FreeText picks a random canned rule. Zero minutes means the default.
type ActivationIntent struct {
	ChannelID           domain.ChannelID
	Kind                domain.RuleKind
	FreeText            string
	DurationMinutes     int
	UseExternalJudgment bool
}

// RuleFactory builds a validated rule with a fresh checker.
type RuleFactory interface {
	NewRule(spec moderation.Spec) (*moderation.Rule, error)
}

// Closer flushes pending work on shutdown.
type Closer interface {
	Close()
}

type Config struct {
	ChannelQueueSize int
	SinkTimeout      time.Duration
	MetricInterval   time.Duration
}

type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	cfg            Config
	supervisor     contract.ISupervisor
	machine        *StateMachine
	factory        RuleFactory
	pending        Closer
	outbox         *event.Outbox
	telemetry      chan event.Event
	permanentSinks []contract.EventSink
	channels       map[domain.ChannelID]*workers.ChannelWorker
	ctx            context.Context
	cancel         context.CancelFunc
	ready          chan struct{}
	started        bool
	pickKind       func() domain.RuleKind
}

type Option func(*Orchestrator)

// WithKindPicker replaces the random choice of canned rule.
func WithKindPicker(pick func() domain.RuleKind) Option {
	return func(o *Orchestrator) {
		o.pickKind = pick
	}
}

// NewOrchestrator wires the state machine to its workers. outbox must be
// the one the state machine publishes to, telemetry the channel the
// batcher reports to. pending may be nil.
func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	machine *StateMachine, factory RuleFactory, pending Closer,
	outbox *event.Outbox, telemetry chan event.Event, cfg Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		log:        log,
		cfg:        cfg,
		supervisor: supervisor,
		machine:    machine,
		factory:    factory,
		pending:    pending,
		outbox:     outbox,
		telemetry:  telemetry,
		channels:   make(map[domain.ChannelID]*workers.ChannelWorker),
		ready:      make(chan struct{}),
		pickKind: func() domain.RuleKind {
			return lo.Sample(domain.CannedKinds)
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RegisterSinks must be called before Start.
func (o *Orchestrator) RegisterSinks(sinks ...contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

// Ready is closed once Start has wired the workers.
func (o *Orchestrator) Ready() <-chan struct{} {
	return o.ready
}

// ActivateRule validates the intent, replaces any rule active in the
// channel and returns the description of the new one.
func (o *Orchestrator) ActivateRule(intent ActivationIntent) (string, error) {
	if intent.ChannelID == "" {
		return "", errors.ErrMissingChannel
	}
	rule, err := o.factory.NewRule(o.resolve(intent))
	if err != nil {
		return "", err
	}
	return o.machine.Activate(intent.ChannelID, rule), nil
}

func (o *Orchestrator) resolve(intent ActivationIntent) moderation.Spec {
	minutes := intent.DurationMinutes
	if minutes == 0 {
		minutes = moderation.DefaultDuration
	}
	text := strings.TrimSpace(intent.FreeText)
	kind := intent.Kind
	switch {
	case kind == "" && text == "":
		kind = o.pickKind()
	case kind == "" && intent.UseExternalJudgment:
		kind = domain.KindAI
	case kind == "":
		kind = domain.KindCustom
	}
	return moderation.Spec{Kind: kind, Text: text, DurationMinutes: minutes}
}

// EndRule cancels the rule active in the channel.
func (o *Orchestrator) EndRule(channel domain.ChannelID) (string, error) {
	description, ok := o.machine.Deactivate(channel)
	if !ok {
		return "", errors.ErrNoActiveRule
	}
	return description, nil
}

// ActiveRule exposes the rule currently enforced in a channel.
func (o *Orchestrator) ActiveRule(channel domain.ChannelID) (RuleSnapshot, bool) {
	return o.machine.Active(channel)
}

// HandleMessage queues an inbound message on its channel worker. Messages
// written by the bot itself are never checked.
func (o *Orchestrator) HandleMessage(msg domain.Message) {
	if msg.AuthorIsSelf {
		o.log.Debug("Own message ignored", "channel", msg.ChannelID, "message", msg.ID)
		return
	}
	worker, ok := o.workerFor(msg.ChannelID)
	if !ok {
		o.log.Warn("Orchestrator not started, message dropped", "channel", msg.ChannelID, "message", msg.ID)
		return
	}
	worker.Enqueue(msg)
}

// CheckMessage checks a message synchronously, outside of the channel
// worker, and publishes the violation if any.
func (o *Orchestrator) CheckMessage(ctx context.Context, msg domain.Message) (domain.CheckResult, error) {
	if msg.AuthorIsSelf {
		return domain.CheckResult{}, nil
	}
	result, err := o.machine.CheckMessage(ctx, msg.ChannelID, msg)
	if err != nil {
		return domain.CheckResult{}, err
	}
	o.onResult(msg, result)
	return result, nil
}

func (o *Orchestrator) workerFor(channel domain.ChannelID) (*workers.ChannelWorker, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctx == nil {
		return nil, false
	}
	if worker, ok := o.channels[channel]; ok {
		return worker, true
	}
	worker := workers.NewChannelWorker(o.log, channel, o.cfg.ChannelQueueSize, o.machine, o.onResult)
	o.channels[channel] = worker
	o.supervisor.Start(o.ctx, worker)
	return worker, true
}

// onResult may run under the channel lock: it must not call back into
// the state machine. Stale verdicts are filtered by the notifier.
func (o *Orchestrator) onResult(msg domain.Message, result domain.CheckResult) {
	if result.Violation == nil {
		return
	}
	o.log.Debug("Violation detected", "channel", msg.ChannelID, "kind", result.Kind, "message", msg.ID)
	o.publish(event.New(event.ViolationDetectedType, event.ViolationDetected{
		Channel:   msg.ChannelID,
		RuleID:    result.RuleID,
		Kind:      result.Kind,
		MessageID: msg.ID,
		AuthorID:  msg.AuthorID,
		Reason:    result.Violation.Reason,
	}))
}

func (o *Orchestrator) publish(evt event.Event) {
	o.outbox.Push(evt)
}

// namedChannels lists the queues sampled by the capacity worker.
func (o *Orchestrator) namedChannels() []workers.NamedChannel {
	o.mu.Lock()
	defer o.mu.Unlock()
	named := []workers.NamedChannel{{Queue: "telemetry", Name: "telemetry", Channel: o.telemetry}}
	for channel, worker := range o.channels {
		named = append(named, workers.NamedChannel{Queue: "inbox", Name: string(channel), Channel: worker.Inbox()})
	}
	return named
}

// Start wires the fanout and the sampling workers then blocks until the
// context is cancelled or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) error {
	// --- PREPARATION PHASE (No Lock) ---
	// Sinks are read under the lock but workers are built outside of it
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return errors.ErrAlreadyStarted
	}
	o.started = true
	sinks := append([]contract.EventSink(nil), o.permanentSinks...)
	o.mu.Unlock()

	fanout := workers.NewEventFanout(o.log, o.outbox, o.telemetry, o.cfg.SinkTimeout, sinks...)
	o.supervisor.Add(fanout)
	if o.cfg.MetricInterval > 0 {
		o.supervisor.Add(workers.NewChannelCapacityWorker(o.log, o.namedChannels, o.telemetry, o.cfg.MetricInterval))
	}

	// --- CRITICAL SECTION (Short Lock) ---
	supervisedCtx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	o.ctx = supervisedCtx
	o.cancel = cancel
	close(o.ready)
	o.mu.Unlock()

	// --- EXECUTION PHASE (Blocking) ---
	o.supervisor.Run(supervisedCtx)
	return nil
}

// Stop cancels every worker, stops the expiry timers and resolves the
// requests still waiting for a verdict.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	cancel := o.cancel
	o.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	o.supervisor.Stop()
	o.machine.Shutdown()
	if o.pending != nil {
		o.pending.Close()
	}
}

var _ contract.IOrchestrator = (*Orchestrator)(nil)
