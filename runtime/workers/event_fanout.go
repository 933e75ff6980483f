package workers

import (
	"context"
	"log/slog"
	"time"

	"chat-rules/contract"
	"chat-rules/domain/event"
)

// EventFanout delivers every event of the core to the registered sinks.
//
// Domain events (announcements, end notices, violations) come from an
// outbox that never drops. Telemetry (capacity samples, degraded
// verdicts) comes from its own bounded channel whose producers drop on
// full, so telemetry can never take the place of a user facing event.
//
// A sink failing or timing out is logged and the next sink is still
// served. Sinks are called one after the other so that a channel's
// announcement is always delivered before its violations.
type EventFanout struct {
	log         *slog.Logger
	outbox      *event.Outbox
	telemetry   <-chan event.Event
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, outbox *event.Outbox, telemetry <-chan event.Event,
	sinkTimeout time.Duration, sinks ...contract.EventSink) *EventFanout {
	return &EventFanout{log: log, outbox: outbox, telemetry: telemetry, sinkTimeout: sinkTimeout, sinks: sinks}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-w.outbox.Ready():
			w.drain(ctx)
		case evt := <-w.telemetry:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// drain empties the outbox. Remaining events stay queued on cancellation.
func (w *EventFanout) drain(ctx context.Context) {
	for ctx.Err() == nil {
		evt, ok := w.outbox.Pop()
		if !ok {
			return
		}
		w.Fanout(ctx, evt)
	}
}

// Fanout One sink after the other for each event
func (w *EventFanout) Fanout(ctx context.Context, evt event.Event) {
	for _, sink := range w.sinks {
		w.consume(ctx, sink, evt)
	}
}

func (w *EventFanout) consume(ctx context.Context, sink contract.EventSink, evt event.Event) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	if err := sink.Consume(sinkCtx, evt); err != nil {
		channel, _ := evt.ChannelOf()
		w.log.Warn("Sink failed to consume event", "type", evt.Type, "channel", channel, "error", err)
	}
}
