package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"chat-rules/domain/event"
	"chat-rules/mocks"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEventFanout_Fanout_All_Sinks(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mocks.NewMockEventSink(ctrl)
	second := mocks.NewMockEventSink(ctrl)
	evt := event.New(event.RuleAnnouncedType, event.RuleAnnounced{Channel: "general"})

	// Given two sinks consume events in registration order
	gomock.InOrder(
		first.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1),
		second.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1),
	)

	fanout := NewEventFanout(log, event.NewOutbox(), nil, time.Second, first, second)

	// When an event is fanned out
	fanout.Fanout(context.Background(), evt)
}

func TestEventFanout_Failing_Sink_Does_Not_Stop_Others(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	failing := mocks.NewMockEventSink(ctrl)
	healthy := mocks.NewMockEventSink(ctrl)

	// Given the first sink fails
	failing.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(errors.New("boom")).Times(1)
	// Then the second is still served
	healthy.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	fanout := NewEventFanout(log, event.NewOutbox(), nil, time.Second, failing, healthy)
	fanout.Fanout(context.Background(), event.New(event.RuleEndedType, event.RuleEnded{}))
}

func TestEventFanout_SinkTimeout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	slow := mocks.NewMockEventSink(ctrl)
	sinkTimeout := 20 * time.Millisecond

	// Given a sink waiting for its context
	slow.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, evt event.Event) error {
			<-ctx.Done()     // Waiting for timeout to trigger cancellation
			return ctx.Err() // Sending back "context deadline exceeded"
		}).
		Times(1)

	fanout := NewEventFanout(log, event.NewOutbox(), nil, sinkTimeout, slow)

	// When an event is handled
	start := time.Now()
	fanout.Fanout(context.Background(), event.New(event.RuleEndedType, event.RuleEnded{}))

	// Then the sink was cut at the timeout
	req.Less(time.Since(start), time.Second)
}

func TestEventFanout_Run_Until_Cancelled(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mocks.NewMockEventSink(ctrl)
	telemetry := make(chan event.Event, 1)
	consumed := make(chan struct{})

	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, evt event.Event) error {
			close(consumed)
			return nil
		}).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewEventFanout(log, event.NewOutbox(), telemetry, time.Second, sink).Run(ctx) }()

	// When a telemetry event is published then the context is cancelled
	telemetry <- event.New(event.JudgeDegradedType, event.JudgeDegraded{Channel: "general"})
	<-consumed
	cancel()

	// Then the worker ends cleanly
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("Fanout did not stop")
	}
}

type collectingSink struct {
	mu     sync.Mutex
	events []event.Event
}

func (s *collectingSink) Consume(_ context.Context, e event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *collectingSink) count(t event.Type) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func TestEventFanout_Telemetry_Flood_Does_Not_Crowd_Out_Domain_Events(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	outbox := event.NewOutbox()
	telemetry := make(chan event.Event, 8)

	// Given more inboxes than the telemetry buffer holds, all sampled
	var named []NamedChannel
	for i := 0; i < 8; i++ {
		named = append(named, NamedChannel{Queue: fmt.Sprintf("family-%d", i), Name: fmt.Sprintf("channel-%d", i), Channel: make(chan struct{}, 1)})
	}
	sampler := NewChannelCapacityWorker(log, func() []NamedChannel { return named }, telemetry, time.Hour)
	sampler.sample(context.Background())
	sampler.sample(context.Background())
	req.Len(telemetry, 8)

	// When a rule is announced while telemetry is saturated
	outbox.Push(event.New(event.RuleAnnouncedType, event.RuleAnnounced{Channel: "general"}))

	// Then the announcement is still delivered
	sink := &collectingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = NewEventFanout(log, outbox, telemetry, time.Second, sink).Run(ctx) }()
	req.Eventually(func() bool { return sink.count(event.RuleAnnouncedType) == 1 }, time.Second, 5*time.Millisecond)
	req.Eventually(func() bool { return sink.count(event.ChannelCapacityType) == 8 }, time.Second, 5*time.Millisecond)
}
