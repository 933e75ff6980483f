package workers

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"chat-rules/domain/event"
)

// NamedChannel is one sampled queue. Queue is the family it belongs to,
// e.g. every channel inbox shares the "inbox" family.
type NamedChannel struct {
	Queue   string
	Name    string
	Channel any
}

// ChannelCapacityWorker periodically reports how full the internal
// queues are. Each tick emits one sample per queue family, describing its
// fullest queue, so the number of samples does not grow with the number
// of chat channels. Reading len and cap is non-blocking, and a dropped
// sample is harmless since the next tick sends a fresh one.
type ChannelCapacityWorker struct {
	log            *slog.Logger
	channels       func() []NamedChannel
	telemetry      chan<- event.Event
	metricInterval time.Duration
}

// NewChannelCapacityWorker samples the channels returned by channels at
// each tick, so inboxes created after start are picked up.
func NewChannelCapacityWorker(log *slog.Logger,
	channels func() []NamedChannel, telemetry chan<- event.Event,
	metricInterval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:            log,
		channels:       channels,
		telemetry:      telemetry,
		metricInterval: metricInterval,
	}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping capacity sampling")
			return nil
		case <-ticker.C:
			w.sample(ctx)
		}
	}
}

func (w *ChannelCapacityWorker) sample(ctx context.Context) {
	for _, sample := range w.busiest() {
		select {
		case <-ctx.Done():
			return
		case w.telemetry <- event.New(event.ChannelCapacityType, sample):
		default:
			w.log.Debug("Capacity sample lost", "queue", sample.Queue)
		}
	}
}

// busiest keeps the fullest queue of every family, in order of first appearance.
func (w *ChannelCapacityWorker) busiest() []event.ChannelCapacity {
	var order []string
	samples := make(map[string]event.ChannelCapacity)
	for _, nc := range w.channels() {
		v := reflect.ValueOf(nc.Channel)
		// Verify if this is a channel
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		current := event.ChannelCapacity{Queue: nc.Queue, ChannelName: nc.Name, Capacity: v.Cap(), Length: v.Len()}
		previous, seen := samples[nc.Queue]
		if !seen {
			order = append(order, nc.Queue)
		}
		if !seen || current.Length > previous.Length {
			samples[nc.Queue] = current
		}
	}
	result := make([]event.ChannelCapacity, 0, len(order))
	for _, queue := range order {
		result = append(result, samples[queue])
	}
	return result
}
