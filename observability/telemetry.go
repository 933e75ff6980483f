package observability

import (
	"context"

	"chat-rules/contract"
	"chat-rules/domain/event"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ruleEventCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chatrules_rule_events_total",
	Help: "Rule lifecycle events, by type and end reason",
}, []string{"type", "reason"})

var violationCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chatrules_violations_total",
	Help: "Violations detected, by rule kind",
}, []string{"kind"})

var channelBacklog = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "chatrules_queue_length",
	Help: "Sampled length of the fullest queue of each family (inbox, telemetry)",
}, []string{"queue"})

// TelemetrySink feeds every event to the monitoring counters, the
// prometheus metrics and the chain of event handlers.
type TelemetrySink struct {
	monitoring *MonitoringManager
	handlers   []event.Handler
}

func NewTelemetrySink(monitoring *MonitoringManager, handlers ...event.Handler) *TelemetrySink {
	return &TelemetrySink{monitoring: monitoring, handlers: handlers}
}

func (s *TelemetrySink) Consume(_ context.Context, evt event.Event) error {
	switch p := evt.Payload.(type) {
	case event.RuleAnnounced:
		s.monitoring.IncrRulesAnnounced()
		ruleEventCount.WithLabelValues(string(evt.Type), "").Inc()
	case event.RuleEnded:
		s.monitoring.IncrRulesEnded()
		ruleEventCount.WithLabelValues(string(evt.Type), string(p.Reason)).Inc()
	case event.ViolationDetected:
		s.monitoring.AddViolation(p.Channel, p.Kind, p.MessageID)
		violationCount.WithLabelValues(string(p.Kind)).Inc()
	case event.JudgeDegraded:
		s.monitoring.IncrDegradedVerdicts(p.Items)
	case event.ChannelCapacity:
		channelBacklog.WithLabelValues(p.Queue).Set(float64(p.Length))
	}
	for _, h := range s.handlers {
		h.Handle(evt)
	}
	return nil
}

var _ contract.EventSink = (*TelemetrySink)(nil)
