package event

import (
	"log/slog"

	"chat-rules/errors"
)

// LifecycleHandler logs rule activations and endings.
type LifecycleHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewLifecycleHandler(log *slog.Logger, counter *Counter) *LifecycleHandler {
	return &LifecycleHandler{log: log, counter: counter}
}

func (h *LifecycleHandler) Handle(event Event) {
	switch event.Type {
	case RuleAnnouncedType:
		payload, ok := event.Payload.(RuleAnnounced)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(RuleAnnouncedType)
		h.log.Info("rule activated",
			"channel", payload.Channel,
			"rule_id", payload.RuleID,
			"kind", payload.Kind,
			"minutes", payload.DurationMinutes)
	case RuleEndedType:
		payload, ok := event.Payload.(RuleEnded)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(RuleEndedType)
		h.log.Info("rule ended",
			"channel", payload.Channel,
			"rule_id", payload.RuleID,
			"kind", payload.Kind,
			"reason", payload.Reason)
	case JudgeDegradedType:
		payload, ok := event.Payload.(JudgeDegraded)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(JudgeDegradedType)
		h.log.Warn("verdicts defaulted to compliant",
			"channel", payload.Channel,
			"items", payload.Items,
			"cause", payload.Cause)
	}
}
