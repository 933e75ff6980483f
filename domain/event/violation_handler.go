package event

import (
	"log/slog"
	"sync"

	"chat-rules/domain"
	"chat-rules/errors"
)

// ViolationHandler counts violations per rule kind.
// Useful to see which rules people struggle with the most.
type ViolationHandler struct {
	mu      sync.Mutex
	log     *slog.Logger
	counter *Counter
	hit     map[domain.RuleKind]uint64
}

func NewViolationHandler(log *slog.Logger, counter *Counter) *ViolationHandler {
	return &ViolationHandler{
		log:     log,
		counter: counter,
		hit:     make(map[domain.RuleKind]uint64),
	}
}

func (h *ViolationHandler) Handle(event Event) {
	if event.Type != ViolationDetectedType {
		return
	}
	payload, ok := event.Payload.(ViolationDetected)
	if !ok {
		h.log.Error(errors.ErrInvalidPayload.Error())
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counter.Increment(ViolationDetectedType)
	h.hit[payload.Kind]++
	h.log.Debug("violation recorded",
		"channel", payload.Channel,
		"kind", payload.Kind,
		"total_for_kind", h.hit[payload.Kind])
}

func (h *ViolationHandler) Hits(kind domain.RuleKind) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hit[kind]
}
