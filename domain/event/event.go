package event

import (
	"time"

	"chat-rules/domain"

	"github.com/google/uuid"
)

type Type string

const (
	RuleAnnouncedType     Type = "RULE_ANNOUNCED"
	RuleEndedType         Type = "RULE_ENDED"
	ViolationDetectedType Type = "VIOLATION_DETECTED"
	JudgeDegradedType     Type = "JUDGE_DEGRADED"
	ChannelCapacityType   Type = "CHANNEL_CAPACITY"
)

// Event is the envelope published by the core to its consumers.
// Payload holds one of the structs below, matching Type.
type Event struct {
	Type      Type
	CreatedAt time.Time
	Payload   any
}

func New(t Type, payload any) Event {
	return Event{Type: t, CreatedAt: time.Now(), Payload: payload}
}

// ChannelOf returns the channel concerned by the event, if any.
func (e Event) ChannelOf() (domain.ChannelID, bool) {
	switch p := e.Payload.(type) {
	case RuleAnnounced:
		return p.Channel, true
	case RuleEnded:
		return p.Channel, true
	case ViolationDetected:
		return p.Channel, true
	case JudgeDegraded:
		return p.Channel, true
	default:
		return "", false
	}
}

type EndReason string

const (
	EndCancelled EndReason = "cancelled"
	EndExpired   EndReason = "expired"
	// EndReplaced is telemetry only, users never see it.
	EndReplaced EndReason = "replaced"
)

type RuleAnnounced struct {
	Channel         domain.ChannelID
	RuleID          uuid.UUID
	Kind            domain.RuleKind
	Description     string
	DurationMinutes int
}

type RuleEnded struct {
	Channel     domain.ChannelID
	RuleID      uuid.UUID
	Kind        domain.RuleKind
	Description string
	Reason      EndReason
}

type ViolationDetected struct {
	Channel   domain.ChannelID
	RuleID    uuid.UUID
	Kind      domain.RuleKind
	MessageID string
	AuthorID  string
	Reason    string
}

// JudgeDegraded is emitted when verdicts were defaulted to compliant
// because the judgment service failed or a request was too large.
type JudgeDegraded struct {
	Channel domain.ChannelID
	Items   int
	Cause   string
}

// ChannelCapacity describes the fullest queue of a queue family.
type ChannelCapacity struct {
	Queue       string
	ChannelName string
	Capacity    int
	Length      int
}
