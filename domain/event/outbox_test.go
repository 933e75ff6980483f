package event

import (
	"testing"

	"chat-rules/domain"

	"github.com/stretchr/testify/require"
)

func TestOutbox_Keeps_Every_Event_In_Order(t *testing.T) {
	req := require.New(t)
	outbox := NewOutbox()

	// When far more events are pushed than any consumer buffer would hold
	for i := 0; i < 10_000; i++ {
		outbox.Push(New(RuleAnnouncedType, RuleAnnounced{Channel: "general", DurationMinutes: i}))
	}

	// Then a single wake up is pending and nothing was lost
	req.Len(outbox.Ready(), 1)
	req.Equal(10_000, outbox.Len())
	for i := 0; i < 10_000; i++ {
		evt, ok := outbox.Pop()
		req.True(ok)
		req.Equal(i, evt.Payload.(RuleAnnounced).DurationMinutes)
	}
	_, ok := outbox.Pop()
	req.False(ok)
}

func TestOutbox_Wakes_Up_After_Drain(t *testing.T) {
	req := require.New(t)
	outbox := NewOutbox()

	// Given a drained outbox
	outbox.Push(New(RuleEndedType, RuleEnded{Channel: domain.ChannelID("general")}))
	<-outbox.Ready()
	_, ok := outbox.Pop()
	req.True(ok)

	// When a new event is pushed
	outbox.Push(New(RuleEndedType, RuleEnded{Channel: domain.ChannelID("general")}))

	// Then the consumer is woken up again
	select {
	case <-outbox.Ready():
	default:
		req.Fail("no wake up after push")
	}
}
