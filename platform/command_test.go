package platform

import (
	"context"
	"testing"

	"chat-rules/domain"
	"chat-rules/errors"
	"chat-rules/runtime"

	"github.com/stretchr/testify/require"
)

func TestParseLine_Commands(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		action Action
		intent runtime.ActivationIntent
		err    error
	}{
		{
			name:   "random rule with default duration",
			line:   "#general /ai_mod",
			action: ActionActivate,
			intent: runtime.ActivationIntent{ChannelID: "general"},
		},
		{
			name:   "random rule with duration",
			line:   "#general /ai_mod 30",
			action: ActionActivate,
			intent: runtime.ActivationIntent{ChannelID: "general", DurationMinutes: 30},
		},
		{
			name:   "named rule",
			line:   "#general /trigger_rule all-caps 5",
			action: ActionActivate,
			intent: runtime.ActivationIntent{ChannelID: "general", Kind: domain.KindAllCaps, DurationMinutes: 5},
		},
		{
			name:   "custom keyword rule",
			line:   "#random /custom_rule 10 every message must be a question",
			action: ActionActivate,
			intent: runtime.ActivationIntent{ChannelID: "random", FreeText: "every message must be a question", DurationMinutes: 10},
		},
		{
			name:   "custom rule judged externally",
			line:   "#random /custom_rule use_ai talk about cats",
			action: ActionActivate,
			intent: runtime.ActivationIntent{ChannelID: "random", FreeText: "talk about cats", UseExternalJudgment: true},
		},
		{
			name:   "end rule",
			line:   "#general /end_rule",
			action: ActionEnd,
		},
		{name: "unknown kind", line: "#general /trigger_rule dance", err: errors.ErrUnknownRuleKind},
		{name: "negative duration", line: "#general /ai_mod -3", err: errors.ErrInvalidDuration},
		{name: "custom rule without text", line: "#general /custom_rule 10 use_ai", err: errors.ErrMissingRuleText},
		{name: "unknown command", line: "#general /dance", err: errors.ErrUnknownCommand},
		{name: "missing channel", line: "/ai_mod", err: errors.ErrUnknownCommand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			in, err := ParseLine(tt.line, "bot")
			if tt.err != nil {
				req.ErrorIs(err, tt.err)
				return
			}
			req.NoError(err)
			req.Equal(tt.action, in.Action)
			if tt.action == ActionActivate {
				req.Equal(tt.intent, in.Intent)
			}
		})
	}
}

func TestParseLine_Messages(t *testing.T) {
	req := require.New(t)

	// When a member writes a message
	in, err := ParseLine("#general alice: ahoy matey: how are ye", "bot")

	// Then the first colon separates author and content
	req.NoError(err)
	req.Equal(ActionMessage, in.Action)
	req.Equal(domain.ChannelID("general"), in.Message.ChannelID)
	req.Equal("alice", in.Message.AuthorID)
	req.Equal("ahoy matey: how are ye", in.Message.Content)
	req.False(in.Message.AuthorIsSelf)
	req.NotEmpty(in.Message.ID)

	// When the bot itself writes
	in, err = ParseLine("#general bot: a notice", "bot")
	req.NoError(err)
	req.True(in.Message.AuthorIsSelf)

	// When the author is missing
	_, err = ParseLine("#general just text", "bot")
	req.ErrorIs(err, errors.ErrUnknownCommand)
}

type fakeHandler struct {
	intents  []runtime.ActivationIntent
	ended    []domain.ChannelID
	messages []domain.Message
}

func (h *fakeHandler) ActivateRule(intent runtime.ActivationIntent) (string, error) {
	h.intents = append(h.intents, intent)
	return "description", nil
}

func (h *fakeHandler) EndRule(channel domain.ChannelID) (string, error) {
	if len(h.intents) == 0 {
		return "", errors.ErrNoActiveRule
	}
	h.ended = append(h.ended, channel)
	return "description", nil
}

func (h *fakeHandler) HandleMessage(msg domain.Message) {
	h.messages = append(h.messages, msg)
}

func TestApply(t *testing.T) {
	req := require.New(t)
	handler := &fakeHandler{}
	ctx := context.Background()
	apply := func(line string) (string, error) {
		in, err := ParseLine(line, "bot")
		req.NoError(err)
		return Apply(ctx, handler, in)
	}

	// Given no rule, ending one is refused
	_, err := apply("#general /end_rule")
	req.ErrorIs(err, errors.ErrNoActiveRule)

	// When a rule is activated, a message sent and the rule ended
	reply, err := apply("#general /trigger_rule emoji")
	req.NoError(err)
	req.Empty(reply)
	_, err = apply("#general alice: hi")
	req.NoError(err)
	reply, err = apply("#general /end_rule")

	// Then every input reached the handler
	req.NoError(err)
	req.Equal(runtime.EndedReply, reply)
	req.Len(handler.intents, 1)
	req.Len(handler.messages, 1)
	req.Equal([]domain.ChannelID{"general"}, handler.ended)
}

func TestRecorder_Keeps_Side_Effects(t *testing.T) {
	req := require.New(t)
	recorder := NewRecorder()
	ctx := context.Background()

	id, err := recorder.PostNotice(ctx, "general", "hello")
	req.NoError(err)
	req.NoError(recorder.DeleteMessage(ctx, "general", id))

	req.Equal([]Notice{{ID: "notice-1", Channel: "general", Text: "hello"}}, recorder.Notices())
	req.Equal([]Deletion{{Channel: "general", MessageID: "notice-1"}}, recorder.Deleted())
}
