package platform

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"chat-rules/domain"
	"chat-rules/errors"
	"chat-rules/runtime"

	"github.com/google/uuid"
)

type Action string

const (
	ActionActivate Action = "activate"
	ActionEnd      Action = "end"
	ActionMessage  Action = "message"
)

// Input is one parsed console line.
type Input struct {
	Action  Action
	Channel domain.ChannelID
	Intent  runtime.ActivationIntent
	Message domain.Message
}

// ParseLine understands the commands of the bot and plain messages:
//
//	#general /ai_mod [minutes]
//	#general /trigger_rule <kind> [minutes]
//	#general /custom_rule [minutes] [use_ai] <rule text>
//	#general /end_rule
//	#general alice: hello there
//
// Messages written by selfName are flagged as the bot's own.
func ParseLine(line, selfName string) (Input, error) {
	line = strings.TrimSpace(line)
	head, rest, _ := strings.Cut(line, " ")
	if !strings.HasPrefix(head, "#") || len(head) < 2 {
		return Input{}, fmt.Errorf("%w: line must start with #channel", errors.ErrUnknownCommand)
	}
	channel := domain.ChannelID(head[1:])
	rest = strings.TrimSpace(rest)

	if strings.HasPrefix(rest, "/") {
		return parseCommand(channel, rest)
	}

	author, content, ok := strings.Cut(rest, ":")
	author = strings.TrimSpace(author)
	if !ok || author == "" {
		return Input{}, fmt.Errorf("%w: expected 'author: message'", errors.ErrUnknownCommand)
	}
	return Input{
		Action:  ActionMessage,
		Channel: channel,
		Message: domain.Message{
			ID:           uuid.NewString(),
			ChannelID:    channel,
			AuthorID:     author,
			AuthorIsSelf: author == selfName,
			Content:      strings.TrimSpace(content),
			At:           time.Now(),
		},
	}, nil
}

func parseCommand(channel domain.ChannelID, text string) (Input, error) {
	fields := strings.Fields(text)
	intent := runtime.ActivationIntent{ChannelID: channel}
	args := fields[1:]

	switch fields[0] {
	case "/end_rule":
		return Input{Action: ActionEnd, Channel: channel}, nil
	case "/ai_mod":
		minutes, _, err := minutesArg(args)
		if err != nil {
			return Input{}, err
		}
		intent.DurationMinutes = minutes
	case "/trigger_rule":
		if len(args) == 0 {
			return Input{}, fmt.Errorf("%w: /trigger_rule needs a rule kind", errors.ErrUnknownRuleKind)
		}
		kind, err := domain.ParseRuleKind(args[0])
		if err != nil {
			return Input{}, err
		}
		minutes, _, err := minutesArg(args[1:])
		if err != nil {
			return Input{}, err
		}
		intent.Kind = kind
		intent.DurationMinutes = minutes
	case "/custom_rule":
		minutes, args, err := minutesArg(args)
		if err != nil {
			return Input{}, err
		}
		if len(args) > 0 && args[0] == "use_ai" {
			intent.UseExternalJudgment = true
			args = args[1:]
		}
		if len(args) == 0 {
			return Input{}, errors.ErrMissingRuleText
		}
		intent.DurationMinutes = minutes
		intent.FreeText = strings.Join(args, " ")
	default:
		return Input{}, fmt.Errorf("%w: %s", errors.ErrUnknownCommand, fields[0])
	}
	return Input{Action: ActionActivate, Channel: channel, Intent: intent}, nil
}

// minutesArg reads an optional leading duration.
func minutesArg(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, args, nil
	}
	minutes, err := strconv.Atoi(args[0])
	if err != nil {
		// Not a number: the duration was omitted
		return 0, args, nil
	}
	if minutes < 1 {
		return 0, nil, fmt.Errorf("%w: got %d", errors.ErrInvalidDuration, minutes)
	}
	return minutes, args[1:], nil
}

// Handler is the part of the orchestrator driven by console input.
type Handler interface {
	ActivateRule(intent runtime.ActivationIntent) (string, error)
	EndRule(channel domain.ChannelID) (string, error)
	HandleMessage(msg domain.Message)
}

// Apply runs one input and returns the reply meant for whoever typed it.
// Announcements are posted through the event sinks, not returned here.
func Apply(_ context.Context, h Handler, in Input) (string, error) {
	switch in.Action {
	case ActionActivate:
		_, err := h.ActivateRule(in.Intent)
		return "", err
	case ActionEnd:
		if _, err := h.EndRule(in.Channel); err != nil {
			return "", err
		}
		return runtime.EndedReply, nil
	case ActionMessage:
		h.HandleMessage(in.Message)
		return "", nil
	default:
		return "", errors.ErrUnknownCommand
	}
}
