package workers

import (
	"context"
	"log/slog"

	"chat-rules/domain"
)

// Submitter checks one message against the rule of its channel and calls
// report exactly once with the outcome.
type Submitter interface {
	Submit(ctx context.Context, channel domain.ChannelID, msg domain.Message, report func(domain.CheckResult))
}

// ChannelWorker feeds the messages of a single channel to the submitter
// in arrival order. One worker exists per channel, so a slow channel never
// delays another.
type ChannelWorker struct {
	log       *slog.Logger
	channel   domain.ChannelID
	inbox     chan domain.Message
	submitter Submitter
	onResult  func(domain.Message, domain.CheckResult)
}

func NewChannelWorker(log *slog.Logger, channel domain.ChannelID, queueSize int,
	submitter Submitter, onResult func(domain.Message, domain.CheckResult)) *ChannelWorker {
	return &ChannelWorker{
		log:       log.With("channel", channel),
		channel:   channel,
		inbox:     make(chan domain.Message, queueSize),
		submitter: submitter,
		onResult:  onResult,
	}
}

// Enqueue never blocks. It reports false when the inbox is full and the
// message was dropped.
func (w *ChannelWorker) Enqueue(msg domain.Message) bool {
	select {
	case w.inbox <- msg:
		return true
	default:
		w.log.Warn("Channel inbox full, message dropped", "message", msg.ID)
		return false
	}
}

// Inbox is exposed for capacity sampling only.
func (w *ChannelWorker) Inbox() any {
	return w.inbox
}

func (w *ChannelWorker) Run(ctx context.Context) error {
	for {
		select {
		case msg := <-w.inbox:
			w.submitter.Submit(ctx, w.channel, msg, func(result domain.CheckResult) {
				w.onResult(msg, result)
			})
		case <-ctx.Done():
			w.log.Debug("Context done, stopping channel worker")
			return nil
		}
	}
}
