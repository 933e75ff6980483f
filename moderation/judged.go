package moderation

import (
	"context"

	"chat-rules/batcher"
	"chat-rules/contract"
	"chat-rules/domain"
	"chat-rules/judge"
)

// Enqueuer hands a request to the batching pipeline.
type Enqueuer interface {
	Add(req batcher.Request)
}

// judgedChecker delegates the decision to the judgment service through the
// batcher. Check returns at once, report runs when the verdict arrives.
type judgedChecker struct {
	base
	ruleText string
	queue    Enqueuer
}

var _ contract.Checker = (*judgedChecker)(nil)

func (c *judgedChecker) Check(_ context.Context, msg domain.Message, report contract.Report) {
	c.queue.Add(batcher.Request{
		ChannelID:   msg.ChannelID,
		RuleText:    c.ruleText,
		MessageText: msg.Content,
		Callback: func(v judge.Verdict) {
			if v.Compliant {
				report(nil)
				return
			}
			report(&domain.Violation{Reason: v.Reason})
		},
	})
}
