package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chat-rules/contract"
	"chat-rules/domain"
	"chat-rules/domain/event"

	"github.com/google/uuid"
)

const noticeDeleteTimeout = 5 * time.Second

// RuleLookup tells whether a rule activation is still the current one.
type RuleLookup interface {
	IsCurrent(channel domain.ChannelID, ruleID uuid.UUID) bool
}

// Notifier turns core events into platform side effects: announcements,
// end notices and violation notices. Platform failures are returned to
// the fanout, which logs them, and never reach the core.
type Notifier struct {
	log         *slog.Logger
	platform    contract.Platform
	rules       RuleLookup
	deleteDelay time.Duration
}

// NewNotifier deletes its own violation notices after deleteDelay, or
// keeps them when deleteDelay is zero.
func NewNotifier(log *slog.Logger, platform contract.Platform, rules RuleLookup, deleteDelay time.Duration) *Notifier {
	return &Notifier{log: log, platform: platform, rules: rules, deleteDelay: deleteDelay}
}

func (n *Notifier) Consume(ctx context.Context, evt event.Event) error {
	switch p := evt.Payload.(type) {
	case event.RuleAnnounced:
		return n.post(ctx, p.Channel, AnnouncementNotice(p.Description, p.DurationMinutes))
	case event.RuleEnded:
		// A replaced rule is superseded by the next announcement
		if p.Reason == event.EndReplaced {
			return nil
		}
		return n.post(ctx, p.Channel, EndedNotice(p.Description))
	case event.ViolationDetected:
		return n.violation(ctx, p)
	default:
		return nil
	}
}

func (n *Notifier) post(ctx context.Context, channel domain.ChannelID, text string) error {
	if _, err := n.platform.PostNotice(ctx, channel, text); err != nil {
		return fmt.Errorf("post notice in %s: %w", channel, err)
	}
	return nil
}

func (n *Notifier) violation(ctx context.Context, v event.ViolationDetected) error {
	if !n.rules.IsCurrent(v.Channel, v.RuleID) {
		n.log.Debug("Verdict for an ended rule dropped", "channel", v.Channel, "rule", v.RuleID, "message", v.MessageID)
		return nil
	}

	noticeID, err := n.platform.PostNotice(ctx, v.Channel, ViolationNotice(v.AuthorID, v.Reason))
	if err != nil {
		return fmt.Errorf("post violation in %s: %w", v.Channel, err)
	}

	if err := n.platform.DeleteMessage(ctx, v.Channel, v.MessageID); err != nil {
		n.log.Warn("Unable to delete violating message", "channel", v.Channel, "message", v.MessageID, "error", err)
	}

	if n.deleteDelay > 0 && noticeID != "" {
		time.AfterFunc(n.deleteDelay, func() {
			deleteCtx, cancel := context.WithTimeout(context.Background(), noticeDeleteTimeout)
			defer cancel()
			if err := n.platform.DeleteMessage(deleteCtx, v.Channel, noticeID); err != nil {
				n.log.Debug("Unable to delete violation notice", "channel", v.Channel, "notice", noticeID, "error", err)
			}
		})
	}
	return nil
}

var _ contract.EventSink = (*Notifier)(nil)
