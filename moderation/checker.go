// Package moderation holds the compliance checkers, one per rule kind,
// and the factory that validates an activation and builds its rule.
package moderation

import (
	"context"
	"time"

	"chat-rules/contract"
	"chat-rules/domain"
)

type base struct {
	kind        domain.RuleKind
	description string
	expiresAt   time.Time
	now         func() time.Time
}

func (b *base) Kind() domain.RuleKind { return b.kind }

func (b *base) Describe() string { return b.description }

func (b *base) IsExpired() bool {
	return b.now().After(b.expiresAt)
}

// predicate returns the violation reason, or "" when the content complies.
type predicate func(content string) string

// predicateChecker answers synchronously, before Check returns.
type predicateChecker struct {
	base
	check predicate
}

var _ contract.Checker = (*predicateChecker)(nil)

func (c *predicateChecker) Check(_ context.Context, msg domain.Message, report contract.Report) {
	if reason := c.check(msg.Content); reason != "" {
		report(&domain.Violation{Reason: reason})
		return
	}
	report(nil)
}

func passThrough(string) string { return "" }
