// Package domain contains core concepts of the rule enforcement system.
// This file defines inbound messages and the violations raised against them.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChannelID is the platform-assigned identifier of a conversation stream.
// It is the only key used for per-channel state.
type ChannelID string

// Message is an inbound chat message as delivered by the boundary layer.
type Message struct {
	ID           string
	ChannelID    ChannelID
	AuthorID     string
	AuthorIsSelf bool
	Content      string
	At           time.Time
}

// Violation is the judgment that a message failed the active rule.
// It is relayed, never stored.
type Violation struct {
	Reason string
}

// CheckResult is the outcome of checking one message against the rule
// active in its channel. A zero RuleID means no rule was active.
type CheckResult struct {
	RuleID    uuid.UUID
	Kind      RuleKind
	Violation *Violation
}

func (r CheckResult) Checked() bool {
	return r.RuleID != uuid.Nil
}
