package runtime

import (
	"context"
	"log/slog"
	"time"

	"chat-rules/domain"
	"chat-rules/domain/event"
	"chat-rules/moderation"

	"github.com/google/uuid"
)

// RuleSnapshot is a read-only view of the rule active in a channel.
type RuleSnapshot struct {
	ID          uuid.UUID
	Kind        domain.RuleKind
	Description string
	ExpiresAt   time.Time
}

// StateMachine owns the Idle/Active lifecycle of every channel.
// At most one rule is active per channel, a new activation replaces the
// previous one and cancels its timer before the new timer is armed.
type StateMachine struct {
	log      *slog.Logger
	registry *Registry
	events   *event.Outbox
}

func NewStateMachine(log *slog.Logger, registry *Registry, events *event.Outbox) *StateMachine {
	return &StateMachine{log: log, registry: registry, events: events}
}

// Activate installs rule as the single active rule of the channel and
// returns its description.
func (m *StateMachine) Activate(channel domain.ChannelID, rule *moderation.Rule) string {
	state := m.registry.GetOrCreate(channel)

	state.mu.Lock()
	defer state.mu.Unlock()

	// The old timer is stopped before the new one exists, and its
	// callback is guarded by rule ID in case it already fired.
	if previous := state.clear(); previous != nil {
		m.publish(event.New(event.RuleEndedType, ended(channel, previous, event.EndReplaced)))
	}

	ruleID := rule.ID
	state.rule = rule
	state.timer = time.AfterFunc(rule.ExpiresAt.Sub(rule.CreatedAt), func() {
		m.expire(channel, ruleID)
	})

	m.log.Info("Rule activated", "channel", channel, "kind", rule.Kind, "id", ruleID, "minutes", rule.DurationMinutes)
	m.publish(event.New(event.RuleAnnouncedType, event.RuleAnnounced{
		Channel:         channel,
		RuleID:          ruleID,
		Kind:            rule.Kind,
		Description:     rule.Template,
		DurationMinutes: rule.DurationMinutes,
	}))
	return rule.Template
}

// Deactivate ends the active rule of the channel and returns its
// description. It reports false when the channel was already Idle.
func (m *StateMachine) Deactivate(channel domain.ChannelID) (string, bool) {
	state, ok := m.registry.Get(channel)
	if !ok {
		return "", false
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	rule := state.clear()
	if rule == nil {
		return "", false
	}
	m.log.Info("Rule cancelled", "channel", channel, "kind", rule.Kind, "id", rule.ID)
	m.publish(event.New(event.RuleEndedType, ended(channel, rule, event.EndCancelled)))
	return rule.Template, true
}

// expire is the timer callback. It is a no-op when the rule it was armed
// for has since been replaced or cancelled.
func (m *StateMachine) expire(channel domain.ChannelID, ruleID uuid.UUID) {
	state, ok := m.registry.Get(channel)
	if !ok {
		return
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	if state.rule == nil || state.rule.ID != ruleID {
		m.log.Debug("Stale expiry ignored", "channel", channel, "id", ruleID)
		return
	}
	m.endExpired(channel, state)
}

// endExpired moves the channel to Idle. Caller holds state.mu.
func (m *StateMachine) endExpired(channel domain.ChannelID, state *channelState) {
	rule := state.clear()
	m.log.Info("Rule expired", "channel", channel, "kind", rule.Kind, "id", rule.ID)
	m.publish(event.New(event.RuleEndedType, ended(channel, rule, event.EndExpired)))
}

// Submit checks msg against the rule active in channel. The synchronous
// part of the check runs under the channel lock so that messages of one
// channel reach stateful checkers in submission order. report is called
// exactly once, immediately for deterministic rules and later for judged
// ones.
func (m *StateMachine) Submit(ctx context.Context, channel domain.ChannelID, msg domain.Message, report func(domain.CheckResult)) {
	state, ok := m.registry.Get(channel)
	if !ok {
		report(domain.CheckResult{})
		return
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	rule := state.rule
	if rule == nil {
		report(domain.CheckResult{})
		return
	}
	// The timer may be late, the deadline is authoritative
	if rule.Checker.IsExpired() {
		m.endExpired(channel, state)
		report(domain.CheckResult{})
		return
	}

	rule.Checker.Check(ctx, msg, func(v *domain.Violation) {
		report(domain.CheckResult{RuleID: rule.ID, Kind: rule.Kind, Violation: v})
	})
}

// CheckMessage is the blocking form of Submit.
func (m *StateMachine) CheckMessage(ctx context.Context, channel domain.ChannelID, msg domain.Message) (domain.CheckResult, error) {
	done := make(chan domain.CheckResult, 1)
	m.Submit(ctx, channel, msg, func(result domain.CheckResult) {
		done <- result
	})
	select {
	case result := <-done:
		return result, nil
	case <-ctx.Done():
		return domain.CheckResult{}, ctx.Err()
	}
}

// Active returns a snapshot of the rule active in channel.
func (m *StateMachine) Active(channel domain.ChannelID) (RuleSnapshot, bool) {
	state, ok := m.registry.Get(channel)
	if !ok {
		return RuleSnapshot{}, false
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	if state.rule == nil {
		return RuleSnapshot{}, false
	}
	return RuleSnapshot{
		ID:          state.rule.ID,
		Kind:        state.rule.Kind,
		Description: state.rule.Template,
		ExpiresAt:   state.rule.ExpiresAt,
	}, true
}

// IsCurrent reports whether ruleID is still the active rule of channel.
func (m *StateMachine) IsCurrent(channel domain.ChannelID, ruleID uuid.UUID) bool {
	snapshot, ok := m.Active(channel)
	return ok && snapshot.ID == ruleID
}

// Shutdown stops every pending expiry timer without emitting events.
func (m *StateMachine) Shutdown() {
	for _, channel := range m.registry.Channels() {
		state, ok := m.registry.Get(channel)
		if !ok {
			continue
		}
		state.mu.Lock()
		if state.timer != nil {
			state.timer.Stop()
			state.timer = nil
		}
		state.mu.Unlock()
	}
}

// publish runs under the channel lock, the outbox never blocks.
func (m *StateMachine) publish(evt event.Event) {
	if m.events == nil {
		return
	}
	m.events.Push(evt)
}

func ended(channel domain.ChannelID, rule *moderation.Rule, reason event.EndReason) event.RuleEnded {
	return event.RuleEnded{
		Channel:     channel,
		RuleID:      rule.ID,
		Kind:        rule.Kind,
		Description: rule.Template,
		Reason:      reason,
	}
}
