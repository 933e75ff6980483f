package runtime

import (
	"sync"
	"time"

	"chat-rules/domain"
	"chat-rules/moderation"
)

// channelState holds the rule active in one channel and its expiry timer.
// Its own mutex serialises activation, deactivation, expiry and checks
// for that channel only.
type channelState struct {
	mu    sync.Mutex
	rule  *moderation.Rule
	timer *time.Timer
}

// clear stops the expiry timer and forgets the rule. Caller holds mu.
func (s *channelState) clear() *moderation.Rule {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	rule := s.rule
	s.rule = nil
	return rule
}

// Registry maps channels to their state.
// The registry lock only guards lookups and inserts, never a check.
type Registry struct {
	mu       sync.RWMutex
	channels map[domain.ChannelID]*channelState
}

func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[domain.ChannelID]*channelState),
	}
}

// Get returns the state of a channel already seen.
func (r *Registry) Get(channel domain.ChannelID) (*channelState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.channels[channel]
	return state, ok
}

// GetOrCreate returns the state of a channel, creating it on first use.
// Entries are kept for the life of the process: an idle channel costs
// one mutex and two nil pointers.
func (r *Registry) GetOrCreate(channel domain.ChannelID) *channelState {
	if state, ok := r.Get(channel); ok {
		return state
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another goroutine may have won the race between both locks
	if state, ok := r.channels[channel]; ok {
		return state
	}
	state := &channelState{}
	r.channels[channel] = state
	return state
}

// Channels lists every known channel, in no particular order.
func (r *Registry) Channels() []domain.ChannelID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	channels := make([]domain.ChannelID, 0, len(r.channels))
	for channel := range r.channels {
		channels = append(channels, channel)
	}
	return channels
}
