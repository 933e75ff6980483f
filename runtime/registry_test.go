package runtime

import (
	"sync"
	"testing"

	"chat-rules/domain"

	"github.com/stretchr/testify/require"
)

func TestRegistry_GetOrCreate_Same_Channel_Same_State(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	channel := domain.ChannelID("general")

	// Given no channel was ever seen
	_, ok := registry.Get(channel)
	req.False(ok)

	// When the channel is looked up twice
	first := registry.GetOrCreate(channel)
	second := registry.GetOrCreate(channel)

	// Then the same state is returned
	req.Same(first, second)
	req.Len(registry.Channels(), 1)
}

func TestRegistry_GetOrCreate_Independent_Channels(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// When two channels are created
	general := registry.GetOrCreate("general")
	random := registry.GetOrCreate("random")

	// Then each has its own state
	req.NotSame(general, random)
	req.ElementsMatch([]domain.ChannelID{"general", "random"}, registry.Channels())
}

func TestRegistry_GetOrCreate_Concurrent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	states := make([]*channelState, 50)

	// When many goroutines race on the same channel
	var wg sync.WaitGroup
	for i := range states {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			states[i] = registry.GetOrCreate("general")
		}(i)
	}
	wg.Wait()

	// Then a single state was inserted
	for _, state := range states {
		req.Same(states[0], state)
	}
	req.Len(registry.Channels(), 1)
}
