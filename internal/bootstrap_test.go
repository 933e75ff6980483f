package internal

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"chat-rules/cachestore"
	"chat-rules/domain"
	"chat-rules/judge"
	"chat-rules/platform"
	"chat-rules/runtime"

	"github.com/Netflix/go-env"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func hasNotice(notices []platform.Notice, fragment string) bool {
	for _, n := range notices {
		if strings.Contains(n.Text, fragment) {
			return true
		}
	}
	return false
}

func TestBuild_Enforces_Rule_Until_Expiry(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given a bot where one rule minute lasts 100ms
	var config Config
	req.NoError(env.Unmarshal(env.EnvSet{}, &config))
	config.RuleTimeUnit = 100 * time.Millisecond
	config.NoticeDeleteDelay = 0
	recorder := platform.NewRecorder()
	stack, err := Build(log, config, recorder, judge.NewClient(log, ""), cachestore.Nop{})
	req.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = stack.Orchestrator.Start(ctx)
		close(done)
	}()
	defer func() {
		stack.Orchestrator.Stop()
		cancel()
		<-done
	}()
	<-stack.Orchestrator.Ready()

	// When an all caps rule is activated and a lowercase message arrives
	_, err = stack.Orchestrator.ActivateRule(runtime.ActivationIntent{ChannelID: "general", Kind: domain.KindAllCaps, DurationMinutes: 1})
	req.NoError(err)
	stack.Orchestrator.HandleMessage(domain.Message{ID: "m1", ChannelID: "general", AuthorID: "alice", Content: "quiet please", At: time.Now()})

	// Then the message is deleted and the author is notified
	req.Eventually(func() bool { return len(recorder.Deleted()) == 1 }, time.Second, 10*time.Millisecond)
	req.Equal("m1", recorder.Deleted()[0].MessageID)
	req.Eventually(func() bool { return hasNotice(recorder.Notices(), "RULE VIOLATION") }, time.Second, 10*time.Millisecond)
	req.True(hasNotice(recorder.Notices(), "AI MOD ANNOUNCEMENT"))

	// And the rule ends on its own
	req.Eventually(func() bool { return hasNotice(recorder.Notices(), "has ended") }, 2*time.Second, 10*time.Millisecond)
	_, active := stack.Orchestrator.ActiveRule("general")
	req.False(active)
}

func TestNewCache_Backends(t *testing.T) {
	req := require.New(t)
	var config Config
	req.NoError(env.Unmarshal(env.EnvSet{}, &config))

	config.CacheBackend = string(CacheNone)
	store, release, err := NewCache(context.Background(), config)
	req.NoError(err)
	req.IsType(cachestore.Nop{}, store)
	release()

	config.CacheBackend = string(CacheMemory)
	store, release, err = NewCache(context.Background(), config)
	req.NoError(err)
	req.NoError(store.Set(context.Background(), "k", "v"))
	release()
}
