// Package platform holds the chat network adapters of the bot: a console
// that prints notices in colour, a recorder for replays and tests, and
// the parser turning typed lines into intents and messages.
package platform

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"chat-rules/contract"
	"chat-rules/domain"

	"github.com/gookit/color"
)

// Console prints every side effect instead of calling a real network.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	seq atomic.Uint64
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) PostNotice(_ context.Context, channel domain.ChannelID, text string) (string, error) {
	id := fmt.Sprintf("notice-%d", c.seq.Add(1))
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "%s %s\n", color.Cyan.Sprintf("#%s", channel), text)
	return id, err
}

func (c *Console) DeleteMessage(_ context.Context, channel domain.ChannelID, messageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.out, color.Gray.Sprintf("#%s (message %s deleted)", channel, messageID))
	return err
}

var _ contract.Platform = (*Console)(nil)
