package platform

import (
	"context"
	"fmt"
	"sync"

	"chat-rules/contract"
	"chat-rules/domain"
)

type Notice struct {
	ID      string
	Channel domain.ChannelID
	Text    string
}

type Deletion struct {
	Channel   domain.ChannelID
	MessageID string
}

// Recorder keeps every side effect in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
	deleted []Deletion
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) PostNotice(_ context.Context, channel domain.ChannelID, text string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notice := Notice{ID: fmt.Sprintf("notice-%d", len(r.notices)+1), Channel: channel, Text: text}
	r.notices = append(r.notices, notice)
	return notice.ID, nil
}

func (r *Recorder) DeleteMessage(_ context.Context, channel domain.ChannelID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, Deletion{Channel: channel, MessageID: messageID})
	return nil
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

func (r *Recorder) Deleted() []Deletion {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Deletion(nil), r.deleted...)
}

var _ contract.Platform = (*Recorder)(nil)
