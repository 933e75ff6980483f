package moderation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"chat-rules/contract"
	"chat-rules/domain"
	"chat-rules/rhyme"
)

const rhymeHints = 3

// rhymeChecker remembers the last accepted word of its own activation.
// The first usable word after activation always passes.
type rhymeChecker struct {
	base
	detector *rhyme.Detector

	mu       sync.Mutex
	lastWord string
}

var _ contract.Checker = (*rhymeChecker)(nil)

func (c *rhymeChecker) Check(_ context.Context, msg domain.Message, report contract.Report) {
	report(c.evaluate(msg.Content))
}

func (c *rhymeChecker) evaluate(content string) *domain.Violation {
	word, ok := rhyme.LastWord(content)
	if !ok {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastWord == "" {
		c.lastWord = word
		return nil
	}
	if !c.detector.Rhyme(c.lastWord, word) {
		reason := fmt.Sprintf(reasonRhyme, c.lastWord)
		if hints := c.detector.Hints(c.lastWord, rhymeHints); len(hints) > 0 {
			reason += fmt.Sprintf(reasonRhymeExamples, strings.Join(hints, ", "))
		}
		return &domain.Violation{Reason: reason}
	}
	c.lastWord = word
	return nil
}

// LastWord exposes the remembered word, "" before the first message.
func (c *rhymeChecker) LastWord() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastWord
}
