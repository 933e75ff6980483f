package main

import (
	"context"
	"sync"

	"chat-rules/contract"
	"chat-rules/domain"
)

// scriptedJudge answers judgment requests from the scenario file, in
// order, repeating the last answer once the script is exhausted.
type scriptedJudge struct {
	mu       sync.Mutex
	answers  []string
	next     int
	requests []domain.JudgmentRequest
}

func newScriptedJudge(answers []string) *scriptedJudge {
	return &scriptedJudge{answers: answers}
}

// Available is false without answers so judged rules degrade as they
// would without an API key.
func (j *scriptedJudge) Available() bool {
	return len(j.answers) > 0
}

func (j *scriptedJudge) Evaluate(_ context.Context, request domain.JudgmentRequest) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.requests = append(j.requests, request)
	answer := j.answers[min(j.next, len(j.answers)-1)]
	j.next++
	return answer, nil
}

func (j *scriptedJudge) Calls() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.requests)
}

var _ contract.Judge = (*scriptedJudge)(nil)
