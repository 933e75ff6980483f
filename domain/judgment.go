package domain

// JudgmentRequest is what the core sends to the external judgment service.
// A single message uses the single verdict grammar, several use the batch grammar.
type JudgmentRequest struct {
	SystemFraming string
	RuleText      string
	Messages      []string
}

func (r JudgmentRequest) IsBatch() bool {
	return len(r.Messages) > 1
}
