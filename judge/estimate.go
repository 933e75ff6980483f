package judge

import "unicode/utf8"

const (
	DefaultMaxTokens    = 4000
	DefaultSafetyMargin = 400
)

// EstimateTokens approximates the token count as characters / 4.
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) / 4
}

// Budget caps the size of a request sent to the judgment service.
type Budget struct {
	MaxTokens    int
	SafetyMargin int
}

func DefaultBudget() Budget {
	return Budget{MaxTokens: DefaultMaxTokens, SafetyMargin: DefaultSafetyMargin}
}

// FitsSingle reports whether one message can be judged.
func (b Budget) FitsSingle(ruleText, message string) bool {
	return EstimateTokens(message)+EstimateTokens(ruleText)+b.SafetyMargin <= b.MaxTokens
}

// FitsBatch reports whether the messages can share one call.
func (b Budget) FitsBatch(ruleText string, messages []string) bool {
	return EstimateTokens(FormatMessages(messages))+EstimateTokens(ruleText)+b.SafetyMargin <= b.MaxTokens
}
