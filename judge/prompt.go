package judge

import (
	"fmt"
	"strings"

	"chat-rules/domain"
)

const (
	SystemFraming = "You are April Fools AI Mod, a strict but humorous enforcer of rules."

	singleMaxTokens = 150
	batchMaxTokens  = 300
)

const singleTemplate = `You are April Fools AI Mod, a bot that enforces fun rules on a chat server.

RULE: %s

USER MESSAGE: "%s"

Does this message follow the rule? Respond with:
- "YES" if the message follows the rule
- "NO: [brief explanation of violation]" if the message violates the rule

Keep your explanation very brief and humorous.`

const batchTemplate = `You are April Fools AI Mod, a bot that enforces fun rules on a chat server.

RULE: %s

%s

For each message, indicate if it follows the rule by responding with a list in this format:
MESSAGE 1: [YES/NO: reason if no]
MESSAGE 2: [YES/NO: reason if no]
...and so on.

Keep your explanations very brief and humorous.`

// NewRequest builds a request with the default system framing.
func NewRequest(ruleText string, messages ...string) domain.JudgmentRequest {
	return domain.JudgmentRequest{
		SystemFraming: SystemFraming,
		RuleText:      ruleText,
		Messages:      messages,
	}
}

// FormatMessages numbers messages from 1 with the positional marker
// the batch answer must echo back.
func FormatMessages(messages []string) string {
	lines := make([]string, 0, len(messages))
	for i, m := range messages {
		lines = append(lines, fmt.Sprintf("%s%d: %q", markerPrefix, i+1, m))
	}
	return strings.Join(lines, "\n")
}

// Render returns the user prompt and the completion budget for the request.
func Render(request domain.JudgmentRequest) (string, int) {
	if request.IsBatch() {
		return fmt.Sprintf(batchTemplate, request.RuleText, FormatMessages(request.Messages)), batchMaxTokens
	}
	var message string
	if len(request.Messages) == 1 {
		message = request.Messages[0]
	}
	return fmt.Sprintf(singleTemplate, request.RuleText, message), singleMaxTokens
}
