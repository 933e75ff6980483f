package judge

import (
	"fmt"
	"strings"
)

const (
	markerPrefix = "MESSAGE "
	yes          = "YES"
	no           = "NO:"
)

// Verdict is the parsed answer for one message.
type Verdict struct {
	Compliant bool
	Reason    string
}

// Compliant is the fail-open verdict.
var Compliant = Verdict{Compliant: true}

func NonCompliant(reason string) Verdict {
	return Verdict{Reason: reason}
}

// String renders the verdict back into the judge grammar.
func (v Verdict) String() string {
	if v.Compliant {
		return yes
	}
	return no + " " + v.Reason
}

// ParseVerdict reads a single answer. Only "NO: reason" is a violation,
// anything unexpected counts as compliant.
func ParseVerdict(raw string) Verdict {
	answer := strings.TrimSpace(raw)
	if reason, ok := strings.CutPrefix(answer, no); ok {
		return NonCompliant(strings.TrimSpace(reason))
	}
	return Compliant
}

// ParseBatch reads a batched answer and returns one verdict per message,
// in order. Lines are matched by their "MESSAGE n:" marker. A missing or
// malformed line leaves that message compliant.
func ParseBatch(raw string, n int) []Verdict {
	verdicts, _ := ParseBatchAnswered(raw, n)
	return verdicts
}

// ParseBatchAnswered is ParseBatch, also telling which messages received
// a well formed YES or NO line.
func ParseBatchAnswered(raw string, n int) ([]Verdict, []bool) {
	verdicts := make([]Verdict, n)
	answered := make([]bool, n)
	seen := make([]bool, n)
	for i := range verdicts {
		verdicts[i] = Compliant
	}
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		for i := 0; i < n; i++ {
			if seen[i] {
				continue
			}
			answer, ok := strings.CutPrefix(line, fmt.Sprintf("%s%d: ", markerPrefix, i+1))
			if !ok {
				continue
			}
			seen[i] = true
			answer = strings.Trim(strings.TrimSpace(answer), "[]")
			switch {
			case strings.HasPrefix(answer, yes):
				answered[i] = true
			case strings.HasPrefix(answer, no):
				verdicts[i] = NonCompliant(strings.TrimSpace(answer[len(no):]))
				answered[i] = true
			}
			break
		}
	}
	return verdicts, answered
}
