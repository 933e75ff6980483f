package judge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Verdict
	}{
		{name: "yes", raw: "YES", expected: Compliant},
		{name: "yes with chatter", raw: "  YES, nicely done\n", expected: Compliant},
		{name: "no with reason", raw: "NO: not a single arr", expected: NonCompliant("not a single arr")},
		{name: "lowercase no is not the grammar", raw: "no: whatever", expected: Compliant},
		{name: "empty", raw: "", expected: Compliant},
		{name: "garbage", raw: "I am not sure", expected: Compliant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, ParseVerdict(tt.raw))
		})
	}
}

func TestParseBatch_Positional_Markers(t *testing.T) {
	req := require.New(t)

	// Given an answer out of order, with one missing and one malformed line
	raw := `MESSAGE 2: NO: sounds like a spreadsheet
MESSAGE 1: YES
MESSAGE 4: maybe?`

	// When the batch answer is parsed for 4 messages
	verdicts := ParseBatch(raw, 4)

	// Then each message gets its own verdict, missing and malformed are compliant
	req.Len(verdicts, 4)
	req.Equal(Compliant, verdicts[0])
	req.Equal(NonCompliant("sounds like a spreadsheet"), verdicts[1])
	req.Equal(Compliant, verdicts[2])
	req.Equal(Compliant, verdicts[3])
}

func TestParseBatch_Bracketed_Answers(t *testing.T) {
	req := require.New(t)

	verdicts := ParseBatch("MESSAGE 1: [YES]\nMESSAGE 2: [NO: too casual]", 2)

	req.Equal(Compliant, verdicts[0])
	req.Equal(NonCompliant("too casual"), verdicts[1])
}

func TestParseBatch_Does_Not_Confuse_Ten_With_One(t *testing.T) {
	req := require.New(t)

	verdicts := ParseBatch("MESSAGE 10: NO: late", 1)

	req.Equal(Compliant, verdicts[0])
}

func TestVerdict_String_Round_Trip(t *testing.T) {
	req := require.New(t)

	req.Equal(Compliant, ParseVerdict(Compliant.String()))
	req.Equal(NonCompliant("too loud"), ParseVerdict(NonCompliant("too loud").String()))
}

func TestParseBatchAnswered_Flags_Missing_And_Malformed(t *testing.T) {
	req := require.New(t)

	_, answered := ParseBatchAnswered("MESSAGE 1: YES\nMESSAGE 3: hmm", 3)

	req.Equal([]bool{true, false, false}, answered)
}
