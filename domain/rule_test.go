package domain

import (
	"testing"

	"chat-rules/errors"

	"github.com/stretchr/testify/require"
)

func TestRuleKind_Capabilities(t *testing.T) {
	tests := []struct {
		kind     RuleKind
		judged   bool
		freeText bool
	}{
		{kind: KindEmoji},
		{kind: KindRhyme},
		{kind: KindShakespeare, judged: true},
		{kind: KindCorporate, judged: true},
		{kind: KindOverlyFormal, judged: true},
		{kind: KindAI, judged: true, freeText: true},
		{kind: KindCustom, freeText: true},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			req := require.New(t)
			req.Equal(tt.judged, tt.kind.IsJudged())
			req.Equal(tt.freeText, tt.kind.IsFreeText())
		})
	}
}

func TestParseRuleKind(t *testing.T) {
	req := require.New(t)

	kind, err := ParseRuleKind("five_words")
	req.NoError(err)
	req.Equal(KindFiveWords, kind)

	_, err = ParseRuleKind("haiku")
	req.ErrorIs(err, errors.ErrUnknownRuleKind)
}
