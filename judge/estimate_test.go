package judge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimateTokens_Counts_Characters(t *testing.T) {
	req := require.New(t)

	req.Equal(0, EstimateTokens("abc"))
	req.Equal(1, EstimateTokens("abcd"))
	// Runes, not bytes
	req.Equal(1, EstimateTokens("éééé"))
}

func TestBudget_FitsSingle(t *testing.T) {
	req := require.New(t)
	budget := DefaultBudget()

	req.True(budget.FitsSingle("be formal", "hello"))

	// 4000 tokens of message plus the margin can never fit
	huge := strings.Repeat("a", 4*DefaultMaxTokens)
	req.False(budget.FitsSingle("be formal", huge))
}

func TestBudget_FitsBatch(t *testing.T) {
	req := require.New(t)
	budget := Budget{MaxTokens: 450, SafetyMargin: 400}

	req.True(budget.FitsBatch("rule", []string{"short", "also short"}))
	req.False(budget.FitsBatch("rule", []string{strings.Repeat("x", 120), strings.Repeat("y", 120)}))
}
