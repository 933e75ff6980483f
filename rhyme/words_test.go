package rhyme

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLastWord(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
		ok       bool
	}{
		{name: "plain", content: "what a lovely night", expected: "night", ok: true},
		{name: "trailing punctuation", content: "Look at that SIGHT!!!", expected: "sight", ok: true},
		{name: "apostrophe kept", content: "it was never mine, it's y'all's", expected: "y'all's", ok: true},
		{name: "url ignored", content: "drive my car https://example.com/cars", expected: "car", ok: true},
		{name: "only url", content: "https://example.com", ok: false},
		{name: "too short", content: "give me a", ok: false},
		{name: "no letters", content: "call me at 555", ok: false},
		{name: "emoji only ending", content: "so good 🎉", ok: false},
		{name: "empty", content: "   ", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			word, ok := LastWord(tt.content)
			req.Equal(tt.ok, ok)
			if tt.ok {
				req.Equal(tt.expected, word)
			}
		})
	}
}
