package rhyme

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	urlPattern      = regexp.MustCompile(`https?://\S+`)
	trailingPattern = regexp.MustCompile(`[^\p{L}\p{N}_']+$`)
	letterPattern   = regexp.MustCompile(`[a-z]`)
)

// LastWord extracts the word a message ends with, lowercased and without
// trailing punctuation. URLs are ignored. It returns false when there is
// nothing meaningful to rhyme with: fewer than two characters or no letter.
func LastWord(content string) (string, bool) {
	text := urlPattern.ReplaceAllString(content, "")
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	word := trailingPattern.ReplaceAllString(strings.ToLower(fields[len(fields)-1]), "")
	if utf8.RuneCountInString(word) < 2 || !letterPattern.MatchString(word) {
		return "", false
	}
	return word, true
}
