// Package rhyme decides whether two words rhyme, using a pronunciation
// dictionary first and a spelling heuristic when the dictionary is silent.
package rhyme

import (
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Hints shorter than this are easier to read in a violation notice.
const maxHintLength = 8

type Detector struct {
	dict Dictionary
}

func NewDetector(dict Dictionary) *Detector {
	return &Detector{dict: dict}
}

// Rhyme reports whether b rhymes with a. A word never rhymes with itself.
func (d *Detector) Rhyme(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return false
	}
	if d.dict != nil && lo.Contains(d.dict.Rhymes(a), b) {
		return true
	}
	return suffixRhyme(a, b)
}

// suffixRhyme compares endings: up to three characters for words of three
// characters or more, the last character otherwise.
func suffixRhyme(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	minLength := min(len(ra), len(rb))
	if minLength == 0 {
		return false
	}
	n := 1
	if minLength >= 3 {
		n = min(3, minLength/2)
	}
	return string(ra[len(ra)-n:]) == string(rb[len(rb)-n:])
}

// Hints samples up to n short dictionary rhymes for word.
func (d *Detector) Hints(word string, n int) []string {
	if d.dict == nil {
		return nil
	}
	word = strings.ToLower(word)
	candidates := lo.Filter(d.dict.Rhymes(word), func(r string, _ int) bool {
		return r != word && utf8.RuneCountInString(r) < maxHintLength
	})
	if len(candidates) == 0 {
		return nil
	}
	return lo.Samples(candidates, n)
}
