package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"sort"
	"strings"
	"unicode"

	"chat-rules/errors"

	goahocorasick "github.com/anknown/ahocorasick"
)

//go:embed data/*.txt
var vocabularyFS embed.FS

// Vocabulary finds any of a fixed set of terms inside a text, as plain
// case-insensitive substrings. Multi-word terms keep their spaces.
type Vocabulary struct {
	matcher *goahocorasick.Machine
	terms   []string
}

// NewVocabulary builds the Aho-Corasick automaton over the lowercased terms.
func NewVocabulary(terms []string) (*Vocabulary, error) {
	unique := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			unique[term] = struct{}{}
		}
	}
	if len(unique) == 0 {
		return nil, errors.ErrEmptyWords
	}

	sorted := make([]string, 0, len(unique))
	for term := range unique {
		sorted = append(sorted, term)
	}
	sort.Strings(sorted)

	patterns := make([][]rune, len(sorted))
	for i, term := range sorted {
		patterns[i] = []rune(term)
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Vocabulary{matcher: m, terms: sorted}, nil
}

// LoadVocabulary reads one term per line from an embedded list, e.g. "pirate".
func LoadVocabulary(name string) (*Vocabulary, error) {
	data, err := vocabularyFS.ReadFile("data/" + name + ".txt")
	if err != nil {
		return nil, err
	}

	var terms []string
	// Use a scanner to handle different line endings (\n vs \r\n) correctly
	// ⚠️Don't use strings.Split
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			terms = append(terms, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewVocabulary(terms)
}

func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Contains reports whether at least one term appears in text.
func (v *Vocabulary) Contains(text string) bool {
	runes := lowerRunes(text)
	if len(runes) == 0 {
		return false
	}
	return len(v.matcher.MultiPatternSearch(runes, true)) > 0
}

// lowerRunes lowercases rune by rune, the automaton works on runes.
func lowerRunes(text string) []rune {
	runes := []rune(text)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}
