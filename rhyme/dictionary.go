package rhyme

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"chat-rules/errors"
)

//go:embed data/cmudict.txt
var embeddedDictionary []byte

// Dictionary answers which known words rhyme with a given word.
type Dictionary interface {
	Rhymes(word string) []string
}

// CMU is a pronunciation dictionary in the CMU Pronouncing Dictionary
// format. Two words rhyme when they share the phonemes from their last
// stressed vowel to the end.
type CMU struct {
	parts  map[string][]string
	byPart map[string][]string
}

var _ Dictionary = (*CMU)(nil)

// LoadEmbedded returns the small dictionary shipped with the binary.
func LoadEmbedded() (*CMU, error) {
	return LoadCMU(bytes.NewReader(embeddedDictionary))
}

// LoadFile reads a full cmudict file, e.g. cmudict-0.7b.
func LoadFile(path string) (*CMU, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pronunciation dictionary: %w", err)
	}
	defer f.Close()
	return LoadCMU(f)
}

// Load uses the file at path when given, the embedded dictionary otherwise.
func Load(path string) (*CMU, error) {
	if path == "" {
		return LoadEmbedded()
	}
	return LoadFile(path)
}

func LoadCMU(r io.Reader) (*CMU, error) {
	d := &CMU{
		parts:  make(map[string][]string),
		byPart: make(map[string][]string),
	}

	// Use a scanner to handle different line endings (\n vs \r\n) correctly
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";;;") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		word := strings.ToLower(fields[0])
		// Alternate pronunciations are spelled WORD(1), WORD(2)...
		if i := strings.IndexByte(word, '('); i > 0 {
			word = word[:i]
		}
		part := RhymingPart(fields[1:])
		if part == "" {
			continue
		}
		d.add(word, part)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(d.parts) == 0 {
		return nil, errors.ErrEmptyDictionary
	}
	for part, words := range d.byPart {
		sort.Strings(words)
		d.byPart[part] = words
	}
	return d, nil
}

func (d *CMU) add(word, part string) {
	for _, known := range d.parts[word] {
		if known == part {
			return
		}
	}
	d.parts[word] = append(d.parts[word], part)
	d.byPart[part] = append(d.byPart[part], word)
}

// Len returns the number of distinct words.
func (d *CMU) Len() int {
	return len(d.parts)
}

// Rhymes lists every other known word sharing a rhyming part with word.
// Unknown words have no rhymes.
func (d *CMU) Rhymes(word string) []string {
	word = strings.ToLower(word)
	seen := make(map[string]struct{})
	var rhymes []string
	for _, part := range d.parts[word] {
		for _, candidate := range d.byPart[part] {
			if candidate == word {
				continue
			}
			if _, ok := seen[candidate]; ok {
				continue
			}
			seen[candidate] = struct{}{}
			rhymes = append(rhymes, candidate)
		}
	}
	sort.Strings(rhymes)
	return rhymes
}

// RhymingPart joins the phonemes from the last primary or secondary
// stressed vowel to the end. Without any stress mark it starts at the
// last vowel.
func RhymingPart(phones []string) string {
	start := -1
	lastVowel := -1
	for i, phone := range phones {
		stress := phone[len(phone)-1]
		if stress < '0' || stress > '9' {
			continue
		}
		lastVowel = i
		if stress == '1' || stress == '2' {
			start = i
		}
	}
	if start < 0 {
		start = lastVowel
	}
	if start < 0 {
		return ""
	}
	return strings.Join(phones[start:], " ")
}
