package moderation

import (
	"strings"
	"unicode"
)

const (
	reasonKeywordEmoji       = "Your message needs to include an emoji!"
	reasonKeywordAllCaps     = "Your message needs to be in ALL CAPS!"
	reasonKeywordLowercase   = "Your message needs to be in lowercase!"
	reasonKeywordQuestion    = "Your message needs to be a question!"
	reasonKeywordExclamation = "Your message needs more excitement! Add an exclamation mark!"
)

type requirement struct {
	keywords []string
	check    predicate
}

// requirements are tried in order, the first failing one is reported.
var requirements = []requirement{
	{keywords: []string{"uppercase", "all caps"}, check: func(content string) string {
		if !hasOnlyCase(content, unicode.IsUpper) {
			return reasonKeywordAllCaps
		}
		return ""
	}},
	{keywords: []string{"lowercase"}, check: func(content string) string {
		if !hasOnlyCase(content, unicode.IsLower) {
			return reasonKeywordLowercase
		}
		return ""
	}},
	{keywords: []string{"question"}, check: func(content string) string {
		if !strings.Contains(content, "?") {
			return reasonKeywordQuestion
		}
		return ""
	}},
	{keywords: []string{"exclamation"}, check: func(content string) string {
		if !strings.Contains(content, "!") {
			return reasonKeywordExclamation
		}
		return ""
	}},
}

// keywordPredicate derives a cheap check from the wording of a free-text
// rule. A rule mentioning emoji only checks for emoji. A rule matching no
// keyword lets everything through.
func keywordPredicate(ruleText string) predicate {
	lower := strings.ToLower(ruleText)
	if strings.Contains(lower, "emoji") {
		return func(content string) string {
			if !hasEmoji(content) {
				return reasonKeywordEmoji
			}
			return ""
		}
	}

	var checks []predicate
	for _, r := range requirements {
		for _, keyword := range r.keywords {
			if strings.Contains(lower, keyword) {
				checks = append(checks, r.check)
				break
			}
		}
	}
	if len(checks) == 0 {
		return passThrough
	}
	return func(content string) string {
		for _, check := range checks {
			if reason := check(content); reason != "" {
				return reason
			}
		}
		return ""
	}
}

// hasOnlyCase reports whether content has at least one cased letter and every
// cased letter satisfies want. "123" has no cased letter and fails both cases.
func hasOnlyCase(content string, want func(rune) bool) bool {
	cased := false
	for _, r := range content {
		if !unicode.IsUpper(r) && !unicode.IsLower(r) && !unicode.IsTitle(r) {
			continue
		}
		if !want(r) {
			return false
		}
		cased = true
	}
	return cased
}
