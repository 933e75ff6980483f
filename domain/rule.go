package domain

import (
	"fmt"
	"strings"

	"chat-rules/errors"
)

type RuleKind string

const (
	KindEmoji          RuleKind = "emoji"
	KindPrefix         RuleKind = "prefix"
	KindPirate         RuleKind = "pirate"
	KindPunctuation    RuleKind = "punctuation"
	KindRhyme          RuleKind = "rhyme"
	KindAllCaps        RuleKind = "all_caps"
	KindYourExcellence RuleKind = "your_excellence"
	KindFiveWords      RuleKind = "five_words"
	KindShakespeare    RuleKind = "shakespeare"
	KindCorporate      RuleKind = "corporate_jargon"
	KindOverlyFormal   RuleKind = "overly_formal"
	// KindAI is a free-text rule judged by the external service.
	KindAI RuleKind = "ai"
	// KindCustom is a free-text rule checked with keyword heuristics.
	KindCustom RuleKind = "custom"
)

// CannedKinds lists the built-in rules in announcement order.
var CannedKinds = []RuleKind{
	KindEmoji,
	KindPrefix,
	KindPirate,
	KindPunctuation,
	KindRhyme,
	KindAllCaps,
	KindYourExcellence,
	KindFiveWords,
	KindShakespeare,
	KindCorporate,
	KindOverlyFormal,
}

// ParseRuleKind accepts the canonical names plus the hyphenated spelling.
func ParseRuleKind(s string) (RuleKind, error) {
	k := RuleKind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, known := range append(CannedKinds, KindAI, KindCustom) {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", errors.ErrUnknownRuleKind, s)
}

// IsFreeText reports whether the rule needs user supplied text.
func (k RuleKind) IsFreeText() bool {
	return k == KindAI || k == KindCustom
}

// IsJudged reports whether the rule is decided by the external judgment service.
func (k RuleKind) IsJudged() bool {
	switch k {
	case KindShakespeare, KindCorporate, KindOverlyFormal, KindAI:
		return true
	default:
		return false
	}
}
