package moderation

import (
	"fmt"

	"chat-rules/domain"
)

const (
	humblePrefix   = "in my humble opinion"
	excellence     = "your excellence"
	requiredWords  = 5
	pirateGlossary = " [Pirate Glossary](<https://www.pirateglossary.com/>)"
)

var descriptions = map[domain.RuleKind]string{
	domain.KindEmoji:          "all messages must contain at least one emoji.",
	domain.KindPrefix:         "all messages must start with 'In my humble opinion'.",
	domain.KindPirate:         "everyone must speak like a pirate." + pirateGlossary,
	domain.KindPunctuation:    "all messages must have perfect punctuation and grammar.",
	domain.KindRhyme:          "all messages must rhyme with the previous message.",
	domain.KindAllCaps:        "all messages must be written in ALL CAPS.",
	domain.KindYourExcellence: "everyone must address each other as 'Your Excellence'.",
	domain.KindFiveWords:      "messages can only contain exactly 5 words.",
	domain.KindShakespeare:    "all messages must be written in Shakespearean English.",
	domain.KindCorporate:      "all messages must include at least two pieces of corporate buzzwords or business jargon.",
	domain.KindOverlyFormal:   "all messages must be excessively formal and polite, as if addressing royalty.",
}

// Describe renders the user facing text of a rule, free text included.
func Describe(kind domain.RuleKind, minutes int, freeText string) string {
	body, ok := descriptions[kind]
	if !ok {
		body = freeText
	}
	return fmt.Sprintf("For the next %d minutes, %s", minutes, body)
}

const (
	reasonEmoji          = "you forgor to add some emojis gang! 🥺👉👈"
	reasonPrefix         = "Your message must start with 'In my humble opinion,'! Be humble!"
	reasonPirate         = "Arr! That don't sound like pirate speak to me! Add some 'arr' or 'ahoy' to yer message, ye scallywag!"
	reasonPunctuation    = "Your message lacks proper punctuation! Capital letter at the start and period at the end, please."
	reasonAllCaps        = "YOUR MESSAGE MUST BE IN ALL CAPS! LOUDER!!"
	reasonYourExcellence = "You must address others as 'Your Excellence'! Show some respect!"
	reasonFiveWords      = "Your message must contain exactly 5 words! You used %d."
	reasonRhyme          = "Your message should end with a word that rhymes with '%s'!"
	reasonRhymeExamples  = " Examples: %s"
)

// Rubrics sent to the judgment service. They are lenient: only a clear
// non-attempt should be rejected.
const (
	rubricShakespeare = `Messages should attempt to include some Shakespearean or Elizabethan English elements.
Be quite lenient - accept any message that makes even a small effort to sound Shakespearean.
Acceptable elements include:
- Using words like 'thee', 'thou', 'thy', 'thine', 'ye', 'doth', 'hath'
- Adding '-eth' or '-est' endings to verbs (e.g., speaketh, dost)
- Using archaic phrases like 'forsooth', 'prithee', 'verily', 'methinks', 'alas'
- Old-fashioned expressions like 'Good morrow', 'What say you', 'I pray thee'
- Adding 'O' before addressing someone, like 'O friend'
- Using slightly more poetic or flowery language than normal

Only reject messages that make absolutely no attempt to include any Shakespearean elements.`

	rubricCorporate = `Messages must include at least two different corporate buzzwords or business jargon terms.
Examples include: synergy, leverage, actionable, bandwidth, circle back, deep dive, paradigm shift, value-add,
low-hanging fruit, touch base, moving forward, drill down, thought leadership, best practices, holistic approach, etc. Don't be too strict and be sarcastic.`

	rubricOverlyFormal = `Messages must be somewhat formal and polite, as if speaking to someone of high status.
Be quite lenient - accept any message that has even a small touch of formality or politeness.
Accept messages with Victorian/British-style speech patterns, old-fashioned language, or any polite expressions.
Acceptable examples include:
- "oh golly oh gosh what a splendid day it is today kind sir"
- "I dare say this is rather fascinating"
- "How delightful to see you"
- "Good day to you"
- "Might I suggest..."
- Any message with words like "sir", "madam", "please", "thank you", "kind", "splendid", etc.
Only reject messages that are clearly rude, use slang, or have absolutely no formal elements at all.`
)

var rubrics = map[domain.RuleKind]string{
	domain.KindShakespeare:  rubricShakespeare,
	domain.KindCorporate:    rubricCorporate,
	domain.KindOverlyFormal: rubricOverlyFormal,
}
