package moderation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
)

// Custom platform emojis look like <:name:id> or <a:name:id> when animated.
var customEmojiPattern = regexp.MustCompile(`<a?:[a-zA-Z0-9_]+:[0-9]+>`)

func hasEmoji(content string) bool {
	return gomoji.ContainsEmoji(content) || customEmojiPattern.MatchString(content)
}

func checkEmoji(content string) string {
	if !hasEmoji(content) {
		return reasonEmoji
	}
	return ""
}

func checkPrefix(content string) string {
	if !strings.HasPrefix(strings.ToLower(content), humblePrefix) {
		return reasonPrefix
	}
	return ""
}

func checkPirate(vocabulary *Vocabulary) predicate {
	return func(content string) string {
		if !vocabulary.Contains(content) {
			return reasonPirate
		}
		return ""
	}
}

func checkPunctuation(content string) string {
	if !endsWithPunctuation(content) || content != capitalize(content) {
		return reasonPunctuation
	}
	return ""
}

func endsWithPunctuation(content string) bool {
	return strings.HasSuffix(content, ".") || strings.HasSuffix(content, "!") || strings.HasSuffix(content, "?")
}

// capitalize upper-cases the first user-perceived character and leaves the rest untouched.
func capitalize(content string) string {
	first, rest, _, _ := uniseg.FirstGraphemeClusterInString(content, -1)
	return strings.ToUpper(first) + rest
}

func isAllCaps(content string) bool {
	return strings.ToUpper(content) == content
}

func checkAllCaps(content string) string {
	if !isAllCaps(content) {
		return reasonAllCaps
	}
	return ""
}

func checkYourExcellence(content string) string {
	if !strings.Contains(strings.ToLower(content), excellence) {
		return reasonYourExcellence
	}
	return ""
}

func checkFiveWords(content string) string {
	if count := len(strings.Fields(content)); count != requiredWords {
		return fmt.Sprintf(reasonFiveWords, count)
	}
	return ""
}
