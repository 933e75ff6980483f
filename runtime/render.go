package runtime

import "fmt"

const (
	announcementHeader = "🤖 **AI MOD ANNOUNCEMENT** 🤖"
	violationHeader    = "🚨 **RULE VIOLATION** 🚨"

	// EndedReply answers the member who ended a rule by hand.
	EndedReply = "The active rule has been ended!"
)

func Mention(authorID string) string {
	return "<@" + authorID + ">"
}

func AnnouncementNotice(description string, minutes int) string {
	return fmt.Sprintf("%s\n\n%s\n\nThis rule will be enforced for the next %d minutes!", announcementHeader, description, minutes)
}

func EndedNotice(description string) string {
	return fmt.Sprintf("%s\n\nThe rule: '%s' has ended. You are free... for now! 😈", announcementHeader, description)
}

func ViolationNotice(authorID, reason string) string {
	return fmt.Sprintf("%s %s\n%s", Mention(authorID), violationHeader, reason)
}
