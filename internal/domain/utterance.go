package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// same pattern sets Botkit ships as utterances.yes / utterances.no
	affirmativePattern = regexp.MustCompile(`(?i)^(yes|yea|yup|yep|ya|sure|ok|y|yeah|yah)`)
	negativePattern    = regexp.MustCompile(`(?i)^(no|nah|nope|n)`)

	// <#C123> or <#C123|channel-name>
	channelMentionPattern = regexp.MustCompile(`<#(\w+)(?:\|[^>]*)?>`)

	userMentionPattern = regexp.MustCompile(`@(\w+)`)
)

// Utterance is how a free-text reply reads
type Utterance string

// Utterance constants
const (
	UtteranceAffirmative Utterance = "affirmative"
	UtteranceNegative    Utterance = "negative"
	UtteranceOther       Utterance = "other"
)

// ClassifyUtterance reads a reply as a yes, a no, or neither. A no wins when both match.
func ClassifyUtterance(text string) Utterance {
	switch {
	case IsNegative(text):
		return UtteranceNegative
	case affirmativePattern.MatchString(strings.TrimSpace(text)):
		return UtteranceAffirmative
	default:
		return UtteranceOther
	}
}

// IsNegative reports whether a reply reads as a no
func IsNegative(text string) bool {
	return negativePattern.MatchString(strings.TrimSpace(text))
}

// ChannelMentions returns the channel ids mentioned in text, in order. Duplicates are kept.
func ChannelMentions(text string) []string {
	matches := channelMentionPattern.FindAllStringSubmatch(text, -1)
	channels := make([]string, 0, len(matches))
	for _, match := range matches {
		channels = append(channels, match[1])
	}
	return channels
}

// UserMentions returns the @names mentioned in text, without the @, in order
func UserMentions(text string) []string {
	matches := userMentionPattern.FindAllStringSubmatch(text, -1)
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, match[1])
	}
	return names
}

// FormatChannels renders channel ids as Slack channel links
func FormatChannels(channels []string) string {
	links := make([]string, 0, len(channels))
	for _, channel := range channels {
		links = append(links, fmt.Sprintf("<#%s>", channel))
	}
	return strings.Join(links, " ")
}

// CloseTrigger decides whether a message asks the bot to close the aside it was posted in
type CloseTrigger struct {
	phrase    *regexp.Regexp
	botUserID string
}

// NewCloseTrigger builds a trigger for phrase addressed to botUserID.
// An empty botUserID drops the mention requirement.
func NewCloseTrigger(phrase, botUserID string) *CloseTrigger {
	return &CloseTrigger{
		phrase:    regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`),
		botUserID: botUserID,
	}
}

// Matches func
func (t *CloseTrigger) Matches(event MessageEvent) bool {
	if event.Channel == "" || event.BotID != "" {
		return false
	}
	if t.botUserID != "" && !strings.Contains(event.Text, "<@"+t.botUserID+">") {
		return false
	}
	return t.phrase.MatchString(event.Text)
}
