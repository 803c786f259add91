package domain

import "fmt"

// MessageEvent represents an inbound channel message (domain entity)
type MessageEvent struct {
	Team    string
	Channel string
	User    string
	Text    string
	// BotID is set when the message was posted by a bot
	BotID   string
	SubType string
}

// ConversationKey returns the key replies to this message are routed by
func (e MessageEvent) ConversationKey() ConversationKey {
	return ConversationKey{Team: e.Team, Channel: e.Channel, User: e.User}
}

// AsideKey returns the aside the message was posted in
func (e MessageEvent) AsideKey() AsideKey {
	return AsideKey{Team: e.Team, Channel: e.Channel}
}

// ConversationKey identifies who a dialogue is listening to
type ConversationKey struct {
	Team    string
	Channel string
	User    string
}

// String func
func (k ConversationKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Team, k.Channel, k.User)
}

// Channel is a live snapshot of a channel and its members; never persisted
type Channel struct {
	ID      string
	Members []string
}

// HasMember reports whether user is in the channel's member list
func (c Channel) HasMember(user string) bool {
	for _, member := range c.Members {
		if member == user {
			return true
		}
	}
	return false
}

// DirectMessageChannel is the IM channel between the bot and one user
type DirectMessageChannel struct {
	ID   string
	User string
}

// SummaryColor is the accent color of summary cards
const SummaryColor = "#36a64f"

type (
	// PostMessageRequest struct - Domain chat.postMessage request DTO
	PostMessageRequest struct {
		Channel     string
		Text        string
		Attachments []SummaryCard
		// AsUser posts as the bot identity acting on behalf of the user
		AsUser bool
	}

	// SummaryCard is the formatted attachment an aside summary is shared as
	SummaryCard struct {
		Fallback   string
		Color      string
		AuthorName string
		AuthorIcon string
		Fields     []CardField
	}

	// CardField is one titled field of a SummaryCard
	CardField struct {
		Title string
		Value string
	}
)

// NewSummaryCard builds the summary card for an aside. author may be nil.
func NewSummaryCard(purpose, summary string, author *User) SummaryCard {
	card := SummaryCard{
		Fallback: "An Aside summary.",
		Color:    SummaryColor,
		Fields: []CardField{
			{Title: "Purpose", Value: purpose},
			{Title: "Summary", Value: summary},
		},
	}
	if author != nil {
		card.AuthorName = "@" + author.Name
		card.AuthorIcon = author.Img
	}
	return card
}
