package output

import (
	"context"

	"moranda/internal/domain"
)

// SlackClient interface - Output port
// Defines what the application needs from the Slack platform. Every error returned
// wraps domain.ErrPlatformCall.
type SlackClient interface {
	// BotUserID is the platform user id of the bot itself
	BotUserID() string

	// ListDirectMessageChannels lists the IM channels the bot has with users
	ListDirectMessageChannels(ctx context.Context) ([]domain.DirectMessageChannel, error)

	// ListChannelsWithMembers lists the team's channels. Members is only guaranteed to
	// tell whether the bot itself has joined.
	ListChannelsWithMembers(ctx context.Context) ([]domain.Channel, error)

	// PostMessage posts a message as the bot
	PostMessage(ctx context.Context, request domain.PostMessageRequest) error

	// ArchiveChannel archives a channel acting with a user's token
	ArchiveChannel(ctx context.Context, channelID, actingToken string) error

	// FetchRoster returns the team's full member list
	FetchRoster(ctx context.Context) (*domain.RosterPayload, error)
}
