package slack

import (
	"context"
	"fmt"

	"moranda/internal/domain"
	"moranda/internal/ports/output"

	"github.com/sirupsen/logrus"
	slackapi "github.com/slack-go/slack"
)

// Compile-time check to ensure SlackClientAdapter implements SlackClient interface
var _ output.SlackClient = (*SlackClientAdapter)(nil)

const pageLimit = 200

// SlackClientAdapter struct - Output adapter for the Slack Web API
type SlackClientAdapter struct {
	client    *slackapi.Client
	options   []slackapi.Option
	botUserID string
	teamID    string
}

// NewSlackClientAdapter func - Creates new Slack client adapter.
// The bot token is checked with auth.test, which also yields the bot's own user id.
func NewSlackClientAdapter(ctx context.Context, botToken string, options ...slackapi.Option) (*SlackClientAdapter, error) {
	client := slackapi.New(botToken, options...)

	auth, err := client.AuthTestContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: auth.test: %v", domain.ErrPlatformCall, err)
	}

	logrus.Infof("Slack client adapter initialized for team %s as bot user %s", auth.TeamID, auth.UserID)

	return &SlackClientAdapter{
		client:    client,
		options:   options,
		botUserID: auth.UserID,
		teamID:    auth.TeamID,
	}, nil
}

// BotUserID - Platform user id of the bot
func (a *SlackClientAdapter) BotUserID() string {
	return a.botUserID
}

// ListDirectMessageChannels - Lists the bot's IM channels
func (a *SlackClientAdapter) ListDirectMessageChannels(ctx context.Context) ([]domain.DirectMessageChannel, error) {
	channels, err := a.listConversations(ctx, []string{"im"})
	if err != nil {
		return nil, err
	}

	ims := make([]domain.DirectMessageChannel, 0, len(channels))
	for _, channel := range channels {
		ims = append(ims, domain.DirectMessageChannel{ID: channel.ID, User: channel.User})
	}
	return ims, nil
}

// ListChannelsWithMembers - Lists team channels. Membership comes from the is_member flag of
// conversations.list, so Members holds the bot's id when it has joined and is empty otherwise.
func (a *SlackClientAdapter) ListChannelsWithMembers(ctx context.Context) ([]domain.Channel, error) {
	channels, err := a.listConversations(ctx, []string{"public_channel", "private_channel"})
	if err != nil {
		return nil, err
	}

	result := make([]domain.Channel, 0, len(channels))
	for _, channel := range channels {
		entry := domain.Channel{ID: channel.ID}
		if channel.IsMember {
			entry.Members = []string{a.botUserID}
		}
		result = append(result, entry)
	}
	return result, nil
}

// PostMessage - Posts a message, with optional summary cards, as the bot
func (a *SlackClientAdapter) PostMessage(ctx context.Context, request domain.PostMessageRequest) error {
	options := []slackapi.MsgOption{
		slackapi.MsgOptionText(request.Text, false),
	}
	if len(request.Attachments) > 0 {
		options = append(options, slackapi.MsgOptionAttachments(convertToAttachments(request.Attachments)...))
	}
	if request.AsUser {
		options = append(options, slackapi.MsgOptionAsUser(true))
	}

	_, _, err := a.client.PostMessageContext(ctx, request.Channel, options...)
	if err != nil {
		return fmt.Errorf("%w: chat.postMessage %s: %v", domain.ErrPlatformCall, request.Channel, err)
	}

	logrus.Debugf("Successfully posted message to: %s", request.Channel)
	return nil
}

// ArchiveChannel - Archives a channel with the authority of the user owning actingToken
func (a *SlackClientAdapter) ArchiveChannel(ctx context.Context, channelID, actingToken string) error {
	if actingToken == "" {
		return fmt.Errorf("%w: conversations.archive %s: no acting token", domain.ErrPlatformCall, channelID)
	}
	userClient := slackapi.New(actingToken, a.options...)
	if err := userClient.ArchiveConversationContext(ctx, channelID); err != nil {
		return fmt.Errorf("%w: conversations.archive %s: %v", domain.ErrPlatformCall, channelID, err)
	}

	logrus.Infof("Archived channel: %s", channelID)
	return nil
}

// FetchRoster - Builds the roster payload from team.info and users.list
func (a *SlackClientAdapter) FetchRoster(ctx context.Context) (*domain.RosterPayload, error) {
	teamID := a.teamID
	if teamID == "" {
		team, err := a.client.GetTeamInfoContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: team.info: %v", domain.ErrPlatformCall, err)
		}
		teamID = team.ID
	}

	users, err := a.client.GetUsersContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: users.list: %v", domain.ErrPlatformCall, err)
	}

	payload := &domain.RosterPayload{
		Team:  domain.RosterTeam{ID: teamID},
		Users: make([]domain.RosterMember, 0, len(users)),
	}
	for _, user := range users {
		payload.Users = append(payload.Users, domain.RosterMember{
			ID:      user.ID,
			Deleted: user.Deleted,
			Name:    user.Name,
			Profile: domain.RosterProfile{Image24: user.Profile.Image24},
		})
	}
	return payload, nil
}

// listConversations - Pages through conversations.list
func (a *SlackClientAdapter) listConversations(ctx context.Context, types []string) ([]slackapi.Channel, error) {
	var (
		all    []slackapi.Channel
		cursor string
	)
	for {
		channels, next, err := a.client.GetConversationsContext(ctx, &slackapi.GetConversationsParameters{
			Cursor:          cursor,
			ExcludeArchived: true,
			Limit:           pageLimit,
			Types:           types,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: conversations.list: %v", domain.ErrPlatformCall, err)
		}
		all = append(all, channels...)
		if next == "" {
			return all, nil
		}
		cursor = next
	}
}

// convertToAttachments - Helper function to convert summary cards to Slack attachments
func convertToAttachments(cards []domain.SummaryCard) []slackapi.Attachment {
	attachments := make([]slackapi.Attachment, 0, len(cards))
	for _, card := range cards {
		fields := make([]slackapi.AttachmentField, 0, len(card.Fields))
		for _, field := range card.Fields {
			fields = append(fields, slackapi.AttachmentField{Title: field.Title, Value: field.Value})
		}
		attachments = append(attachments, slackapi.Attachment{
			Fallback:   card.Fallback,
			Color:      card.Color,
			AuthorName: card.AuthorName,
			AuthorIcon: card.AuthorIcon,
			Fields:     fields,
		})
	}
	return attachments
}
