package application

import (
	"context"

	"moranda/internal/domain"
	"moranda/internal/ports/input"
	"moranda/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure SlackEventService implements the input port
var _ input.SlackEventService = (*SlackEventService)(nil)

// SlackEventService struct - Application service routing inbound Slack messages
type SlackEventService struct {
	replies   output.ReplyRouter
	closeOut  input.CloseOutService
	trigger   *domain.CloseTrigger
	botUserID string
}

// NewSlackEventService func - Creates new Slack event service.
// closePhrase is the word that, said to the bot inside an aside, starts the close-out.
func NewSlackEventService(replies output.ReplyRouter, closeOut input.CloseOutService, closePhrase, botUserID string) *SlackEventService {
	return &SlackEventService{
		replies:   replies,
		closeOut:  closeOut,
		trigger:   domain.NewCloseTrigger(closePhrase, botUserID),
		botUserID: botUserID,
	}
}

// HandleMessage func - Use case: a reply goes to the dialogue waiting for it, a close
// trigger starts a dialogue and everything else is ignored
func (s *SlackEventService) HandleMessage(ctx context.Context, event domain.MessageEvent) error {
	if event.BotID != "" || event.SubType != "" || event.User == "" || event.User == s.botUserID {
		return nil
	}

	if s.replies.Deliver(event) {
		logrus.Debugf("Delivered reply from %s", event.ConversationKey())
		return nil
	}

	if !s.trigger.Matches(event) {
		return nil
	}

	logrus.Infof("Close trigger from %s in %s/%s", event.User, event.Team, event.Channel)
	dialogue, err := s.closeOut.Begin(ctx, event)
	if err != nil {
		logrus.Errorf("Failed to begin close-out: %v", err)
		return err
	}
	if dialogue == nil {
		logrus.Infof("No open aside in %s/%s", event.Team, event.Channel)
	}
	return nil
}
