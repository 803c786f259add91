package application

import (
	"context"

	"moranda/internal/domain"
	"moranda/internal/ports/output"
)

// conversation talks to the user that triggered a dialogue, in the channel they triggered it from
type conversation struct {
	slack   output.SlackClient
	replies output.ReplyRouter
	trigger domain.MessageEvent
}

func newConversation(slack output.SlackClient, replies output.ReplyRouter, trigger domain.MessageEvent) *conversation {
	return &conversation{
		slack:   slack,
		replies: replies,
		trigger: trigger,
	}
}

// Say posts text to the trigger channel
func (c *conversation) Say(ctx context.Context, text string) error {
	return c.slack.PostMessage(ctx, domain.PostMessageRequest{
		Channel: c.trigger.Channel,
		Text:    text,
	})
}

// Ask posts question and blocks until the triggering user replies in the same channel.
// The waiter is registered before the question goes out, so a fast reply cannot be missed.
func (c *conversation) Ask(ctx context.Context, question string) (domain.MessageEvent, error) {
	replies, cancel, err := c.replies.Expect(c.trigger.ConversationKey())
	if err != nil {
		return domain.MessageEvent{}, err
	}
	defer cancel()

	if err := c.Say(ctx, question); err != nil {
		return domain.MessageEvent{}, err
	}
	return c.replies.Await(ctx, replies)
}
