package application

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"moranda/internal/domain"
	"moranda/internal/ports/input"
	"moranda/internal/ports/output"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

const (
	introQuestion    = "OK, <@%s>, before I archive this Aside, would you mind summarizing the conversation for the group? What were the key takeaways?"
	shareQuestion    = "Do you want to share this Summary with a Channel? You can say: `#channel-name` or `nope` to skip it."
	inviteQuestion   = "Woah! It seems like I'm not in %s\nAll you gotta do is invite me: `/invite <@%s> #ChannelName`.\nOr just say `No`"
	summaryAck       = "Great."
	notUnderstood    = "Hey, I didn't catch what you said there"
	willDirectMsg    = "Ok, I will DM you a summary!"
	willShare        = "Great, I will share this summary with %s"
	wontShare        = "Ok. I won't share the summary with %s"
	somethingFailed  = "Sorry, I ran into a problem closing this Aside: %v"
	channelPostText  = "Here's an update of the \"%s\" Aside"
	directPostText   = "Here is your Aside summary"
	defaultPostLimit = 4
)

// Compile-time check to ensure CloseOutService implements the input port
var _ input.CloseOutService = (*CloseOutService)(nil)

// dialogueStep handles one state and returns the next
type dialogueStep func(ctx context.Context, convo *conversation, d *domain.Dialogue) (domain.DialogueState, error)

// CloseOutService struct - Application service running close-out dialogues
type CloseOutService struct {
	sessions input.SessionStore
	slack    output.SlackClient
	replies  output.ReplyRouter
	events   output.EventPublisher

	maxParallelPosts int
	steps            map[domain.DialogueState]dialogueStep

	// spawn runs a started dialogue; tests swap it to run inline
	spawn  func(func())
	active atomic.Int64
}

// NewCloseOutService func - Creates new close-out dialogue service
func NewCloseOutService(
	sessions input.SessionStore,
	slack output.SlackClient,
	replies output.ReplyRouter,
	events output.EventPublisher,
	maxParallelPosts int,
) *CloseOutService {
	if maxParallelPosts <= 0 {
		maxParallelPosts = defaultPostLimit
	}
	s := &CloseOutService{
		sessions:         sessions,
		slack:            slack,
		replies:          replies,
		events:           events,
		maxParallelPosts: maxParallelPosts,
		spawn:            func(run func()) { go run() },
	}
	s.steps = map[domain.DialogueState]dialogueStep{
		domain.DialogueStateSessionCheck:       s.sessionCheck,
		domain.DialogueStateAwaitSummary:       s.awaitSummary,
		domain.DialogueStateAwaitShareDecision: s.awaitShareDecision,
		domain.DialogueStateResolveChannels:    s.resolveChannels,
		domain.DialogueStateAwaitInviteConfirm: s.awaitInviteConfirm,
		domain.DialogueStatePost:               s.post,
		domain.DialogueStateDirectMessage:      s.directMessage,
		domain.DialogueStateClosing:            s.closing,
	}
	return s
}

// ActiveDialogues returns how many dialogues are currently running
func (s *CloseOutService) ActiveDialogues() int64 {
	return s.active.Load()
}

// Begin checks the aside the trigger was posted in and, when it is open, starts a
// close-out dialogue on its own goroutine. A nil dialogue means there was nothing to close.
func (s *CloseOutService) Begin(ctx context.Context, trigger domain.MessageEvent) (*domain.Dialogue, error) {
	d := domain.NewDialogue(trigger)
	convo := newConversation(s.slack, s.replies, trigger)

	next, err := s.sessionCheck(ctx, convo, d)
	if err != nil {
		s.fail(ctx, convo, d, err)
		return nil, err
	}
	if next == domain.DialogueStateIdle {
		d.State = next
		return nil, nil
	}
	d.State = next

	// the dialogue outlives the inbound request that triggered it
	runCtx := context.WithoutCancel(ctx)
	s.active.Add(1)
	s.spawn(func() {
		defer s.active.Add(-1)
		if err := s.run(runCtx, convo, d); err != nil {
			dialogueLog(d).Warnf("Dialogue ended early: %v", err)
		}
	})
	return d, nil
}

// run drives d through the transition table until it is closed
func (s *CloseOutService) run(ctx context.Context, convo *conversation, d *domain.Dialogue) error {
	dialogueLog(d).Info("Close-out dialogue started")
	for d.State != domain.DialogueStateClosed {
		step, ok := s.steps[d.State]
		if !ok {
			return fmt.Errorf("dialogue %s: no step for state %s", d.ID, d.State)
		}
		next, err := step(ctx, convo, d)
		if err != nil {
			s.fail(ctx, convo, d, err)
			return err
		}
		dialogueLog(d).Debugf("Transition %s -> %s", d.State, next)
		d.State = next
	}
	dialogueLog(d).Infof("Close-out dialogue finished in %s", time.Since(d.StartedAt).Round(time.Millisecond))
	return nil
}

// fail ends a dialogue. Timeouts and busy conversations end quietly; anything else is
// reported to the user and to operators.
func (s *CloseOutService) fail(ctx context.Context, convo *conversation, d *domain.Dialogue, err error) {
	log := dialogueLog(d)
	switch {
	case errors.Is(err, domain.ErrDialogueTimeout):
		log.Info("No reply before the idle timeout, dialogue abandoned")
		return
	case errors.Is(err, domain.ErrConversationBusy):
		log.Warn("Another dialogue is already waiting on this user")
		return
	case errors.Is(err, context.Canceled):
		return
	}

	log.Errorf("Dialogue failed: %v", err)
	if sayErr := convo.Say(ctx, fmt.Sprintf(somethingFailed, err)); sayErr != nil {
		log.Errorf("Failed to report dialogue error: %v", sayErr)
	}
	s.reportOperatorError(ctx, d, string(d.State), err)
}

// sessionCheck - An open aside starts the dialogue; a closed or unknown one is a no-op
func (s *CloseOutService) sessionCheck(ctx context.Context, _ *conversation, d *domain.Dialogue) (domain.DialogueState, error) {
	aside, err := s.sessions.GetSession(ctx, d.Key())
	if err != nil {
		return domain.DialogueStateIdle, err
	}
	if aside == nil || !aside.Open {
		logrus.Debugf("Ignoring close trigger in %s/%s: no open aside", d.Trigger.Team, d.Trigger.Channel)
		return domain.DialogueStateIdle, nil
	}
	d.Purpose = aside.Purpose
	d.Owner = aside.Owner
	return domain.DialogueStateAwaitSummary, nil
}

// awaitSummary - The first reply is the summary, verbatim
func (s *CloseOutService) awaitSummary(ctx context.Context, convo *conversation, d *domain.Dialogue) (domain.DialogueState, error) {
	reply, err := convo.Ask(ctx, fmt.Sprintf(introQuestion, d.Trigger.User))
	if err != nil {
		return d.State, err
	}
	d.Summary = reply.Text
	if err := convo.Say(ctx, summaryAck); err != nil {
		return d.State, err
	}
	return domain.DialogueStateAwaitShareDecision, nil
}

// awaitShareDecision - Channel mentions share, a negative reply DMs, anything else asks again
func (s *CloseOutService) awaitShareDecision(ctx context.Context, convo *conversation, d *domain.Dialogue) (domain.DialogueState, error) {
	reply, err := convo.Ask(ctx, shareQuestion)
	if err != nil {
		return d.State, err
	}

	if channels := domain.ChannelMentions(reply.Text); len(channels) > 0 {
		d.Requested = channels
		return domain.DialogueStateResolveChannels, nil
	}
	if domain.ClassifyUtterance(reply.Text) == domain.UtteranceNegative {
		return domain.DialogueStateDirectMessage, nil
	}
	if err := convo.Say(ctx, notUnderstood); err != nil {
		return d.State, err
	}
	return domain.DialogueStateAwaitShareDecision, nil
}

// resolveChannels - Splits the requested channels by whether the bot can post in them
func (s *CloseOutService) resolveChannels(ctx context.Context, _ *conversation, d *domain.Dialogue) (domain.DialogueState, error) {
	listing, err := s.slack.ListChannelsWithMembers(ctx)
	if err != nil {
		return d.State, err
	}
	d.AlreadyMember, d.NotMember = domain.PartitionMembership(s.slack.BotUserID(), d.Requested, listing)
	if len(d.NotMember) == 0 {
		d.Targets = d.AlreadyMember
		return domain.DialogueStatePost, nil
	}
	return domain.DialogueStateAwaitInviteConfirm, nil
}

// awaitInviteConfirm - Asks for an invite to the missing channels. The channels the bot was
// already in are always kept; missing ones are added only once the bot has joined them.
// A no skips them; a yes or any other reply re-checks membership.
func (s *CloseOutService) awaitInviteConfirm(ctx context.Context, convo *conversation, d *domain.Dialogue) (domain.DialogueState, error) {
	reply, err := convo.Ask(ctx, fmt.Sprintf(inviteQuestion, domain.FormatChannels(d.NotMember), s.slack.BotUserID()))
	if err != nil {
		return d.State, err
	}

	targets := append([]string{}, d.AlreadyMember...)
	skipped := d.NotMember
	utterance := domain.ClassifyUtterance(reply.Text)
	dialogueLog(d).Debugf("Invite reply read as %s", utterance)
	if utterance != domain.UtteranceNegative {
		listing, err := s.slack.ListChannelsWithMembers(ctx)
		if err != nil {
			return d.State, err
		}
		var joined []string
		joined, skipped = domain.PartitionMembership(s.slack.BotUserID(), d.NotMember, listing)
		targets = append(targets, joined...)
	}

	if len(skipped) > 0 {
		if err := convo.Say(ctx, fmt.Sprintf(wontShare, domain.FormatChannels(skipped))); err != nil {
			return d.State, err
		}
	}
	d.Targets = targets
	return domain.DialogueStatePost, nil
}

// post - Shares the summary card with every target, then archives the aside
func (s *CloseOutService) post(ctx context.Context, convo *conversation, d *domain.Dialogue) (domain.DialogueState, error) {
	if len(d.Targets) > 0 {
		closer, err := s.closer(ctx, d)
		if err != nil {
			return d.State, err
		}
		if err := convo.Say(ctx, fmt.Sprintf(willShare, domain.FormatChannels(d.Targets))); err != nil {
			return d.State, err
		}
		s.fanOut(ctx, d, domain.NewSummaryCard(d.Purpose, d.Summary, closer))
	}

	s.archive(ctx, d)
	return domain.DialogueStateClosing, nil
}

// fanOut posts the card to every target; a failed channel does not affect the others
func (s *CloseOutService) fanOut(ctx context.Context, d *domain.Dialogue, card domain.SummaryCard) {
	var failed atomic.Int32
	p := pool.New().WithMaxGoroutines(s.maxParallelPosts)
	for _, channel := range d.Targets {
		p.Go(func() {
			err := s.slack.PostMessage(ctx, domain.PostMessageRequest{
				Channel:     channel,
				Text:        fmt.Sprintf(channelPostText, d.Purpose),
				Attachments: []domain.SummaryCard{card},
				AsUser:      true,
			})
			if err != nil {
				failed.Add(1)
				dialogueLog(d).Errorf("Failed to share summary with %s: %v", channel, err)
			}
		})
	}
	p.Wait()
	dialogueLog(d).Infof("Shared summary with %d of %d channels", len(d.Targets)-int(failed.Load()), len(d.Targets))
}

// archive archives the aside channel acting as its creator. Failures are reported to
// operators only; posts already made stay.
func (s *CloseOutService) archive(ctx context.Context, d *domain.Dialogue) {
	log := dialogueLog(d)
	token := ""
	if d.Owner != "" {
		owner, err := s.sessions.GetUser(ctx, domain.UserIdentity{TeamID: d.Trigger.Team, UserID: d.Owner})
		if err != nil {
			log.Warnf("Failed to read aside creator %s: %v", d.Owner, err)
		} else if owner != nil {
			token = owner.AccessToken
		}
	}
	if token == "" {
		log.Warnf("No token for aside creator %q, archiving as the closer", d.Owner)
		closer, err := s.closer(ctx, d)
		if err != nil {
			log.Warnf("Failed to read closer %s: %v", d.Trigger.User, err)
		} else if closer != nil {
			token = closer.AccessToken
		}
	}

	if err := s.slack.ArchiveChannel(ctx, d.Trigger.Channel, token); err != nil {
		log.Errorf("Failed to archive aside: %v", err)
		s.reportOperatorError(ctx, d, "archive", err)
	}
}

// directMessage - Sends the summary card to the closer's IM channel
func (s *CloseOutService) directMessage(ctx context.Context, convo *conversation, d *domain.Dialogue) (domain.DialogueState, error) {
	if err := convo.Say(ctx, willDirectMsg); err != nil {
		return d.State, err
	}

	ims, err := s.slack.ListDirectMessageChannels(ctx)
	if err != nil {
		return d.State, err
	}
	for _, im := range ims {
		if im.User != d.Trigger.User {
			continue
		}
		err := s.slack.PostMessage(ctx, domain.PostMessageRequest{
			Channel:     im.ID,
			Text:        directPostText,
			Attachments: []domain.SummaryCard{domain.NewSummaryCard(d.Purpose, d.Summary, nil)},
		})
		if err != nil {
			dialogueLog(d).Errorf("Failed to DM summary: %v", err)
		}
		return domain.DialogueStateClosing, nil
	}

	dialogueLog(d).Warnf("No IM channel with %s, summary not sent", d.Trigger.User)
	return domain.DialogueStateClosing, nil
}

// closing - Persists the closed aside and announces it
func (s *CloseOutService) closing(ctx context.Context, _ *conversation, d *domain.Dialogue) (domain.DialogueState, error) {
	if err := s.sessions.CloseSession(ctx, d.Key(), d.Summary); err != nil {
		return d.State, err
	}

	event := domain.AsideClosed{
		DialogueID: d.ID.String(),
		Team:       d.Trigger.Team,
		Channel:    d.Trigger.Channel,
		ClosedBy:   d.Trigger.User,
		Summary:    d.Summary,
		SharedWith: d.Targets,
		DirectMsg:  len(d.Requested) == 0,
	}
	if err := s.events.Publish(ctx, domain.TopicAsideClosed, event); err != nil {
		dialogueLog(d).Warnf("Failed to publish %s: %v", domain.TopicAsideClosed, err)
	}
	return domain.DialogueStateClosed, nil
}

// closer loads the stored record of the user who triggered the close; nil when unknown
func (s *CloseOutService) closer(ctx context.Context, d *domain.Dialogue) (*domain.User, error) {
	if d.Closer != nil {
		return d.Closer, nil
	}
	user, err := s.sessions.GetUser(ctx, domain.UserIdentity{TeamID: d.Trigger.Team, UserID: d.Trigger.User})
	if err != nil {
		return nil, err
	}
	d.Closer = user
	return user, nil
}

func (s *CloseOutService) reportOperatorError(ctx context.Context, d *domain.Dialogue, stage string, cause error) {
	event := domain.OperatorError{
		DialogueID: d.ID.String(),
		Team:       d.Trigger.Team,
		Channel:    d.Trigger.Channel,
		Stage:      stage,
		Error:      cause.Error(),
	}
	if err := s.events.Publish(ctx, domain.TopicOperatorError, event); err != nil {
		dialogueLog(d).Warnf("Failed to publish %s: %v", domain.TopicOperatorError, err)
	}
}

func dialogueLog(d *domain.Dialogue) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"dialogue": d.ID.String(),
		"team":     d.Trigger.Team,
		"channel":  d.Trigger.Channel,
		"state":    string(d.State),
	})
}
