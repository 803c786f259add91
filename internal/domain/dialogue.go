package domain

import (
	"time"

	"github.com/google/uuid"
)

// DialogueState is a step of the close-out dialogue
type DialogueState string

const (
	// DialogueStateIdle - no dialogue is running; also the result of a no-op session check
	DialogueStateIdle DialogueState = "idle"
	// DialogueStateSessionCheck - look up the aside and decide whether to close it
	DialogueStateSessionCheck DialogueState = "session_check"
	// DialogueStateAwaitSummary - ask for the summary
	DialogueStateAwaitSummary DialogueState = "await_summary"
	// DialogueStateAwaitShareDecision - ask where to share the summary
	DialogueStateAwaitShareDecision DialogueState = "await_share_decision"
	// DialogueStateResolveChannels - check bot membership of the requested channels
	DialogueStateResolveChannels DialogueState = "resolve_channels"
	// DialogueStateAwaitInviteConfirm - ask to invite the bot to missing channels
	DialogueStateAwaitInviteConfirm DialogueState = "await_invite_confirm"
	// DialogueStatePost - post the summary and archive the aside
	DialogueStatePost DialogueState = "post"
	// DialogueStateDirectMessage - DM the summary to the closer
	DialogueStateDirectMessage DialogueState = "direct_message"
	// DialogueStateClosing - persist the closed aside
	DialogueStateClosing DialogueState = "closing"
	// DialogueStateClosed - terminal
	DialogueStateClosed DialogueState = "closed"
)

// Dialogue carries everything one close-out run knows. It is owned by a single
// dialogue goroutine and discarded when the run ends.
type Dialogue struct {
	ID        uuid.UUID
	Trigger   MessageEvent
	State     DialogueState
	StartedAt time.Time

	Purpose string
	Owner   string
	Summary string

	// Closer is the stored record of the user who triggered the close, if any
	Closer *User

	Requested     []string
	AlreadyMember []string
	NotMember     []string
	Targets       []string
}

// NewDialogue starts a dialogue for a triggering message
func NewDialogue(trigger MessageEvent) *Dialogue {
	return &Dialogue{
		ID:        uuid.New(),
		Trigger:   trigger,
		State:     DialogueStateSessionCheck,
		StartedAt: time.Now(),
	}
}

// Key returns the aside the dialogue closes
func (d *Dialogue) Key() AsideKey {
	return d.Trigger.AsideKey()
}

// PartitionMembership splits requested channels by whether member belongs to them.
// Requested order and duplicates are preserved. A channel missing from the listing
// counts as one the member is not in.
func PartitionMembership(member string, requested []string, listing []Channel) (alreadyMember, notMember []string) {
	byID := make(map[string]Channel, len(listing))
	for _, channel := range listing {
		byID[channel.ID] = channel
	}
	alreadyMember = make([]string, 0, len(requested))
	notMember = make([]string, 0)
	for _, id := range requested {
		channel, ok := byID[id]
		if ok && channel.HasMember(member) {
			alreadyMember = append(alreadyMember, id)
			continue
		}
		notMember = append(notMember, id)
	}
	return alreadyMember, notMember
}
