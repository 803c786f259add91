package input

import (
	"context"

	"moranda/internal/domain"
)

// SessionStore interface - Input port (use case)
// Key-path facade over the document store for asides, users and teams.
type SessionStore interface {
	// GetSession returns the aside, or nil when it does not exist
	GetSession(ctx context.Context, key domain.AsideKey) (*domain.Aside, error)
	// CloseSession marks the aside closed with a summary
	CloseSession(ctx context.Context, key domain.AsideKey, summary string) error
	// SaveSession merges aside fields into the stored aside
	SaveSession(ctx context.Context, key domain.AsideKey, aside domain.Aside) error

	GetUser(ctx context.Context, identity domain.UserIdentity) (*domain.User, error)
	SaveUser(ctx context.Context, user domain.User) error

	// SyncRoster reconciles the stored team roster with a platform payload
	SyncRoster(ctx context.Context, payload domain.RosterPayload) error
	// ResolveMentionedUsers maps @name mentions in text to user ids and returns the caller's token
	ResolveMentionedUsers(ctx context.Context, team, callerID, text string) (*domain.MentionResolution, error)

	GetTeam(ctx context.Context, id string) (domain.Team, error)
	SaveTeam(ctx context.Context, team domain.Team) error
	AllTeams(ctx context.Context) (map[string]domain.Team, error)
	GetImage(ctx context.Context, team, user string) (string, error)
}
