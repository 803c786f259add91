package application

import (
	"context"
	"fmt"

	"moranda/internal/domain"
	"moranda/internal/ports/input"
	"moranda/internal/ports/output"
	"moranda/pkg/validator"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure SessionStore implements the input port
var _ input.SessionStore = (*SessionStore)(nil)

// SessionStore struct - Application service mapping asides, users, teams and images onto document paths
type SessionStore struct {
	docs      output.DocumentStore
	validator validator.Validator
}

// NewSessionStore func - Creates new session store
func NewSessionStore(docs output.DocumentStore, v validator.Validator) *SessionStore {
	return &SessionStore{
		docs:      docs,
		validator: v,
	}
}

// GetSession func - Reads the aside at asides/{team}/{channel}; nil when absent
func (s *SessionStore) GetSession(ctx context.Context, key domain.AsideKey) (*domain.Aside, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	snapshot, err := s.docs.Get(ctx, key.Path())
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", key.Path(), err)
	}
	if !snapshot.Exists() {
		return nil, nil
	}
	var aside domain.Aside
	if err := snapshot.Decode(&aside); err != nil {
		return nil, err
	}
	return &aside, nil
}

// CloseSession func - Marks the aside closed with summary; repeated calls keep the last summary
func (s *SessionStore) CloseSession(ctx context.Context, key domain.AsideKey, summary string) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := s.docs.Update(ctx, key.Path(), domain.ClosedFields(summary)); err != nil {
		return fmt.Errorf("close session %s: %w", key.Path(), err)
	}
	logrus.Infof("Closed aside %s", key.Path())
	return nil
}

// SaveSession func - Merges the aside fields into the stored aside
func (s *SessionStore) SaveSession(ctx context.Context, key domain.AsideKey, aside domain.Aside) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := s.docs.Update(ctx, key.Path(), aside.Fields()); err != nil {
		return fmt.Errorf("save session %s: %w", key.Path(), err)
	}
	return nil
}

// GetUser func - Reads a user by any accepted identity shape; nil when absent
func (s *SessionStore) GetUser(ctx context.Context, identity domain.UserIdentity) (*domain.User, error) {
	team, user, err := identity.Normalize()
	if err != nil {
		return nil, err
	}
	snapshot, err := s.docs.Get(ctx, domain.UserPath(team, user))
	if err != nil {
		return nil, fmt.Errorf("get user %s/%s: %w", team, user, err)
	}
	if !snapshot.Exists() {
		return nil, nil
	}
	var record domain.User
	if err := snapshot.Decode(&record); err != nil {
		return nil, err
	}
	if record.ID == "" {
		record.ID = user
	}
	if record.TeamID == "" {
		record.TeamID = team
	}
	return &record, nil
}

// SaveUser func - Merges the user record into users/{team}/{id}
func (s *SessionStore) SaveUser(ctx context.Context, user domain.User) error {
	if user.ID == "" {
		return domain.ErrMissingID
	}
	if user.TeamID == "" {
		return domain.ErrInvalidIdentity
	}
	if err := s.docs.Update(ctx, domain.UserPath(user.TeamID, user.ID), user.Fields()); err != nil {
		return fmt.Errorf("save user %s: %w", user.ID, err)
	}
	return nil
}

// SyncRoster func - Replaces users/{team} with the payload's active members.
// Members already stored keep every stored field; only their name and avatar are refreshed.
func (s *SessionStore) SyncRoster(ctx context.Context, payload domain.RosterPayload) error {
	if err := s.validator.ValidateStruct(payload); err != nil {
		return fmt.Errorf("invalid roster payload: %w", err)
	}

	path := "users/" + payload.Team.ID
	snapshot, err := s.docs.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("read roster %s: %w", path, err)
	}
	stored, _ := snapshot.Value.(map[string]any)

	active := payload.ActiveUsers()
	merged := make(map[string]any, len(active))
	for id, seed := range active {
		existing, ok := stored[id].(map[string]any)
		if !ok {
			merged[id] = seed
			continue
		}
		record := make(map[string]any, len(existing)+2)
		for field, value := range existing {
			record[field] = value
		}
		record["img"] = seed["img"]
		record["user"] = seed["user"]
		merged[id] = record
	}

	if err := s.docs.Set(ctx, path, merged); err != nil {
		return fmt.Errorf("write roster %s: %w", path, err)
	}
	logrus.Infof("Synced roster for team %s: %d active of %d members", payload.Team.ID, len(merged), len(payload.Users))
	return nil
}

// ResolveMentionedUsers func - Maps @name mentions in text to user ids.
// Names are matched against stored display names in id order; the first match wins and
// unmatched names are dropped. The caller's access token is returned alongside.
func (s *SessionStore) ResolveMentionedUsers(ctx context.Context, team, callerID, text string) (*domain.MentionResolution, error) {
	if team == "" || callerID == "" {
		return nil, domain.ErrInvalidIdentity
	}
	snapshot, err := s.docs.Get(ctx, "users/"+team)
	if err != nil {
		return nil, fmt.Errorf("read roster users/%s: %w", team, err)
	}

	var (
		caller  *domain.User
		members []domain.User
	)
	for _, child := range snapshot.Children() {
		var user domain.User
		if err := child.Decode(&user); err != nil {
			return nil, err
		}
		user.ID = child.Key()
		if user.ID == callerID {
			c := user
			caller = &c
		}
		members = append(members, user)
	}
	if caller == nil {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrNoSuchUser, team, callerID)
	}

	resolution := &domain.MentionResolution{
		TeamMembers: []string{},
		Token:       caller.AccessToken,
	}
	for _, name := range domain.UserMentions(text) {
		for _, member := range members {
			if member.Name == name {
				resolution.TeamMembers = append(resolution.TeamMembers, member.ID)
				break
			}
		}
	}
	return resolution, nil
}

// GetTeam func - Reads teams/{id}; nil when absent
func (s *SessionStore) GetTeam(ctx context.Context, id string) (domain.Team, error) {
	if id == "" {
		return nil, domain.ErrMissingID
	}
	snapshot, err := s.docs.Get(ctx, "teams/"+id)
	if err != nil {
		return nil, fmt.Errorf("get team %s: %w", id, err)
	}
	team, ok := snapshot.Value.(map[string]any)
	if !ok || len(team) == 0 {
		return nil, nil
	}
	return domain.Team(team), nil
}

// SaveTeam func - Merges the team blob into teams/{id}
func (s *SessionStore) SaveTeam(ctx context.Context, team domain.Team) error {
	id := team.ID()
	if id == "" {
		return domain.ErrMissingID
	}
	if err := s.docs.Update(ctx, "teams/"+id, team); err != nil {
		return fmt.Errorf("save team %s: %w", id, err)
	}
	return nil
}

// AllTeams func - Reads every stored team keyed by id
func (s *SessionStore) AllTeams(ctx context.Context) (map[string]domain.Team, error) {
	snapshot, err := s.docs.Get(ctx, "teams")
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	teams := make(map[string]domain.Team)
	for _, child := range snapshot.Children() {
		if team, ok := child.Value.(map[string]any); ok {
			teams[child.Key()] = domain.Team(team)
		}
	}
	return teams, nil
}

// GetImage func - Reads the avatar url at images/{team}/{user}; "" when absent
func (s *SessionStore) GetImage(ctx context.Context, team, user string) (string, error) {
	if team == "" || user == "" {
		return "", domain.ErrInvalidIdentity
	}
	snapshot, err := s.docs.Get(ctx, domain.ImagePath(team, user))
	if err != nil {
		return "", fmt.Errorf("get image %s/%s: %w", team, user, err)
	}
	image, _ := snapshot.Value.(string)
	return image, nil
}
