package domain

import "fmt"

// User represents a team member record as stored under users/{team}/{user}
type User struct {
	ID          string `mapstructure:"id" json:"id,omitempty"`
	TeamID      string `mapstructure:"team_id" json:"team_id,omitempty"`
	Name        string `mapstructure:"user" json:"user"`
	Img         string `mapstructure:"img" json:"img"`
	AccessToken string `mapstructure:"access_token" json:"access_token,omitempty"`
	Scopes      bool   `mapstructure:"scopes" json:"scopes"`
}

// Fields returns the user as a partial-update field map
func (u User) Fields() map[string]any {
	fields := map[string]any{
		"id":     u.ID,
		"user":   u.Name,
		"img":    u.Img,
		"scopes": u.Scopes,
	}
	if u.TeamID != "" {
		fields["team_id"] = u.TeamID
	}
	if u.AccessToken != "" {
		fields["access_token"] = u.AccessToken
	}
	return fields
}

// UserPath returns the document path of a user record
func UserPath(team, user string) string {
	return fmt.Sprintf("users/%s/%s", team, user)
}

// UserIdentity carries the three identity shapes accepted by user lookups:
// TeamID+UserID, Team+User and TeamID+ID.
type UserIdentity struct {
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
	Team   string `json:"team"`
	User   string `json:"user"`
	ID     string `json:"id"`
}

// Normalize resolves the identity to a (team, user) pair, checking the shapes in order
func (i UserIdentity) Normalize() (team, user string, err error) {
	switch {
	case i.TeamID != "" && i.UserID != "":
		return i.TeamID, i.UserID, nil
	case i.Team != "" && i.User != "":
		return i.Team, i.User, nil
	case i.TeamID != "" && i.ID != "":
		return i.TeamID, i.ID, nil
	default:
		return "", "", ErrInvalidIdentity
	}
}

// MentionResolution is the result of resolving @name mentions against a team roster
type MentionResolution struct {
	TeamMembers []string `json:"team_members"`
	Token       string   `json:"token"`
}

// ImagePath returns the document path of a user's avatar
func ImagePath(team, user string) string {
	return fmt.Sprintf("images/%s/%s", team, user)
}

// Team is an opaque team blob stored under teams/{id}
type Team map[string]any

// ID returns the team's id field, or "" if it has none
func (t Team) ID() string {
	id, _ := t["id"].(string)
	return id
}
