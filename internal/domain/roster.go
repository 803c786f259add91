package domain

type (
	// RosterPayload is the full member list of a team as delivered by the platform
	RosterPayload struct {
		Team  RosterTeam     `json:"team" validate:"required"`
		Users []RosterMember `json:"users" validate:"dive"`
	}

	// RosterTeam identifies the team a roster belongs to
	RosterTeam struct {
		ID string `json:"id" validate:"required,slack_id"`
	}

	// RosterMember is one entry of a roster payload
	RosterMember struct {
		ID      string        `json:"id" validate:"required,slack_id"`
		Deleted bool          `json:"deleted"`
		Name    string        `json:"name"`
		Profile RosterProfile `json:"profile"`
	}

	// RosterProfile carries the avatar of a roster member
	RosterProfile struct {
		Image24 string `json:"image_24"`
	}
)

// ActiveUsers returns the non-deleted members keyed by id, seeded as not yet authenticated
func (p RosterPayload) ActiveUsers() map[string]map[string]any {
	active := make(map[string]map[string]any, len(p.Users))
	for _, member := range p.Users {
		if member.Deleted {
			continue
		}
		active[member.ID] = map[string]any{
			"scopes": false,
			"user":   member.Name,
			"img":    member.Profile.Image24,
		}
	}
	return active
}
