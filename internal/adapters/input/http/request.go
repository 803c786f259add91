package http

import "moranda/internal/domain"

type (
	// RosterRequest struct - HTTP request DTO, the users.list shape posted by the provisioning flow
	RosterRequest struct {
		Team  RosterTeamRequest     `json:"team" validate:"required"`
		Users []RosterMemberRequest `json:"users" validate:"required,min=1,dive"`
	}

	// RosterTeamRequest struct
	RosterTeamRequest struct {
		ID string `json:"id" validate:"required,slack_id"`
	}

	// RosterMemberRequest struct
	RosterMemberRequest struct {
		ID      string `json:"id" validate:"required,slack_id"`
		Deleted bool   `json:"deleted"`
		Name    string `json:"name" validate:"max=80"`
		Profile struct {
			Image24 string `json:"image_24" validate:"omitempty,url"`
		} `json:"profile"`
	}

	// MentionRequest struct - HTTP request DTO
	MentionRequest struct {
		Team string `json:"team" validate:"required,slack_id"`
		User string `json:"user" validate:"required,slack_id"`
		Text string `json:"text" validate:"required"`
	}
)

// ToDomain converts the request to the domain roster payload
func (r RosterRequest) ToDomain() domain.RosterPayload {
	payload := domain.RosterPayload{
		Team:  domain.RosterTeam{ID: r.Team.ID},
		Users: make([]domain.RosterMember, 0, len(r.Users)),
	}
	for _, user := range r.Users {
		payload.Users = append(payload.Users, domain.RosterMember{
			ID:      user.ID,
			Deleted: user.Deleted,
			Name:    user.Name,
			Profile: domain.RosterProfile{Image24: user.Profile.Image24},
		})
	}
	return payload
}
