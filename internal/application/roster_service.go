package application

import (
	"context"
	"fmt"

	"moranda/internal/ports/input"
	"moranda/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure RosterService implements the input port
var _ input.RosterService = (*RosterService)(nil)

// RosterService struct - Application service pulling the team roster from Slack into the store
type RosterService struct {
	slack    output.SlackClient
	sessions input.SessionStore
}

// NewRosterService func - Creates new roster service
func NewRosterService(slack output.SlackClient, sessions input.SessionStore) *RosterService {
	return &RosterService{
		slack:    slack,
		sessions: sessions,
	}
}

// SyncFromPlatform func - Use case: fetch the roster and reconcile the stored users
func (s *RosterService) SyncFromPlatform(ctx context.Context) error {
	payload, err := s.slack.FetchRoster(ctx)
	if err != nil {
		return fmt.Errorf("fetch roster: %w", err)
	}
	if err := s.sessions.SyncRoster(ctx, *payload); err != nil {
		return err
	}
	logrus.Infof("Roster sync for team %s complete", payload.Team.ID)
	return nil
}
