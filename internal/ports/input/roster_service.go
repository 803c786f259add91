package input

import "context"

// RosterService interface - Input port (use case)
type RosterService interface {
	// SyncFromPlatform fetches the team roster from Slack and stores it
	SyncFromPlatform(ctx context.Context) error
}
