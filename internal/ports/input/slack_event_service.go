package input

import (
	"context"

	"moranda/internal/domain"
)

// SlackEventService interface - Input port (use case)
// Defines what the application does with inbound Slack message events
type SlackEventService interface {
	// HandleMessage routes a message to a waiting dialogue or starts a close-out
	HandleMessage(ctx context.Context, event domain.MessageEvent) error
}
