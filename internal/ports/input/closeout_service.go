package input

import (
	"context"

	"moranda/internal/domain"
)

// CloseOutService interface - Input port (use case)
type CloseOutService interface {
	// Begin starts a close-out dialogue for the aside the trigger was posted in.
	// It returns nil when there is no open aside to close.
	Begin(ctx context.Context, trigger domain.MessageEvent) (*domain.Dialogue, error)
}
