package output

import (
	"context"

	"moranda/internal/domain"
)

// ReplyRouter interface - Output port
// Routes inbound messages to the dialogue waiting on their conversation key.
// Implementations must be safe for concurrent use.
type ReplyRouter interface {
	// Expect registers a waiter for key. Only one waiter per key may exist;
	// a second registration fails with domain.ErrConversationBusy.
	// The returned cancel func must be called once the waiter is done.
	Expect(key domain.ConversationKey) (<-chan domain.MessageEvent, func(), error)

	// Await blocks on a channel returned by Expect until a reply arrives, the
	// context ends or the idle timeout (if any) passes.
	Await(ctx context.Context, replies <-chan domain.MessageEvent) (domain.MessageEvent, error)

	// Deliver hands event to the waiter on its key and reports whether one existed.
	Deliver(event domain.MessageEvent) bool
}
