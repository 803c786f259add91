package memory

import (
	"context"
	"sync"
	"time"

	"moranda/internal/domain"
	"moranda/internal/ports/output"
)

// Compile-time check to ensure MemoryReplyRouter implements ReplyRouter interface
var _ output.ReplyRouter = (*MemoryReplyRouter)(nil)

// MemoryReplyRouter struct - Output adapter for in-process reply routing
// Uses sync.Map keyed by conversation key; each entry is the channel of the one
// dialogue waiting on that key.
type MemoryReplyRouter struct {
	waiters     sync.Map
	idleTimeout time.Duration
}

// NewMemoryReplyRouter creates a reply router.
// idleTimeout: how long Await waits for a reply; zero or negative waits forever
func NewMemoryReplyRouter(idleTimeout time.Duration) *MemoryReplyRouter {
	return &MemoryReplyRouter{
		idleTimeout: idleTimeout,
	}
}

// Expect registers a waiter for key
func (m *MemoryReplyRouter) Expect(key domain.ConversationKey) (<-chan domain.MessageEvent, func(), error) {
	ch := make(chan domain.MessageEvent, 1)
	if _, loaded := m.waiters.LoadOrStore(key, ch); loaded {
		return nil, nil, domain.ErrConversationBusy
	}
	cancel := func() {
		m.waiters.CompareAndDelete(key, ch)
	}
	return ch, cancel, nil
}

// Await blocks until a reply arrives on replies
func (m *MemoryReplyRouter) Await(ctx context.Context, replies <-chan domain.MessageEvent) (domain.MessageEvent, error) {
	var timeout <-chan time.Time
	if m.idleTimeout > 0 {
		timer := time.NewTimer(m.idleTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case reply := <-replies:
		return reply, nil
	case <-timeout:
		return domain.MessageEvent{}, domain.ErrDialogueTimeout
	case <-ctx.Done():
		return domain.MessageEvent{}, ctx.Err()
	}
}

// Deliver hands event to the waiter on its conversation key.
// The waiter is removed, so each registration receives at most one reply.
func (m *MemoryReplyRouter) Deliver(event domain.MessageEvent) bool {
	value, ok := m.waiters.LoadAndDelete(event.ConversationKey())
	if !ok {
		return false
	}
	ch, ok := value.(chan domain.MessageEvent)
	if !ok {
		return false
	}
	// buffered with capacity one and removed above, so this never blocks
	ch <- event
	return true
}
