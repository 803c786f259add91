package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"moranda/internal/domain"
)

func testEvent(text string) domain.MessageEvent {
	return domain.MessageEvent{Team: "T1", Channel: "G1", User: "U1", Text: text}
}

// TestDeliverWithoutWaiterReturnsFalse tests that unexpected messages are not consumed
func TestDeliverWithoutWaiterReturnsFalse(t *testing.T) {
	router := NewMemoryReplyRouter(0)

	if router.Deliver(testEvent("hello")) {
		t.Error("expected Deliver to report no waiter")
	}
}

// TestExpectThenDeliverRoutesReply tests the happy path of one prompt and one reply
func TestExpectThenDeliverRoutesReply(t *testing.T) {
	router := NewMemoryReplyRouter(0)
	event := testEvent("the summary")

	replies, cancel, err := router.Expect(event.ConversationKey())
	if err != nil {
		t.Fatalf("expected no error on Expect, got %v", err)
	}
	defer cancel()

	if !router.Deliver(event) {
		t.Fatal("expected Deliver to find the waiter")
	}

	reply, err := router.Await(context.Background(), replies)
	if err != nil {
		t.Fatalf("expected no error on Await, got %v", err)
	}
	if reply.Text != "the summary" {
		t.Errorf("expected reply text 'the summary', got %s", reply.Text)
	}

	// the waiter is consumed by the first reply
	if router.Deliver(event) {
		t.Error("expected second Deliver to find no waiter")
	}
}

// TestDeliverIgnoresOtherUsers tests that replies are routed by team, channel and user
func TestDeliverIgnoresOtherUsers(t *testing.T) {
	router := NewMemoryReplyRouter(0)
	event := testEvent("mine")

	_, cancel, err := router.Expect(event.ConversationKey())
	if err != nil {
		t.Fatalf("expected no error on Expect, got %v", err)
	}
	defer cancel()

	other := event
	other.User = "U2"
	if router.Deliver(other) {
		t.Error("expected a different user's message not to be routed")
	}
}

// TestExpectTwiceOnSameKeyIsBusy tests that a second dialogue cannot listen on a busy key
func TestExpectTwiceOnSameKeyIsBusy(t *testing.T) {
	router := NewMemoryReplyRouter(0)
	key := testEvent("").ConversationKey()

	_, cancel, err := router.Expect(key)
	if err != nil {
		t.Fatalf("expected no error on first Expect, got %v", err)
	}

	if _, _, err := router.Expect(key); !errors.Is(err, domain.ErrConversationBusy) {
		t.Errorf("expected ErrConversationBusy, got %v", err)
	}

	// releasing the first waiter frees the key
	cancel()
	_, cancel2, err := router.Expect(key)
	if err != nil {
		t.Errorf("expected key to be free after cancel, got %v", err)
	}
	cancel2()
}

// TestAwaitTimesOut tests that a configured idle timeout abandons the wait
func TestAwaitTimesOut(t *testing.T) {
	router := NewMemoryReplyRouter(10 * time.Millisecond)

	replies, cancel, err := router.Expect(testEvent("").ConversationKey())
	if err != nil {
		t.Fatalf("expected no error on Expect, got %v", err)
	}
	defer cancel()

	_, err = router.Await(context.Background(), replies)
	if !errors.Is(err, domain.ErrDialogueTimeout) {
		t.Errorf("expected ErrDialogueTimeout, got %v", err)
	}
}

// TestAwaitStopsOnContextCancel tests that a cancelled context ends the wait
func TestAwaitStopsOnContextCancel(t *testing.T) {
	router := NewMemoryReplyRouter(0)

	replies, cancelWaiter, err := router.Expect(testEvent("").ConversationKey())
	if err != nil {
		t.Fatalf("expected no error on Expect, got %v", err)
	}
	defer cancelWaiter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := router.Await(ctx, replies); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
