package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"moranda/internal/domain"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func TestNoopPublisher(t *testing.T) {
	pub := NoopPublisher{}
	if err := pub.Publish(context.Background(), domain.TopicAsideClosed, domain.AsideClosed{}); err != nil {
		t.Fatalf("Publish returned unexpected error: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("Close returned unexpected error: %v", err)
	}
}

func TestNATSPublisher_Publish(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe("moranda.>", ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	event := domain.AsideClosed{
		DialogueID: "d-1",
		Team:       "T1",
		Channel:    "C1",
		ClosedBy:   "U1",
		Summary:    "we shipped it",
		SharedWith: []string{"C2"},
	}
	if err := pub.Publish(context.Background(), domain.TopicAsideClosed, event); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	pub.conn.Flush()

	select {
	case msg := <-ch:
		if msg.Subject != domain.TopicAsideClosed {
			t.Errorf("got subject %q, want %q", msg.Subject, domain.TopicAsideClosed)
		}
		var got domain.AsideClosed
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Summary != "we shipped it" || len(got.SharedWith) != 1 || got.SharedWith[0] != "C2" {
			t.Errorf("unexpected event: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNATSPublisher_ConnectFailure(t *testing.T) {
	_, err := NewNATSPublisher("nats://127.0.0.1:1", nats.MaxReconnects(0), nats.Timeout(200*time.Millisecond))
	if err == nil {
		t.Fatal("expected connection error")
	}
}
