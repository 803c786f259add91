package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"moranda/internal/ports/output"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Compile-time checks to ensure both publishers implement EventPublisher interface
var (
	_ output.EventPublisher = (*NATSPublisher)(nil)
	_ output.EventPublisher = (*NoopPublisher)(nil)
)

// NATSPublisher struct - Output adapter publishing JSON events to NATS subjects
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher func - Connects to url with automatic reconnection
func NewNATSPublisher(url string, opts ...nats.Option) (*NATSPublisher, error) {
	defaults := []nats.Option{
		nats.Name("moranda"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logrus.Warnf("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logrus.Infof("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	logrus.Infof("Event publisher connected to NATS at %s", url)
	return &NATSPublisher{conn: nc}, nil
}

// Publish - Encodes event as JSON and publishes it on topic
func (p *NATSPublisher) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	if err := p.conn.Publish(topic, data); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

// Close - Flushes pending messages and closes the connection
func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}

// NoopPublisher struct - Used when no NATS url is configured; events are only logged
type NoopPublisher struct{}

// Publish func
func (NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	logrus.Debugf("event %s: %+v", topic, event)
	return nil
}

// Close func
func (NoopPublisher) Close() error {
	return nil
}
