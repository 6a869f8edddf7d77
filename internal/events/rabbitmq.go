package events

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher publishes each event type to a durable queue of the same
// name through the default exchange. Messages are persistent.
type RabbitPublisher struct {
	conn *amqp.Connection

	mu       sync.Mutex
	ch       *amqp.Channel
	declared map[string]bool
}

var _ Publisher = (*RabbitPublisher)(nil)

// NewRabbitPublisher dials url and opens a channel.
func NewRabbitPublisher(url string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events.NewRabbitPublisher: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("events.NewRabbitPublisher: channel: %w", err)
	}
	return &RabbitPublisher{conn: conn, ch: ch, declared: make(map[string]bool)}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, e Event) error {
	body, err := e.Encode()
	if err != nil {
		return fmt.Errorf("events.RabbitPublisher.Publish: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.declared[e.Type] {
		if _, err := p.ch.QueueDeclare(
			e.Type, // name
			true,   // durable
			false,  // autoDelete
			false,  // exclusive
			false,  // noWait
			nil,    // args
		); err != nil {
			return fmt.Errorf("events.RabbitPublisher.Publish: queue declare %s: %w", e.Type, err)
		}
		p.declared[e.Type] = true
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.OccurredAt,
		MessageId:    e.EntityID.String(),
		Type:         e.Type,
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", e.Type, false, false, msg); err != nil {
		return fmt.Errorf("events.RabbitPublisher.Publish: %w", err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	chErr := p.ch.Close()
	if err := p.conn.Close(); err != nil {
		return err
	}
	return chErr
}
