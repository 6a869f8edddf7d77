package events

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to a logger instead of a broker. It is used when
// no broker is configured.
type LogPublisher struct {
	log *slog.Logger
}

var _ Publisher = (*LogPublisher)(nil)

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	if log == nil {
		log = slog.Default()
	}
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	p.log.InfoContext(ctx, "event",
		"type", e.Type,
		"user_id", e.UserID,
		"entity_id", e.EntityID,
		"occurred_at", e.OccurredAt,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
