package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/events"
	"github.com/voyage-planner/voyage/internal/repo"
)

// Repos groups the stores the services depend on. Any backend (Postgres,
// Mongo, in-memory) can fill it.
type Repos struct {
	Users          repo.UserRepo
	Trips          repo.TripRepo
	FlightBookings repo.FlightBookingRepo
	HotelBookings  repo.HotelBookingRepo
	Itineraries    repo.ItineraryRepo
}

// Options carries the ambient collaborators shared by every service.
// Zero values are replaced with defaults by withDefaults.
type Options struct {
	Log    *slog.Logger
	Events events.Publisher
	Now    func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Log == nil {
		o.Log = slog.Default()
	}
	if o.Events == nil {
		o.Events = events.NewLogPublisher(o.Log)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// publish sends e and logs a failure. Events are best effort: the store write
// they describe has already succeeded.
func (o Options) publish(ctx context.Context, e events.Event) {
	if err := o.Events.Publish(ctx, e); err != nil {
		o.Log.WarnContext(ctx, "event publish failed", "type", e.Type, "entity_id", e.EntityID, "error", err)
	}
}

// compensation is one undo step run after a later write in a multi-record
// operation failed.
type compensation struct {
	name string
	undo func(ctx context.Context) error
}

// rollback runs steps in order after cause. A step whose target is already
// gone counts as done. Failed steps are logged and joined into the returned
// error next to cause. Steps run even if ctx was cancelled.
func (o Options) rollback(ctx context.Context, op string, cause error, steps ...compensation) error {
	ctx = context.WithoutCancel(ctx)
	errs := []error{cause}
	for _, c := range steps {
		if err := c.undo(ctx); err != nil && !errors.Is(err, domain.ErrNotFound) {
			o.Log.ErrorContext(ctx, "compensation failed", "op", op, "step", c.name, "error", err)
			errs = append(errs, fmt.Errorf("compensate %s: %w", c.name, err))
			continue
		}
		o.Log.InfoContext(ctx, "compensated", "op", op, "step", c.name)
	}
	return fmt.Errorf("%s: %w", op, errors.Join(errs...))
}

// unindexStep removes ref from one of the user's id sets.
func unindexStep(users repo.UserRepo, userID uuid.UUID, kind domain.RefKind, ref uuid.UUID) compensation {
	return compensation{"user." + string(kind), func(ctx context.Context) error {
		return users.RemoveRef(ctx, userID, kind, ref)
	}}
}
