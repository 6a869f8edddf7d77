// Package service contains the business logic for the trip planner.
// Services validate inputs, enforce rules that span several records, and
// orchestrate repo calls. No storage code lives here: services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/voyage-planner/voyage/internal/catalog"
	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/events"
)

// TripService composes bookings and itineraries into trips and keeps the
// owning user's index in step with every write.
//
// The store offers no multi-record transactions. Finalize undoes its earlier
// writes when a later one fails; Delete removes children before the trip so
// the trip survives a partial failure as the record to retry from.
type TripService struct {
	repos Repos
	opts  Options
}

// NewTripService constructs a TripService.
func NewTripService(r Repos, opts Options) *TripService {
	return &TripService{repos: r, opts: opts.withDefaults()}
}

// FinalizeInput is the (possibly user-edited) plan to turn into a trip.
type FinalizeInput struct {
	Destination     string
	StartDate       time.Time
	EndDate         time.Time
	Days            []domain.Day
	FlightBookingID *uuid.UUID
	HotelBookingID  *uuid.UUID
	Name            string
	Budget          *float64
	Notes           string
}

// FinalizedTrip is the result of Finalize.
type FinalizedTrip struct {
	Trip      domain.Trip
	Itinerary domain.Itinerary
}

// Create validates and persists a new trip in the planning state.
// Supplied links must name records owned by userID.
func (s *TripService) Create(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	const op = "service.TripService.Create"

	trip.ID = uuid.Nil
	trip.UserID = userID
	trip.Name = strings.TrimSpace(trip.Name)
	trip.Destination = catalog.NormalizeLocation(trip.Destination)
	trip.Status = domain.TripPlanning
	if err := trip.Validate(); err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.verifyLinks(ctx, userID, trip.FlightBookingID, trip.HotelBookingID, trip.ItineraryID); err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.repos.Trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repos.Users.AddRef(ctx, userID, domain.RefTrip, created.ID); err != nil {
		return domain.Trip{}, s.opts.rollback(ctx, op, err, s.undoTrip(userID, created.ID))
	}

	s.opts.publish(ctx, events.New(events.TripCreated, userID, created.ID, s.opts.Now(), tripPayload(created)))
	return created, nil
}

// Finalize saves the itinerary and then a confirmed trip pointing at it.
// If a later write fails, the earlier ones are undone; a failed undo is
// logged and joined into the returned error.
func (s *TripService) Finalize(ctx context.Context, userID uuid.UUID, in FinalizeInput) (FinalizedTrip, error) {
	const op = "service.TripService.Finalize"

	dest := catalog.NormalizeLocation(in.Destination)
	name := strings.TrimSpace(in.Name)
	title := name
	if title == "" {
		title = dest
	}
	if name == "" {
		name = fmt.Sprintf("Trip to %s (%s)", dest, in.StartDate.Format(domain.DateLayout))
	}

	it := domain.Itinerary{
		UserID:      userID,
		Destination: dest,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Days:        in.Days,
		Title:       title + " Itinerary",
		GeneratedAt: s.opts.Now().UTC(),
	}
	if err := it.Validate(); err != nil {
		return FinalizedTrip{}, fmt.Errorf("%s: %w", op, err)
	}
	trip := domain.Trip{
		UserID:          userID,
		Name:            name,
		Destination:     dest,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		FlightBookingID: in.FlightBookingID,
		HotelBookingID:  in.HotelBookingID,
		Status:          domain.TripConfirmed,
		Budget:          in.Budget,
		Notes:           in.Notes,
	}
	if err := trip.Validate(); err != nil {
		return FinalizedTrip{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.verifyLinks(ctx, userID, in.FlightBookingID, in.HotelBookingID, nil); err != nil {
		return FinalizedTrip{}, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := s.repos.Itineraries.Create(ctx, it)
	if err != nil {
		return FinalizedTrip{}, fmt.Errorf("%s: %w", op, err)
	}
	undoItinerary := s.undoItinerary(userID, saved.ID)
	if err := s.repos.Users.AddRef(ctx, userID, domain.RefItinerary, saved.ID); err != nil {
		return FinalizedTrip{}, s.opts.rollback(ctx, op, err, undoItinerary...)
	}

	trip.ItineraryID = &saved.ID
	created, err := s.repos.Trips.Create(ctx, trip)
	if err != nil {
		return FinalizedTrip{}, s.opts.rollback(ctx, op, err, undoItinerary...)
	}
	if err := s.repos.Users.AddRef(ctx, userID, domain.RefTrip, created.ID); err != nil {
		steps := append([]compensation{s.undoTrip(userID, created.ID)}, undoItinerary...)
		return FinalizedTrip{}, s.opts.rollback(ctx, op, err, steps...)
	}

	s.opts.publish(ctx, events.New(events.TripFinalized, userID, created.ID, s.opts.Now(), tripPayload(created)))
	return FinalizedTrip{Trip: created, Itinerary: saved}, nil
}

// GetByID returns the trip with its links dereferenced. A link whose record
// no longer exists comes back nil rather than as an error.
func (s *TripService) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.TripDetails, error) {
	trip, err := s.repos.Trips.GetByID(ctx, userID, id)
	if err != nil {
		return domain.TripDetails{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}

	details := domain.TripDetails{Trip: trip}
	g, gctx := errgroup.WithContext(ctx)
	if trip.FlightBookingID != nil {
		g.Go(func() (err error) {
			details.FlightBooking, err = resolved(s.repos.FlightBookings.GetByID(gctx, userID, *trip.FlightBookingID))
			return err
		})
	}
	if trip.HotelBookingID != nil {
		g.Go(func() (err error) {
			details.HotelBooking, err = resolved(s.repos.HotelBookings.GetByID(gctx, userID, *trip.HotelBookingID))
			return err
		})
	}
	if trip.ItineraryID != nil {
		g.Go(func() (err error) {
			details.Itinerary, err = resolved(s.repos.Itineraries.GetByID(gctx, userID, *trip.ItineraryID))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return domain.TripDetails{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return details, nil
}

// List returns one page of the user's trips, newest first, and the total
// number of trips matching filter.
func (s *TripService) List(ctx context.Context, userID uuid.UUID, filter domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("service.TripService.List: %w: unknown status %q", domain.ErrValidation, filter.Status)
	}
	trips, total, err := s.repos.Trips.ListPaged(ctx, userID, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update applies patch to the trip. Newly linked records are re-verified for
// ownership; uuid.Nil clears a link.
func (s *TripService) Update(ctx context.Context, userID, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	const op = "service.TripService.Update"

	current, err := s.repos.Trips.GetByID(ctx, userID, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}
	if patch.Destination != nil {
		dest := catalog.NormalizeLocation(*patch.Destination)
		patch.Destination = &dest
	}
	next, err := patch.Apply(current)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.verifyLinks(ctx, userID, newLink(patch.FlightBookingID), newLink(patch.HotelBookingID), newLink(patch.ItineraryID)); err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.repos.Trips.Update(ctx, next)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}
	s.opts.publish(ctx, events.New(events.TripUpdated, userID, updated.ID, s.opts.Now(), tripPayload(updated)))
	return updated, nil
}

// Delete removes the trip, every record it links to, and their ids from the
// user's index. The linked records and index entries are removed concurrently;
// only when all of them succeed is the trip itself deleted. A partial failure
// returns a *domain.CascadeError and leaves the trip in place.
func (s *TripService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const op = "service.TripService.Delete"

	trip, err := s.repos.Trips.GetByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var steps []compensation
	if trip.FlightBookingID != nil {
		ref := *trip.FlightBookingID
		steps = append(steps,
			compensation{"flight_booking", func(ctx context.Context) error {
				return s.repos.FlightBookings.Delete(ctx, userID, ref)
			}},
			s.unindex(userID, domain.RefFlightBooking, ref),
		)
	}
	if trip.HotelBookingID != nil {
		ref := *trip.HotelBookingID
		steps = append(steps,
			compensation{"hotel_booking", func(ctx context.Context) error {
				return s.repos.HotelBookings.Delete(ctx, userID, ref)
			}},
			s.unindex(userID, domain.RefHotelBooking, ref),
		)
	}
	if trip.ItineraryID != nil {
		steps = append(steps, s.undoItinerary(userID, *trip.ItineraryID)...)
	}

	report := &domain.CascadeError{Op: op}
	runCascade(ctx, steps, report)
	if len(report.Failed) > 0 {
		s.opts.Log.WarnContext(ctx, "trip delete cascade incomplete",
			"trip_id", id, "succeeded", report.Succeeded, "error", report)
		return report
	}

	if err := s.repos.Trips.Delete(ctx, userID, id); err != nil {
		if len(report.Succeeded) == 0 {
			return fmt.Errorf("%s: %w", op, err)
		}
		report.Failed = append(report.Failed, domain.CascadeStep{Name: "trip", Err: err})
		s.opts.Log.WarnContext(ctx, "trip delete cascade incomplete", "trip_id", id, "error", report)
		return report
	}
	report.Succeeded = append(report.Succeeded, "trip")

	if err := s.repos.Users.RemoveRef(ctx, userID, domain.RefTrip, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		report.Failed = append(report.Failed, domain.CascadeStep{Name: "user." + string(domain.RefTrip), Err: err})
		s.opts.Log.WarnContext(ctx, "trip delete cascade incomplete", "trip_id", id, "error", report)
		return report
	}

	s.opts.publish(ctx, events.New(events.TripDeleted, userID, id, s.opts.Now(), nil))
	return nil
}

// runCascade runs every step concurrently and records each outcome on report
// in step order. A record that is already gone counts as removed.
func runCascade(ctx context.Context, steps []compensation, report *domain.CascadeError) {
	errs := make([]error, len(steps))
	var g errgroup.Group
	for i, st := range steps {
		g.Go(func() error {
			if err := st.undo(ctx); err != nil && !errors.Is(err, domain.ErrNotFound) {
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, st := range steps {
		if errs[i] != nil {
			report.Failed = append(report.Failed, domain.CascadeStep{Name: st.name, Err: errs[i]})
			continue
		}
		report.Succeeded = append(report.Succeeded, st.name)
	}
}

// verifyLinks checks that each non-nil id names a record owned by userID.
func (s *TripService) verifyLinks(ctx context.Context, userID uuid.UUID, flightID, hotelID, itineraryID *uuid.UUID) error {
	if flightID != nil {
		if _, err := s.repos.FlightBookings.GetByID(ctx, userID, *flightID); err != nil {
			return linkError("flight_booking_id", *flightID, err)
		}
	}
	if hotelID != nil {
		if _, err := s.repos.HotelBookings.GetByID(ctx, userID, *hotelID); err != nil {
			return linkError("hotel_booking_id", *hotelID, err)
		}
	}
	if itineraryID != nil {
		if _, err := s.repos.Itineraries.GetByID(ctx, userID, *itineraryID); err != nil {
			return linkError("itinerary_id", *itineraryID, err)
		}
	}
	return nil
}

func linkError(field string, id uuid.UUID, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s %s does not exist", domain.ErrValidation, field, id)
	}
	return err
}

// newLink returns the id a patch links to, or nil when the patch leaves the
// link alone or clears it.
func newLink(p *uuid.UUID) *uuid.UUID {
	if p == nil || *p == uuid.Nil {
		return nil
	}
	return p
}

// resolved turns a lookup into an optional value: a missing record is nil.
func resolved[T any](v T, err error) (*T, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *TripService) undoTrip(userID, id uuid.UUID) compensation {
	return compensation{"trip", func(ctx context.Context) error {
		return s.repos.Trips.Delete(ctx, userID, id)
	}}
}

func (s *TripService) undoItinerary(userID, id uuid.UUID) []compensation {
	return []compensation{
		{"itinerary", func(ctx context.Context) error {
			return s.repos.Itineraries.Delete(ctx, userID, id)
		}},
		s.unindex(userID, domain.RefItinerary, id),
	}
}

func (s *TripService) unindex(userID uuid.UUID, kind domain.RefKind, ref uuid.UUID) compensation {
	return unindexStep(s.repos.Users, userID, kind, ref)
}

func tripPayload(t domain.Trip) map[string]any {
	return map[string]any{
		"name":        t.Name,
		"destination": t.Destination,
		"status":      t.Status,
		"start_date":  t.StartDate.Format(domain.DateLayout),
		"end_date":    t.EndDate.Format(domain.DateLayout),
	}
}
