package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/events"
	"github.com/voyage-planner/voyage/internal/repo"
	"github.com/voyage-planner/voyage/internal/repo/memory"
	"github.com/voyage-planner/voyage/internal/service"
)

// fixedNow is "today" for every service test.
var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

var errStore = errors.New("store unavailable")

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

// recorder is an events.Publisher that keeps what it was given.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

var _ events.Publisher = (*recorder)(nil)

// fixture is an in-memory store plus the service-facing view of it.
type fixture struct {
	mem    *memory.Repos
	repos  service.Repos
	events *recorder
	opts   service.Options
}

func newFixture() *fixture {
	mem := memory.New()
	rec := &recorder{}
	return &fixture{
		mem: mem,
		repos: service.Repos{
			Users:          mem.Users,
			Trips:          mem.Trips,
			FlightBookings: mem.FlightBookings,
			HotelBookings:  mem.HotelBookings,
			Itineraries:    mem.Itineraries,
		},
		events: rec,
		opts: service.Options{
			Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
			Events: rec,
			Now:    func() time.Time { return fixedNow },
		},
	}
}

func (f *fixture) seedUser(t *testing.T, email string) domain.User {
	t.Helper()
	u, err := f.mem.Users.Create(context.Background(), domain.User{Name: "Test", Email: email, PasswordHash: "x"})
	require.NoError(t, err)
	return u
}

func (f *fixture) user(t *testing.T, id uuid.UUID) domain.User {
	t.Helper()
	u, err := f.mem.Users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (f *fixture) seedFlight(t *testing.T, userID uuid.UUID) domain.FlightBooking {
	t.Helper()
	ctx := context.Background()
	b, err := f.mem.FlightBookings.Create(ctx, domain.FlightBooking{
		UserID: userID, FlightID: "f6", Origin: "NYC", Destination: "PAR",
		DepartureDate: day(2025, 11, 1), Airline: "AirDemo", FlightNumber: "AD600",
		Passengers: 1, Price: 750, Status: domain.BookingConfirmed, BookingDate: fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, f.mem.Users.AddRef(ctx, userID, domain.RefFlightBooking, b.ID))
	return b
}

func (f *fixture) seedHotel(t *testing.T, userID uuid.UUID) domain.HotelBooking {
	t.Helper()
	ctx := context.Background()
	b, err := f.mem.HotelBookings.Create(ctx, domain.HotelBooking{
		UserID: userID, HotelID: "h5", HotelName: "Paris Boutique", Destination: "PAR",
		CheckInDate: day(2025, 11, 1), CheckOutDate: day(2025, 11, 7), PricePerNight: 300,
		Guests: 2, Status: domain.BookingConfirmed, BookingDate: fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, f.mem.Users.AddRef(ctx, userID, domain.RefHotelBooking, b.ID))
	return b
}

func (f *fixture) seedItinerary(t *testing.T, userID uuid.UUID) domain.Itinerary {
	t.Helper()
	ctx := context.Background()
	it, err := f.mem.Itineraries.Create(ctx, domain.Itinerary{
		UserID: userID, Destination: "PAR", StartDate: day(2025, 11, 1), EndDate: day(2025, 11, 3),
		Days:  []domain.Day{{Date: day(2025, 11, 1), Activities: []domain.Activity{{Name: "Louvre", Time: "Morning"}}}},
		Title: "PAR Itinerary",
	})
	require.NoError(t, err)
	require.NoError(t, f.mem.Users.AddRef(ctx, userID, domain.RefItinerary, it.ID))
	return it
}

func parisDays(n int) []domain.Day {
	days := make([]domain.Day, n)
	for i := range days {
		days[i] = domain.Day{
			Date:       day(2025, 11, 1+i),
			Activities: []domain.Activity{{Name: "Eiffel Tower", Time: "Morning", Location: "Champ de Mars"}},
		}
	}
	return days
}

// ---- failure-injecting wrappers ---------------------------------------------
// Each wraps a working repo and overrides only the methods whose function
// field is set.

type mockTripRepo struct {
	repo.TripRepo
	create  func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID func(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error)
	delete  func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if m.create != nil {
		return m.create(ctx, trip)
	}
	return m.TripRepo.Create(ctx, trip)
}

func (m *mockTripRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error) {
	if m.getByID != nil {
		return m.getByID(ctx, userID, id)
	}
	return m.TripRepo.GetByID(ctx, userID, id)
}

func (m *mockTripRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, userID, id)
	}
	return m.TripRepo.Delete(ctx, userID, id)
}

type mockUserRepo struct {
	repo.UserRepo
	addRef    func(ctx context.Context, userID uuid.UUID, kind domain.RefKind, ref uuid.UUID) error
	removeRef func(ctx context.Context, userID uuid.UUID, kind domain.RefKind, ref uuid.UUID) error
}

func (m *mockUserRepo) AddRef(ctx context.Context, userID uuid.UUID, kind domain.RefKind, ref uuid.UUID) error {
	if m.addRef != nil {
		return m.addRef(ctx, userID, kind, ref)
	}
	return m.UserRepo.AddRef(ctx, userID, kind, ref)
}

func (m *mockUserRepo) RemoveRef(ctx context.Context, userID uuid.UUID, kind domain.RefKind, ref uuid.UUID) error {
	if m.removeRef != nil {
		return m.removeRef(ctx, userID, kind, ref)
	}
	return m.UserRepo.RemoveRef(ctx, userID, kind, ref)
}

type mockHotelBookingRepo struct {
	repo.HotelBookingRepo
	getByID func(ctx context.Context, userID, id uuid.UUID) (domain.HotelBooking, error)
	delete  func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *mockHotelBookingRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.HotelBooking, error) {
	if m.getByID != nil {
		return m.getByID(ctx, userID, id)
	}
	return m.HotelBookingRepo.GetByID(ctx, userID, id)
}

func (m *mockHotelBookingRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, userID, id)
	}
	return m.HotelBookingRepo.Delete(ctx, userID, id)
}

type mockItineraryRepo struct {
	repo.ItineraryRepo
	delete func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *mockItineraryRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, userID, id)
	}
	return m.ItineraryRepo.Delete(ctx, userID, id)
}

// compile-time checks: the wrappers must satisfy the repo interfaces.
var (
	_ repo.TripRepo         = (*mockTripRepo)(nil)
	_ repo.UserRepo         = (*mockUserRepo)(nil)
	_ repo.HotelBookingRepo = (*mockHotelBookingRepo)(nil)
	_ repo.ItineraryRepo    = (*mockItineraryRepo)(nil)
)
