// Package memory implements every repo interface on in-process maps.
// It backs STORE_BACKEND=memory and the service tests. Records are copied on
// the way in and out so callers never share slices with the store.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/repo"
)

// Repos bundles one in-memory implementation of each repo interface.
type Repos struct {
	Users          *UserRepo
	Trips          *TripRepo
	FlightBookings *FlightBookingRepo
	HotelBookings  *HotelBookingRepo
	Itineraries    *ItineraryRepo
}

// New returns an empty set of in-memory repos.
func New() *Repos {
	return &Repos{
		Users:          NewUserRepo(),
		Trips:          NewTripRepo(),
		FlightBookings: NewFlightBookingRepo(),
		HotelBookings:  NewHotelBookingRepo(),
		Itineraries:    NewItineraryRepo(),
	}
}

var (
	_ repo.UserRepo          = (*UserRepo)(nil)
	_ repo.TripRepo          = (*TripRepo)(nil)
	_ repo.FlightBookingRepo = (*FlightBookingRepo)(nil)
	_ repo.HotelBookingRepo  = (*HotelBookingRepo)(nil)
	_ repo.ItineraryRepo     = (*ItineraryRepo)(nil)
)

func now() time.Time { return time.Now().UTC() }

// owned is a record plus its insertion order, used to break created_at ties.
type owned[T any] struct {
	seq    int64
	userID uuid.UUID
	value  T
}

// table is a mutex-guarded map of records keyed by id and scoped by owner.
type table[T any] struct {
	mu   sync.RWMutex
	seq  int64
	rows map[uuid.UUID]owned[T]
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[uuid.UUID]owned[T]{}}
}

func (t *table[T]) insert(id, userID uuid.UUID, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.rows[id] = owned[T]{seq: t.seq, userID: userID, value: v}
}

func (t *table[T]) get(userID, id uuid.UUID) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok || row.userID != userID {
		var zero T
		return zero, false
	}
	return row.value, true
}

// update applies fn to the stored record if it belongs to userID.
func (t *table[T]) update(userID, id uuid.UUID, fn func(T) T) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok || row.userID != userID {
		var zero T
		return zero, false
	}
	row.value = fn(row.value)
	t.rows[id] = row
	return row.value, true
}

func (t *table[T]) delete(userID, id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok || row.userID != userID {
		return false
	}
	delete(t.rows, id)
	return true
}

// list returns the user's records, most recently inserted first.
func (t *table[T]) list(userID uuid.UUID, keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var rows []owned[T]
	for _, row := range t.rows {
		if row.userID == userID && (keep == nil || keep(row.value)) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := make([]T, len(rows))
	for i, row := range rows {
		out[i] = row.value
	}
	return out
}

// --- users -------------------------------------------------------------------

// UserRepo is the in-memory repo.UserRepo.
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]domain.User
	byEmail map[string]uuid.UUID
}

// NewUserRepo returns an empty UserRepo.
func NewUserRepo() *UserRepo {
	return &UserRepo{byID: map[uuid.UUID]domain.User{}, byEmail: map[string]uuid.UUID{}}
}

func (r *UserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(u.Email))
	if _, taken := r.byEmail[email]; taken {
		return domain.User{}, fmt.Errorf("memory.UserRepo.Create: %w: email already registered", domain.ErrConflict)
	}
	u.ID = uuid.New()
	u.Email = email
	u.RegisteredAt = now()
	u.FlightBookingIDs, u.HotelBookingIDs, u.ItineraryIDs, u.TripIDs = nil, nil, nil, nil
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	return cloneUser(u), nil
}

func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, fmt.Errorf("memory.UserRepo.GetByID: %w", domain.ErrNotFound)
	}
	return cloneUser(u), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return domain.User{}, fmt.Errorf("memory.UserRepo.GetByEmail: %w", domain.ErrNotFound)
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepo) AddRef(_ context.Context, userID uuid.UUID, kind domain.RefKind, ref uuid.UUID) error {
	return r.editRefs("memory.UserRepo.AddRef", userID, kind, func(ids []uuid.UUID) []uuid.UUID {
		if slices.Contains(ids, ref) {
			return ids
		}
		return append(ids, ref)
	})
}

func (r *UserRepo) RemoveRef(_ context.Context, userID uuid.UUID, kind domain.RefKind, ref uuid.UUID) error {
	return r.editRefs("memory.UserRepo.RemoveRef", userID, kind, func(ids []uuid.UUID) []uuid.UUID {
		return slices.DeleteFunc(ids, func(id uuid.UUID) bool { return id == ref })
	})
}

func (r *UserRepo) editRefs(op string, userID uuid.UUID, kind domain.RefKind, fn func([]uuid.UUID) []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	switch kind {
	case domain.RefFlightBooking:
		u.FlightBookingIDs = fn(slices.Clone(u.FlightBookingIDs))
	case domain.RefHotelBooking:
		u.HotelBookingIDs = fn(slices.Clone(u.HotelBookingIDs))
	case domain.RefItinerary:
		u.ItineraryIDs = fn(slices.Clone(u.ItineraryIDs))
	case domain.RefTrip:
		u.TripIDs = fn(slices.Clone(u.TripIDs))
	default:
		return fmt.Errorf("%s: unknown ref kind %q", op, kind)
	}
	r.byID[userID] = u
	return nil
}

func cloneUser(u domain.User) domain.User {
	u.FlightBookingIDs = slices.Clone(u.FlightBookingIDs)
	u.HotelBookingIDs = slices.Clone(u.HotelBookingIDs)
	u.ItineraryIDs = slices.Clone(u.ItineraryIDs)
	u.TripIDs = slices.Clone(u.TripIDs)
	return u
}

// --- trips -------------------------------------------------------------------

// TripRepo is the in-memory repo.TripRepo.
type TripRepo struct {
	t *table[domain.Trip]
}

// NewTripRepo returns an empty TripRepo.
func NewTripRepo() *TripRepo {
	return &TripRepo{t: newTable[domain.Trip]()}
}

func (r *TripRepo) Create(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	trip.ID = uuid.New()
	trip.CreatedAt = now()
	trip.UpdatedAt = trip.CreatedAt
	trip = cloneTrip(trip)
	r.t.insert(trip.ID, trip.UserID, trip)
	return cloneTrip(trip), nil
}

func (r *TripRepo) GetByID(_ context.Context, userID, id uuid.UUID) (domain.Trip, error) {
	trip, ok := r.t.get(userID, id)
	if !ok {
		return domain.Trip{}, fmt.Errorf("memory.TripRepo.GetByID: %w", domain.ErrNotFound)
	}
	return cloneTrip(trip), nil
}

func (r *TripRepo) ListPaged(_ context.Context, userID uuid.UUID, filter domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	all := r.t.list(userID, func(t domain.Trip) bool {
		return filter.Status == "" || t.Status == filter.Status
	})
	total := int64(len(all))

	start := min(p.Offset(), len(all))
	end := min(start+p.Limit, len(all))
	page := make([]domain.Trip, 0, end-start)
	for _, t := range all[start:end] {
		page = append(page, cloneTrip(t))
	}
	return page, total, nil
}

func (r *TripRepo) Update(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	updated, ok := r.t.update(trip.UserID, trip.ID, func(old domain.Trip) domain.Trip {
		next := cloneTrip(trip)
		next.CreatedAt = old.CreatedAt
		next.UpdatedAt = now()
		return next
	})
	if !ok {
		return domain.Trip{}, fmt.Errorf("memory.TripRepo.Update: %w", domain.ErrNotFound)
	}
	return cloneTrip(updated), nil
}

func (r *TripRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	if !r.t.delete(userID, id) {
		return fmt.Errorf("memory.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func cloneTrip(t domain.Trip) domain.Trip {
	t.FlightBookingID = clonePtr(t.FlightBookingID)
	t.HotelBookingID = clonePtr(t.HotelBookingID)
	t.ItineraryID = clonePtr(t.ItineraryID)
	t.Budget = clonePtr(t.Budget)
	return t
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// --- bookings ----------------------------------------------------------------

// FlightBookingRepo is the in-memory repo.FlightBookingRepo.
type FlightBookingRepo struct {
	t *table[domain.FlightBooking]
}

// NewFlightBookingRepo returns an empty FlightBookingRepo.
func NewFlightBookingRepo() *FlightBookingRepo {
	return &FlightBookingRepo{t: newTable[domain.FlightBooking]()}
}

func (r *FlightBookingRepo) Create(_ context.Context, b domain.FlightBooking) (domain.FlightBooking, error) {
	b.ID = uuid.New()
	b.CreatedAt = now()
	b.UpdatedAt = b.CreatedAt
	b.ReturnDate = clonePtr(b.ReturnDate)
	r.t.insert(b.ID, b.UserID, b)
	return b, nil
}

func (r *FlightBookingRepo) GetByID(_ context.Context, userID, id uuid.UUID) (domain.FlightBooking, error) {
	b, ok := r.t.get(userID, id)
	if !ok {
		return domain.FlightBooking{}, fmt.Errorf("memory.FlightBookingRepo.GetByID: %w", domain.ErrNotFound)
	}
	b.ReturnDate = clonePtr(b.ReturnDate)
	return b, nil
}

func (r *FlightBookingRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.FlightBooking, error) {
	out := r.t.list(userID, nil)
	sort.SliceStable(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	for i := range out {
		out[i].ReturnDate = clonePtr(out[i].ReturnDate)
	}
	return out, nil
}

func (r *FlightBookingRepo) UpdateStatus(_ context.Context, userID, id uuid.UUID, status domain.BookingStatus) (domain.FlightBooking, error) {
	b, ok := r.t.update(userID, id, func(b domain.FlightBooking) domain.FlightBooking {
		b.Status = status
		b.UpdatedAt = now()
		return b
	})
	if !ok {
		return domain.FlightBooking{}, fmt.Errorf("memory.FlightBookingRepo.UpdateStatus: %w", domain.ErrNotFound)
	}
	b.ReturnDate = clonePtr(b.ReturnDate)
	return b, nil
}

func (r *FlightBookingRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	if !r.t.delete(userID, id) {
		return fmt.Errorf("memory.FlightBookingRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// HotelBookingRepo is the in-memory repo.HotelBookingRepo.
type HotelBookingRepo struct {
	t *table[domain.HotelBooking]
}

// NewHotelBookingRepo returns an empty HotelBookingRepo.
func NewHotelBookingRepo() *HotelBookingRepo {
	return &HotelBookingRepo{t: newTable[domain.HotelBooking]()}
}

func (r *HotelBookingRepo) Create(_ context.Context, b domain.HotelBooking) (domain.HotelBooking, error) {
	b.ID = uuid.New()
	b.CreatedAt = now()
	b.UpdatedAt = b.CreatedAt
	r.t.insert(b.ID, b.UserID, b)
	return b, nil
}

func (r *HotelBookingRepo) GetByID(_ context.Context, userID, id uuid.UUID) (domain.HotelBooking, error) {
	b, ok := r.t.get(userID, id)
	if !ok {
		return domain.HotelBooking{}, fmt.Errorf("memory.HotelBookingRepo.GetByID: %w", domain.ErrNotFound)
	}
	return b, nil
}

func (r *HotelBookingRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.HotelBooking, error) {
	out := r.t.list(userID, nil)
	sort.SliceStable(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}

func (r *HotelBookingRepo) UpdateStatus(_ context.Context, userID, id uuid.UUID, status domain.BookingStatus) (domain.HotelBooking, error) {
	b, ok := r.t.update(userID, id, func(b domain.HotelBooking) domain.HotelBooking {
		b.Status = status
		b.UpdatedAt = now()
		return b
	})
	if !ok {
		return domain.HotelBooking{}, fmt.Errorf("memory.HotelBookingRepo.UpdateStatus: %w", domain.ErrNotFound)
	}
	return b, nil
}

func (r *HotelBookingRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	if !r.t.delete(userID, id) {
		return fmt.Errorf("memory.HotelBookingRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// --- itineraries -------------------------------------------------------------

// ItineraryRepo is the in-memory repo.ItineraryRepo.
type ItineraryRepo struct {
	t *table[domain.Itinerary]
}

// NewItineraryRepo returns an empty ItineraryRepo.
func NewItineraryRepo() *ItineraryRepo {
	return &ItineraryRepo{t: newTable[domain.Itinerary]()}
}

func (r *ItineraryRepo) Create(_ context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	it.ID = uuid.New()
	it.CreatedAt = now()
	it.UpdatedAt = it.CreatedAt
	if it.GeneratedAt.IsZero() {
		it.GeneratedAt = it.CreatedAt
	}
	it.Days = cloneDays(it.Days)
	r.t.insert(it.ID, it.UserID, it)
	return cloneItinerary(it), nil
}

func (r *ItineraryRepo) GetByID(_ context.Context, userID, id uuid.UUID) (domain.Itinerary, error) {
	it, ok := r.t.get(userID, id)
	if !ok {
		return domain.Itinerary{}, fmt.Errorf("memory.ItineraryRepo.GetByID: %w", domain.ErrNotFound)
	}
	return cloneItinerary(it), nil
}

func (r *ItineraryRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Itinerary, error) {
	out := r.t.list(userID, nil)
	for i := range out {
		out[i] = cloneItinerary(out[i])
	}
	return out, nil
}

func (r *ItineraryRepo) Update(_ context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	updated, ok := r.t.update(it.UserID, it.ID, func(old domain.Itinerary) domain.Itinerary {
		old.StartDate = it.StartDate
		old.EndDate = it.EndDate
		old.Days = cloneDays(it.Days)
		old.Title = it.Title
		old.Notes = it.Notes
		old.UpdatedAt = now()
		return old
	})
	if !ok {
		return domain.Itinerary{}, fmt.Errorf("memory.ItineraryRepo.Update: %w", domain.ErrNotFound)
	}
	return cloneItinerary(updated), nil
}

func (r *ItineraryRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	if !r.t.delete(userID, id) {
		return fmt.Errorf("memory.ItineraryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func cloneItinerary(it domain.Itinerary) domain.Itinerary {
	it.Days = cloneDays(it.Days)
	return it
}

func cloneDays(days []domain.Day) []domain.Day {
	if days == nil {
		return nil
	}
	out := make([]domain.Day, len(days))
	for i, d := range days {
		out[i] = domain.Day{Date: d.Date, Activities: slices.Clone(d.Activities)}
	}
	return out
}
