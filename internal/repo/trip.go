package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/voyage-planner/voyage/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip owned by userID.
	// Returns domain.ErrNotFound if it does not exist or belongs to someone else.
	GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error)

	// ListPaged returns one page of the user's trips, newest first, and the
	// total number of trips matching filter.
	ListPaged(ctx context.Context, userID uuid.UUID, filter domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of a trip owned by trip.UserID.
	// Returns domain.ErrNotFound if no such trip exists for that user.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip owned by userID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, user_id, name, destination, start_date, end_date,
	flight_booking_id, hotel_booking_id, itinerary_id, status, budget, notes,
	created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	q := `
		INSERT INTO trips (user_id, name, destination, start_date, end_date,
			flight_booking_id, hotel_booking_id, itinerary_id, status, budget, notes)
		VALUES (@user_id, @name, @destination, @start_date, @end_date,
			@flight_booking_id, @hotel_booking_id, @itinerary_id, @status, @budget, @notes)
		RETURNING ` + tripColumns

	result, err := scanTrip(r.db.QueryRow(ctx, q, tripArgs(trip)))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key, scoped to its owner.
func (r *pgTripRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips WHERE id = @id AND user_id = @user_id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns the requested page ordered by created_at descending.
func (r *pgTripRepo) ListPaged(ctx context.Context, userID uuid.UUID, filter domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const where = `WHERE user_id = @user_id AND (@status = '' OR status = @status)`
	args := pgx.NamedArgs{
		"user_id": userID,
		"status":  string(filter.Status),
		"limit":   p.Limit,
		"offset":  p.Offset(),
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips `+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
	}

	q := `SELECT ` + tripColumns + ` FROM trips ` + where + `
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: rows: %w", err)
	}

	return trips, total, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	q := `
		UPDATE trips
		SET name              = @name,
		    destination       = @destination,
		    start_date        = @start_date,
		    end_date          = @end_date,
		    flight_booking_id = @flight_booking_id,
		    hotel_booking_id  = @hotel_booking_id,
		    itinerary_id      = @itinerary_id,
		    status            = @status,
		    budget            = @budget,
		    notes             = @notes,
		    updated_at        = now()
		WHERE id = @id AND user_id = @user_id
		RETURNING ` + tripColumns

	result, err := scanTrip(r.db.QueryRow(ctx, q, tripArgs(trip)))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key, scoped to its owner.
func (r *pgTripRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func tripArgs(t domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":                t.ID,
		"user_id":           t.UserID,
		"name":              t.Name,
		"destination":       t.Destination,
		"start_date":        t.StartDate,
		"end_date":          t.EndDate,
		"flight_booking_id": t.FlightBookingID, // nil becomes NULL
		"hotel_booking_id":  t.HotelBookingID,
		"itinerary_id":      t.ItineraryID,
		"status":            string(t.Status),
		"budget":            t.Budget,
		"notes":             t.Notes,
	}
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t                         domain.Trip
		id, userID                pgtype.UUID
		flightID, hotelID, itinID pgtype.UUID
		startDate, endDate        pgtype.Date
		status                    string
	)

	err := s.Scan(&id, &userID, &t.Name, &t.Destination, &startDate, &endDate,
		&flightID, &hotelID, &itinID, &status, &t.Budget, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Trip{}, mapNoRows(err)
	}

	t.ID = uuid.UUID(id.Bytes)
	t.UserID = uuid.UUID(userID.Bytes)
	t.StartDate = startDate.Time
	t.EndDate = endDate.Time
	t.FlightBookingID = optionalUUID(flightID)
	t.HotelBookingID = optionalUUID(hotelID)
	t.ItineraryID = optionalUUID(itinID)
	t.Status = domain.TripStatus(status)

	return t, nil
}
