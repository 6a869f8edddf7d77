package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/voyage-planner/voyage/internal/domain"
)

// FlightBookingRepo defines the persistence operations for FlightBookings.
// All single-record operations are scoped by userID to enforce ownership.
type FlightBookingRepo interface {
	// Create inserts a new booking and returns the persisted record.
	Create(ctx context.Context, b domain.FlightBooking) (domain.FlightBooking, error)

	// GetByID returns domain.ErrNotFound if the booking does not exist for userID.
	GetByID(ctx context.Context, userID, id uuid.UUID) (domain.FlightBooking, error)

	// ListByUser returns the user's bookings, most recently booked first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FlightBooking, error)

	// UpdateStatus sets the booking status and returns the updated record.
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status domain.BookingStatus) (domain.FlightBooking, error)

	// Delete removes a booking. Returns domain.ErrNotFound if it does not exist for userID.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// HotelBookingRepo defines the persistence operations for HotelBookings.
// All single-record operations are scoped by userID to enforce ownership.
type HotelBookingRepo interface {
	Create(ctx context.Context, b domain.HotelBooking) (domain.HotelBooking, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (domain.HotelBooking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.HotelBooking, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status domain.BookingStatus) (domain.HotelBooking, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// --- flight bookings ---------------------------------------------------------

type pgFlightBookingRepo struct {
	db db
}

// NewFlightBookingRepo constructs a FlightBookingRepo backed by the provided db connection.
func NewFlightBookingRepo(db db) FlightBookingRepo {
	return &pgFlightBookingRepo{db: db}
}

const flightBookingColumns = `id, user_id, flight_id, origin, destination,
	departure_date, return_date, airline, flight_number, passengers, price,
	status, booking_date, created_at, updated_at`

func (r *pgFlightBookingRepo) Create(ctx context.Context, b domain.FlightBooking) (domain.FlightBooking, error) {
	q := `
		INSERT INTO flight_bookings (user_id, flight_id, origin, destination,
			departure_date, return_date, airline, flight_number, passengers, price,
			status, booking_date)
		VALUES (@user_id, @flight_id, @origin, @destination,
			@departure_date, @return_date, @airline, @flight_number, @passengers, @price,
			@status, @booking_date)
		RETURNING ` + flightBookingColumns

	args := pgx.NamedArgs{
		"user_id":        b.UserID,
		"flight_id":      b.FlightID,
		"origin":         b.Origin,
		"destination":    b.Destination,
		"departure_date": b.DepartureDate,
		"return_date":    b.ReturnDate,
		"airline":        b.Airline,
		"flight_number":  b.FlightNumber,
		"passengers":     b.Passengers,
		"price":          b.Price,
		"status":         string(b.Status),
		"booking_date":   b.BookingDate,
	}

	result, err := scanFlightBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.FlightBooking{}, fmt.Errorf("repo.FlightBookingRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgFlightBookingRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.FlightBooking, error) {
	q := `SELECT ` + flightBookingColumns + ` FROM flight_bookings WHERE id = @id AND user_id = @user_id`

	result, err := scanFlightBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID}))
	if err != nil {
		return domain.FlightBooking{}, fmt.Errorf("repo.FlightBookingRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgFlightBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FlightBooking, error) {
	q := `SELECT ` + flightBookingColumns + ` FROM flight_bookings
		WHERE user_id = @user_id
		ORDER BY booking_date DESC, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.FlightBookingRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	out := []domain.FlightBooking{}
	for rows.Next() {
		b, err := scanFlightBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.FlightBookingRepo.ListByUser: scan: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.FlightBookingRepo.ListByUser: rows: %w", err)
	}
	return out, nil
}

func (r *pgFlightBookingRepo) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status domain.BookingStatus) (domain.FlightBooking, error) {
	q := `
		UPDATE flight_bookings SET status = @status, updated_at = now()
		WHERE id = @id AND user_id = @user_id
		RETURNING ` + flightBookingColumns

	args := pgx.NamedArgs{"id": id, "user_id": userID, "status": string(status)}
	result, err := scanFlightBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.FlightBooking{}, fmt.Errorf("repo.FlightBookingRepo.UpdateStatus: %w", err)
	}
	return result, nil
}

func (r *pgFlightBookingRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const q = `DELETE FROM flight_bookings WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.FlightBookingRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.FlightBookingRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanFlightBooking(s scanner) (domain.FlightBooking, error) {
	var (
		b             domain.FlightBooking
		id, userID    pgtype.UUID
		departureDate pgtype.Date
		returnDate    pgtype.Date
		status        string
	)
	err := s.Scan(&id, &userID, &b.FlightID, &b.Origin, &b.Destination,
		&departureDate, &returnDate, &b.Airline, &b.FlightNumber, &b.Passengers, &b.Price,
		&status, &b.BookingDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return domain.FlightBooking{}, mapNoRows(err)
	}
	b.ID = uuid.UUID(id.Bytes)
	b.UserID = uuid.UUID(userID.Bytes)
	b.DepartureDate = departureDate.Time
	b.ReturnDate = optionalDate(returnDate)
	b.Status = domain.BookingStatus(status)
	return b, nil
}

// --- hotel bookings ----------------------------------------------------------

type pgHotelBookingRepo struct {
	db db
}

// NewHotelBookingRepo constructs a HotelBookingRepo backed by the provided db connection.
func NewHotelBookingRepo(db db) HotelBookingRepo {
	return &pgHotelBookingRepo{db: db}
}

const hotelBookingColumns = `id, user_id, hotel_id, hotel_name, destination,
	check_in_date, check_out_date, price_per_night, guests, status, booking_date,
	created_at, updated_at`

func (r *pgHotelBookingRepo) Create(ctx context.Context, b domain.HotelBooking) (domain.HotelBooking, error) {
	q := `
		INSERT INTO hotel_bookings (user_id, hotel_id, hotel_name, destination,
			check_in_date, check_out_date, price_per_night, guests, status, booking_date)
		VALUES (@user_id, @hotel_id, @hotel_name, @destination,
			@check_in_date, @check_out_date, @price_per_night, @guests, @status, @booking_date)
		RETURNING ` + hotelBookingColumns

	args := pgx.NamedArgs{
		"user_id":         b.UserID,
		"hotel_id":        b.HotelID,
		"hotel_name":      b.HotelName,
		"destination":     b.Destination,
		"check_in_date":   b.CheckInDate,
		"check_out_date":  b.CheckOutDate,
		"price_per_night": b.PricePerNight,
		"guests":          b.Guests,
		"status":          string(b.Status),
		"booking_date":    b.BookingDate,
	}

	result, err := scanHotelBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.HotelBooking{}, fmt.Errorf("repo.HotelBookingRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgHotelBookingRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.HotelBooking, error) {
	q := `SELECT ` + hotelBookingColumns + ` FROM hotel_bookings WHERE id = @id AND user_id = @user_id`

	result, err := scanHotelBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID}))
	if err != nil {
		return domain.HotelBooking{}, fmt.Errorf("repo.HotelBookingRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgHotelBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.HotelBooking, error) {
	q := `SELECT ` + hotelBookingColumns + ` FROM hotel_bookings
		WHERE user_id = @user_id
		ORDER BY booking_date DESC, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.HotelBookingRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	out := []domain.HotelBooking{}
	for rows.Next() {
		b, err := scanHotelBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.HotelBookingRepo.ListByUser: scan: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.HotelBookingRepo.ListByUser: rows: %w", err)
	}
	return out, nil
}

func (r *pgHotelBookingRepo) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status domain.BookingStatus) (domain.HotelBooking, error) {
	q := `
		UPDATE hotel_bookings SET status = @status, updated_at = now()
		WHERE id = @id AND user_id = @user_id
		RETURNING ` + hotelBookingColumns

	args := pgx.NamedArgs{"id": id, "user_id": userID, "status": string(status)}
	result, err := scanHotelBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.HotelBooking{}, fmt.Errorf("repo.HotelBookingRepo.UpdateStatus: %w", err)
	}
	return result, nil
}

func (r *pgHotelBookingRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const q = `DELETE FROM hotel_bookings WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.HotelBookingRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.HotelBookingRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanHotelBooking(s scanner) (domain.HotelBooking, error) {
	var (
		b                 domain.HotelBooking
		id, userID        pgtype.UUID
		checkIn, checkOut pgtype.Date
		status            string
	)
	err := s.Scan(&id, &userID, &b.HotelID, &b.HotelName, &b.Destination,
		&checkIn, &checkOut, &b.PricePerNight, &b.Guests, &status, &b.BookingDate,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return domain.HotelBooking{}, mapNoRows(err)
	}
	b.ID = uuid.UUID(id.Bytes)
	b.UserID = uuid.UUID(userID.Bytes)
	b.CheckInDate = checkIn.Time
	b.CheckOutDate = checkOut.Time
	b.Status = domain.BookingStatus(status)
	return b, nil
}
