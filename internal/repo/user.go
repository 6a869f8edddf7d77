package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/voyage-planner/voyage/internal/domain"
)

// UserRepo defines the persistence operations for Users and their id indexes.
type UserRepo interface {
	// Create inserts a new user. Returns domain.ErrConflict if the email is
	// already registered (compared case-insensitively).
	Create(ctx context.Context, user domain.User) (domain.User, error)

	// GetByID returns domain.ErrNotFound if no such user exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// GetByEmail looks a user up case-insensitively.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// AddRef adds ref to the user's id set of the given kind.
	// Adding an id that is already present is a no-op.
	AddRef(ctx context.Context, userID uuid.UUID, kind domain.RefKind, ref uuid.UUID) error

	// RemoveRef removes ref from the user's id set of the given kind.
	// Removing an absent id is a no-op.
	RemoveRef(ctx context.Context, userID uuid.UUID, kind domain.RefKind, ref uuid.UUID) error
}

type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userColumns = `id, name, email, password_hash,
	flight_booking_ids, hotel_booking_ids, itinerary_ids, trip_ids, registered_at`

func (r *pgUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	q := `
		INSERT INTO users (name, email, password_hash)
		VALUES (@name, @email, @password_hash)
		RETURNING ` + userColumns

	args := pgx.NamedArgs{
		"name":          user.Name,
		"email":         strings.ToLower(strings.TrimSpace(user.Email)),
		"password_hash": user.PasswordHash,
	}

	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w: email already registered", domain.ErrConflict)
		}
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = @id`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower(@email)`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": strings.TrimSpace(email)}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", err)
	}
	return result, nil
}

// AddRef appends ref unless the array already holds it. The column name comes
// from the closed RefKind set, never from caller input.
func (r *pgUserRepo) AddRef(ctx context.Context, userID uuid.UUID, kind domain.RefKind, ref uuid.UUID) error {
	if !kind.Valid() {
		return fmt.Errorf("repo.UserRepo.AddRef: unknown ref kind %q", kind)
	}
	col := string(kind)
	q := fmt.Sprintf(`
		UPDATE users
		SET %[1]s = CASE WHEN @ref = ANY(%[1]s) THEN %[1]s ELSE array_append(%[1]s, @ref) END
		WHERE id = @id`, col)

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": userID, "ref": ref})
	if err != nil {
		return fmt.Errorf("repo.UserRepo.AddRef: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.UserRepo.AddRef: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgUserRepo) RemoveRef(ctx context.Context, userID uuid.UUID, kind domain.RefKind, ref uuid.UUID) error {
	if !kind.Valid() {
		return fmt.Errorf("repo.UserRepo.RemoveRef: unknown ref kind %q", kind)
	}
	q := fmt.Sprintf(`UPDATE users SET %[1]s = array_remove(%[1]s, @ref) WHERE id = @id`, string(kind))

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": userID, "ref": ref})
	if err != nil {
		return fmt.Errorf("repo.UserRepo.RemoveRef: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.UserRepo.RemoveRef: %w", domain.ErrNotFound)
	}
	return nil
}

func scanUser(s scanner) (domain.User, error) {
	var (
		u                                   domain.User
		id                                  pgtype.UUID
		flights, hotels, itineraries, trips []pgtype.UUID
	)
	err := s.Scan(&id, &u.Name, &u.Email, &u.PasswordHash,
		&flights, &hotels, &itineraries, &trips, &u.RegisteredAt)
	if err != nil {
		return domain.User{}, mapNoRows(err)
	}
	u.ID = uuid.UUID(id.Bytes)
	u.FlightBookingIDs = uuidSlice(flights)
	u.HotelBookingIDs = uuidSlice(hotels)
	u.ItineraryIDs = uuidSlice(itineraries)
	u.TripIDs = uuidSlice(trips)
	return u, nil
}
