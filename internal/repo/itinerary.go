package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/voyage-planner/voyage/internal/domain"
)

// ItineraryRepo defines the persistence operations for Itineraries.
// All single-record operations are scoped by userID to enforce ownership.
type ItineraryRepo interface {
	// Create inserts a new itinerary and returns the persisted record.
	Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)

	// GetByID returns domain.ErrNotFound if the itinerary does not exist for userID.
	GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Itinerary, error)

	// ListByUser returns the user's itineraries, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Itinerary, error)

	// Update overwrites title, notes, dates and days of an itinerary owned by it.UserID.
	Update(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)

	// Delete removes an itinerary. Returns domain.ErrNotFound if it does not exist for userID.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type pgItineraryRepo struct {
	db db
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided db connection.
func NewItineraryRepo(db db) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

// dayJSON and activityJSON are the jsonb shape of the days column.
type dayJSON struct {
	Date       string         `json:"date"`
	Activities []activityJSON `json:"activities"`
}

type activityJSON struct {
	Name        string `json:"name"`
	Time        string `json:"time,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

func marshalDays(days []domain.Day) ([]byte, error) {
	out := make([]dayJSON, len(days))
	for i, d := range days {
		acts := make([]activityJSON, len(d.Activities))
		for j, a := range d.Activities {
			acts[j] = activityJSON(a)
		}
		out[i] = dayJSON{Date: d.Date.Format(domain.DateLayout), Activities: acts}
	}
	return json.Marshal(out)
}

func unmarshalDays(raw []byte) ([]domain.Day, error) {
	var in []dayJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}
	days := make([]domain.Day, len(in))
	for i, d := range in {
		date, err := domain.ParseDate(d.Date)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", i, err)
		}
		acts := make([]domain.Activity, len(d.Activities))
		for j, a := range d.Activities {
			acts[j] = domain.Activity(a)
		}
		days[i] = domain.Day{Date: date, Activities: acts}
	}
	return days, nil
}

const itineraryColumns = `id, user_id, destination, start_date, end_date, days,
	title, notes, generated_at, created_at, updated_at`

func (r *pgItineraryRepo) Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	days, err := marshalDays(it.Days)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: marshal days: %w", err)
	}
	generatedAt := it.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	q := `
		INSERT INTO itineraries (user_id, destination, start_date, end_date, days, title, notes, generated_at)
		VALUES (@user_id, @destination, @start_date, @end_date, @days, @title, @notes, @generated_at)
		RETURNING ` + itineraryColumns

	args := pgx.NamedArgs{
		"user_id":      it.UserID,
		"destination":  it.Destination,
		"start_date":   it.StartDate,
		"end_date":     it.EndDate,
		"days":         days,
		"title":        it.Title,
		"notes":        it.Notes,
		"generated_at": generatedAt,
	}

	result, err := scanItinerary(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgItineraryRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Itinerary, error) {
	q := `SELECT ` + itineraryColumns + ` FROM itineraries WHERE id = @id AND user_id = @user_id`

	result, err := scanItinerary(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID}))
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgItineraryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Itinerary, error) {
	q := `SELECT ` + itineraryColumns + ` FROM itineraries
		WHERE user_id = @user_id
		ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	out := []domain.Itinerary{}
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ItineraryRepo.ListByUser: scan: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByUser: rows: %w", err)
	}
	return out, nil
}

func (r *pgItineraryRepo) Update(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	days, err := marshalDays(it.Days)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Update: marshal days: %w", err)
	}

	q := `
		UPDATE itineraries
		SET start_date = @start_date,
		    end_date   = @end_date,
		    days       = @days,
		    title      = @title,
		    notes      = @notes,
		    updated_at = now()
		WHERE id = @id AND user_id = @user_id
		RETURNING ` + itineraryColumns

	args := pgx.NamedArgs{
		"id":         it.ID,
		"user_id":    it.UserID,
		"start_date": it.StartDate,
		"end_date":   it.EndDate,
		"days":       days,
		"title":      it.Title,
		"notes":      it.Notes,
	}

	result, err := scanItinerary(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgItineraryRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const q = `DELETE FROM itineraries WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.ItineraryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItineraryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanItinerary(s scanner) (domain.Itinerary, error) {
	var (
		it                 domain.Itinerary
		id, userID         pgtype.UUID
		startDate, endDate pgtype.Date
		rawDays            []byte
	)
	err := s.Scan(&id, &userID, &it.Destination, &startDate, &endDate, &rawDays,
		&it.Title, &it.Notes, &it.GeneratedAt, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return domain.Itinerary{}, mapNoRows(err)
	}
	it.ID = uuid.UUID(id.Bytes)
	it.UserID = uuid.UUID(userID.Bytes)
	it.StartDate = startDate.Time
	it.EndDate = endDate.Time
	if it.Days, err = unmarshalDays(rawDays); err != nil {
		return domain.Itinerary{}, fmt.Errorf("decode days: %w", err)
	}
	return it, nil
}
