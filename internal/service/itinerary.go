package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voyage-planner/voyage/internal/catalog"
	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/planner"
)

// ItineraryService generates activity plans and manages saved itineraries.
type ItineraryService struct {
	repos     Repos
	generator *planner.Generator
	opts      Options
}

// NewItineraryService constructs an ItineraryService.
func NewItineraryService(r Repos, g *planner.Generator, opts Options) *ItineraryService {
	return &ItineraryService{repos: r, generator: g, opts: opts.withDefaults()}
}

// GeneratedItinerary is an unsaved plan with destination tips.
type GeneratedItinerary struct {
	Destination     string
	StartDate       time.Time
	EndDate         time.Time
	Days            []domain.Day
	Recommendations planner.Recommendation
	TotalDays       int
	GeneratedAt     time.Time
}

// SaveItineraryInput is a plan to persist. Title defaults to
// "Trip to <destination>".
type SaveItineraryInput struct {
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Days        []domain.Day
	Title       string
	Notes       string
}

// ItineraryPatch is a partial update. Nil fields are left unchanged.
type ItineraryPatch struct {
	Days  *[]domain.Day
	Title *string
	Notes *string
}

// Generate builds a fresh plan for destination. Nothing is persisted.
func (s *ItineraryService) Generate(destination string, start, end time.Time) (GeneratedItinerary, error) {
	const op = "service.ItineraryService.Generate"

	dest := catalog.NormalizeLocation(destination)
	if dest == "" {
		return GeneratedItinerary{}, fmt.Errorf("%s: %w: destination is required", op, domain.ErrValidation)
	}
	if start.IsZero() || end.IsZero() {
		return GeneratedItinerary{}, fmt.Errorf("%s: %w: start_date and end_date are required", op, domain.ErrValidation)
	}
	if !end.After(start) {
		return GeneratedItinerary{}, fmt.Errorf("%s: %w: end_date must be after start_date", op, domain.ErrValidation)
	}
	if days := int(domain.CalendarDate(end).Sub(domain.CalendarDate(start)).Hours()/24) + 1; days > planner.MaxDays {
		return GeneratedItinerary{}, fmt.Errorf("%s: %w: plans are limited to %d days", op, domain.ErrValidation, planner.MaxDays)
	}

	days := s.generator.Generate(dest, start, end)
	return GeneratedItinerary{
		Destination:     dest,
		StartDate:       domain.CalendarDate(start),
		EndDate:         domain.CalendarDate(end),
		Days:            days,
		Recommendations: planner.RecommendationsFor(dest),
		TotalDays:       len(days),
		GeneratedAt:     s.opts.Now().UTC(),
	}, nil
}

// Recommendations returns the static tips for destination.
func (s *ItineraryService) Recommendations(destination string) planner.Recommendation {
	return planner.RecommendationsFor(catalog.NormalizeLocation(destination))
}

// Save validates and persists an itinerary and records it on the user's index.
func (s *ItineraryService) Save(ctx context.Context, userID uuid.UUID, in SaveItineraryInput) (domain.Itinerary, error) {
	const op = "service.ItineraryService.Save"

	dest := catalog.NormalizeLocation(in.Destination)
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Trip to " + dest
	}
	it := domain.Itinerary{
		UserID:      userID,
		Destination: dest,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Days:        in.Days,
		Title:       title,
		Notes:       in.Notes,
		GeneratedAt: s.opts.Now().UTC(),
	}
	if err := it.Validate(); err != nil {
		return domain.Itinerary{}, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := s.repos.Itineraries.Create(ctx, it)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repos.Users.AddRef(ctx, userID, domain.RefItinerary, saved.ID); err != nil {
		return domain.Itinerary{}, s.opts.rollback(ctx, op, err,
			compensation{"itinerary", func(ctx context.Context) error {
				return s.repos.Itineraries.Delete(ctx, userID, saved.ID)
			}})
	}
	return saved, nil
}

// List returns the user's itineraries, newest first.
func (s *ItineraryService) List(ctx context.Context, userID uuid.UUID) ([]domain.Itinerary, error) {
	list, err := s.repos.Itineraries.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.List: %w", err)
	}
	if list == nil {
		list = []domain.Itinerary{}
	}
	return list, nil
}

// GetByID returns one itinerary owned by userID.
func (s *ItineraryService) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Itinerary, error) {
	it, err := s.repos.Itineraries.GetByID(ctx, userID, id)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.GetByID: %w", err)
	}
	return it, nil
}

// Update applies patch and re-validates the day invariants.
func (s *ItineraryService) Update(ctx context.Context, userID, id uuid.UUID, patch ItineraryPatch) (domain.Itinerary, error) {
	const op = "service.ItineraryService.Update"

	it, err := s.repos.Itineraries.GetByID(ctx, userID, id)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("%s: %w", op, err)
	}
	if patch.Days != nil {
		it.Days = *patch.Days
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return domain.Itinerary{}, fmt.Errorf("%s: %w: title cannot be empty", op, domain.ErrValidation)
		}
		it.Title = title
	}
	if patch.Notes != nil {
		it.Notes = *patch.Notes
	}
	if err := it.Validate(); err != nil {
		return domain.Itinerary{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.repos.Itineraries.Update(ctx, it)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// Delete removes the itinerary and its entry in the user's index. A trip that
// links to it keeps a dangling reference.
func (s *ItineraryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repos.Itineraries.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("service.ItineraryService.Delete: %w", err)
	}
	if err := s.repos.Users.RemoveRef(ctx, userID, domain.RefItinerary, id); err != nil {
		return fmt.Errorf("service.ItineraryService.Delete: %w", err)
	}
	return nil
}
