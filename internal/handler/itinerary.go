package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/service"
)

// Activity is one planned stop of a day.
type Activity struct {
	Name        string `json:"name"`
	Time        string `json:"time,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Day is one calendar date of a plan.
type Day struct {
	Date       openapi_types.Date `json:"date"`
	Activities []Activity         `json:"activities"`
}

// GenerateItineraryRequest is the body of POST /itineraries/generate.
type GenerateItineraryRequest struct {
	Destination string              `json:"destination" validate:"required"`
	StartDate   *openapi_types.Date `json:"start_date" validate:"required"`
	EndDate     *openapi_types.Date `json:"end_date" validate:"required"`
}

// GeneratedItinerary is the body of a successful POST /itineraries/generate.
type GeneratedItinerary struct {
	Destination     string             `json:"destination"`
	StartDate       openapi_types.Date `json:"start_date"`
	EndDate         openapi_types.Date `json:"end_date"`
	Days            []Day              `json:"days"`
	Recommendations Recommendations    `json:"recommendations"`
	TotalDays       int                `json:"total_days"`
	GeneratedAt     time.Time          `json:"generated_at"`
}

// SaveItineraryRequest is the body of POST /itineraries.
type SaveItineraryRequest struct {
	Destination string              `json:"destination" validate:"required"`
	StartDate   *openapi_types.Date `json:"start_date" validate:"required"`
	EndDate     *openapi_types.Date `json:"end_date" validate:"required"`
	Days        []Day               `json:"days"`
	Title       string              `json:"title"`
	Notes       string              `json:"notes"`
}

// UpdateItineraryRequest is the body of PUT /itineraries/{id}. Omitted
// fields are left unchanged.
type UpdateItineraryRequest struct {
	Days  *[]Day  `json:"days"`
	Title *string `json:"title"`
	Notes *string `json:"notes"`
}

// Itinerary is the response shape of a saved itinerary.
type Itinerary struct {
	ID          uuid.UUID          `json:"id"`
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Days        []Day              `json:"days"`
	Title       string             `json:"title"`
	Notes       string             `json:"notes,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// GenerateItinerary handles POST /itineraries/generate. Nothing is saved.
func (s *Server) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	var req GenerateItineraryRequest
	if !s.decode(w, r, &req) {
		return
	}
	gen, err := s.itineraries.Generate(req.Destination, req.StartDate.Time, req.EndDate.Time)
	if err != nil {
		s.serviceError(w, r, "itinerary", err)
		return
	}
	writeJSON(w, http.StatusOK, GeneratedItinerary{
		Destination: gen.Destination,
		StartDate:   openapi_types.Date{Time: gen.StartDate},
		EndDate:     openapi_types.Date{Time: gen.EndDate},
		Days:        daysToResponse(gen.Days),
		Recommendations: Recommendations{
			Destination:         gen.Destination,
			TouristDestinations: nonNil(gen.Recommendations.TouristDestinations),
			FastestRoute:        gen.Recommendations.FastestRoute,
			LocalTips:           nonNil(gen.Recommendations.LocalTips),
		},
		TotalDays:   gen.TotalDays,
		GeneratedAt: gen.GeneratedAt,
	})
}

// SaveItinerary handles POST /itineraries.
func (s *Server) SaveItinerary(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req SaveItineraryRequest
	if !s.decode(w, r, &req) {
		return
	}
	it, err := s.itineraries.Save(r.Context(), uid, service.SaveItineraryInput{
		Destination: req.Destination,
		StartDate:   req.StartDate.Time,
		EndDate:     req.EndDate.Time,
		Days:        daysFromRequest(req.Days),
		Title:       req.Title,
		Notes:       req.Notes,
	})
	if err != nil {
		s.serviceError(w, r, "itinerary", err)
		return
	}
	writeJSON(w, http.StatusCreated, itineraryToResponse(it))
}

// ListItineraries handles GET /itineraries.
func (s *Server) ListItineraries(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	list, err := s.itineraries.List(r.Context(), uid)
	if err != nil {
		s.serviceError(w, r, "itinerary", err)
		return
	}
	out := make([]Itinerary, len(list))
	for i, it := range list {
		out[i] = itineraryToResponse(it)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetItinerary handles GET /itineraries/{id}.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "itinerary")
	if !ok {
		return
	}
	it, err := s.itineraries.GetByID(r.Context(), uid, id)
	if err != nil {
		s.serviceError(w, r, "itinerary", err)
		return
	}
	writeJSON(w, http.StatusOK, itineraryToResponse(it))
}

// UpdateItinerary handles PUT /itineraries/{id}.
func (s *Server) UpdateItinerary(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "itinerary")
	if !ok {
		return
	}
	var req UpdateItineraryRequest
	if !s.decode(w, r, &req) {
		return
	}
	patch := service.ItineraryPatch{Title: req.Title, Notes: req.Notes}
	if req.Days != nil {
		days := daysFromRequest(*req.Days)
		patch.Days = &days
	}
	it, err := s.itineraries.Update(r.Context(), uid, id, patch)
	if err != nil {
		s.serviceError(w, r, "itinerary", err)
		return
	}
	writeJSON(w, http.StatusOK, itineraryToResponse(it))
}

// DeleteItinerary handles DELETE /itineraries/{id}.
func (s *Server) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "itinerary")
	if !ok {
		return
	}
	if err := s.itineraries.Delete(r.Context(), uid, id); err != nil {
		s.serviceError(w, r, "itinerary", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

func daysFromRequest(days []Day) []domain.Day {
	out := make([]domain.Day, len(days))
	for i, d := range days {
		acts := make([]domain.Activity, len(d.Activities))
		for j, a := range d.Activities {
			acts[j] = domain.Activity{Name: a.Name, Time: a.Time, Description: a.Description, Location: a.Location}
		}
		out[i] = domain.Day{Date: d.Date.Time, Activities: acts}
	}
	return out
}

func daysToResponse(days []domain.Day) []Day {
	out := make([]Day, len(days))
	for i, d := range days {
		acts := make([]Activity, len(d.Activities))
		for j, a := range d.Activities {
			acts[j] = Activity{Name: a.Name, Time: a.Time, Description: a.Description, Location: a.Location}
		}
		out[i] = Day{Date: openapi_types.Date{Time: d.Date}, Activities: acts}
	}
	return out
}

func itineraryToResponse(it domain.Itinerary) Itinerary {
	return Itinerary{
		ID:          it.ID,
		Destination: it.Destination,
		StartDate:   openapi_types.Date{Time: it.StartDate},
		EndDate:     openapi_types.Date{Time: it.EndDate},
		Days:        daysToResponse(it.Days),
		Title:       it.Title,
		Notes:       it.Notes,
		GeneratedAt: it.GeneratedAt,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}
