package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/service"
)

// CreateTripRequest is the body of POST /trips.
type CreateTripRequest struct {
	Name            string              `json:"name" validate:"required"`
	Destination     string              `json:"destination" validate:"required"`
	StartDate       *openapi_types.Date `json:"start_date" validate:"required"`
	EndDate         *openapi_types.Date `json:"end_date" validate:"required"`
	FlightBookingID *uuid.UUID          `json:"flight_booking_id"`
	HotelBookingID  *uuid.UUID          `json:"hotel_booking_id"`
	ItineraryID     *uuid.UUID          `json:"itinerary_id"`
	Budget          *float64            `json:"budget"`
	Notes           string              `json:"notes"`
}

// FinalizeTripRequest is the body of POST /trips/finalize.
type FinalizeTripRequest struct {
	Destination     string              `json:"destination" validate:"required"`
	StartDate       *openapi_types.Date `json:"start_date" validate:"required"`
	EndDate         *openapi_types.Date `json:"end_date" validate:"required"`
	Days            []Day               `json:"days"`
	FlightBookingID *uuid.UUID          `json:"flight_booking_id"`
	HotelBookingID  *uuid.UUID          `json:"hotel_booking_id"`
	Name            string              `json:"name"`
	Budget          *float64            `json:"budget"`
	Notes           string              `json:"notes"`
}

// UpdateTripRequest is the body of PATCH /trips/{id}. Omitted fields are
// left unchanged; the nil UUID clears a link and clear_budget removes the
// budget. id and user_id are accepted only so that attempts to change them
// are rejected.
type UpdateTripRequest struct {
	ID              *uuid.UUID          `json:"id"`
	UserID          *uuid.UUID          `json:"user_id"`
	Name            *string             `json:"name"`
	Destination     *string             `json:"destination"`
	StartDate       *openapi_types.Date `json:"start_date"`
	EndDate         *openapi_types.Date `json:"end_date"`
	Status          *string             `json:"status" validate:"omitempty,oneof=planning confirmed completed cancelled"`
	Budget          *float64            `json:"budget"`
	ClearBudget     bool                `json:"clear_budget"`
	Notes           *string             `json:"notes"`
	FlightBookingID *uuid.UUID          `json:"flight_booking_id"`
	HotelBookingID  *uuid.UUID          `json:"hotel_booking_id"`
	ItineraryID     *uuid.UUID          `json:"itinerary_id"`
}

// Trip is the response shape of a trip.
type Trip struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	Destination     string             `json:"destination"`
	StartDate       openapi_types.Date `json:"start_date"`
	EndDate         openapi_types.Date `json:"end_date"`
	FlightBookingID *uuid.UUID         `json:"flight_booking_id,omitempty"`
	HotelBookingID  *uuid.UUID         `json:"hotel_booking_id,omitempty"`
	ItineraryID     *uuid.UUID         `json:"itinerary_id,omitempty"`
	Status          string             `json:"status"`
	Budget          *float64           `json:"budget,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// TripDetails is a trip with its linked records. A link that no longer
// resolves is omitted.
type TripDetails struct {
	Trip
	FlightBooking *FlightBooking `json:"flight_booking,omitempty"`
	HotelBooking  *HotelBooking  `json:"hotel_booking,omitempty"`
	Itinerary     *Itinerary     `json:"itinerary,omitempty"`
}

// FinalizedTrip is the body of a successful POST /trips/finalize.
type FinalizedTrip struct {
	Trip      Trip      `json:"trip"`
	Itinerary Itinerary `json:"itinerary"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// TripPage is the body of GET /trips.
type TripPage struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req CreateTripRequest
	if !s.decode(w, r, &req) {
		return
	}

	created, err := s.trips.Create(r.Context(), uid, requestToTrip(req))
	if err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// FinalizeTrip handles POST /trips/finalize.
// It saves the day plan as an itinerary and creates a confirmed trip linking it.
func (s *Server) FinalizeTrip(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req FinalizeTripRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.trips.Finalize(r.Context(), uid, service.FinalizeInput{
		Destination:     req.Destination,
		StartDate:       req.StartDate.Time,
		EndDate:         req.EndDate.Time,
		Days:            daysFromRequest(req.Days),
		FlightBookingID: req.FlightBookingID,
		HotelBookingID:  req.HotelBookingID,
		Name:            req.Name,
		Budget:          req.Budget,
		Notes:           req.Notes,
	})
	if err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusCreated, FinalizedTrip{
		Trip:      tripToResponse(res.Trip),
		Itinerary: itineraryToResponse(res.Itinerary),
	})
}

// ListTrips handles GET /trips.
// Supports ?status=, ?page= and ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	params := domain.NewPaginationParams(q.int("page"), q.int("limit"))
	filter := domain.TripFilter{Status: domain.TripStatus(q.str("status"))}
	if q.err != nil {
		requestError(w, q.err.Error())
		return
	}

	trips, total, err := s.trips.List(r.Context(), uid, filter, params)
	if err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, TripPage{
		Data: data,
		Pagination: Pagination{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      int(total),
			TotalPages: params.TotalPages(total),
		},
	})
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "trip")
	if !ok {
		return
	}
	d, err := s.trips.GetByID(r.Context(), uid, id)
	if err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, detailsToResponse(d))
}

// UpdateTrip handles PATCH /trips/{id}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "trip")
	if !ok {
		return
	}
	var req UpdateTripRequest
	if !s.decode(w, r, &req) {
		return
	}

	updated, err := s.trips.Update(r.Context(), uid, id, requestToPatch(req))
	if err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{id}.
// The trip's bookings and itinerary are deleted with it.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "trip")
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), uid, id); err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip converts a CreateTripRequest body into a domain.Trip.
func requestToTrip(req CreateTripRequest) domain.Trip {
	return domain.Trip{
		Name:            req.Name,
		Destination:     req.Destination,
		StartDate:       req.StartDate.Time,
		EndDate:         req.EndDate.Time,
		FlightBookingID: req.FlightBookingID,
		HotelBookingID:  req.HotelBookingID,
		ItineraryID:     req.ItineraryID,
		Budget:          req.Budget,
		Notes:           req.Notes,
	}
}

func requestToPatch(req UpdateTripRequest) domain.TripPatch {
	p := domain.TripPatch{
		ID:              req.ID,
		UserID:          req.UserID,
		Name:            req.Name,
		Destination:     req.Destination,
		StartDate:       dateTime(req.StartDate),
		EndDate:         dateTime(req.EndDate),
		Budget:          req.Budget,
		ClearBudget:     req.ClearBudget,
		Notes:           req.Notes,
		FlightBookingID: req.FlightBookingID,
		HotelBookingID:  req.HotelBookingID,
		ItineraryID:     req.ItineraryID,
	}
	if req.Status != nil {
		st := domain.TripStatus(*req.Status)
		p.Status = &st
	}
	return p
}

// tripToResponse converts a domain.Trip into its response shape.
func tripToResponse(t domain.Trip) Trip {
	return Trip{
		ID:              t.ID,
		Name:            t.Name,
		Destination:     t.Destination,
		StartDate:       openapi_types.Date{Time: t.StartDate},
		EndDate:         openapi_types.Date{Time: t.EndDate},
		FlightBookingID: t.FlightBookingID,
		HotelBookingID:  t.HotelBookingID,
		ItineraryID:     t.ItineraryID,
		Status:          string(t.Status),
		Budget:          t.Budget,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func detailsToResponse(d domain.TripDetails) TripDetails {
	resp := TripDetails{Trip: tripToResponse(d.Trip)}
	if d.FlightBooking != nil {
		fb := flightBookingToResponse(*d.FlightBooking)
		resp.FlightBooking = &fb
	}
	if d.HotelBooking != nil {
		hb := hotelBookingToResponse(*d.HotelBooking)
		resp.HotelBooking = &hb
	}
	if d.Itinerary != nil {
		it := itineraryToResponse(*d.Itinerary)
		resp.Itinerary = &it
	}
	return resp
}
