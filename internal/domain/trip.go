// Package domain contains the core data types for the trip planner.
// This package has no I/O and only depends on uuid; it is imported by every
// other internal package (catalog, planner, repo, service, handler).
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a Trip.
type TripStatus string

const (
	TripPlanning  TripStatus = "planning"
	TripConfirmed TripStatus = "confirmed"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

// Valid reports whether s is a known trip status.
func (s TripStatus) Valid() bool {
	switch s {
	case TripPlanning, TripConfirmed, TripCompleted, TripCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a trip in state s may move to next.
// Trips move forward along planning → confirmed → completed, or sideways to
// cancelled from any non-terminal state. Staying in place is always allowed.
func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case TripPlanning:
		return next == TripConfirmed || next == TripCompleted || next == TripCancelled
	case TripConfirmed:
		return next == TripCompleted || next == TripCancelled
	}
	return false
}

// Trip bundles an optional flight booking, hotel booking, and itinerary.
// The three ids are back-references for lookup, not ownership: they are
// validated when linked and may dangle afterwards.
type Trip struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Name            string
	Destination     string
	StartDate       time.Time
	EndDate         time.Time
	FlightBookingID *uuid.UUID
	HotelBookingID  *uuid.UUID
	ItineraryID     *uuid.UUID
	Status          TripStatus
	Budget          *float64
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate enforces the Trip invariants common to create and update.
func (t Trip) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(t.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrValidation)
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", ErrValidation)
	}
	if !t.EndDate.After(t.StartDate) {
		return fmt.Errorf("%w: end_date must be after start_date", ErrValidation)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, t.Status)
	}
	if t.Budget != nil && *t.Budget < 0 {
		return fmt.Errorf("%w: budget must not be negative", ErrValidation)
	}
	return nil
}

// TripDetails is a Trip with its linked records dereferenced.
// A link that no longer resolves is nil.
type TripDetails struct {
	Trip
	FlightBooking *FlightBooking
	HotelBooking  *HotelBooking
	Itinerary     *Itinerary
}

// TripFilter narrows a trip listing. Zero values match everything.
type TripFilter struct {
	Status TripStatus
}

// TripPatch is a partial update. Nil fields are left unchanged.
// ID and UserID exist only so that attempts to overwrite them can be
// detected and rejected. For the three links, uuid.Nil clears the link;
// ClearBudget removes the budget and cannot be combined with Budget.
type TripPatch struct {
	ID              *uuid.UUID
	UserID          *uuid.UUID
	Name            *string
	Destination     *string
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *TripStatus
	Budget          *float64
	ClearBudget     bool
	Notes           *string
	FlightBookingID *uuid.UUID
	HotelBookingID  *uuid.UUID
	ItineraryID     *uuid.UUID
}

// Apply returns t with the patch applied and re-validated.
func (p TripPatch) Apply(t Trip) (Trip, error) {
	if p.ID != nil || p.UserID != nil {
		return Trip{}, fmt.Errorf("%w: id and user_id cannot be changed", ErrValidation)
	}
	if p.Name != nil {
		t.Name = strings.TrimSpace(*p.Name)
	}
	if p.Destination != nil {
		t.Destination = NormalizeCode(*p.Destination)
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return Trip{}, fmt.Errorf("%w: unknown status %q", ErrValidation, *p.Status)
		}
		if !t.Status.CanTransitionTo(*p.Status) {
			return Trip{}, fmt.Errorf("%w: status cannot change from %s to %s", ErrValidation, t.Status, *p.Status)
		}
		t.Status = *p.Status
	}
	switch {
	case p.ClearBudget && p.Budget != nil:
		return Trip{}, fmt.Errorf("%w: budget and clear_budget cannot both be set", ErrValidation)
	case p.ClearBudget:
		t.Budget = nil
	case p.Budget != nil:
		b := *p.Budget
		t.Budget = &b
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	t.FlightBookingID = applyLink(t.FlightBookingID, p.FlightBookingID)
	t.HotelBookingID = applyLink(t.HotelBookingID, p.HotelBookingID)
	t.ItineraryID = applyLink(t.ItineraryID, p.ItineraryID)

	if err := t.Validate(); err != nil {
		return Trip{}, err
	}
	return t, nil
}

func applyLink(current, patch *uuid.UUID) *uuid.UUID {
	if patch == nil {
		return current
	}
	if *patch == uuid.Nil {
		return nil
	}
	id := *patch
	return &id
}
