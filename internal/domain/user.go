package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that owns bookings, itineraries, and trips.
// The four id sets are lookup indexes maintained by the services whenever a
// dependent record is attached or detached; their order carries no meaning.
type User struct {
	ID               uuid.UUID
	Name             string
	Email            string
	PasswordHash     string
	FlightBookingIDs []uuid.UUID
	HotelBookingIDs  []uuid.UUID
	ItineraryIDs     []uuid.UUID
	TripIDs          []uuid.UUID
	RegisteredAt     time.Time
}

// RefKind names one of the id sets held on a User.
type RefKind string

const (
	RefFlightBooking RefKind = "flight_booking_ids"
	RefHotelBooking  RefKind = "hotel_booking_ids"
	RefItinerary     RefKind = "itinerary_ids"
	RefTrip          RefKind = "trip_ids"
)

// Valid reports whether k is one of the known id sets.
func (k RefKind) Valid() bool {
	switch k {
	case RefFlightBooking, RefHotelBooking, RefItinerary, RefTrip:
		return true
	}
	return false
}

// Refs returns the id set for k.
func (u User) Refs(k RefKind) []uuid.UUID {
	switch k {
	case RefFlightBooking:
		return u.FlightBookingIDs
	case RefHotelBooking:
		return u.HotelBookingIDs
	case RefItinerary:
		return u.ItineraryIDs
	case RefTrip:
		return u.TripIDs
	}
	return nil
}
