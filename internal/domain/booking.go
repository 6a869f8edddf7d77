package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state shared by flight and hotel bookings.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingPending   BookingStatus = "pending"
	BookingCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingConfirmed, BookingPending, BookingCancelled:
		return true
	}
	return false
}

// FlightBooking is a reserved seat (or seats) on a catalog flight.
// ReturnDate is nil for one-way bookings.
type FlightBooking struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	FlightID      string
	Origin        string
	Destination   string
	DepartureDate time.Time
	ReturnDate    *time.Time
	Airline       string
	FlightNumber  string
	Passengers    int
	Price         int
	Status        BookingStatus
	BookingDate   time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate enforces the FlightBooking invariants.
func (b FlightBooking) Validate() error {
	if strings.TrimSpace(b.Origin) == "" || strings.TrimSpace(b.Destination) == "" {
		return fmt.Errorf("%w: origin and destination are required", ErrValidation)
	}
	if b.DepartureDate.IsZero() {
		return fmt.Errorf("%w: departure_date is required", ErrValidation)
	}
	if b.ReturnDate != nil && !b.ReturnDate.After(b.DepartureDate) {
		return fmt.Errorf("%w: return_date must be after departure_date", ErrValidation)
	}
	if b.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if !b.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, b.Status)
	}
	return nil
}

// HotelBooking is a room reservation at a catalog hotel.
type HotelBooking struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	HotelID       string
	HotelName     string
	Destination   string
	CheckInDate   time.Time
	CheckOutDate  time.Time
	PricePerNight int
	Guests        int
	Status        BookingStatus
	BookingDate   time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate enforces the HotelBooking invariants.
func (b HotelBooking) Validate() error {
	if strings.TrimSpace(b.HotelName) == "" {
		return fmt.Errorf("%w: hotel_name is required", ErrValidation)
	}
	if strings.TrimSpace(b.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrValidation)
	}
	if b.CheckInDate.IsZero() || b.CheckOutDate.IsZero() {
		return fmt.Errorf("%w: check_in_date and check_out_date are required", ErrValidation)
	}
	if !b.CheckOutDate.After(b.CheckInDate) {
		return fmt.Errorf("%w: check_out_date must be after check_in_date", ErrValidation)
	}
	if b.Guests < 1 {
		return fmt.Errorf("%w: guests must be at least 1", ErrValidation)
	}
	if b.PricePerNight < 0 {
		return fmt.Errorf("%w: price_per_night must not be negative", ErrValidation)
	}
	if !b.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, b.Status)
	}
	return nil
}
