// Package events publishes domain events about trips and bookings to a
// message broker. Publishing happens after the store write it describes has
// succeeded; callers log publish failures and never return them.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TripCreated            = "trip.created"
	TripFinalized          = "trip.finalized"
	TripUpdated            = "trip.updated"
	TripDeleted            = "trip.deleted"
	FlightBookingConfirmed = "booking.flight.confirmed"
	HotelBookingConfirmed  = "booking.hotel.confirmed"
)

// Event is one domain event. Payload is marshalled as JSON.
type Event struct {
	Type       string    `json:"type"`
	UserID     uuid.UUID `json:"user_id"`
	EntityID   uuid.UUID `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// New builds an Event stamped with at in UTC.
func New(typ string, userID, entityID uuid.UUID, at time.Time, payload any) Event {
	return Event{Type: typ, UserID: userID, EntityID: entityID, OccurredAt: at.UTC(), Payload: payload}
}

// Encode returns the wire form of e.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}
