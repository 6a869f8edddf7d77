package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/service"
)

// FlightBookingRequest is the body of POST /bookings/flights.
// Omitted dates fall back to the catalog flight's dates.
type FlightBookingRequest struct {
	FlightID      string              `json:"flight_id" validate:"required"`
	Passengers    int                 `json:"passengers" validate:"omitempty,min=1"`
	DepartureDate *openapi_types.Date `json:"departure_date"`
	ReturnDate    *openapi_types.Date `json:"return_date"`
}

// HotelBookingRequest is the body of POST /bookings/hotels.
type HotelBookingRequest struct {
	HotelID      string              `json:"hotel_id" validate:"required"`
	CheckInDate  *openapi_types.Date `json:"check_in_date" validate:"required"`
	CheckOutDate *openapi_types.Date `json:"check_out_date" validate:"required"`
	Guests       int                 `json:"guests" validate:"omitempty,min=1"`
}

// FlightBooking is the response shape of a flight booking.
type FlightBooking struct {
	ID            uuid.UUID           `json:"id"`
	FlightID      string              `json:"flight_id"`
	Origin        string              `json:"origin"`
	Destination   string              `json:"destination"`
	DepartureDate openapi_types.Date  `json:"departure_date"`
	ReturnDate    *openapi_types.Date `json:"return_date,omitempty"`
	Airline       string              `json:"airline"`
	FlightNumber  string              `json:"flight_number"`
	Passengers    int                 `json:"passengers"`
	Price         int                 `json:"price"`
	Status        string              `json:"status"`
	BookingDate   time.Time           `json:"booking_date"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// HotelBooking is the response shape of a hotel booking.
type HotelBooking struct {
	ID            uuid.UUID          `json:"id"`
	HotelID       string             `json:"hotel_id"`
	HotelName     string             `json:"hotel_name"`
	Destination   string             `json:"destination"`
	CheckInDate   openapi_types.Date `json:"check_in_date"`
	CheckOutDate  openapi_types.Date `json:"check_out_date"`
	PricePerNight int                `json:"price_per_night"`
	Guests        int                `json:"guests"`
	Status        string             `json:"status"`
	BookingDate   time.Time          `json:"booking_date"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// FlightBookingResponse is the body of a successful POST /bookings/flights.
type FlightBookingResponse struct {
	Booking FlightBooking `json:"booking"`
	Pricing FlightQuote   `json:"pricing"`
}

// HotelBookingResponse is the body of a successful POST /bookings/hotels.
type HotelBookingResponse struct {
	Booking HotelBooking `json:"booking"`
	Pricing HotelQuote   `json:"pricing"`
}

// BookFlight handles POST /bookings/flights.
func (s *Server) BookFlight(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req FlightBookingRequest
	if !s.decode(w, r, &req) {
		return
	}

	b, quote, err := s.bookings.BookFlight(r.Context(), uid, service.FlightBookingInput{
		FlightID:      req.FlightID,
		Passengers:    req.Passengers,
		DepartureDate: dateTime(req.DepartureDate),
		ReturnDate:    dateTime(req.ReturnDate),
	})
	if err != nil {
		s.serviceError(w, r, "flight", err)
		return
	}
	pricing := flightQuoteToResponse(quote)
	pricing.FlightID = b.FlightID
	writeJSON(w, http.StatusCreated, FlightBookingResponse{Booking: flightBookingToResponse(b), Pricing: pricing})
}

// BookHotel handles POST /bookings/hotels.
func (s *Server) BookHotel(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req HotelBookingRequest
	if !s.decode(w, r, &req) {
		return
	}

	b, quote, err := s.bookings.BookHotel(r.Context(), uid, service.HotelBookingInput{
		HotelID:      req.HotelID,
		CheckInDate:  req.CheckInDate.Time,
		CheckOutDate: req.CheckOutDate.Time,
		Guests:       req.Guests,
	})
	if err != nil {
		s.serviceError(w, r, "hotel", err)
		return
	}
	pricing := hotelQuoteToResponse(quote)
	pricing.HotelID = b.HotelID
	writeJSON(w, http.StatusCreated, HotelBookingResponse{Booking: hotelBookingToResponse(b), Pricing: pricing})
}

// ListFlightBookings handles GET /bookings/flights.
func (s *Server) ListFlightBookings(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	list, err := s.bookings.ListFlightBookings(r.Context(), uid)
	if err != nil {
		s.serviceError(w, r, "flight booking", err)
		return
	}
	out := make([]FlightBooking, len(list))
	for i, b := range list {
		out[i] = flightBookingToResponse(b)
	}
	writeJSON(w, http.StatusOK, out)
}

// ListHotelBookings handles GET /bookings/hotels.
func (s *Server) ListHotelBookings(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	list, err := s.bookings.ListHotelBookings(r.Context(), uid)
	if err != nil {
		s.serviceError(w, r, "hotel booking", err)
		return
	}
	out := make([]HotelBooking, len(list))
	for i, b := range list {
		out[i] = hotelBookingToResponse(b)
	}
	writeJSON(w, http.StatusOK, out)
}

// CancelFlightBooking handles POST /bookings/flights/{id}/cancel.
func (s *Server) CancelFlightBooking(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "flight booking")
	if !ok {
		return
	}
	b, err := s.bookings.CancelFlightBooking(r.Context(), uid, id)
	if err != nil {
		s.serviceError(w, r, "flight booking", err)
		return
	}
	writeJSON(w, http.StatusOK, flightBookingToResponse(b))
}

// CancelHotelBooking handles POST /bookings/hotels/{id}/cancel.
func (s *Server) CancelHotelBooking(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "hotel booking")
	if !ok {
		return
	}
	b, err := s.bookings.CancelHotelBooking(r.Context(), uid, id)
	if err != nil {
		s.serviceError(w, r, "hotel booking", err)
		return
	}
	writeJSON(w, http.StatusOK, hotelBookingToResponse(b))
}

// --- mapping helpers --------------------------------------------------------

func flightBookingToResponse(b domain.FlightBooking) FlightBooking {
	return FlightBooking{
		ID:            b.ID,
		FlightID:      b.FlightID,
		Origin:        b.Origin,
		Destination:   b.Destination,
		DepartureDate: openapi_types.Date{Time: b.DepartureDate},
		ReturnDate:    optionalDate(b.ReturnDate),
		Airline:       b.Airline,
		FlightNumber:  b.FlightNumber,
		Passengers:    b.Passengers,
		Price:         b.Price,
		Status:        string(b.Status),
		BookingDate:   b.BookingDate,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func hotelBookingToResponse(b domain.HotelBooking) HotelBooking {
	return HotelBooking{
		ID:            b.ID,
		HotelID:       b.HotelID,
		HotelName:     b.HotelName,
		Destination:   b.Destination,
		CheckInDate:   openapi_types.Date{Time: b.CheckInDate},
		CheckOutDate:  openapi_types.Date{Time: b.CheckOutDate},
		PricePerNight: b.PricePerNight,
		Guests:        b.Guests,
		Status:        string(b.Status),
		BookingDate:   b.BookingDate,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// dateTime converts an optional wire date to a UTC midnight timestamp.
func dateTime(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
