package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-planner/voyage/internal/catalog"
	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/handler"
	"github.com/voyage-planner/voyage/internal/service"
)

func bookingsHandler(m *mockBookingServicer) http.Handler {
	return newHTTPHandler(handler.Services{Bookings: m})
}

func flightBookingFixture() domain.FlightBooking {
	ret := day(2025, 11, 7)
	return domain.FlightBooking{
		ID: uuid.New(), UserID: testUserID, FlightID: "f5", Origin: "NYC", Destination: "PAR",
		DepartureDate: day(2025, 11, 1), ReturnDate: &ret, Airline: "GlobalAir", FlightNumber: "GA901",
		Passengers: 2, Price: 1610, Status: domain.BookingConfirmed, BookingDate: time.Now().UTC(),
	}
}

func hotelBookingFixture() domain.HotelBooking {
	return domain.HotelBooking{
		ID: uuid.New(), UserID: testUserID, HotelID: "h5", HotelName: "Parisian Charm Hotel", Destination: "PAR",
		CheckInDate: day(2025, 11, 1), CheckOutDate: day(2025, 11, 7), PricePerNight: 300, Guests: 2,
		Status: domain.BookingConfirmed, BookingDate: time.Now().UTC(),
	}
}

func TestBookFlight_201(t *testing.T) {
	fixture := flightBookingFixture()
	var got service.FlightBookingInput
	svc := &mockBookingServicer{
		bookFlight: func(_ context.Context, userID uuid.UUID, in service.FlightBookingInput) (domain.FlightBooking, catalog.FlightQuote, error) {
			assert.Equal(t, testUserID, userID)
			got = in
			return fixture, catalog.QuoteFlight(700, 2), nil
		},
	}

	rec := do(t, bookingsHandler(svc), http.MethodPost, "/bookings/flights", map[string]any{
		"flight_id":      "f5",
		"passengers":     2,
		"departure_date": "2025-11-01",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "f5", got.FlightID)
	assert.Equal(t, 2, got.Passengers)
	require.NotNil(t, got.DepartureDate)
	assert.Equal(t, day(2025, 11, 1), *got.DepartureDate)
	assert.Nil(t, got.ReturnDate)

	var resp handler.FlightBookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.Booking.ID)
	assert.Equal(t, "confirmed", resp.Booking.Status)
	assert.Equal(t, 1610, resp.Pricing.FinalPrice)
	assert.Equal(t, "f5", resp.Pricing.FlightID)
}

func TestBookFlight_422_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"missing flight", map[string]any{"passengers": 1}, "flight_id is required"},
		{"negative passengers", map[string]any{"flight_id": "f1", "passengers": -1}, "passengers must be at least 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, bookingsHandler(&mockBookingServicer{}), http.MethodPost, "/bookings/flights", tc.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, tc.want, decodeError(t, rec).Message)
		})
	}
}

func TestBookFlight_404_UnknownFlight(t *testing.T) {
	svc := &mockBookingServicer{
		bookFlight: func(context.Context, uuid.UUID, service.FlightBookingInput) (domain.FlightBooking, catalog.FlightQuote, error) {
			return domain.FlightBooking{}, catalog.FlightQuote{}, fmt.Errorf("service.BookingService.BookFlight: flight %q: %w", "f99", domain.ErrNotFound)
		},
	}

	rec := do(t, bookingsHandler(svc), http.MethodPost, "/bookings/flights", map[string]any{"flight_id": "f99"})

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "flight not found or unauthorized", decodeError(t, rec).Message)
}

func TestBookHotel_201(t *testing.T) {
	fixture := hotelBookingFixture()
	var got service.HotelBookingInput
	svc := &mockBookingServicer{
		bookHotel: func(_ context.Context, _ uuid.UUID, in service.HotelBookingInput) (domain.HotelBooking, catalog.HotelQuote, error) {
			got = in
			return fixture, catalog.QuoteHotel(300, in.CheckInDate, in.CheckOutDate, in.Guests), nil
		},
	}

	rec := do(t, bookingsHandler(svc), http.MethodPost, "/bookings/hotels", map[string]any{
		"hotel_id":       "h5",
		"check_in_date":  "2025-11-01",
		"check_out_date": "2025-11-07",
		"guests":         2,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, day(2025, 11, 7), got.CheckOutDate)
	var resp handler.HotelBookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Parisian Charm Hotel", resp.Booking.HotelName)
	assert.Equal(t, 6, resp.Pricing.Nights)
	assert.Equal(t, 2041, resp.Pricing.TotalPrice)
}

func TestBookHotel_422_MissingDates(t *testing.T) {
	rec := do(t, bookingsHandler(&mockBookingServicer{}), http.MethodPost, "/bookings/hotels", map[string]any{"hotel_id": "h5"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "check_in_date is required; check_out_date is required", decodeError(t, rec).Message)
}

func TestListFlightBookings_200(t *testing.T) {
	svc := &mockBookingServicer{
		listFlights: func(context.Context, uuid.UUID) ([]domain.FlightBooking, error) {
			return []domain.FlightBooking{flightBookingFixture(), flightBookingFixture()}, nil
		},
	}

	rec := do(t, bookingsHandler(svc), http.MethodGet, "/bookings/flights", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []handler.FlightBooking
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 2)
}

func TestListHotelBookings_200_Empty(t *testing.T) {
	svc := &mockBookingServicer{
		listHotels: func(context.Context, uuid.UUID) ([]domain.HotelBooking, error) {
			return []domain.HotelBooking{}, nil
		},
	}

	rec := do(t, bookingsHandler(svc), http.MethodGet, "/bookings/hotels", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCancelFlightBooking_200(t *testing.T) {
	fixture := flightBookingFixture()
	fixture.Status = domain.BookingCancelled
	svc := &mockBookingServicer{
		cancelFlight: func(_ context.Context, _ uuid.UUID, id uuid.UUID) (domain.FlightBooking, error) {
			assert.Equal(t, fixture.ID, id)
			return fixture, nil
		},
	}

	rec := do(t, bookingsHandler(svc), http.MethodPost, "/bookings/flights/"+fixture.ID.String()+"/cancel", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.FlightBooking
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "cancelled", resp.Status)
}

func TestCancelHotelBooking_404(t *testing.T) {
	svc := &mockBookingServicer{
		cancelHotel: func(context.Context, uuid.UUID, uuid.UUID) (domain.HotelBooking, error) {
			return domain.HotelBooking{}, fmt.Errorf("service.BookingService.CancelHotelBooking: %w", domain.ErrNotFound)
		},
	}

	rec := do(t, bookingsHandler(svc), http.MethodPost, "/bookings/hotels/"+uuid.NewString()+"/cancel", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "hotel booking not found or unauthorized", decodeError(t, rec).Message)
}
