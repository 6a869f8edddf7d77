package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/handler"
	"github.com/voyage-planner/voyage/internal/service"
)

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		UserID:      testUserID,
		Name:        "Paris Getaway",
		Destination: "PAR",
		StartDate:   day(2025, 11, 1),
		EndDate:     day(2025, 11, 7),
		Status:      domain.TripPlanning,
		Notes:       "test notes",
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func tripsHandler(m *mockTripServicer) http.Handler {
	return newHTTPHandler(handler.Services{Trips: m})
}

// ---- POST /trips -----------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	fixture := tripFixture()
	var got domain.Trip
	svc := &mockTripServicer{
		create: func(_ context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
			assert.Equal(t, testUserID, userID)
			got = trip
			return fixture, nil
		},
	}
	hotel := uuid.New()

	rec := do(t, tripsHandler(svc), http.MethodPost, "/trips", map[string]any{
		"name":             "Paris Getaway",
		"destination":      "par",
		"start_date":       "2025-11-01",
		"end_date":         "2025-11-07",
		"hotel_booking_id": hotel,
		"budget":           1500.5,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "par", got.Destination)
	assert.Equal(t, day(2025, 11, 1), got.StartDate)
	require.NotNil(t, got.HotelBookingID)
	assert.Equal(t, hotel, *got.HotelBookingID)
	require.NotNil(t, got.Budget)
	assert.InDelta(t, 1500.5, *got.Budget, 0)

	var resp handler.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Equal(t, "PAR", resp.Destination)
	assert.Equal(t, "planning", resp.Status)
	assert.Equal(t, day(2025, 11, 7), resp.EndDate.Time)
}

func TestCreateTrip_422_MissingFields(t *testing.T) {
	svc := &mockTripServicer{
		create: func(context.Context, uuid.UUID, domain.Trip) (domain.Trip, error) {
			t.Fatal("service must not be called")
			return domain.Trip{}, nil
		},
	}

	rec := do(t, tripsHandler(svc), http.MethodPost, "/trips", map[string]any{"name": "x"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "validation_error", e.Code)
	assert.Contains(t, e.Message, "destination is required")
	assert.Contains(t, e.Message, "start_date is required")
}

func TestCreateTrip_422_MalformedDate(t *testing.T) {
	rec := do(t, tripsHandler(&mockTripServicer{}), http.MethodPost, "/trips", map[string]any{
		"name": "x", "destination": "PAR", "start_date": "01/11/2025", "end_date": "2025-11-07",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "malformed request body")
}

func TestCreateTrip_422_UnknownField(t *testing.T) {
	rec := do(t, tripsHandler(&mockTripServicer{}), http.MethodPost, "/trips", map[string]any{
		"name": "x", "destination": "PAR", "start_date": "2025-11-01", "end_date": "2025-11-07", "colour": "red",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateTrip_422_ServiceValidation(t *testing.T) {
	svc := &mockTripServicer{
		create: func(context.Context, uuid.UUID, domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: end_date must be after start_date", domain.ErrValidation)
		},
	}

	rec := do(t, tripsHandler(svc), http.MethodPost, "/trips", map[string]any{
		"name": "x", "destination": "PAR", "start_date": "2025-11-07", "end_date": "2025-11-01",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "end_date must be after start_date", decodeError(t, rec).Message)
}

func TestCreateTrip_422_EmptyBody(t *testing.T) {
	rec := do(t, tripsHandler(&mockTripServicer{}), http.MethodPost, "/trips", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "request body is required", decodeError(t, rec).Message)
}

func TestCreateTrip_401_WithoutIdentity(t *testing.T) {
	h := handler.NewServer(handler.Services{Trips: &mockTripServicer{}}, nil).Handler(handler.RouteOptions{})

	rec := do(t, h, http.MethodPost, "/trips", map[string]any{"name": "x"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec).Code)
}

// ---- POST /trips/finalize --------------------------------------------------

func TestFinalizeTrip_201(t *testing.T) {
	trip := tripFixture()
	trip.Status = domain.TripConfirmed
	itID := uuid.New()
	trip.ItineraryID = &itID

	var got service.FinalizeInput
	svc := &mockTripServicer{
		finalize: func(_ context.Context, _ uuid.UUID, in service.FinalizeInput) (service.FinalizedTrip, error) {
			got = in
			return service.FinalizedTrip{
				Trip: trip,
				Itinerary: domain.Itinerary{
					ID: itID, Destination: "PAR", StartDate: trip.StartDate, EndDate: trip.EndDate, Title: "PAR Itinerary",
					Days: []domain.Day{{Date: day(2025, 11, 1), Activities: []domain.Activity{{Name: "Louvre"}}}},
				},
			}, nil
		},
	}

	rec := do(t, tripsHandler(svc), http.MethodPost, "/trips/finalize", map[string]any{
		"destination": "par",
		"start_date":  "2025-11-01",
		"end_date":    "2025-11-07",
		"days": []map[string]any{
			{"date": "2025-11-01", "activities": []map[string]any{{"name": "Louvre", "time": "Morning"}}},
			{"date": "2025-11-02", "activities": []map[string]any{}},
		},
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, got.Days, 2)
	assert.Equal(t, day(2025, 11, 2), got.Days[1].Date)
	assert.Equal(t, "Morning", got.Days[0].Activities[0].Time)

	var resp handler.FinalizedTrip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "confirmed", resp.Trip.Status)
	assert.Equal(t, itID, *resp.Trip.ItineraryID)
	assert.Equal(t, "PAR Itinerary", resp.Itinerary.Title)
	require.Len(t, resp.Itinerary.Days, 1)
}

func TestFinalizeTrip_422_UnknownBooking(t *testing.T) {
	svc := &mockTripServicer{
		finalize: func(context.Context, uuid.UUID, service.FinalizeInput) (service.FinalizedTrip, error) {
			return service.FinalizedTrip{}, fmt.Errorf("service.TripService.Finalize: %w: hotel_booking_id x does not exist", domain.ErrValidation)
		},
	}

	rec := do(t, tripsHandler(svc), http.MethodPost, "/trips/finalize", map[string]any{
		"destination": "PAR", "start_date": "2025-11-01", "end_date": "2025-11-07", "hotel_booking_id": uuid.New(),
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "hotel_booking_id x does not exist", decodeError(t, rec).Message)
}

// ---- GET /trips ------------------------------------------------------------

func TestListTrips_200_WithPaginationAndFilter(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		list: func(_ context.Context, _ uuid.UUID, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
			assert.Equal(t, domain.TripConfirmed, f.Status)
			assert.Equal(t, 2, p.Page)
			assert.Equal(t, 100, p.Limit)
			return []domain.Trip{fixture}, 101, nil
		},
	}

	rec := do(t, tripsHandler(svc), http.MethodGet, "/trips?status=confirmed&page=2&limit=500", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.TripPage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, handler.Pagination{Page: 2, Limit: 100, Total: 101, TotalPages: 2}, resp.Pagination)
}

func TestListTrips_200_Empty(t *testing.T) {
	svc := &mockTripServicer{
		list: func(context.Context, uuid.UUID, domain.TripFilter, domain.PaginationParams) ([]domain.Trip, int64, error) {
			return []domain.Trip{}, 0, nil
		},
	}

	rec := do(t, tripsHandler(svc), http.MethodGet, "/trips", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[],"pagination":{"page":1,"limit":20,"total":0,"total_pages":0}}`, rec.Body.String())
}

func TestListTrips_422_BadPage(t *testing.T) {
	rec := do(t, tripsHandler(&mockTripServicer{}), http.MethodGet, "/trips?page=two", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "page must be an integer", decodeError(t, rec).Message)
}

// ---- GET /trips/{id} -------------------------------------------------------

func TestGetTrip_200_WithLinks(t *testing.T) {
	fixture := tripFixture()
	fb := domain.FlightBooking{ID: uuid.New(), FlightID: "f5", Origin: "NYC", Destination: "PAR", DepartureDate: day(2025, 11, 1), Status: domain.BookingConfirmed}
	fixture.FlightBookingID = &fb.ID
	hotelID := uuid.New()
	fixture.HotelBookingID = &hotelID

	svc := &mockTripServicer{
		getByID: func(_ context.Context, _ uuid.UUID, id uuid.UUID) (domain.TripDetails, error) {
			assert.Equal(t, fixture.ID, id)
			// The hotel link dangles and comes back nil.
			return domain.TripDetails{Trip: fixture, FlightBooking: &fb}, nil
		},
	}

	rec := do(t, tripsHandler(svc), http.MethodGet, "/trips/"+fixture.ID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID.String(), resp["id"])
	assert.Equal(t, hotelID.String(), resp["hotel_booking_id"])
	assert.NotContains(t, resp, "hotel_booking")
	assert.NotContains(t, resp, "itinerary")
	flight := resp["flight_booking"].(map[string]any)
	assert.Equal(t, "f5", flight["flight_id"])
	assert.Equal(t, "2025-11-01", flight["departure_date"])
}

func TestGetTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		getByID: func(context.Context, uuid.UUID, uuid.UUID) (domain.TripDetails, error) {
			return domain.TripDetails{}, fmt.Errorf("service.TripService.GetByID: %w", domain.ErrNotFound)
		},
	}

	rec := do(t, tripsHandler(svc), http.MethodGet, "/trips/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "not_found", e.Code)
	assert.Equal(t, "trip not found or unauthorized", e.Message)
}

func TestGetTrip_404_MalformedID(t *testing.T) {
	rec := do(t, tripsHandler(&mockTripServicer{}), http.MethodGet, "/trips/not-a-uuid", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTrip_500_StoreFailure(t *testing.T) {
	svc := &mockTripServicer{
		getByID: func(context.Context, uuid.UUID, uuid.UUID) (domain.TripDetails, error) {
			return domain.TripDetails{}, errors.New("connection reset by peer")
		},
	}

	rec := do(t, tripsHandler(svc), http.MethodGet, "/trips/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "internal_error", e.Code)
	assert.NotContains(t, e.Message, "connection reset")
}

// ---- PATCH /trips/{id} -----------------------------------------------------

func TestUpdateTrip_200(t *testing.T) {
	fixture := tripFixture()
	fixture.Status = domain.TripConfirmed
	var got domain.TripPatch
	svc := &mockTripServicer{
		update: func(_ context.Context, _ uuid.UUID, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
			assert.Equal(t, fixture.ID, id)
			got = patch
			return fixture, nil
		},
	}

	rec := do(t, tripsHandler(svc), http.MethodPatch, "/trips/"+fixture.ID.String(), map[string]any{
		"status":       "confirmed",
		"end_date":     "2025-11-08",
		"itinerary_id": uuid.Nil,
		"notes":        "",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Status)
	assert.Equal(t, domain.TripConfirmed, *got.Status)
	assert.Equal(t, day(2025, 11, 8), *got.EndDate)
	assert.Equal(t, uuid.Nil, *got.ItineraryID)
	assert.Equal(t, "", *got.Notes)
	assert.Nil(t, got.Name)
	assert.Nil(t, got.FlightBookingID)
}

func TestUpdateTrip_ClearBudget(t *testing.T) {
	var got domain.TripPatch
	svc := &mockTripServicer{
		update: func(_ context.Context, _ uuid.UUID, _ uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
			got = patch
			return tripFixture(), nil
		},
	}

	rec := do(t, tripsHandler(svc), http.MethodPatch, "/trips/"+uuid.NewString(), map[string]any{
		"clear_budget": true,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, got.ClearBudget)
	assert.Nil(t, got.Budget)
}

func TestUpdateTrip_422_UnknownStatus(t *testing.T) {
	rec := do(t, tripsHandler(&mockTripServicer{}), http.MethodPatch, "/trips/"+uuid.NewString(), map[string]any{
		"status": "archived",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "status must be one of")
}

func TestUpdateTrip_422_ChangingID(t *testing.T) {
	svc := &mockTripServicer{
		update: func(_ context.Context, _ uuid.UUID, _ uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
			_, err := patch.Apply(tripFixture())
			return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
		},
	}

	rec := do(t, tripsHandler(svc), http.MethodPatch, "/trips/"+uuid.NewString(), map[string]any{
		"user_id": uuid.New(),
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "id and user_id cannot be changed", decodeError(t, rec).Message)
}

// ---- DELETE /trips/{id} ----------------------------------------------------

func TestDeleteTrip_204(t *testing.T) {
	id := uuid.New()
	svc := &mockTripServicer{
		delete: func(_ context.Context, userID, got uuid.UUID) error {
			assert.Equal(t, testUserID, userID)
			assert.Equal(t, id, got)
			return nil
		},
	}

	rec := do(t, tripsHandler(svc), http.MethodDelete, "/trips/"+id.String(), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		delete: func(context.Context, uuid.UUID, uuid.UUID) error {
			return fmt.Errorf("service.TripService.Delete: %w", domain.ErrNotFound)
		},
	}

	rec := do(t, tripsHandler(svc), http.MethodDelete, "/trips/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTrip_500_PartialCascade(t *testing.T) {
	svc := &mockTripServicer{
		delete: func(context.Context, uuid.UUID, uuid.UUID) error {
			return fmt.Errorf("service.TripService.Delete: %w", &domain.CascadeError{
				Op:        "delete trip",
				Succeeded: []string{"flight_booking", "user.flight_booking_ids"},
				Failed:    []domain.CascadeStep{{Name: "hotel_booking", Err: errors.New("timeout")}},
			})
		},
	}

	rec := do(t, tripsHandler(svc), http.MethodDelete, "/trips/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "partial_cascade", e.Code)
	assert.Equal(t, []string{"flight_booking", "user.flight_booking_ids"}, e.Succeeded)
	assert.Equal(t, []string{"hotel_booking"}, e.Failed)
}
