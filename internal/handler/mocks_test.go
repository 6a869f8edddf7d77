package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/voyage-planner/voyage/internal/catalog"
	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/handler"
	"github.com/voyage-planner/voyage/internal/middleware"
	"github.com/voyage-planner/voyage/internal/planner"
	"github.com/voyage-planner/voyage/internal/service"
)

// Each mock is a test double for one handler servicer interface.
// Set only the method fields your test needs.

type mockTripServicer struct {
	create   func(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	finalize func(ctx context.Context, userID uuid.UUID, in service.FinalizeInput) (service.FinalizedTrip, error)
	getByID  func(ctx context.Context, userID, id uuid.UUID) (domain.TripDetails, error)
	list     func(ctx context.Context, userID uuid.UUID, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update   func(ctx context.Context, userID, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
	delete   func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, userID uuid.UUID, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, userID, t)
}
func (m *mockTripServicer) Finalize(ctx context.Context, userID uuid.UUID, in service.FinalizeInput) (service.FinalizedTrip, error) {
	return m.finalize(ctx, userID, in)
}
func (m *mockTripServicer) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.TripDetails, error) {
	return m.getByID(ctx, userID, id)
}
func (m *mockTripServicer) List(ctx context.Context, userID uuid.UUID, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.list(ctx, userID, f, p)
}
func (m *mockTripServicer) Update(ctx context.Context, userID, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	return m.update(ctx, userID, id, patch)
}
func (m *mockTripServicer) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.delete(ctx, userID, id)
}

type mockBookingServicer struct {
	bookFlight   func(ctx context.Context, userID uuid.UUID, in service.FlightBookingInput) (domain.FlightBooking, catalog.FlightQuote, error)
	bookHotel    func(ctx context.Context, userID uuid.UUID, in service.HotelBookingInput) (domain.HotelBooking, catalog.HotelQuote, error)
	listFlights  func(ctx context.Context, userID uuid.UUID) ([]domain.FlightBooking, error)
	listHotels   func(ctx context.Context, userID uuid.UUID) ([]domain.HotelBooking, error)
	cancelFlight func(ctx context.Context, userID, id uuid.UUID) (domain.FlightBooking, error)
	cancelHotel  func(ctx context.Context, userID, id uuid.UUID) (domain.HotelBooking, error)
}

func (m *mockBookingServicer) BookFlight(ctx context.Context, userID uuid.UUID, in service.FlightBookingInput) (domain.FlightBooking, catalog.FlightQuote, error) {
	return m.bookFlight(ctx, userID, in)
}
func (m *mockBookingServicer) BookHotel(ctx context.Context, userID uuid.UUID, in service.HotelBookingInput) (domain.HotelBooking, catalog.HotelQuote, error) {
	return m.bookHotel(ctx, userID, in)
}
func (m *mockBookingServicer) ListFlightBookings(ctx context.Context, userID uuid.UUID) ([]domain.FlightBooking, error) {
	return m.listFlights(ctx, userID)
}
func (m *mockBookingServicer) ListHotelBookings(ctx context.Context, userID uuid.UUID) ([]domain.HotelBooking, error) {
	return m.listHotels(ctx, userID)
}
func (m *mockBookingServicer) CancelFlightBooking(ctx context.Context, userID, id uuid.UUID) (domain.FlightBooking, error) {
	return m.cancelFlight(ctx, userID, id)
}
func (m *mockBookingServicer) CancelHotelBooking(ctx context.Context, userID, id uuid.UUID) (domain.HotelBooking, error) {
	return m.cancelHotel(ctx, userID, id)
}

type mockItineraryServicer struct {
	generate        func(destination string, start, end time.Time) (service.GeneratedItinerary, error)
	recommendations func(destination string) planner.Recommendation
	save            func(ctx context.Context, userID uuid.UUID, in service.SaveItineraryInput) (domain.Itinerary, error)
	list            func(ctx context.Context, userID uuid.UUID) ([]domain.Itinerary, error)
	getByID         func(ctx context.Context, userID, id uuid.UUID) (domain.Itinerary, error)
	update          func(ctx context.Context, userID, id uuid.UUID, patch service.ItineraryPatch) (domain.Itinerary, error)
	delete          func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *mockItineraryServicer) Generate(destination string, start, end time.Time) (service.GeneratedItinerary, error) {
	return m.generate(destination, start, end)
}
func (m *mockItineraryServicer) Recommendations(destination string) planner.Recommendation {
	return m.recommendations(destination)
}
func (m *mockItineraryServicer) Save(ctx context.Context, userID uuid.UUID, in service.SaveItineraryInput) (domain.Itinerary, error) {
	return m.save(ctx, userID, in)
}
func (m *mockItineraryServicer) List(ctx context.Context, userID uuid.UUID) ([]domain.Itinerary, error) {
	return m.list(ctx, userID)
}
func (m *mockItineraryServicer) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Itinerary, error) {
	return m.getByID(ctx, userID, id)
}
func (m *mockItineraryServicer) Update(ctx context.Context, userID, id uuid.UUID, patch service.ItineraryPatch) (domain.Itinerary, error) {
	return m.update(ctx, userID, id, patch)
}
func (m *mockItineraryServicer) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.delete(ctx, userID, id)
}

type mockAuthServicer struct {
	register func(ctx context.Context, name, email, password string) (domain.User, error)
	login    func(ctx context.Context, email, password string) (service.Session, error)
}

func (m *mockAuthServicer) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	return m.register(ctx, name, email, password)
}
func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (service.Session, error) {
	return m.login(ctx, email, password)
}

type mockExportServicer struct {
	export func(ctx context.Context, userID, tripID uuid.UUID) ([]domain.ExportRow, error)
	pdf    func(ctx context.Context, userID, tripID uuid.UUID, w io.Writer) error
}

func (m *mockExportServicer) Export(ctx context.Context, userID, tripID uuid.UUID) ([]domain.ExportRow, error) {
	return m.export(ctx, userID, tripID)
}
func (m *mockExportServicer) PDF(ctx context.Context, userID, tripID uuid.UUID, w io.Writer) error {
	return m.pdf(ctx, userID, tripID, w)
}

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.TripServicer      = (*mockTripServicer)(nil)
	_ handler.BookingServicer   = (*mockBookingServicer)(nil)
	_ handler.ItineraryServicer = (*mockItineraryServicer)(nil)
	_ handler.AuthServicer      = (*mockAuthServicer)(nil)
	_ handler.ExportServicer    = (*mockExportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// testUserID is the caller every authenticated test request acts as.
var testUserID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

// asTestUser stands in for the token middleware.
func asTestUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), testUserID)))
	})
}

// newHTTPHandler wires a Server with the given mocks into a chi router,
// the same way main.go does, with authentication faked.
func newHTTPHandler(svc handler.Services) http.Handler {
	return handler.NewServer(svc, nil).Handler(handler.RouteOptions{Authenticate: asTestUser})
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }
