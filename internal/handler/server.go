// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, booking.go, search.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/voyage-planner/voyage/internal/catalog"
	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/planner"
	"github.com/voyage-planner/voyage/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching a store or the service layer.
type TripServicer interface {
	Create(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	Finalize(ctx context.Context, userID uuid.UUID, in service.FinalizeInput) (service.FinalizedTrip, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (domain.TripDetails, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// BookingServicer defines the flight and hotel booking operations.
type BookingServicer interface {
	BookFlight(ctx context.Context, userID uuid.UUID, in service.FlightBookingInput) (domain.FlightBooking, catalog.FlightQuote, error)
	BookHotel(ctx context.Context, userID uuid.UUID, in service.HotelBookingInput) (domain.HotelBooking, catalog.HotelQuote, error)
	ListFlightBookings(ctx context.Context, userID uuid.UUID) ([]domain.FlightBooking, error)
	ListHotelBookings(ctx context.Context, userID uuid.UUID) ([]domain.HotelBooking, error)
	CancelFlightBooking(ctx context.Context, userID, id uuid.UUID) (domain.FlightBooking, error)
	CancelHotelBooking(ctx context.Context, userID, id uuid.UUID) (domain.HotelBooking, error)
}

// ItineraryServicer defines itinerary generation and the saved itinerary operations.
type ItineraryServicer interface {
	Generate(destination string, start, end time.Time) (service.GeneratedItinerary, error)
	Recommendations(destination string) planner.Recommendation
	Save(ctx context.Context, userID uuid.UUID, in service.SaveItineraryInput) (domain.Itinerary, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Itinerary, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Itinerary, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch service.ItineraryPatch) (domain.Itinerary, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// SearchServicer defines the catalog search and quote operations.
type SearchServicer interface {
	SearchFlights(q catalog.FlightQuery) (service.FlightSearchResult, error)
	SearchHotels(q catalog.HotelQuery) (service.HotelSearchResult, error)
	PopularDestinations() []catalog.DestinationCount
	Hotels(f service.HotelFilter) []catalog.Hotel
	FlightQuote(flightID string, passengers int) (catalog.FlightQuote, error)
	HotelQuote(hotelID string, checkIn, checkOut time.Time, guests int) (catalog.HotelQuote, error)
}

// AuthServicer defines account registration and login.
type AuthServicer interface {
	Register(ctx context.Context, name, email, password string) (domain.User, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
}

// ExportServicer defines the trip export operations.
type ExportServicer interface {
	Export(ctx context.Context, userID, tripID uuid.UUID) ([]domain.ExportRow, error)
	PDF(ctx context.Context, userID, tripID uuid.UUID, w io.Writer) error
}

// Services bundles the dependencies of Server. Tests set only the fields
// the routes under test use.
type Services struct {
	Trips       TripServicer
	Bookings    BookingServicer
	Itineraries ItineraryServicer
	Search      SearchServicer
	Auth        AuthServicer
	Export      ExportServicer
}

// Server serves every API endpoint.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	trips       TripServicer
	bookings    BookingServicer
	itineraries ItineraryServicer
	search      SearchServicer
	auth        AuthServicer
	export      ExportServicer
	log         *slog.Logger
	validate    *validator.Validate
}

// NewServer constructs the Server with all its dependencies. log may be nil.
func NewServer(svc Services, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		trips:       svc.Trips,
		bookings:    svc.Bookings,
		itineraries: svc.Itineraries,
		search:      svc.Search,
		auth:        svc.Auth,
		export:      svc.Export,
		log:         log,
		validate:    newValidator(),
	}
}

// RouteOptions carries the middleware applied to groups of routes.
// A nil field leaves its routes unwrapped.
type RouteOptions struct {
	// Authenticate guards every route that acts on a user's own records.
	Authenticate func(http.Handler) http.Handler
	// Cache wraps the read-only catalog lookups whose responses do not
	// depend on the caller.
	Cache func(http.Handler) http.Handler
	// RateLimit guards the credential endpoints.
	RateLimit func(http.Handler) http.Handler
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r chi.Router, opts RouteOptions) {
	r.Get("/healthz", s.GetHealth)

	r.Group(func(r chi.Router) {
		use(r, opts.RateLimit)
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
	})

	r.Group(func(r chi.Router) {
		use(r, opts.Cache)
		r.Get("/flights/search", s.SearchFlights)
		r.Get("/hotels/search", s.SearchHotels)
		r.Get("/recommendations/{destination}", s.GetRecommendations)
	})
	r.Get("/flights/popular-destinations", s.PopularDestinations)
	r.Get("/flights/{flightId}/quote", s.FlightQuote)
	r.Get("/hotels", s.ListHotels)
	r.Get("/hotels/{hotelId}/quote", s.HotelQuote)
	r.Post("/itineraries/generate", s.GenerateItinerary)

	r.Group(func(r chi.Router) {
		use(r, opts.Authenticate)

		r.Post("/bookings/flights", s.BookFlight)
		r.Get("/bookings/flights", s.ListFlightBookings)
		r.Post("/bookings/flights/{id}/cancel", s.CancelFlightBooking)
		r.Post("/bookings/hotels", s.BookHotel)
		r.Get("/bookings/hotels", s.ListHotelBookings)
		r.Post("/bookings/hotels/{id}/cancel", s.CancelHotelBooking)

		r.Post("/itineraries", s.SaveItinerary)
		r.Get("/itineraries", s.ListItineraries)
		r.Get("/itineraries/{id}", s.GetItinerary)
		r.Put("/itineraries/{id}", s.UpdateItinerary)
		r.Delete("/itineraries/{id}", s.DeleteItinerary)

		r.Post("/trips", s.CreateTrip)
		r.Post("/trips/finalize", s.FinalizeTrip)
		r.Get("/trips", s.ListTrips)
		r.Get("/trips/{id}", s.GetTrip)
		r.Patch("/trips/{id}", s.UpdateTrip)
		r.Delete("/trips/{id}", s.DeleteTrip)
		r.Get("/trips/{id}/export", s.ExportTrip)
	})
}

// Handler returns a chi router with every endpoint mounted.
func (s *Server) Handler(opts RouteOptions) http.Handler {
	r := chi.NewRouter()
	s.Routes(r, opts)
	return r
}

func use(r chi.Router, mw func(http.Handler) http.Handler) {
	if mw != nil {
		r.Use(mw)
	}
}
