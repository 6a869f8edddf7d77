package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voyage-planner/voyage/internal/catalog"
	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/events"
)

// BookingService reserves catalog flights and hotels for a user.
type BookingService struct {
	repos   Repos
	catalog *catalog.Matcher
	opts    Options
}

// NewBookingService constructs a BookingService over the given catalog.
func NewBookingService(r Repos, m *catalog.Matcher, opts Options) *BookingService {
	return &BookingService{repos: r, catalog: m, opts: opts.withDefaults()}
}

// FlightBookingInput selects a catalog flight. Passengers defaults to 1.
// Nil dates fall back to the catalog flight's dates; a caller that found the
// flight through a date-relaxed search passes the dates it searched for.
type FlightBookingInput struct {
	FlightID      string
	Passengers    int
	DepartureDate *time.Time
	ReturnDate    *time.Time
}

// HotelBookingInput selects a catalog hotel and a stay. Guests defaults to 1.
type HotelBookingInput struct {
	HotelID      string
	CheckInDate  time.Time
	CheckOutDate time.Time
	Guests       int
}

// BookFlight books a catalog flight and records it on the user's index.
func (s *BookingService) BookFlight(ctx context.Context, userID uuid.UUID, in FlightBookingInput) (domain.FlightBooking, catalog.FlightQuote, error) {
	const op = "service.BookingService.BookFlight"

	if in.Passengers == 0 {
		in.Passengers = 1
	}
	if in.Passengers < 1 {
		return domain.FlightBooking{}, catalog.FlightQuote{}, fmt.Errorf("%s: %w: passengers must be at least 1", op, domain.ErrValidation)
	}
	flight, ok := s.catalog.Flight(in.FlightID)
	if !ok {
		return domain.FlightBooking{}, catalog.FlightQuote{}, fmt.Errorf("%s: flight %q: %w", op, in.FlightID, domain.ErrNotFound)
	}

	departure := flight.DepartureDate
	var ret *time.Time
	if in.DepartureDate != nil {
		departure = domain.CalendarDate(*in.DepartureDate)
	}
	switch {
	case in.ReturnDate != nil:
		r := domain.CalendarDate(*in.ReturnDate)
		ret = &r
	case !flight.ReturnDate.IsZero() && flight.ReturnDate.After(departure):
		r := flight.ReturnDate
		ret = &r
	}
	if err := s.notInPast("departure_date", departure); err != nil {
		return domain.FlightBooking{}, catalog.FlightQuote{}, fmt.Errorf("%s: %w", op, err)
	}

	quote := catalog.QuoteFlight(flight.Price, in.Passengers)
	now := s.opts.Now().UTC()
	b := domain.FlightBooking{
		UserID:        userID,
		FlightID:      flight.ID,
		Origin:        flight.Origin,
		Destination:   flight.Destination,
		DepartureDate: departure,
		ReturnDate:    ret,
		Airline:       flight.Airline,
		FlightNumber:  flight.FlightNumber,
		Passengers:    in.Passengers,
		Price:         quote.FinalPrice,
		Status:        domain.BookingConfirmed,
		BookingDate:   now,
	}
	if err := b.Validate(); err != nil {
		return domain.FlightBooking{}, catalog.FlightQuote{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.repos.FlightBookings.Create(ctx, b)
	if err != nil {
		return domain.FlightBooking{}, catalog.FlightQuote{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repos.Users.AddRef(ctx, userID, domain.RefFlightBooking, created.ID); err != nil {
		return domain.FlightBooking{}, catalog.FlightQuote{}, s.opts.rollback(ctx, op, err,
			compensation{"flight_booking", func(ctx context.Context) error {
				return s.repos.FlightBookings.Delete(ctx, userID, created.ID)
			}})
	}

	s.opts.publish(ctx, events.New(events.FlightBookingConfirmed, userID, created.ID, now, map[string]any{
		"flight_id": created.FlightID,
		"price":     created.Price,
	}))
	return created, quote, nil
}

// BookHotel books a stay at a catalog hotel and records it on the user's index.
func (s *BookingService) BookHotel(ctx context.Context, userID uuid.UUID, in HotelBookingInput) (domain.HotelBooking, catalog.HotelQuote, error) {
	const op = "service.BookingService.BookHotel"

	if in.Guests == 0 {
		in.Guests = 1
	}
	if in.CheckInDate.IsZero() || in.CheckOutDate.IsZero() {
		return domain.HotelBooking{}, catalog.HotelQuote{}, fmt.Errorf("%s: %w: check_in_date and check_out_date are required", op, domain.ErrValidation)
	}
	if err := s.notInPast("check_in_date", in.CheckInDate); err != nil {
		return domain.HotelBooking{}, catalog.HotelQuote{}, fmt.Errorf("%s: %w", op, err)
	}
	hotel, ok := s.catalog.Hotel(in.HotelID)
	if !ok {
		return domain.HotelBooking{}, catalog.HotelQuote{}, fmt.Errorf("%s: hotel %q: %w", op, in.HotelID, domain.ErrNotFound)
	}

	now := s.opts.Now().UTC()
	b := domain.HotelBooking{
		UserID:        userID,
		HotelID:       hotel.ID,
		HotelName:     hotel.Name,
		Destination:   hotel.Destination,
		CheckInDate:   in.CheckInDate,
		CheckOutDate:  in.CheckOutDate,
		PricePerNight: hotel.PricePerNight,
		Guests:        in.Guests,
		Status:        domain.BookingConfirmed,
		BookingDate:   now,
	}
	if err := b.Validate(); err != nil {
		return domain.HotelBooking{}, catalog.HotelQuote{}, fmt.Errorf("%s: %w", op, err)
	}
	quote := catalog.QuoteHotel(hotel.PricePerNight, in.CheckInDate, in.CheckOutDate, in.Guests)

	created, err := s.repos.HotelBookings.Create(ctx, b)
	if err != nil {
		return domain.HotelBooking{}, catalog.HotelQuote{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repos.Users.AddRef(ctx, userID, domain.RefHotelBooking, created.ID); err != nil {
		return domain.HotelBooking{}, catalog.HotelQuote{}, s.opts.rollback(ctx, op, err,
			compensation{"hotel_booking", func(ctx context.Context) error {
				return s.repos.HotelBookings.Delete(ctx, userID, created.ID)
			}})
	}

	s.opts.publish(ctx, events.New(events.HotelBookingConfirmed, userID, created.ID, now, map[string]any{
		"hotel_id": created.HotelID,
		"total":    quote.TotalPrice,
	}))
	return created, quote, nil
}

// ListFlightBookings returns the user's flight bookings, newest first.
func (s *BookingService) ListFlightBookings(ctx context.Context, userID uuid.UUID) ([]domain.FlightBooking, error) {
	list, err := s.repos.FlightBookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListFlightBookings: %w", err)
	}
	if list == nil {
		list = []domain.FlightBooking{}
	}
	return list, nil
}

// ListHotelBookings returns the user's hotel bookings, newest first.
func (s *BookingService) ListHotelBookings(ctx context.Context, userID uuid.UUID) ([]domain.HotelBooking, error) {
	list, err := s.repos.HotelBookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListHotelBookings: %w", err)
	}
	if list == nil {
		list = []domain.HotelBooking{}
	}
	return list, nil
}

// CancelFlightBooking marks the booking cancelled. The record is kept.
func (s *BookingService) CancelFlightBooking(ctx context.Context, userID, id uuid.UUID) (domain.FlightBooking, error) {
	b, err := s.repos.FlightBookings.UpdateStatus(ctx, userID, id, domain.BookingCancelled)
	if err != nil {
		return domain.FlightBooking{}, fmt.Errorf("service.BookingService.CancelFlightBooking: %w", err)
	}
	return b, nil
}

// CancelHotelBooking marks the booking cancelled. The record is kept.
func (s *BookingService) CancelHotelBooking(ctx context.Context, userID, id uuid.UUID) (domain.HotelBooking, error) {
	b, err := s.repos.HotelBookings.UpdateStatus(ctx, userID, id, domain.BookingCancelled)
	if err != nil {
		return domain.HotelBooking{}, fmt.Errorf("service.BookingService.CancelHotelBooking: %w", err)
	}
	return b, nil
}

func (s *BookingService) notInPast(field string, t time.Time) error {
	return notBeforeToday(s.opts.Now(), field, t)
}

// notBeforeToday rejects a calendar date earlier than now's.
func notBeforeToday(now time.Time, field string, t time.Time) error {
	if domain.CalendarDate(t).Before(domain.CalendarDate(now)) {
		return fmt.Errorf("%w: %s cannot be in the past", domain.ErrValidation, field)
	}
	return nil
}
