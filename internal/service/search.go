package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/voyage-planner/voyage/internal/catalog"
	"github.com/voyage-planner/voyage/internal/domain"
)

// Suggestions returned alongside an empty search result.
const (
	FlightSuggestion = "Try NYC to LAX for 2025-08-01 for demo data"
	HotelSuggestion  = "Try searching for LAX, SFO, MIA, or PAR for demo data"
)

// PopularDestinationsLimit is the length of the popular destinations ranking.
const PopularDestinationsLimit = 5

// SearchService validates search requests and runs them against the catalog.
type SearchService struct {
	catalog *catalog.Matcher
	now     func() time.Time
}

// NewSearchService constructs a SearchService. now may be nil.
func NewSearchService(m *catalog.Matcher, now func() time.Time) *SearchService {
	if now == nil {
		now = time.Now
	}
	return &SearchService{catalog: m, now: now}
}

// FlightSearchResult is a flight search plus a hint when nothing matched.
type FlightSearchResult struct {
	catalog.FlightSearch
	Suggestion string
}

// HotelSearchResult is a hotel search plus a hint when nothing matched.
type HotelSearchResult struct {
	catalog.HotelSearch
	Suggestion string
}

// HotelFilter narrows the hotel listing. MaxPrice <= 0 means no upper bound.
type HotelFilter struct {
	MinRating int
	MinPrice  int
	MaxPrice  int
}

// SearchFlights validates q and matches it against the catalog. A route
// with no flights on the requested date still matches through the fallback.
func (s *SearchService) SearchFlights(q catalog.FlightQuery) (FlightSearchResult, error) {
	const op = "service.SearchService.SearchFlights"

	if strings.TrimSpace(q.Origin) == "" || strings.TrimSpace(q.Destination) == "" || q.DepartureDate.IsZero() {
		return FlightSearchResult{}, fmt.Errorf("%s: %w: origin, destination and departure_date are required", op, domain.ErrValidation)
	}
	if err := notBeforeToday(s.now(), "departure_date", q.DepartureDate); err != nil {
		return FlightSearchResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if q.ReturnDate != nil && !domain.CalendarDate(*q.ReturnDate).After(domain.CalendarDate(q.DepartureDate)) {
		return FlightSearchResult{}, fmt.Errorf("%s: %w: return_date must be after departure_date", op, domain.ErrValidation)
	}

	res := FlightSearchResult{FlightSearch: s.catalog.SearchFlights(q)}
	if res.Count == 0 {
		res.Suggestion = FlightSuggestion
	}
	return res, nil
}

// SearchHotels validates q and matches it against the catalog. Guests
// defaults to 1.
func (s *SearchService) SearchHotels(q catalog.HotelQuery) (HotelSearchResult, error) {
	const op = "service.SearchService.SearchHotels"

	if strings.TrimSpace(q.Destination) == "" {
		return HotelSearchResult{}, fmt.Errorf("%s: %w: destination is required", op, domain.ErrValidation)
	}
	if q.Guests == 0 {
		q.Guests = 1
	}
	if q.Guests < 1 {
		return HotelSearchResult{}, fmt.Errorf("%s: %w: guests must be at least 1", op, domain.ErrValidation)
	}
	if q.CheckInDate != nil && q.CheckOutDate != nil && !q.CheckOutDate.After(*q.CheckInDate) {
		return HotelSearchResult{}, fmt.Errorf("%s: %w: check_out_date must be after check_in_date", op, domain.ErrValidation)
	}

	res := HotelSearchResult{HotelSearch: s.catalog.SearchHotels(q)}
	if res.Count == 0 {
		res.Suggestion = HotelSuggestion
	}
	return res, nil
}

// PopularDestinations ranks destinations by catalog flight count.
func (s *SearchService) PopularDestinations() []catalog.DestinationCount {
	return s.catalog.PopularDestinations(PopularDestinationsLimit)
}

// Hotels lists catalog hotels matching f.
func (s *SearchService) Hotels(f HotelFilter) []catalog.Hotel {
	byPrice := map[string]bool{}
	for _, h := range s.catalog.HotelsByPriceRange(f.MinPrice, f.MaxPrice) {
		byPrice[h.ID] = true
	}
	out := []catalog.Hotel{}
	for _, h := range s.catalog.HotelsByRating(f.MinRating) {
		if byPrice[h.ID] {
			out = append(out, h)
		}
	}
	return out
}

// FlightQuote prices passengers seats on a catalog flight.
func (s *SearchService) FlightQuote(flightID string, passengers int) (catalog.FlightQuote, error) {
	const op = "service.SearchService.FlightQuote"

	if passengers == 0 {
		passengers = 1
	}
	if passengers < 1 {
		return catalog.FlightQuote{}, fmt.Errorf("%s: %w: passengers must be at least 1", op, domain.ErrValidation)
	}
	q, ok := s.catalog.FlightQuote(flightID, passengers)
	if !ok {
		return catalog.FlightQuote{}, fmt.Errorf("%s: flight %q: %w", op, flightID, domain.ErrNotFound)
	}
	return q, nil
}

// HotelQuote prices a stay at a catalog hotel.
func (s *SearchService) HotelQuote(hotelID string, checkIn, checkOut time.Time, guests int) (catalog.HotelQuote, error) {
	const op = "service.SearchService.HotelQuote"

	if guests == 0 {
		guests = 1
	}
	if guests < 1 {
		return catalog.HotelQuote{}, fmt.Errorf("%s: %w: guests must be at least 1", op, domain.ErrValidation)
	}
	if checkIn.IsZero() || checkOut.IsZero() {
		return catalog.HotelQuote{}, fmt.Errorf("%s: %w: check_in_date and check_out_date are required", op, domain.ErrValidation)
	}
	if !checkOut.After(checkIn) {
		return catalog.HotelQuote{}, fmt.Errorf("%s: %w: check_out_date must be after check_in_date", op, domain.ErrValidation)
	}
	q, ok := s.catalog.HotelQuote(hotelID, checkIn, checkOut, guests)
	if !ok {
		return catalog.HotelQuote{}, fmt.Errorf("%s: hotel %q: %w", op, hotelID, domain.ErrNotFound)
	}
	return q, nil
}
