// Package catalog matches search queries against the fixed flight and hotel
// inventory and prices a selection. Everything here is pure: no I/O, no
// logging, and no errors. A miss is an empty result or a false ok-flag.
package catalog

import (
	"slices"
	"sort"
	"time"

	"github.com/voyage-planner/voyage/internal/domain"
)

// Flight is one catalog flight offer.
type Flight struct {
	ID            string
	Origin        string
	Destination   string
	Airline       string
	Price         int
	DepartureTime string
	ArrivalTime   string
	DepartureDate time.Time
	ReturnDate    time.Time
	Duration      string
	Stops         int
	FlightNumber  string
}

// Hotel is one catalog hotel.
type Hotel struct {
	ID            string
	Name          string
	Destination   string
	Rating        int
	PricePerNight int
	Address       string
	Amenities     []string
	Images        []string
	Description   string
}

// FlightQuery is a flight search request. Origin and Destination are free
// text; ReturnDate is optional.
type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureDate time.Time
	ReturnDate    *time.Time
}

// FlightResult is a matched flight with display names attached.
type FlightResult struct {
	Flight
	OriginCity      string
	DestinationCity string
}

// FlightSearch is the outcome of a flight search. Fallback is true when the
// rows were matched on route only and their dates rewritten to the request.
type FlightSearch struct {
	Flights  []FlightResult
	Count    int
	Criteria FlightQuery
	Fallback bool
}

// HotelQuery is a hotel search request. Dates are optional; when both are
// present every result carries Nights and TotalPrice.
type HotelQuery struct {
	Destination  string
	CheckInDate  *time.Time
	CheckOutDate *time.Time
	Guests       int
}

// HotelResult is a matched hotel with display name and optional stay totals.
type HotelResult struct {
	Hotel
	DestinationCity string
	Nights          *int
	TotalPrice      *int
}

// HotelSearch is the outcome of a hotel search.
type HotelSearch struct {
	Hotels   []HotelResult
	Count    int
	Criteria HotelQuery
}

// DestinationCount is one entry of the popular destinations ranking.
type DestinationCount struct {
	Destination string
	City        string
	FlightCount int
}

// Matcher answers inventory queries against a fixed catalog.
// It is safe for concurrent use: the catalog is never mutated.
type Matcher struct {
	flights []Flight
	hotels  []Hotel
}

// NewMatcher builds a Matcher over the given inventory.
func NewMatcher(flights []Flight, hotels []Hotel) *Matcher {
	return &Matcher{flights: flights, hotels: hotels}
}

// Default returns a Matcher over the built-in demo inventory.
func Default() *Matcher {
	return NewMatcher(sampleFlights, sampleHotels)
}

// SearchFlights matches q exactly on route and dates. When nothing matches
// exactly it falls back to route-only matching and overwrites the returned
// dates with the requested ones, so Count is zero only for an unknown route.
func (m *Matcher) SearchFlights(q FlightQuery) FlightSearch {
	origin := NormalizeLocation(q.Origin)
	dest := NormalizeLocation(q.Destination)
	departure := domain.CalendarDate(q.DepartureDate)

	var found []Flight
	for _, f := range m.flights {
		if f.Origin != origin || f.Destination != dest {
			continue
		}
		if !domain.CalendarDate(f.DepartureDate).Equal(departure) {
			continue
		}
		if q.ReturnDate != nil && !domain.CalendarDate(f.ReturnDate).Equal(domain.CalendarDate(*q.ReturnDate)) {
			continue
		}
		found = append(found, f)
	}

	fallback := false
	if len(found) == 0 {
		for _, f := range m.flights {
			if f.Origin != origin || f.Destination != dest {
				continue
			}
			f.DepartureDate = departure
			if q.ReturnDate != nil {
				f.ReturnDate = domain.CalendarDate(*q.ReturnDate)
			}
			found = append(found, f)
		}
		fallback = len(found) > 0
	}

	results := make([]FlightResult, len(found))
	for i, f := range found {
		results[i] = FlightResult{
			Flight:          f,
			OriginCity:      CityName(f.Origin),
			DestinationCity: CityName(f.Destination),
		}
	}
	return FlightSearch{Flights: results, Count: len(results), Criteria: q, Fallback: fallback}
}

// SearchHotels matches hotels by destination.
func (m *Matcher) SearchHotels(q HotelQuery) HotelSearch {
	dest := NormalizeLocation(q.Destination)

	var nights *int
	if q.CheckInDate != nil && q.CheckOutDate != nil {
		n := Nights(*q.CheckInDate, *q.CheckOutDate)
		nights = &n
	}

	results := []HotelResult{}
	for _, h := range m.hotels {
		if h.Destination != dest {
			continue
		}
		r := HotelResult{Hotel: h, DestinationCity: CityName(h.Destination)}
		if nights != nil {
			n, total := *nights, h.PricePerNight*(*nights)
			r.Nights, r.TotalPrice = &n, &total
		}
		results = append(results, r)
	}
	return HotelSearch{Hotels: results, Count: len(results), Criteria: q}
}

// Flight looks up a catalog flight by id.
func (m *Matcher) Flight(id string) (Flight, bool) {
	for _, f := range m.flights {
		if f.ID == id {
			return f, true
		}
	}
	return Flight{}, false
}

// Hotel looks up a catalog hotel by id.
func (m *Matcher) Hotel(id string) (Hotel, bool) {
	for _, h := range m.hotels {
		if h.ID == id {
			return h, true
		}
	}
	return Hotel{}, false
}

// PopularDestinations ranks destinations by number of catalog flights,
// highest first, ties broken by code. At most limit entries are returned.
func (m *Matcher) PopularDestinations(limit int) []DestinationCount {
	counts := map[string]int{}
	for _, f := range m.flights {
		counts[f.Destination]++
	}
	out := make([]DestinationCount, 0, len(counts))
	for dest, n := range counts {
		out = append(out, DestinationCount{Destination: dest, City: CityName(dest), FlightCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FlightCount != out[j].FlightCount {
			return out[i].FlightCount > out[j].FlightCount
		}
		return out[i].Destination < out[j].Destination
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// HotelsByRating returns hotels rated at least minRating.
func (m *Matcher) HotelsByRating(minRating int) []Hotel {
	out := []Hotel{}
	for _, h := range m.hotels {
		if h.Rating >= minRating {
			out = append(out, h)
		}
	}
	return out
}

// HotelsByPriceRange returns hotels whose nightly price is within
// [minPrice, maxPrice]. A maxPrice of zero or less means no upper bound.
func (m *Matcher) HotelsByPriceRange(minPrice, maxPrice int) []Hotel {
	out := []Hotel{}
	for _, h := range m.hotels {
		if h.PricePerNight < minPrice {
			continue
		}
		if maxPrice > 0 && h.PricePerNight > maxPrice {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Destinations lists every destination code served by flights or hotels.
func (m *Matcher) Destinations() []string {
	var codes []string
	for _, f := range m.flights {
		codes = append(codes, f.Destination)
	}
	for _, h := range m.hotels {
		codes = append(codes, h.Destination)
	}
	slices.Sort(codes)
	return slices.Compact(codes)
}
