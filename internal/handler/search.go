package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/voyage-planner/voyage/internal/catalog"
	"github.com/voyage-planner/voyage/internal/service"
)

// Flight is a catalog flight as returned by search.
type Flight struct {
	ID              string              `json:"id"`
	Origin          string              `json:"origin"`
	OriginCity      string              `json:"origin_city"`
	Destination     string              `json:"destination"`
	DestinationCity string              `json:"destination_city"`
	Airline         string              `json:"airline"`
	FlightNumber    string              `json:"flight_number"`
	Price           int                 `json:"price"`
	DepartureDate   openapi_types.Date  `json:"departure_date"`
	ReturnDate      *openapi_types.Date `json:"return_date,omitempty"`
	DepartureTime   string              `json:"departure_time"`
	ArrivalTime     string              `json:"arrival_time"`
	Duration        string              `json:"duration"`
	Stops           int                 `json:"stops"`
}

// FlightSearchCriteria echoes the search request.
type FlightSearchCriteria struct {
	Origin        string              `json:"origin"`
	Destination   string              `json:"destination"`
	DepartureDate openapi_types.Date  `json:"departure_date"`
	ReturnDate    *openapi_types.Date `json:"return_date,omitempty"`
}

// FlightSearchResponse is the body of GET /flights/search.
type FlightSearchResponse struct {
	Flights        []Flight             `json:"flights"`
	Count          int                  `json:"count"`
	SearchCriteria FlightSearchCriteria `json:"search_criteria"`
	// Fallback is true when no flight matched the dates and the route's
	// flights are returned with the requested dates.
	Fallback   bool   `json:"fallback"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Hotel is a catalog hotel. Nights and TotalPrice are set only on a search
// with both stay dates.
type Hotel struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Destination     string   `json:"destination"`
	DestinationCity string   `json:"destination_city,omitempty"`
	Rating          int      `json:"rating"`
	PricePerNight   int      `json:"price_per_night"`
	Address         string   `json:"address"`
	Amenities       []string `json:"amenities"`
	Images          []string `json:"images"`
	Description     string   `json:"description"`
	Nights          *int     `json:"nights,omitempty"`
	TotalPrice      *int     `json:"total_price,omitempty"`
}

// HotelSearchCriteria echoes the search request.
type HotelSearchCriteria struct {
	Destination  string              `json:"destination"`
	CheckInDate  *openapi_types.Date `json:"check_in_date,omitempty"`
	CheckOutDate *openapi_types.Date `json:"check_out_date,omitempty"`
	Guests       int                 `json:"guests"`
}

// HotelSearchResponse is the body of GET /hotels/search.
type HotelSearchResponse struct {
	Hotels         []Hotel             `json:"hotels"`
	Count          int                 `json:"count"`
	SearchCriteria HotelSearchCriteria `json:"search_criteria"`
	Suggestion     string              `json:"suggestion,omitempty"`
}

// PopularDestination is one entry of GET /flights/popular-destinations.
type PopularDestination struct {
	Destination string `json:"destination"`
	City        string `json:"city"`
	FlightCount int    `json:"flight_count"`
}

// FlightQuote is a flight price breakdown.
type FlightQuote struct {
	FlightID   string `json:"flight_id,omitempty"`
	BasePrice  int    `json:"base_price"`
	Passengers int    `json:"passengers"`
	TotalPrice int    `json:"total_price"`
	Taxes      int    `json:"taxes"`
	FinalPrice int    `json:"final_price"`
}

// HotelQuote is a hotel stay price breakdown.
type HotelQuote struct {
	HotelID       string `json:"hotel_id,omitempty"`
	PricePerNight int    `json:"price_per_night"`
	Nights        int    `json:"nights"`
	Guests        int    `json:"guests"`
	BasePrice     int    `json:"base_price"`
	Taxes         int    `json:"taxes"`
	Fees          int    `json:"fees"`
	TotalPrice    int    `json:"total_price"`
}

// Recommendations is the body of GET /recommendations/{destination}.
type Recommendations struct {
	Destination         string   `json:"destination"`
	TouristDestinations []string `json:"tourist_destinations"`
	FastestRoute        string   `json:"fastest_route"`
	LocalTips           []string `json:"local_tips"`
}

// SearchFlights handles GET /flights/search.
// An unknown route is a 200 with count 0 and a suggestion.
func (s *Server) SearchFlights(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	fq := catalog.FlightQuery{
		Origin:        q.str("origin"),
		Destination:   q.str("destination"),
		DepartureDate: deref(q.date("departure_date")),
		ReturnDate:    q.date("return_date"),
	}
	if q.err != nil {
		requestError(w, q.err.Error())
		return
	}

	res, err := s.search.SearchFlights(fq)
	if err != nil {
		s.serviceError(w, r, "flight", err)
		return
	}

	flights := make([]Flight, len(res.Flights))
	for i, f := range res.Flights {
		flights[i] = flightToResponse(f)
	}
	writeJSON(w, http.StatusOK, FlightSearchResponse{
		Flights: flights,
		Count:   res.Count,
		SearchCriteria: FlightSearchCriteria{
			Origin:        catalog.NormalizeLocation(fq.Origin),
			Destination:   catalog.NormalizeLocation(fq.Destination),
			DepartureDate: openapi_types.Date{Time: fq.DepartureDate},
			ReturnDate:    optionalDate(fq.ReturnDate),
		},
		Fallback:   res.Fallback,
		Suggestion: res.Suggestion,
	})
}

// SearchHotels handles GET /hotels/search.
func (s *Server) SearchHotels(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	hq := catalog.HotelQuery{
		Destination:  q.str("destination"),
		CheckInDate:  q.date("check_in_date"),
		CheckOutDate: q.date("check_out_date"),
		Guests:       deref(q.int("guests")),
	}
	if q.err != nil {
		requestError(w, q.err.Error())
		return
	}

	res, err := s.search.SearchHotels(hq)
	if err != nil {
		s.serviceError(w, r, "hotel", err)
		return
	}

	hotels := make([]Hotel, len(res.Hotels))
	for i, h := range res.Hotels {
		hotels[i] = hotelToResponse(h.Hotel)
		hotels[i].DestinationCity = h.DestinationCity
		hotels[i].Nights = h.Nights
		hotels[i].TotalPrice = h.TotalPrice
	}
	guests := res.Criteria.Guests
	if guests == 0 {
		guests = 1
	}
	writeJSON(w, http.StatusOK, HotelSearchResponse{
		Hotels: hotels,
		Count:  res.Count,
		SearchCriteria: HotelSearchCriteria{
			Destination:  catalog.NormalizeLocation(hq.Destination),
			CheckInDate:  optionalDate(hq.CheckInDate),
			CheckOutDate: optionalDate(hq.CheckOutDate),
			Guests:       guests,
		},
		Suggestion: res.Suggestion,
	})
}

// PopularDestinations handles GET /flights/popular-destinations.
func (s *Server) PopularDestinations(w http.ResponseWriter, _ *http.Request) {
	ranked := s.search.PopularDestinations()
	out := make([]PopularDestination, len(ranked))
	for i, d := range ranked {
		out[i] = PopularDestination{Destination: d.Destination, City: d.City, FlightCount: d.FlightCount}
	}
	writeJSON(w, http.StatusOK, out)
}

// ListHotels handles GET /hotels?min_rating=&min_price=&max_price=.
// min_rating defaults to 3.
func (s *Server) ListHotels(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	f := service.HotelFilter{MinRating: 3}
	if v := q.int("min_rating"); v != nil {
		f.MinRating = *v
	}
	f.MinPrice = deref(q.int("min_price"))
	f.MaxPrice = deref(q.int("max_price"))
	if q.err != nil {
		requestError(w, q.err.Error())
		return
	}

	hotels := s.search.Hotels(f)
	out := make([]Hotel, len(hotels))
	for i, h := range hotels {
		out[i] = hotelToResponse(h)
	}
	writeJSON(w, http.StatusOK, out)
}

// FlightQuote handles GET /flights/{flightId}/quote?passengers=.
func (s *Server) FlightQuote(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	passengers := deref(q.int("passengers"))
	if q.err != nil {
		requestError(w, q.err.Error())
		return
	}
	id := chi.URLParam(r, "flightId")
	quote, err := s.search.FlightQuote(id, passengers)
	if err != nil {
		s.serviceError(w, r, "flight", err)
		return
	}
	resp := flightQuoteToResponse(quote)
	resp.FlightID = id
	writeJSON(w, http.StatusOK, resp)
}

// HotelQuote handles GET /hotels/{hotelId}/quote?check_in_date=&check_out_date=&guests=.
func (s *Server) HotelQuote(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	in := deref(q.date("check_in_date"))
	out := deref(q.date("check_out_date"))
	guests := deref(q.int("guests"))
	if q.err != nil {
		requestError(w, q.err.Error())
		return
	}
	id := chi.URLParam(r, "hotelId")
	quote, err := s.search.HotelQuote(id, in, out, guests)
	if err != nil {
		s.serviceError(w, r, "hotel", err)
		return
	}
	resp := hotelQuoteToResponse(quote)
	resp.HotelID = id
	writeJSON(w, http.StatusOK, resp)
}

// GetRecommendations handles GET /recommendations/{destination}.
// Unknown destinations get empty lists.
func (s *Server) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	dest := catalog.NormalizeLocation(chi.URLParam(r, "destination"))
	rec := s.itineraries.Recommendations(dest)
	writeJSON(w, http.StatusOK, Recommendations{
		Destination:         dest,
		TouristDestinations: nonNil(rec.TouristDestinations),
		FastestRoute:        rec.FastestRoute,
		LocalTips:           nonNil(rec.LocalTips),
	})
}

// --- mapping helpers --------------------------------------------------------

func flightToResponse(f catalog.FlightResult) Flight {
	resp := Flight{
		ID:              f.ID,
		Origin:          f.Origin,
		OriginCity:      f.OriginCity,
		Destination:     f.Destination,
		DestinationCity: f.DestinationCity,
		Airline:         f.Airline,
		FlightNumber:    f.FlightNumber,
		Price:           f.Price,
		DepartureDate:   openapi_types.Date{Time: f.DepartureDate},
		DepartureTime:   f.DepartureTime,
		ArrivalTime:     f.ArrivalTime,
		Duration:        f.Duration,
		Stops:           f.Stops,
	}
	if !f.ReturnDate.IsZero() {
		resp.ReturnDate = &openapi_types.Date{Time: f.ReturnDate}
	}
	return resp
}

func hotelToResponse(h catalog.Hotel) Hotel {
	return Hotel{
		ID:            h.ID,
		Name:          h.Name,
		Destination:   h.Destination,
		Rating:        h.Rating,
		PricePerNight: h.PricePerNight,
		Address:       h.Address,
		Amenities:     nonNil(h.Amenities),
		Images:        nonNil(h.Images),
		Description:   h.Description,
	}
}

func flightQuoteToResponse(q catalog.FlightQuote) FlightQuote {
	return FlightQuote{
		BasePrice:  q.BasePrice,
		Passengers: q.Passengers,
		TotalPrice: q.TotalPrice,
		Taxes:      q.Taxes,
		FinalPrice: q.FinalPrice,
	}
}

func hotelQuoteToResponse(q catalog.HotelQuote) HotelQuote {
	return HotelQuote{
		PricePerNight: q.PricePerNight,
		Nights:        q.Nights,
		Guests:        q.Guests,
		BasePrice:     q.BasePrice,
		Taxes:         q.Taxes,
		Fees:          q.Fees,
		TotalPrice:    q.TotalPrice,
	}
}

func optionalDate(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
