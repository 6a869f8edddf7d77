package catalog

import (
	"math"
	"time"
)

// Rates are whole percentages so that rounding is exact integer arithmetic.
const (
	flightTaxPercent = 15
	hotelTaxPercent  = 12
	hotelBookingFee  = 25
)

// percentOf returns round(amount * pct / 100), halves rounded up.
func percentOf(amount, pct int) int {
	return (amount*pct + 50) / 100
}

// FlightQuote is the price breakdown for a flight selection.
// All amounts are whole currency units.
type FlightQuote struct {
	BasePrice  int
	Passengers int
	TotalPrice int
	Taxes      int
	FinalPrice int
}

// HotelQuote is the price breakdown for a hotel stay.
type HotelQuote struct {
	PricePerNight int
	Nights        int
	Guests        int
	BasePrice     int
	Taxes         int
	Fees          int
	TotalPrice    int
}

// QuoteFlight prices passengers seats at basePrice each.
// Taxes are quoted per seat; FinalPrice includes tax for every seat.
func QuoteFlight(basePrice, passengers int) FlightQuote {
	total := basePrice * passengers
	return FlightQuote{
		BasePrice:  basePrice,
		Passengers: passengers,
		TotalPrice: total,
		Taxes:      percentOf(basePrice, flightTaxPercent),
		FinalPrice: percentOf(total, 100+flightTaxPercent),
	}
}

// Nights is the number of started days between checkIn and checkOut.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// QuoteHotel prices a stay at pricePerNight between checkIn and checkOut.
func QuoteHotel(pricePerNight int, checkIn, checkOut time.Time, guests int) HotelQuote {
	nights := Nights(checkIn, checkOut)
	base := pricePerNight * nights
	taxes := percentOf(base, hotelTaxPercent)
	return HotelQuote{
		PricePerNight: pricePerNight,
		Nights:        nights,
		Guests:        guests,
		BasePrice:     base,
		Taxes:         taxes,
		Fees:          hotelBookingFee,
		TotalPrice:    base + taxes + hotelBookingFee,
	}
}

// FlightQuote prices a catalog flight. ok is false for an unknown id.
func (m *Matcher) FlightQuote(flightID string, passengers int) (FlightQuote, bool) {
	f, ok := m.Flight(flightID)
	if !ok {
		return FlightQuote{}, false
	}
	return QuoteFlight(f.Price, passengers), true
}

// HotelQuote prices a stay at a catalog hotel. ok is false for an unknown id.
func (m *Matcher) HotelQuote(hotelID string, checkIn, checkOut time.Time, guests int) (HotelQuote, bool) {
	h, ok := m.Hotel(hotelID)
	if !ok {
		return HotelQuote{}, false
	}
	return QuoteHotel(h.PricePerNight, checkIn, checkOut, guests), true
}
