package catalog

import "time"

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic("catalog: bad date literal " + s)
	}
	return t
}

// sampleFlights is the fixed demo flight inventory.
var sampleFlights = []Flight{
	{ID: "f1", Origin: "NYC", Destination: "LAX", Airline: "AirDemo", Price: 250, DepartureTime: "08:00", ArrivalTime: "11:00", DepartureDate: date("2025-08-01"), ReturnDate: date("2025-08-05"), Duration: "6h 0m", FlightNumber: "AD123"},
	{ID: "f2", Origin: "NYC", Destination: "LAX", Airline: "FlySim", Price: 300, DepartureTime: "10:00", ArrivalTime: "13:00", DepartureDate: date("2025-08-01"), ReturnDate: date("2025-08-05"), Duration: "6h 0m", FlightNumber: "FS456"},
	{ID: "f3", Origin: "LAX", Destination: "SFO", Airline: "AirDemo", Price: 100, DepartureTime: "09:00", ArrivalTime: "10:30", DepartureDate: date("2025-09-10"), ReturnDate: date("2025-09-15"), Duration: "1h 30m", FlightNumber: "AD789"},
	{ID: "f4", Origin: "NYC", Destination: "MIA", Airline: "FlySim", Price: 180, DepartureTime: "07:00", ArrivalTime: "10:00", DepartureDate: date("2025-07-01"), ReturnDate: date("2025-07-08"), Duration: "3h 0m", FlightNumber: "FS321"},
	{ID: "f5", Origin: "NYC", Destination: "PAR", Airline: "GlobalAir", Price: 700, DepartureTime: "18:00", ArrivalTime: "08:00", DepartureDate: date("2025-11-01"), ReturnDate: date("2025-11-07"), Duration: "8h 0m", FlightNumber: "GA901"},
	{ID: "f6", Origin: "NYC", Destination: "MIA", Airline: "AirDemo", Price: 200, DepartureTime: "14:00", ArrivalTime: "17:00", DepartureDate: date("2025-07-15"), ReturnDate: date("2025-07-22"), Duration: "3h 0m", FlightNumber: "AD555"},
	{ID: "f7", Origin: "NYC", Destination: "MIA", Airline: "SkyLine", Price: 165, DepartureTime: "09:30", ArrivalTime: "12:30", DepartureDate: date("2025-08-01"), ReturnDate: date("2025-08-08"), Duration: "3h 0m", FlightNumber: "SL789"},
}

// sampleHotels is the fixed demo hotel inventory.
var sampleHotels = []Hotel{
	{ID: "h1", Name: "Grand Los Angeles Hotel", Destination: "LAX", Rating: 4, PricePerNight: 150, Address: "123 Hollywood Blvd",
		Amenities: []string{"WiFi", "Pool", "Gym", "Restaurant", "Spa"}, Images: []string{"hotel1.jpg", "hotel1_room.jpg"},
		Description: "Luxury hotel in the heart of Hollywood"},
	{ID: "h2", Name: "Downtown LA Inn", Destination: "LAX", Rating: 3, PricePerNight: 100, Address: "456 City Center",
		Amenities: []string{"WiFi", "Parking", "Business Center"}, Images: []string{"hotel2.jpg"},
		Description: "Affordable accommodation in downtown LA"},
	{ID: "h3", Name: "San Francisco Bay View", Destination: "SFO", Rating: 5, PricePerNight: 250, Address: "789 Pier St",
		Amenities: []string{"WiFi", "Pool", "Gym", "Restaurant", "Spa", "Ocean View"}, Images: []string{"hotel3.jpg", "hotel3_view.jpg"},
		Description: "Premium hotel with stunning bay views"},
	{ID: "h4", Name: "Miami Beach Resort", Destination: "MIA", Rating: 4, PricePerNight: 200, Address: "101 Ocean Drive",
		Amenities: []string{"WiFi", "Pool", "Beach Access", "Restaurant", "Bar"}, Images: []string{"hotel4.jpg"},
		Description: "Beachfront resort in vibrant South Beach"},
	{ID: "h5", Name: "Parisian Charm Hotel", Destination: "PAR", Rating: 4, PricePerNight: 300, Address: "Arc de Triomphe Area",
		Amenities: []string{"WiFi", "Restaurant", "Concierge", "Room Service"}, Images: []string{"hotel5.jpg"},
		Description: "Elegant hotel near the Arc de Triomphe"},
}
