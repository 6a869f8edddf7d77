package domain

// ExportRow is a single row in a trip export.
// It is a flat, denormalized view: one row per itinerary activity, with trip
// fields repeated for every activity. A trip with no itinerary (or an empty
// one) yields one row with zero values for all activity fields.
type ExportRow struct {
	// Trip fields, repeated for every activity on the trip.
	TripID        string
	TripName      string
	Destination   string
	TripStartDate string // "2006-01-02" formatted date
	TripEndDate   string
	Status        string

	// Linked booking summaries, empty when the link is absent or dangling.
	Flight string
	Hotel  string

	// Activity fields, zero values when the trip has no activities.
	DayDate          string
	ActivityTime     string
	ActivityName     string
	ActivityLocation string
}
