package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Activity is a single planned stop within a Day.
// Time is a free-form time-of-day label such as "Morning" or "Full Day".
type Activity struct {
	Name        string
	Time        string
	Description string
	Location    string
}

// Day is one calendar date of an itinerary and its activities in order.
type Day struct {
	Date       time.Time
	Activities []Activity
}

// Itinerary is a saved day-by-day plan for a destination.
type Itinerary struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Days        []Day
	Title       string
	Notes       string
	GeneratedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate enforces the Itinerary invariants:
//   - destination is required
//   - EndDate is strictly after StartDate
//   - every Day falls within [StartDate, EndDate] by calendar date
//   - Days are in ascending date order with no duplicates
//   - every Activity has a name
func (it Itinerary) Validate() error {
	if strings.TrimSpace(it.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrValidation)
	}
	if it.StartDate.IsZero() || it.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", ErrValidation)
	}
	if !it.EndDate.After(it.StartDate) {
		return fmt.Errorf("%w: end_date must be after start_date", ErrValidation)
	}
	return ValidateDays(it.Days, it.StartDate, it.EndDate)
}

// ValidateDays checks that days lie within [start, end] by calendar date,
// ascend strictly, and carry named activities.
func ValidateDays(days []Day, start, end time.Time) error {
	first, last := CalendarDate(start), CalendarDate(end)
	var prev time.Time
	for i, d := range days {
		date := CalendarDate(d.Date)
		if d.Date.IsZero() {
			return fmt.Errorf("%w: day %d has no date", ErrValidation, i+1)
		}
		if date.Before(first) || date.After(last) {
			return fmt.Errorf("%w: day %s is outside %s..%s", ErrValidation,
				date.Format(DateLayout), first.Format(DateLayout), last.Format(DateLayout))
		}
		if i > 0 && !date.After(prev) {
			return fmt.Errorf("%w: days must be in ascending date order without duplicates (%s)",
				ErrValidation, date.Format(DateLayout))
		}
		for j, a := range d.Activities {
			if strings.TrimSpace(a.Name) == "" {
				return fmt.Errorf("%w: day %s activity %d has no name", ErrValidation, date.Format(DateLayout), j+1)
			}
		}
		prev = date
	}
	return nil
}
