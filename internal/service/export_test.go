package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/service"
)

// mockTripLoader is a hand-written double for the exporter's trip source.
type mockTripLoader struct {
	getByID func(ctx context.Context, userID, id uuid.UUID) (domain.TripDetails, error)
}

func (m *mockTripLoader) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.TripDetails, error) {
	return m.getByID(ctx, userID, id)
}

func detailsFixture() domain.TripDetails {
	return domain.TripDetails{
		Trip: domain.Trip{
			ID: uuid.New(), Name: "Paris", Destination: "PAR",
			StartDate: day(2025, 11, 1), EndDate: day(2025, 11, 7), Status: domain.TripConfirmed,
		},
		FlightBooking: &domain.FlightBooking{
			Airline: "GlobalAir", FlightNumber: "GA901", Origin: "NYC", Destination: "PAR",
			DepartureDate: day(2025, 11, 1), Status: domain.BookingConfirmed,
		},
		Itinerary: &domain.Itinerary{Days: []domain.Day{
			{Date: day(2025, 11, 1), Activities: []domain.Activity{
				{Name: "Eiffel Tower", Time: "Morning", Location: "Champ de Mars"},
				{Name: "Louvre Museum", Time: "Afternoon", Location: "Louvre"},
			}},
			{Date: day(2025, 11, 2), Activities: []domain.Activity{
				{Name: "Montmartre & Sacré-Cœur", Time: "Afternoon", Location: "Montmartre"},
			}},
		}},
	}
}

func loaderFor(d domain.TripDetails) *mockTripLoader {
	return &mockTripLoader{getByID: func(context.Context, uuid.UUID, uuid.UUID) (domain.TripDetails, error) {
		return d, nil
	}}
}

func TestExportService_Export_OneRowPerActivity(t *testing.T) {
	d := detailsFixture()
	svc := service.NewExportService(loaderFor(d))

	rows, err := svc.Export(context.Background(), uuid.New(), d.ID)

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Paris", rows[0].TripName)
	assert.Equal(t, "2025-11-01", rows[0].TripStartDate)
	assert.Equal(t, "GlobalAir GA901 NYC-PAR 2025-11-01 (confirmed)", rows[0].Flight)
	assert.Empty(t, rows[0].Hotel)
	assert.Equal(t, "Eiffel Tower", rows[0].ActivityName)
	assert.Equal(t, "2025-11-02", rows[2].DayDate)
	assert.Equal(t, rows[0].TripID, rows[2].TripID)
}

func TestExportService_Export_NoItineraryYieldsOneRow(t *testing.T) {
	d := detailsFixture()
	d.Itinerary = nil
	svc := service.NewExportService(loaderFor(d))

	rows, err := svc.Export(context.Background(), uuid.New(), d.ID)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Paris", rows[0].TripName)
	assert.Empty(t, rows[0].ActivityName)
	assert.Empty(t, rows[0].DayDate)
}

func TestExportService_Export_NotFound(t *testing.T) {
	svc := service.NewExportService(&mockTripLoader{
		getByID: func(context.Context, uuid.UUID, uuid.UUID) (domain.TripDetails, error) {
			return domain.TripDetails{}, domain.ErrNotFound
		},
	})

	_, err := svc.Export(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)

	var buf bytes.Buffer
	assert.ErrorIs(t, svc.PDF(context.Background(), uuid.New(), uuid.New(), &buf), domain.ErrNotFound)
	assert.Zero(t, buf.Len())
}

func TestWriteCSV(t *testing.T) {
	rows := service.Rows(detailsFixture())
	var buf bytes.Buffer

	require.NoError(t, service.WriteCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, service.CSVHeader, records[0])
	assert.Equal(t, "Montmartre & Sacré-Cœur", records[3][10])
}

func TestExportService_PDF(t *testing.T) {
	d := detailsFixture()
	svc := service.NewExportService(loaderFor(d))
	var buf bytes.Buffer

	require.NoError(t, svc.PDF(context.Background(), uuid.New(), d.ID, &buf))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestExportService_PDF_NonLatinTextAndNotes(t *testing.T) {
	d := detailsFixture()
	d.Name = "Côte d'Azur → Paris"
	d.Notes = "Réserver le musée d'Orsay.\nBring a €20 note."
	budget := 1800.0
	d.Budget = &budget
	d.HotelBooking = &domain.HotelBooking{
		HotelName: "Hôtel Élysée", Destination: "PAR",
		CheckInDate: day(2025, 11, 1), CheckOutDate: day(2025, 11, 7), Status: domain.BookingConfirmed,
	}
	var buf bytes.Buffer

	err := service.NewExportService(loaderFor(d)).PDF(context.Background(), uuid.New(), d.ID, &buf)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, string(bytes.TrimSpace(buf.Bytes())), "%%EOF")
}

func TestExportService_WithTripService(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.seedUser(t, "a@example.com")
	trips := service.NewTripService(f.repos, f.opts)
	finalized, err := trips.Finalize(ctx, u.ID, service.FinalizeInput{
		Destination: "PAR", StartDate: day(2025, 11, 1), EndDate: day(2025, 11, 7), Days: parisDays(6),
	})
	require.NoError(t, err)

	rows, err := service.NewExportService(trips).Export(ctx, u.ID, finalized.Trip.ID)

	require.NoError(t, err)
	assert.Len(t, rows, 6)
}
