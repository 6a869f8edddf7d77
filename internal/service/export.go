package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/voyage-planner/voyage/internal/domain"
)

// tripLoader is the part of TripService the exporter needs.
type tripLoader interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (domain.TripDetails, error)
}

// ExportService renders a trip and everything it links to as flat rows,
// CSV, or a printable PDF.
type ExportService struct {
	trips tripLoader
}

// NewExportService constructs an ExportService on top of a trip loader,
// normally a *TripService.
func NewExportService(trips tripLoader) *ExportService {
	return &ExportService{trips: trips}
}

// CSVHeader is the first line of a CSV export.
var CSVHeader = []string{
	"trip_id", "trip_name", "destination", "trip_start_date", "trip_end_date", "status",
	"flight", "hotel", "day_date", "activity_time", "activity_name", "activity_location",
}

// Export returns one ExportRow per itinerary activity. A trip with no
// itinerary, or whose itinerary has no activities, yields one row with empty
// activity fields.
func (s *ExportService) Export(ctx context.Context, userID, tripID uuid.UUID) ([]domain.ExportRow, error) {
	d, err := s.trips.GetByID(ctx, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	return Rows(d), nil
}

// Rows flattens d into export rows.
func Rows(d domain.TripDetails) []domain.ExportRow {
	base := domain.ExportRow{
		TripID:        d.ID.String(),
		TripName:      d.Name,
		Destination:   d.Destination,
		TripStartDate: d.StartDate.Format(domain.DateLayout),
		TripEndDate:   d.EndDate.Format(domain.DateLayout),
		Status:        string(d.Status),
		Flight:        flightSummary(d.FlightBooking),
		Hotel:         hotelSummary(d.HotelBooking),
	}

	var rows []domain.ExportRow
	if d.Itinerary != nil {
		for _, day := range d.Itinerary.Days {
			for _, a := range day.Activities {
				row := base
				row.DayDate = day.Date.Format(domain.DateLayout)
				row.ActivityTime = a.Time
				row.ActivityName = a.Name
				row.ActivityLocation = a.Location
				rows = append(rows, row)
			}
		}
	}
	if len(rows) == 0 {
		rows = append(rows, base)
	}
	return rows
}

// WriteCSV writes rows, preceded by CSVHeader, to w.
func WriteCSV(w io.Writer, rows []domain.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("service.WriteCSV: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.TripID, r.TripName, r.Destination, r.TripStartDate, r.TripEndDate, r.Status,
			r.Flight, r.Hotel, r.DayDate, r.ActivityTime, r.ActivityName, r.ActivityLocation,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("service.WriteCSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("service.WriteCSV: %w", err)
	}
	return nil
}

// PDF renders a one-document trip summary: trip header, flight, hotel, the
// day-by-day plan, and a QR code carrying the trip id.
func (s *ExportService) PDF(ctx context.Context, userID, tripID uuid.UUID, w io.Writer) error {
	const op = "service.ExportService.PDF"

	d, err := s.trips.GetByID(ctx, userID, tripID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	qr, err := qrcode.Encode(d.ID.String(), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("%s: qr: %w", op, err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(d.Name, true)
	pdf.AddPage()
	// Core fonts are cp1252; tr converts UTF-8 text for them.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, tr(d.Name))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, tr("Destination: "+d.Destination))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Dates: %s to %s", d.StartDate.Format(domain.DateLayout), d.EndDate.Format(domain.DateLayout)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", d.Status))
	pdf.Ln(7)
	if d.Budget != nil {
		pdf.Cell(0, 8, "Budget: "+strconv.FormatFloat(*d.Budget, 'f', 2, 64))
		pdf.Ln(7)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 160, 10, 35, 35, false, opts, 0, "")

	pdfSection(pdf, "Flight")
	pdfLine(pdf, tr, orNone(flightSummary(d.FlightBooking)))
	pdfSection(pdf, "Hotel")
	pdfLine(pdf, tr, orNone(hotelSummary(d.HotelBooking)))

	pdfSection(pdf, "Itinerary")
	if d.Itinerary == nil || len(d.Itinerary.Days) == 0 {
		pdfLine(pdf, tr, "None")
	} else {
		for i, day := range d.Itinerary.Days {
			pdf.SetFont("Arial", "B", 12)
			pdf.Cell(0, 8, fmt.Sprintf("Day %d - %s", i+1, day.Date.Format(domain.DateLayout)))
			pdf.Ln(7)
			for _, a := range day.Activities {
				line := a.Name
				if a.Time != "" {
					line = a.Time + ": " + line
				}
				if a.Location != "" {
					line += " (" + a.Location + ")"
				}
				pdfLine(pdf, tr, "  "+line)
			}
		}
	}
	if d.Notes != "" {
		pdfSection(pdf, "Notes")
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, tr(d.Notes), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func pdfSection(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 9, title)
	pdf.Ln(9)
}

func pdfLine(pdf *gofpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, tr(text))
	pdf.Ln(6)
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func flightSummary(b *domain.FlightBooking) string {
	if b == nil {
		return ""
	}
	s := fmt.Sprintf("%s %s %s-%s %s", b.Airline, b.FlightNumber, b.Origin, b.Destination, b.DepartureDate.Format(domain.DateLayout))
	if b.ReturnDate != nil {
		s += " return " + b.ReturnDate.Format(domain.DateLayout)
	}
	return fmt.Sprintf("%s (%s)", s, b.Status)
}

func hotelSummary(b *domain.HotelBooking) string {
	if b == nil {
		return ""
	}
	return fmt.Sprintf("%s, %s %s to %s (%s)", b.HotelName, b.Destination,
		b.CheckInDate.Format(domain.DateLayout), b.CheckOutDate.Format(domain.DateLayout), b.Status)
}
