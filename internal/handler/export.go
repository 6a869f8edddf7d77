package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/voyage-planner/voyage/internal/domain"
	"github.com/voyage-planner/voyage/internal/service"
)

// ExportRow is one row of a JSON trip export. Activity fields are omitted
// on the single row of a trip without activities.
type ExportRow struct {
	TripID           string `json:"trip_id"`
	TripName         string `json:"trip_name"`
	Destination      string `json:"destination"`
	TripStartDate    string `json:"trip_start_date"`
	TripEndDate      string `json:"trip_end_date"`
	Status           string `json:"status"`
	Flight           string `json:"flight,omitempty"`
	Hotel            string `json:"hotel,omitempty"`
	DayDate          string `json:"day_date,omitempty"`
	ActivityTime     string `json:"activity_time,omitempty"`
	ActivityName     string `json:"activity_name,omitempty"`
	ActivityLocation string `json:"activity_location,omitempty"`
}

// ExportTrip handles GET /trips/{id}/export?format=json|csv|pdf.
// JSON is the default.
func (s *Server) ExportTrip(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "trip")
	if !ok {
		return
	}

	format := newQuery(r).str("format")
	switch format {
	case "", "json", "csv":
		rows, err := s.export.Export(r.Context(), uid, id)
		if err != nil {
			s.serviceError(w, r, "trip", err)
			return
		}
		if format == "csv" {
			s.writeCSV(w, r, id.String(), rows)
			return
		}
		out := make([]ExportRow, len(rows))
		for i, row := range rows {
			out[i] = ExportRow(row)
		}
		writeJSON(w, http.StatusOK, out)
	case "pdf":
		// Rendered into memory so that a failure can still become a JSON error.
		var buf bytes.Buffer
		if err := s.export.PDF(r.Context(), uid, id, &buf); err != nil {
			s.serviceError(w, r, "trip", err)
			return
		}
		attachment(w, "application/pdf", "trip-"+id.String()+".pdf", buf.Len())
		_, _ = w.Write(buf.Bytes())
	default:
		requestError(w, fmt.Sprintf("format must be one of: json, csv, pdf (got %q)", format))
	}
}

func (s *Server) writeCSV(w http.ResponseWriter, r *http.Request, id string, rows []domain.ExportRow) {
	var buf bytes.Buffer
	if err := service.WriteCSV(&buf, rows); err != nil {
		s.serviceError(w, r, "trip", err)
		return
	}
	attachment(w, "text/csv; charset=utf-8", "trip-"+id+".csv", buf.Len())
	_, _ = w.Write(buf.Bytes())
}

func attachment(w http.ResponseWriter, contentType, filename string, size int) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(size))
	w.WriteHeader(http.StatusOK)
}
