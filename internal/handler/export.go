package handler

import (
	"bytes"
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/readinglog/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"book_id", "title", "author", "total_pages", "status", "completed_at",
	"log_date", "pages_read", "duration_minutes", "log_notes",
}

// ExportRowResponse is the JSON form of one export row.
// Log fields are omitted for books that have no logs.
type ExportRowResponse struct {
	BookID          uuid.UUID  `json:"book_id"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	TotalPages      int        `json:"total_pages"`
	Status          string     `json:"status"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	LogDate         *string    `json:"log_date,omitempty"`
	PagesRead       *int       `json:"pages_read,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	LogNotes        *string    `json:"log_notes,omitempty"`
}

// GetExport handles GET /export.
// It returns one row per reading log with its book's fields repeated.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		writeError(w, r, http.StatusUnprocessableEntity, "validation_error", "format must be json or csv", "format")
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		respondErr(w, r, err, "export")
		return
	}

	if format == "csv" {
		writeCSV(w, r, rows)
		return
	}
	out := make([]ExportRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, exportRowToResponse(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as CSV with a header line.
func writeCSV(w http.ResponseWriter, r *http.Request, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(exportRowToCSVRecord(row))
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.ErrorContext(r.Context(), "encode csv export", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", "internal server error", "")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="reading-log-export.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func exportRowToResponse(r domain.ExportRow) ExportRowResponse {
	id, _ := uuid.Parse(r.BookID)
	out := ExportRowResponse{
		BookID:      id,
		Title:       r.Title,
		Author:      r.Author,
		TotalPages:  r.TotalPages,
		Status:      r.Status,
		CompletedAt: r.CompletedAt,
	}
	if r.LogDate != "" {
		date, pages := r.LogDate, r.PagesRead
		out.LogDate = &date
		out.PagesRead = &pages
		out.DurationMinutes = r.DurationMinutes
		out.LogNotes = optionalString(r.LogNotes)
	}
	return out
}

// exportRowToCSVRecord flattens a row into strings.
// Nil pointers and the zero page count of a log-less book become empty cells.
func exportRowToCSVRecord(r domain.ExportRow) []string {
	pages := ""
	if r.LogDate != "" {
		pages = strconv.Itoa(r.PagesRead)
	}
	return []string{
		r.BookID,
		r.Title,
		r.Author,
		strconv.Itoa(r.TotalPages),
		r.Status,
		formatOptionalTime(r.CompletedAt),
		r.LogDate,
		pages,
		formatOptionalInt(r.DurationMinutes),
		r.LogNotes,
	}
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
