package service

import (
	"context"
	"fmt"

	"github.com/pkordes/readinglog/internal/domain"
	"github.com/pkordes/readinglog/internal/repo"
)

// ExportService assembles a flat export of every book and its reading logs.
type ExportService struct {
	books repo.BookRepo
	logs  repo.ReadingLogRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(books repo.BookRepo, logs repo.ReadingLogRepo) *ExportService {
	return &ExportService{books: books, logs: logs}
}

// Export returns one ExportRow per reading log, books in creation order and
// logs in date order within each book. Books with no logs contribute one row
// with empty log fields.
func (s *ExportService) Export(ctx context.Context) (_ []domain.ExportRow, err error) {
	ctx, span := startSpan(ctx, "export.build")
	defer func() { endSpan(span, err) }()

	books, err := s.books.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, b := range books {
		logs, err := s.logs.ListByBookID(ctx, b.ID)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}
		base := bookRow(b)
		if len(logs) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, l := range logs {
			row := base
			row.LogDate = l.Date.Format(domain.DateLayout)
			row.PagesRead = l.PagesRead
			row.DurationMinutes = l.DurationMinutes
			row.LogNotes = l.Notes
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func bookRow(b domain.Book) domain.ExportRow {
	return domain.ExportRow{
		BookID:      b.ID.String(),
		Title:       b.Title,
		Author:      b.Author,
		TotalPages:  b.TotalPages,
		Status:      string(b.Status),
		CompletedAt: b.CompletedAt,
	}
}
