package handler

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/readinglog/internal/domain"
)

// optionalInt accepts the loose numeric input browser forms produce: a JSON
// number, a numeric string, an empty string, or null. Empty and null mean
// "not set". Anything else is recorded as invalid rather than failing the
// whole decode, so the handler can report which field was wrong.
type optionalInt struct {
	set     bool
	invalid bool
	value   int
}

func (o *optionalInt) UnmarshalJSON(b []byte) error {
	*o = optionalInt{}
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := string(b)
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			o.invalid = true
			return nil
		}
		s = strings.TrimSpace(unquoted)
		if s == "" {
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		o.invalid = true
		return nil
	}
	o.set, o.value = true, n
	return nil
}

// ptr returns nil when unset, or a FieldError naming field when invalid.
func (o optionalInt) ptr(field string) (*int, error) {
	switch {
	case o.invalid:
		return nil, domain.NewFieldError(field, field+" must be an integer")
	case !o.set:
		return nil, nil
	}
	v := o.value
	return &v, nil
}

// orZero returns 0 when unset; the service rejects that for required fields.
func (o optionalInt) orZero(field string) (int, error) {
	p, err := o.ptr(field)
	if err != nil || p == nil {
		return 0, err
	}
	return *p, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ---- books -----------------------------------------------------------------

// BookRequest is the body of POST /books and PUT /books/{id}.
// Status is ignored on create.
type BookRequest struct {
	Title       string      `json:"title"`
	Author      string      `json:"author"`
	TotalPages  optionalInt `json:"total_pages"`
	CurrentPage optionalInt `json:"current_page"`
	CoverURL    *string     `json:"cover_url"`
	Status      string      `json:"status"`
	Rating      optionalInt `json:"rating"`
	Notes       *string     `json:"notes"`
}

func (b BookRequest) toDomain(id uuid.UUID) (domain.Book, error) {
	pages, err := b.TotalPages.orZero("total_pages")
	if err != nil {
		return domain.Book{}, err
	}
	current, err := b.CurrentPage.orZero("current_page")
	if err != nil {
		return domain.Book{}, err
	}
	rating, err := b.Rating.ptr("rating")
	if err != nil {
		return domain.Book{}, err
	}
	book := domain.Book{
		ID:          id,
		Title:       b.Title,
		Author:      b.Author,
		TotalPages:  pages,
		CurrentPage: current,
		Status:      domain.BookStatus(b.Status),
		Rating:      rating,
	}
	if b.CoverURL != nil {
		book.CoverURL = *b.CoverURL
	}
	if b.Notes != nil {
		book.Notes = *b.Notes
	}
	return book, nil
}

// BookResponse is the wire form of a domain.Book.
type BookResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	TotalPages  int        `json:"total_pages"`
	CurrentPage int        `json:"current_page"`
	CoverURL    *string    `json:"cover_url,omitempty"`
	Status      string     `json:"status"`
	Rating      *int       `json:"rating,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func bookToResponse(b domain.Book) BookResponse {
	return BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		TotalPages:  b.TotalPages,
		CurrentPage: b.CurrentPage,
		CoverURL:    optionalString(b.CoverURL),
		Status:      string(b.Status),
		Rating:      b.Rating,
		Notes:       optionalString(b.Notes),
		StartedAt:   b.StartedAt,
		CompletedAt: b.CompletedAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// ---- reading logs ----------------------------------------------------------

// ReadingLogRequest is the body of POST /reading-logs.
// Date is kept as a string so a malformed date becomes a field error.
// A book_id that is not a UUID cannot name a stored book, so it is reported
// as domain.ErrNotFound once the other fields have parsed.
type ReadingLogRequest struct {
	BookID          string      `json:"book_id"`
	Date            string      `json:"date"`
	PagesRead       optionalInt `json:"pages_read"`
	DurationMinutes optionalInt `json:"duration_minutes"`
	Notes           *string     `json:"notes"`
}

func (b ReadingLogRequest) toDomain() (domain.ReadingLog, error) {
	var (
		bookID  uuid.UUID
		unknown bool
		err     error
	)
	if raw := strings.TrimSpace(b.BookID); raw != "" {
		bookID, err = uuid.Parse(raw)
		unknown = err != nil
	}
	var date time.Time
	if s := strings.TrimSpace(b.Date); s != "" {
		date, err = domain.ParseDate(s)
		if err != nil {
			return domain.ReadingLog{}, domain.NewFieldError("date", "date must be a valid YYYY-MM-DD calendar date")
		}
	}
	pages, err := b.PagesRead.orZero("pages_read")
	if err != nil {
		return domain.ReadingLog{}, err
	}
	duration, err := b.DurationMinutes.ptr("duration_minutes")
	if err != nil {
		return domain.ReadingLog{}, err
	}
	if unknown {
		return domain.ReadingLog{}, fmt.Errorf("book %q: %w", b.BookID, domain.ErrNotFound)
	}
	l := domain.ReadingLog{BookID: bookID, Date: date, PagesRead: pages, DurationMinutes: duration}
	if b.Notes != nil {
		l.Notes = *b.Notes
	}
	return l, nil
}

// ReadingLogResponse is the wire form of a domain.ReadingLog.
type ReadingLogResponse struct {
	ID              uuid.UUID          `json:"id"`
	BookID          uuid.UUID          `json:"book_id"`
	Date            openapi_types.Date `json:"date"`
	PagesRead       int                `json:"pages_read"`
	DurationMinutes *int               `json:"duration_minutes,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

func logToResponse(l domain.ReadingLog) ReadingLogResponse {
	return ReadingLogResponse{
		ID:              l.ID,
		BookID:          l.BookID,
		Date:            openapi_types.Date{Time: l.Date},
		PagesRead:       l.PagesRead,
		DurationMinutes: l.DurationMinutes,
		Notes:           optionalString(l.Notes),
		CreatedAt:       l.CreatedAt,
	}
}

// StatsResponse is the body of GET /reading-logs/stats.
type StatsResponse struct {
	Today int `json:"today"`
	Week  int `json:"week"`
	Month int `json:"month"`
	Total int `json:"total"`
}

// ---- goals -----------------------------------------------------------------

// GoalRequest is the body of POST /goals.
type GoalRequest struct {
	GoalType    string      `json:"goal_type"`
	TargetPages optionalInt `json:"target_pages"`
	TargetBooks optionalInt `json:"target_books"`
	Notes       *string     `json:"notes"`
}

func (b GoalRequest) toDomain() (domain.Goal, error) {
	pages, err := b.TargetPages.ptr("target_pages")
	if err != nil {
		return domain.Goal{}, err
	}
	books, err := b.TargetBooks.ptr("target_books")
	if err != nil {
		return domain.Goal{}, err
	}
	g := domain.Goal{GoalType: domain.GoalType(b.GoalType), TargetPages: pages, TargetBooks: books}
	if b.Notes != nil {
		g.Notes = *b.Notes
	}
	return g, nil
}

// GoalResponse is the wire form of a domain.Goal.
type GoalResponse struct {
	ID          uuid.UUID `json:"id"`
	GoalType    string    `json:"goal_type"`
	TargetPages *int      `json:"target_pages,omitempty"`
	TargetBooks *int      `json:"target_books,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func goalToResponse(g domain.Goal) GoalResponse {
	return GoalResponse{
		ID:          g.ID,
		GoalType:    string(g.GoalType),
		TargetPages: g.TargetPages,
		TargetBooks: g.TargetBooks,
		Notes:       optionalString(g.Notes),
		CreatedAt:   g.CreatedAt,
	}
}

// TargetProgressResponse is progress toward one numeric target.
type TargetProgressResponse struct {
	Target  int  `json:"target"`
	Current int  `json:"current"`
	Met     bool `json:"met"`
}

// GoalProgressResponse is the wire form of a domain.GoalProgress.
type GoalProgressResponse struct {
	Goal        GoalResponse            `json:"goal"`
	PeriodStart openapi_types.Date      `json:"period_start"`
	PeriodEnd   openapi_types.Date      `json:"period_end"`
	Pages       *TargetProgressResponse `json:"pages,omitempty"`
	Books       *TargetProgressResponse `json:"books,omitempty"`
	Met         bool                    `json:"met"`
}

func progressToResponse(p domain.GoalProgress) GoalProgressResponse {
	return GoalProgressResponse{
		Goal:        goalToResponse(p.Goal),
		PeriodStart: openapi_types.Date{Time: p.PeriodStart},
		PeriodEnd:   openapi_types.Date{Time: p.PeriodEnd},
		Pages:       targetToResponse(p.Pages),
		Books:       targetToResponse(p.Books),
		Met:         p.Met,
	}
}

func targetToResponse(t *domain.TargetProgress) *TargetProgressResponse {
	if t == nil {
		return nil
	}
	return &TargetProgressResponse{Target: t.Target, Current: t.Current, Met: t.Met}
}
