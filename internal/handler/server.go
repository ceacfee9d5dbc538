// Package handler implements the HTTP handlers for the reading log API.
// All handlers are methods on Server. They are split into resource files
// (book.go, readinglog.go, goal.go, ...) but share the same Server struct so
// they can reach its dependencies. Routes wires them into a chi router.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/readinglog/internal/domain"
)

// BookServicer defines the book registry operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching storage or the service layer.
type BookServicer interface {
	Create(ctx context.Context, book domain.Book) (domain.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Book, error)
	List(ctx context.Context, status *domain.BookStatus) ([]domain.Book, error)
	Update(ctx context.Context, book domain.Book) (domain.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReadingLogServicer defines the reading log operations the handlers depend on.
type ReadingLogServicer interface {
	Append(ctx context.Context, entry domain.ReadingLog) (domain.ReadingLog, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]domain.ReadingLog, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// GoalServicer defines the goal operations the handlers depend on.
type GoalServicer interface {
	Create(ctx context.Context, goal domain.Goal) (domain.Goal, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Goal, error)
	List(ctx context.Context) ([]domain.Goal, error)
	Progress(ctx context.Context, id uuid.UUID) (domain.GoalProgress, error)
	ProgressAll(ctx context.Context) ([]domain.GoalProgress, error)
}

// ExportServicer defines the export operation the handlers depend on.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Server holds the service dependencies for every endpoint.
// A nil servicer is allowed when a test only exercises other endpoints.
type Server struct {
	books   BookServicer
	logs    ReadingLogServicer
	goals   GoalServicer
	export  ExportServicer
	openAPI []byte
}

// NewServer constructs the Server with all its dependencies.
func NewServer(books BookServicer, logs ReadingLogServicer, goals GoalServicer, export ExportServicer) *Server {
	return &Server{books: books, logs: logs, goals: goals, export: export}
}

// WithOpenAPI sets the document served at GET /openapi.yaml.
func (s *Server) WithOpenAPI(doc []byte) *Server {
	s.openAPI = doc
	return s
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Routes returns a chi router with every endpoint registered.
// Cross-cutting middleware (request id, logging, CORS, limits) is applied by
// the caller so tests can exercise the bare routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not_found", "route not found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", "")
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/books", func(r chi.Router) {
		r.Get("/", s.ListBooks)
		r.Post("/", s.CreateBook)
		r.Get("/{id}", s.GetBook)
		r.Put("/{id}", s.UpdateBook)
		r.Delete("/{id}", s.DeleteBook)
	})

	r.Route("/reading-logs", func(r chi.Router) {
		r.Post("/", s.CreateReadingLog)
		r.Get("/stats", s.GetStats)
		r.Get("/book/{id}", s.ListReadingLogsByBook)
	})

	r.Route("/goals", func(r chi.Router) {
		r.Get("/", s.ListGoals)
		r.Post("/", s.CreateGoal)
		r.Get("/progress", s.ListGoalProgress)
		r.Get("/{id}", s.GetGoal)
		r.Get("/{id}/progress", s.GetGoalProgress)
	})

	r.Get("/export", s.GetExport)
	return r
}
