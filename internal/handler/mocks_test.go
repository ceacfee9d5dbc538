package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/readinglog/internal/domain"
	"github.com/pkordes/readinglog/internal/handler"
)

// Test doubles for the handler servicer interfaces.
// Set only the method fields your test needs.

type mockBookServicer struct {
	create  func(ctx context.Context, b domain.Book) (domain.Book, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Book, error)
	list    func(ctx context.Context, status *domain.BookStatus) ([]domain.Book, error)
	update  func(ctx context.Context, b domain.Book) (domain.Book, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockBookServicer) Create(ctx context.Context, b domain.Book) (domain.Book, error) {
	return m.create(ctx, b)
}
func (m *mockBookServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Book, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookServicer) List(ctx context.Context, status *domain.BookStatus) ([]domain.Book, error) {
	return m.list(ctx, status)
}
func (m *mockBookServicer) Update(ctx context.Context, b domain.Book) (domain.Book, error) {
	return m.update(ctx, b)
}
func (m *mockBookServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockReadingLogServicer struct {
	appendFn   func(ctx context.Context, l domain.ReadingLog) (domain.ReadingLog, error)
	listByBook func(ctx context.Context, bookID uuid.UUID) ([]domain.ReadingLog, error)
	stats      func(ctx context.Context) (domain.Stats, error)
}

func (m *mockReadingLogServicer) Append(ctx context.Context, l domain.ReadingLog) (domain.ReadingLog, error) {
	return m.appendFn(ctx, l)
}
func (m *mockReadingLogServicer) ListByBook(ctx context.Context, bookID uuid.UUID) ([]domain.ReadingLog, error) {
	return m.listByBook(ctx, bookID)
}
func (m *mockReadingLogServicer) Stats(ctx context.Context) (domain.Stats, error) {
	return m.stats(ctx)
}

type mockGoalServicer struct {
	create      func(ctx context.Context, g domain.Goal) (domain.Goal, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Goal, error)
	list        func(ctx context.Context) ([]domain.Goal, error)
	progress    func(ctx context.Context, id uuid.UUID) (domain.GoalProgress, error)
	progressAll func(ctx context.Context) ([]domain.GoalProgress, error)
}

func (m *mockGoalServicer) Create(ctx context.Context, g domain.Goal) (domain.Goal, error) {
	return m.create(ctx, g)
}
func (m *mockGoalServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Goal, error) {
	return m.getByID(ctx, id)
}
func (m *mockGoalServicer) List(ctx context.Context) ([]domain.Goal, error) {
	return m.list(ctx)
}
func (m *mockGoalServicer) Progress(ctx context.Context, id uuid.UUID) (domain.GoalProgress, error) {
	return m.progress(ctx, id)
}
func (m *mockGoalServicer) ProgressAll(ctx context.Context) ([]domain.GoalProgress, error) {
	return m.progressAll(ctx)
}

type mockExportServicer struct {
	export func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context) ([]domain.ExportRow, error) {
	return m.export(ctx)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.BookServicer       = (*mockBookServicer)(nil)
	_ handler.ReadingLogServicer = (*mockReadingLogServicer)(nil)
	_ handler.GoalServicer       = (*mockGoalServicer)(nil)
	_ handler.ExportServicer     = (*mockExportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// serve runs req through the real chi router built by Server.Routes.
func serve(srv *handler.Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func jsonRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, jsonBody(t, v))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func intp(v int) *int { return &v }

func bookFixture() domain.Book {
	now := time.Date(2025, 6, 18, 15, 30, 0, 0, time.UTC)
	return domain.Book{
		ID:         uuid.New(),
		Title:      "Piranesi",
		Author:     "Susanna Clarke",
		TotalPages: 272,
		Status:     domain.StatusToRead,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
