package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/readinglog/internal/domain"
)

// CreateBook handles POST /books.
func (s *Server) CreateBook(w http.ResponseWriter, r *http.Request) {
	var body BookRequest
	if err := decodeJSON(r, &body); err != nil {
		respondDecodeErr(w, r, err)
		return
	}
	book, err := body.toDomain(uuid.Nil)
	if err != nil {
		respondErr(w, r, err, "book")
		return
	}

	created, err := s.books.Create(r.Context(), book)
	if err != nil {
		respondErr(w, r, err, "book")
		return
	}
	writeJSON(w, http.StatusCreated, bookToResponse(created))
}

// ListBooks handles GET /books with an optional ?status= filter.
func (s *Server) ListBooks(w http.ResponseWriter, r *http.Request) {
	var status *domain.BookStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := domain.BookStatus(raw)
		status = &st
	}

	books, err := s.books.List(r.Context(), status)
	if err != nil {
		respondErr(w, r, err, "book")
		return
	}
	out := make([]BookResponse, len(books))
	for i, b := range books {
		out[i] = bookToResponse(b)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetBook handles GET /books/{id}.
func (s *Server) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", err.Error(), "id")
		return
	}

	book, err := s.books.GetByID(r.Context(), id)
	if err != nil {
		respondErr(w, r, err, "book")
		return
	}
	writeJSON(w, http.StatusOK, bookToResponse(book))
}

// UpdateBook handles PUT /books/{id}. The body replaces every mutable field.
func (s *Server) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", err.Error(), "id")
		return
	}
	var body BookRequest
	if err := decodeJSON(r, &body); err != nil {
		respondDecodeErr(w, r, err)
		return
	}
	book, err := body.toDomain(id)
	if err != nil {
		respondErr(w, r, err, "book")
		return
	}

	updated, err := s.books.Update(r.Context(), book)
	if err != nil {
		respondErr(w, r, err, "book")
		return
	}
	writeJSON(w, http.StatusOK, bookToResponse(updated))
}

// DeleteBook handles DELETE /books/{id}, removing the book's logs with it.
func (s *Server) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", err.Error(), "id")
		return
	}

	if err := s.books.Delete(r.Context(), id); err != nil {
		respondErr(w, r, err, "book")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
