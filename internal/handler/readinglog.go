package handler

import "net/http"

// CreateReadingLog handles POST /reading-logs.
func (s *Server) CreateReadingLog(w http.ResponseWriter, r *http.Request) {
	var body ReadingLogRequest
	if err := decodeJSON(r, &body); err != nil {
		respondDecodeErr(w, r, err)
		return
	}
	entry, err := body.toDomain()
	if err != nil {
		respondErr(w, r, err, "book")
		return
	}

	created, err := s.logs.Append(r.Context(), entry)
	if err != nil {
		respondErr(w, r, err, "book")
		return
	}
	writeJSON(w, http.StatusCreated, logToResponse(created))
}

// ListReadingLogsByBook handles GET /reading-logs/book/{id}.
// An unknown book, including an id that is not a UUID, yields an empty list.
func (s *Server) ListReadingLogsByBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusOK, []ReadingLogResponse{})
		return
	}

	logs, err := s.logs.ListByBook(r.Context(), id)
	if err != nil {
		respondErr(w, r, err, "book")
		return
	}
	out := make([]ReadingLogResponse, len(logs))
	for i, l := range logs {
		out[i] = logToResponse(l)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetStats handles GET /reading-logs/stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.logs.Stats(r.Context())
	if err != nil {
		respondErr(w, r, err, "stats")
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{Today: st.Today, Week: st.Week, Month: st.Month, Total: st.Total})
}
