package handler

import "net/http"

// CreateGoal handles POST /goals.
func (s *Server) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var body GoalRequest
	if err := decodeJSON(r, &body); err != nil {
		respondDecodeErr(w, r, err)
		return
	}
	goal, err := body.toDomain()
	if err != nil {
		respondErr(w, r, err, "goal")
		return
	}

	created, err := s.goals.Create(r.Context(), goal)
	if err != nil {
		respondErr(w, r, err, "goal")
		return
	}
	writeJSON(w, http.StatusCreated, goalToResponse(created))
}

// ListGoals handles GET /goals.
func (s *Server) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goals.List(r.Context())
	if err != nil {
		respondErr(w, r, err, "goal")
		return
	}
	out := make([]GoalResponse, len(goals))
	for i, g := range goals {
		out[i] = goalToResponse(g)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetGoal handles GET /goals/{id}.
func (s *Server) GetGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", err.Error(), "id")
		return
	}

	goal, err := s.goals.GetByID(r.Context(), id)
	if err != nil {
		respondErr(w, r, err, "goal")
		return
	}
	writeJSON(w, http.StatusOK, goalToResponse(goal))
}

// GetGoalProgress handles GET /goals/{id}/progress.
func (s *Server) GetGoalProgress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", err.Error(), "id")
		return
	}

	p, err := s.goals.Progress(r.Context(), id)
	if err != nil {
		respondErr(w, r, err, "goal")
		return
	}
	writeJSON(w, http.StatusOK, progressToResponse(p))
}

// ListGoalProgress handles GET /goals/progress: every goal evaluated now.
func (s *Server) ListGoalProgress(w http.ResponseWriter, r *http.Request) {
	all, err := s.goals.ProgressAll(r.Context())
	if err != nil {
		respondErr(w, r, err, "goal")
		return
	}
	out := make([]GoalProgressResponse, len(all))
	for i, p := range all {
		out[i] = progressToResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}
