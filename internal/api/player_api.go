package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wordkite/wordkite/internal/domain"
)

// --- POST /api/players/{playerID}/completions ---

type completeRequest struct {
	ActivityID   string `json:"activity_id"`
	ActivityKind string `json:"activity_kind"`

	// Optional structured form; used when activity_id is empty.
	Lesson string `json:"lesson,omitempty"`
	Round  int    `json:"round,omitempty"`
}

func (s *Server) handleCompleteActivity(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	kind := domain.ActivityKind(req.ActivityKind)
	activityID := req.ActivityID
	if activityID == "" && req.Lesson != "" {
		activityID = domain.ActivityID(kind, req.Lesson, req.Round)
	}

	result, err := s.completions.CompleteActivity(r.Context(), playerID, activityID, kind)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyPlayerID) || errors.Is(err, domain.ErrEmptyActivityID) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// --- POST /api/players/{playerID}/freezes ---

type grantFreezesRequest struct {
	Count int `json:"count"`
}

func (s *Server) handleGrantFreezes(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	var req grantFreezesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := s.completions.GrantFreezes(r.Context(), playerID, req.Count)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyPlayerID) || errors.Is(err, domain.ErrNonPositiveAmount) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// --- GET /api/players/{playerID}/streak ---

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	state, err := s.completions.GetStreak(playerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// --- GET /api/players/{playerID}/progression ---

func (s *Server) handleProgression(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	state, err := s.completions.GetProgression(playerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// --- GET /api/players/{playerID}/wallet ---

func (s *Server) handleWalletHistory(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	entries, err := s.wallet.History(playerID, 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"player_id": playerID,
		"entries":   entries,
	})
}

// --- GET /api/players/{playerID}/summary ---

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	summary, err := s.completions.GetSummary(playerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
