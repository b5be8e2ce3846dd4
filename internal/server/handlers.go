package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SANNNNN-123/threeDials/internal/store"
)

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.games.Create(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, g, http.StatusCreated)
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.games.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, g, http.StatusOK)
}

// updateGameRequest records one committed dial value. When the client also
// sends a player name and elapsed time, the update doubles as a win claim and
// goes through the leaderboard submission path.
type updateGameRequest struct {
	SessionID          string `json:"sessionId"`
	Value              *int   `json:"value"`
	PlayerName         string `json:"playerName,omitempty"`
	TimeElapsedSeconds int    `json:"timeElapsedSeconds,omitempty"`
	Country            string `json:"country,omitempty"`
}

func (s *Server) updateGame(w http.ResponseWriter, r *http.Request) {
	var req updateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMsg(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Value == nil {
		respondErrorMsg(w, "value is required", http.StatusBadRequest)
		return
	}

	g, err := s.games.RecordAttempt(r.Context(), req.SessionID, *req.Value)
	if err != nil {
		respondError(w, err)
		return
	}

	// A win claim needs both the name and the elapsed time; with only one
	// present this is an ordinary attempt update.
	if req.PlayerName != "" && req.TimeElapsedSeconds > 0 {
		err := s.board.Submit(r.Context(), req.SessionID, req.PlayerName, req.TimeElapsedSeconds, req.Country)
		if err != nil {
			respondError(w, err)
			return
		}
	}

	respondJSON(w, g, http.StatusOK)
}

func (s *Server) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondErrorMsg(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.board.Top(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if entries == nil {
		entries = []store.Entry{}
	}
	respondJSON(w, entries, http.StatusOK)
}

type submitScoreRequest struct {
	Name      string `json:"name"`
	SessionID string `json:"sessionId"`
	Time      int    `json:"time"`
	Country   string `json:"country,omitempty"`
}

func (s *Server) submitScore(w http.ResponseWriter, r *http.Request) {
	var req submitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMsg(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.board.Submit(r.Context(), req.SessionID, req.Name, req.Time, req.Country); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

func respondJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// respondError maps the store error taxonomy onto HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidInput):
		respondErrorMsg(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		respondErrorMsg(w, "session not found", http.StatusNotFound)
	case errors.Is(err, store.ErrUnavailable):
		slog.Error("store unavailable", "error", err)
		respondErrorMsg(w, "store unavailable", http.StatusServiceUnavailable)
	default:
		slog.Error("request failed", "error", err)
		respondErrorMsg(w, "internal server error", http.StatusInternalServerError)
	}
}

func respondErrorMsg(w http.ResponseWriter, msg string, status int) {
	respondJSON(w, map[string]string{"error": msg}, status)
}
