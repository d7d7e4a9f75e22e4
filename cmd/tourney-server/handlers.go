package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tourney-engine/internal/config"
	"tourney-engine/internal/engine"
)

type handlers struct {
	eng *engine.Engine
	cfg config.ServerConfig
}

func (h *handlers) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

type startGameRequest struct {
	BlindTime     int    `json:"blindTime"`
	PlayersChips  int64  `json:"playersChips"`
	Seats         []seat `json:"seats"`
}

type seat struct {
	Name     string `json:"name"`
	IsOnline bool   `json:"isOnline"`
}

func (h *handlers) startGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		blindTime := req.BlindTime
		if blindTime <= 0 {
			blindTime = h.cfg.DefaultBlindTimeSecs
		}
		chips := req.PlayersChips
		if chips <= 0 {
			chips = h.cfg.DefaultStartingChips
		}
		seats := make([]engine.SeatSpec, len(req.Seats))
		for i, s := range req.Seats {
			seats[i] = engine.SeatSpec{Name: s.Name, IsOnline: s.IsOnline}
		}
		snap, err := h.eng.StartGame(r.Context(), blindTime, chips, seats)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, snap)
	}
}

func (h *handlers) endGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "game_id")
		ended, err := h.eng.EndGame(r.Context(), gameID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"isEndedGame": ended})
	}
}

func (h *handlers) getActiveGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := h.eng.GetActiveGame(r.Context())
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

type playerActionRequest struct {
	PlayerID   string             `json:"playerId"`
	ActionType engine.ActionType  `json:"actionType"`
	BetAmount  *int64             `json:"betAmount,omitempty"`
}

func (h *handlers) playerAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "game_id")
		handID := chi.URLParam(r, "hand_id")
		var req playerActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		snap, err := h.eng.PlayerAction(r.Context(), gameID, handID, req.PlayerID, req.ActionType, req.BetAmount)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

type nextHandRequest struct {
	Winners        []engine.WinnerShare `json:"winners"`
	GameLevel      int                  `json:"gameLevel"`
	RebuyPlayers   []string             `json:"rebuyPlayers"`
}

func (h *handlers) nextHand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "game_id")
		handID := chi.URLParam(r, "hand_id")
		var req nextHandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		snap, err := h.eng.NextHand(r.Context(), gameID, handID, req.Winners, req.GameLevel, req.RebuyPlayers)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

type rebuyRequest struct {
	PlayerID string `json:"playerId"`
}

func (h *handlers) rebuy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "game_id")
		handID := chi.URLParam(r, "hand_id")
		var req rebuyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		snap, err := h.eng.Rebuy(r.Context(), gameID, handID, req.PlayerID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeHTTPError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{"error": code})
}

// writeEngineError maps the engine's three error kinds (§7) onto HTTP
// status codes. DomainError and NotFoundError are both user-facing rule
// violations from the client's point of view; anything else is an opaque
// Infrastructure failure.
func writeEngineError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *engine.DomainError:
		status := http.StatusBadRequest
		if e.Code == engine.CodeConflictingTurn {
			status = http.StatusConflict
		}
		writeHTTPError(w, status, e.Code)
	case *engine.NotFoundError:
		writeHTTPError(w, http.StatusNotFound, "not_found")
	default:
		writeHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
