package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mulligan-trainer/internal/api/response"
	"mulligan-trainer/internal/stats"
)

// DecisionsHandler records keep/mulligan decisions and serves per-deck
// aggregate statistics.
type DecisionsHandler struct {
	store *stats.Store
}

// NewDecisionsHandler creates a new DecisionsHandler.
func NewDecisionsHandler(store *stats.Store) *DecisionsHandler {
	return &DecisionsHandler{store: store}
}

// RecordDecisionRequest represents a decision to record.
type RecordDecisionRequest struct {
	DeckID         string   `json:"deck_id"`
	HandCards      []string `json:"hand_cards"`
	Decision       string   `json:"decision"`
	MulliganNumber int      `json:"mulligan_number"`
	BottomedCards  []string `json:"bottomed_cards,omitempty"`
	OnPlay         bool     `json:"on_play"`
	Notes          string   `json:"notes,omitempty"`
}

// RecordDecision stores one finalized keep/mulligan decision.
func (h *DecisionsHandler) RecordDecision(w http.ResponseWriter, r *http.Request) {
	var req RecordDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	if req.DeckID == "" {
		response.BadRequest(w, errors.New("deck_id is required"))
		return
	}
	decision := stats.DecisionType(req.Decision)
	if decision != stats.DecisionKeep && decision != stats.DecisionMulligan {
		response.BadRequest(w, errors.New(`decision must be "keep" or "mulligan"`))
		return
	}
	if req.MulliganNumber < 0 {
		response.BadRequest(w, errors.New("mulligan_number cannot be negative"))
		return
	}

	recorded := h.store.Record(stats.Decision{
		DeckID:         req.DeckID,
		HandCards:      req.HandCards,
		Decision:       decision,
		MulliganNumber: req.MulliganNumber,
		BottomedCards:  req.BottomedCards,
		OnPlay:         req.OnPlay,
		Notes:          req.Notes,
	})

	response.Created(w, recorded)
}

// ListDecisions returns recorded decisions, optionally filtered by deck_id.
func (h *DecisionsHandler) ListDecisions(w http.ResponseWriter, r *http.Request) {
	deckID := r.URL.Query().Get("deck_id")
	response.Success(w, h.store.Decisions(deckID))
}

// GetDeckStats returns aggregate mulligan stats for one deck.
func (h *DecisionsHandler) GetDeckStats(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")
	response.Success(w, h.store.StatsFor(deckID))
}

// ClearDecisions removes decision history, for one deck when deck_id is
// given or for all decks otherwise.
func (h *DecisionsHandler) ClearDecisions(w http.ResponseWriter, r *http.Request) {
	h.store.Clear(r.URL.Query().Get("deck_id"))
	response.NoContent(w)
}
