package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"mulligan-trainer/internal/api/response"
	"mulligan-trainer/internal/deck"
	"mulligan-trainer/internal/simulation"
)

// SimulationHandler drives the server's single simulation engine. The
// engine itself is not safe for concurrent use, so every action holds the
// handler mutex.
type SimulationHandler struct {
	mu       sync.Mutex
	engine   *simulation.Engine
	resolver CardResolver
}

// NewSimulationHandler creates a new SimulationHandler.
func NewSimulationHandler(engine *simulation.Engine, resolver CardResolver) *SimulationHandler {
	return &SimulationHandler{engine: engine, resolver: resolver}
}

// SimulationState is a snapshot of the engine, as returned by every
// simulation endpoint.
type SimulationState struct {
	Phase         simulation.Phase          `json:"phase"`
	Hand          []simulation.CardInstance `json:"hand"`
	LibraryCount  int                       `json:"library_count"`
	MulliganCount int                       `json:"mulligan_count"`
	BottomedCards []simulation.CardInstance `json:"bottomed_cards"`
	DrawnCards    []simulation.DrawnCard    `json:"drawn_cards"`
	TurnNumber    int                       `json:"turn_number"`
}

// NewHandRequest carries the raw decklist for a new simulation.
type NewHandRequest struct {
	Text string `json:"text"`
}

// NewHandResponse is the outcome of starting a new hand: the simulation
// state plus anything the parse/resolve pipeline could not handle.
type NewHandResponse struct {
	State       SimulationState   `json:"state"`
	ParseErrors []deck.ParseError `json:"parse_errors"`
	NotFound    []string          `json:"not_found"`
	Aliases     map[string]string `json:"aliases"`
}

// NewHand runs the full pipeline for a pasted decklist: parse, resolve the
// card names, expand mainboard quantities, shuffle, and deal an opening hand.
func (h *SimulationHandler) NewHand(w http.ResponseWriter, r *http.Request) {
	var req NewHandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	parsed := deck.Parse(req.Text)
	if len(parsed.Mainboard) == 0 {
		response.BadRequest(w, errors.New("decklist has no mainboard entries"))
		return
	}

	names := make([]string, 0, len(parsed.Mainboard)+len(parsed.Sideboard))
	for _, entry := range parsed.Mainboard {
		names = append(names, entry.Name)
	}
	for _, entry := range parsed.Sideboard {
		names = append(names, entry.Name)
	}

	result, err := h.resolver.Resolve(r.Context(), names)
	if err != nil {
		response.BadGateway(w, errors.New("failed to resolve cards from card database"))
		return
	}

	flat := deck.Expand(parsed.Mainboard, result.Resolved, result.Aliases)

	h.mu.Lock()
	h.engine.StartNewHand(flat)
	state := h.snapshot()
	h.mu.Unlock()

	response.Success(w, NewHandResponse{
		State:       state,
		ParseErrors: parsed.Errors,
		NotFound:    result.NotFound,
		Aliases:     result.Aliases,
	})
}

// Mulligan shuffles the hand back and deals a new one.
func (h *SimulationHandler) Mulligan(w http.ResponseWriter, r *http.Request) {
	h.action(w, func() error { return h.engine.Mulligan() })
}

// Keep finalizes the current hand.
func (h *SimulationHandler) Keep(w http.ResponseWriter, r *http.Request) {
	h.action(w, func() error { return h.engine.Keep() })
}

// BottomRequest selects the hand cards to put on the bottom of the library.
type BottomRequest struct {
	InstanceIDs []int `json:"instance_ids"`
}

// BottomCards bottoms the selected cards and begins play.
func (h *SimulationHandler) BottomCards(w http.ResponseWriter, r *http.Request) {
	var req BottomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	h.action(w, func() error { return h.engine.BottomCards(req.InstanceIDs) })
}

// DrawCard draws the top card of the library for the next turn.
func (h *SimulationHandler) DrawCard(w http.ResponseWriter, r *http.Request) {
	h.action(w, func() error { return h.engine.DrawCard() })
}

// Reset returns the simulation to idle.
func (h *SimulationHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.engine.Reset()
	state := h.snapshot()
	h.mu.Unlock()

	response.Success(w, state)
}

// GetState returns the current simulation state.
func (h *SimulationHandler) GetState(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	state := h.snapshot()
	h.mu.Unlock()

	response.Success(w, state)
}

// action runs an engine transition under the handler mutex and maps engine
// errors: wrong-phase calls are 409s, bad selections 400s.
func (h *SimulationHandler) action(w http.ResponseWriter, fn func() error) {
	h.mu.Lock()
	err := fn()
	var state SimulationState
	if err == nil {
		state = h.snapshot()
	}
	h.mu.Unlock()

	if err != nil {
		var stateErr *simulation.InvalidStateError
		if errors.As(err, &stateErr) {
			response.Conflict(w, err)
			return
		}
		var selErr *simulation.InvalidSelectionError
		if errors.As(err, &selErr) {
			response.BadRequest(w, err)
			return
		}
		response.InternalError(w, err)
		return
	}

	response.Success(w, state)
}

// snapshot builds a state view. Callers must hold h.mu.
func (h *SimulationHandler) snapshot() SimulationState {
	return SimulationState{
		Phase:         h.engine.Phase(),
		Hand:          h.engine.Hand(),
		LibraryCount:  len(h.engine.Library()),
		MulliganCount: h.engine.MulliganCount(),
		BottomedCards: h.engine.BottomedCards(),
		DrawnCards:    h.engine.DrawnCards(),
		TurnNumber:    h.engine.TurnNumber(),
	}
}
