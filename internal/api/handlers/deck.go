// Package handlers implements the HTTP route handlers for the API server.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"mulligan-trainer/internal/api/response"
	"mulligan-trainer/internal/cards"
	"mulligan-trainer/internal/deck"
)

// maxResolveCards caps a single resolve request.
const maxResolveCards = 300

// CardResolver is the resolver dependency of the deck handlers.
// *cards.Resolver satisfies it.
type CardResolver interface {
	Resolve(ctx context.Context, names []string) (*cards.Result, error)
	ClearCache()
}

// DeckHandler handles decklist parsing and card resolution requests.
type DeckHandler struct {
	resolver CardResolver
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(resolver CardResolver) *DeckHandler {
	return &DeckHandler{resolver: resolver}
}

// ParseRequest represents a request to parse a decklist.
type ParseRequest struct {
	Text string `json:"text"`
}

// ParseDecklist parses raw decklist text into structured entries.
func (h *DeckHandler) ParseDecklist(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	response.Success(w, deck.Parse(req.Text))
}

// ResolveRequestCard is one card entry in a resolve request.
type ResolveRequestCard struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ResolveRequest represents a request to resolve card names.
type ResolveRequest struct {
	Cards []ResolveRequestCard `json:"cards"`
}

// ResolveResponse represents the result of resolving card names.
type ResolveResponse struct {
	Resolved []cards.ResolvedCard `json:"resolved"`
	NotFound []string             `json:"not_found"`
	Aliases  map[string]string    `json:"aliases"`
}

// ResolveCards resolves a list of card names against the card database.
func (h *DeckHandler) ResolveCards(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	if req.Cards == nil {
		response.BadRequest(w, errors.New(`request body must include a "cards" array`))
		return
	}
	if len(req.Cards) > maxResolveCards {
		response.BadRequest(w, errors.New("too many cards (max 300)"))
		return
	}

	names := make([]string, 0, len(req.Cards))
	for _, entry := range req.Cards {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			response.BadRequest(w, errors.New(`each card must have a non-empty "name"`))
			return
		}
		if entry.Quantity < 1 {
			response.BadRequest(w, errors.New(`each card must have a "quantity" of at least 1`))
			return
		}
		names = append(names, name)
	}

	result, err := h.resolver.Resolve(r.Context(), names)
	if err != nil {
		response.BadGateway(w, errors.New("failed to resolve cards from card database"))
		return
	}

	response.Success(w, buildResolveResponse(names, result))
}

// ClearCache drops all cached card resolutions.
func (h *DeckHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.resolver.ClearCache()
	response.NoContent(w)
}

// buildResolveResponse flattens a resolver result, ordering resolved cards
// by first appearance of their input name.
func buildResolveResponse(names []string, result *cards.Result) ResolveResponse {
	resp := ResolveResponse{
		Resolved: []cards.ResolvedCard{},
		NotFound: result.NotFound,
		Aliases:  result.Aliases,
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		if card, ok := result.Resolved[name]; ok {
			resp.Resolved = append(resp.Resolved, card)
		}
	}

	return resp
}
