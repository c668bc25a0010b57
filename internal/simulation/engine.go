// Package simulation implements the draw/mulligan practice state machine:
// shuffle a deck, deal opening hands, take mulligans, bottom cards, and
// draw through the early turns.
package simulation

import (
	"math/rand"
	"time"

	"mulligan-trainer/internal/cards"
)

// Phase is the engine's current lifecycle phase.
type Phase string

const (
	// PhaseIdle means no hand is active.
	PhaseIdle Phase = "idle"

	// PhaseDeciding means a 7-card hand is dealt and awaits keep/mulligan.
	PhaseDeciding Phase = "deciding"

	// PhaseBottoming means a mulliganed hand was kept and cards must be
	// returned to the bottom of the library.
	PhaseBottoming Phase = "bottoming"

	// PhasePlaying means the hand is final and turns proceed by drawing.
	PhasePlaying Phase = "playing"
)

const openingHandSize = 7

// CardInstance is one physical copy of a card in the simulation. The
// instance ID distinguishes duplicates of the same card so a specific copy
// can be selected for bottoming.
type CardInstance struct {
	ID   int                `json:"instance_id"`
	Card cards.ResolvedCard `json:"card"`
}

// DrawnCard records a card drawn in play, tagged with the turn it was
// drawn on.
type DrawnCard struct {
	Turn int          `json:"turn"`
	Card CardInstance `json:"card"`
}

// Engine manages a single simulation's life cycle. It is not safe for
// concurrent use; one execution context owns it at a time.
type Engine struct {
	rng            *rand.Rand
	nextInstanceID int

	phase         Phase
	library       []CardInstance
	hand          []CardInstance
	mulliganCount int
	bottomed      []CardInstance
	drawn         []DrawnCard
	turnNumber    int
}

// NewEngine creates an idle engine with a time-seeded shuffle source.
func NewEngine() *Engine {
	return NewEngineWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewEngineWithSource creates an idle engine using the given random source,
// so tests can run deterministic shuffles.
func NewEngineWithSource(src rand.Source) *Engine {
	return &Engine{
		rng:   rand.New(src),
		phase: PhaseIdle,
	}
}

// StartNewHand begins a fresh sequence from any state: it wraps every deck
// card in a new instance, shuffles, deals the opening hand, and enters the
// deciding phase. An empty deck is not an error; it simply yields an empty
// hand and library.
func (e *Engine) StartNewHand(deck []cards.ResolvedCard) {
	instances := make([]CardInstance, len(deck))
	for i, card := range deck {
		instances[i] = CardInstance{ID: e.nextInstanceID, Card: card}
		e.nextInstanceID++
	}
	e.shuffle(instances)

	deal := openingHandSize
	if deal > len(instances) {
		deal = len(instances)
	}

	e.phase = PhaseDeciding
	e.hand = instances[:deal]
	e.library = instances[deal:]
	e.mulliganCount = 0
	e.bottomed = nil
	e.drawn = nil
	e.turnNumber = 0
}

// Mulligan returns the hand to the library, reshuffles the combined pool,
// and deals a new hand. The engine itself never caps the mulligan count;
// whether to stop offering mulligans is a caller policy.
func (e *Engine) Mulligan() error {
	if e.phase != PhaseDeciding {
		return &InvalidStateError{Op: "mulligan", Phase: e.phase}
	}

	pool := append(e.library, e.hand...)
	e.shuffle(pool)

	deal := openingHandSize
	if deal > len(pool) {
		deal = len(pool)
	}

	e.hand = pool[:deal]
	e.library = pool[deal:]
	e.mulliganCount++
	return nil
}

// Keep finalizes the current hand. With no mulligans taken, play begins
// immediately on turn 1; otherwise the engine waits for the player to
// bottom one card per mulligan taken.
func (e *Engine) Keep() error {
	if e.phase != PhaseDeciding {
		return &InvalidStateError{Op: "keep", Phase: e.phase}
	}

	if e.mulliganCount == 0 {
		e.phase = PhasePlaying
		e.turnNumber = 1
		return nil
	}

	e.phase = PhaseBottoming
	return nil
}

// BottomCards moves the selected instances from hand to the bottom of the
// library and begins play. The selection must contain exactly one instance
// per mulligan taken, and every ID must be in hand.
func (e *Engine) BottomCards(instanceIDs []int) error {
	if e.phase != PhaseBottoming {
		return &InvalidStateError{Op: "bottom cards", Phase: e.phase}
	}

	if len(instanceIDs) != e.mulliganCount {
		return &InvalidSelectionError{Required: e.mulliganCount, Selected: len(instanceIDs)}
	}

	selected := make(map[int]bool, len(instanceIDs))
	for _, id := range instanceIDs {
		selected[id] = true
	}
	if len(selected) != len(instanceIDs) {
		return &InvalidSelectionError{Required: e.mulliganCount, Selected: len(selected)}
	}

	inHand := make(map[int]bool, len(e.hand))
	for _, inst := range e.hand {
		inHand[inst.ID] = true
	}
	var unknown []int
	for id := range selected {
		if !inHand[id] {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return &InvalidSelectionError{Required: e.mulliganCount, Selected: len(instanceIDs), Unknown: unknown}
	}

	remaining := make([]CardInstance, 0, len(e.hand)-len(instanceIDs))
	bottomed := make([]CardInstance, 0, len(instanceIDs))
	for _, inst := range e.hand {
		if selected[inst.ID] {
			bottomed = append(bottomed, inst)
		} else {
			remaining = append(remaining, inst)
		}
	}

	e.hand = remaining
	e.library = append(e.library, bottomed...)
	e.bottomed = bottomed
	e.phase = PhasePlaying
	e.turnNumber = 1
	return nil
}

// DrawCard draws the top card of the library for the next turn. Drawing
// from an empty library is defined as a no-op, not an error.
func (e *Engine) DrawCard() error {
	if e.phase != PhasePlaying {
		return &InvalidStateError{Op: "draw", Phase: e.phase}
	}

	if len(e.library) == 0 {
		return nil
	}

	top := e.library[0]
	e.library = e.library[1:]
	e.drawn = append(e.drawn, DrawnCard{Turn: e.turnNumber + 1, Card: top})
	e.turnNumber++
	return nil
}

// Reset returns the engine to idle, clearing all state.
func (e *Engine) Reset() {
	e.phase = PhaseIdle
	e.library = nil
	e.hand = nil
	e.mulliganCount = 0
	e.bottomed = nil
	e.drawn = nil
	e.turnNumber = 0
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Hand returns a copy of the current hand.
func (e *Engine) Hand() []CardInstance { return copyInstances(e.hand) }

// Library returns a copy of the current library, top card first.
func (e *Engine) Library() []CardInstance { return copyInstances(e.library) }

// MulliganCount returns the number of mulligans taken this sequence.
func (e *Engine) MulliganCount() int { return e.mulliganCount }

// BottomedCards returns a copy of the cards bottomed when the hand was kept.
func (e *Engine) BottomedCards() []CardInstance { return copyInstances(e.bottomed) }

// DrawnCards returns a copy of the cards drawn since play began.
func (e *Engine) DrawnCards() []DrawnCard {
	out := make([]DrawnCard, len(e.drawn))
	copy(out, e.drawn)
	return out
}

// TurnNumber returns the current turn number (0 before play begins).
func (e *Engine) TurnNumber() int { return e.turnNumber }

// shuffle performs an in-place Fisher-Yates shuffle.
func (e *Engine) shuffle(instances []CardInstance) {
	for i := len(instances) - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		instances[i], instances[j] = instances[j], instances[i]
	}
}

func copyInstances(src []CardInstance) []CardInstance {
	out := make([]CardInstance, len(src))
	copy(out, src)
	return out
}
