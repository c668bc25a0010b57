package simulation

import "fmt"

// InvalidStateError reports a transition invoked in the wrong phase.
// This is a caller bug; the engine never recovers from it internally.
type InvalidStateError struct {
	Op    string
	Phase Phase
}

// Error implements the error interface for InvalidStateError.
func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s during %s phase", e.Op, e.Phase)
}

// InvalidSelectionError reports a BottomCards selection that does not match
// the required count or references instances not in hand.
type InvalidSelectionError struct {
	Required int
	Selected int
	Unknown  []int // instance IDs not found in hand
}

// Error implements the error interface for InvalidSelectionError.
func (e *InvalidSelectionError) Error() string {
	if len(e.Unknown) > 0 {
		return fmt.Sprintf("selection references instances not in hand: %v", e.Unknown)
	}
	return fmt.Sprintf("must select exactly %d cards to bottom, got %d", e.Required, e.Selected)
}
