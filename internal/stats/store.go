// Package stats records keep/mulligan decisions and computes per-deck
// aggregate mulligan statistics.
package stats

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DecisionType is the choice made for a hand: keep or mulligan.
type DecisionType string

const (
	// DecisionKeep records that the hand was kept.
	DecisionKeep DecisionType = "keep"

	// DecisionMulligan records that the hand was shuffled back.
	DecisionMulligan DecisionType = "mulligan"
)

// Decision is a single recorded keep/mulligan decision.
type Decision struct {
	ID             string       `json:"id"`
	DeckID         string       `json:"deck_id"`
	Timestamp      time.Time    `json:"timestamp"`
	HandCards      []string     `json:"hand_cards"`
	Decision       DecisionType `json:"decision"`
	MulliganNumber int          `json:"mulligan_number"`
	BottomedCards  []string     `json:"bottomed_cards,omitempty"`
	OnPlay         bool         `json:"on_play"`
	Notes          string       `json:"notes,omitempty"`
}

// DeckStats aggregates the decision history for one deck. All numbers are
// computed over kept hands: TotalHands counts keeps, KeepRate is the share
// of hands kept without any mulligan, and AverageMulligans is the mean
// number of mulligans taken before keeping.
type DeckStats struct {
	DeckID               string      `json:"deck_id"`
	TotalHands           int         `json:"total_hands"`
	KeepRate             float64     `json:"keep_rate"`
	AverageMulligans     float64     `json:"average_mulligans"`
	MulliganDistribution map[int]int `json:"mulligan_distribution"`
}

// Store holds recorded decisions in memory. It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	decisions []Decision
	now       func() time.Time
}

// NewStore creates an empty decision store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Record stores a decision, assigning it an ID and timestamp, and returns
// the stored copy.
func (s *Store) Record(d Decision) Decision {
	d.ID = uuid.NewString()
	d.Timestamp = s.now().UTC()

	s.mu.Lock()
	s.decisions = append(s.decisions, d)
	s.mu.Unlock()

	return d
}

// Decisions returns recorded decisions in insertion order. An empty deckID
// returns everything.
func (s *Store) Decisions(deckID string) []Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Decision, 0, len(s.decisions))
	for _, d := range s.decisions {
		if deckID == "" || d.DeckID == deckID {
			out = append(out, d)
		}
	}
	return out
}

// Clear removes decisions for the given deck, or all decisions when deckID
// is empty.
func (s *Store) Clear(deckID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if deckID == "" {
		s.decisions = nil
		return
	}

	kept := s.decisions[:0]
	for _, d := range s.decisions {
		if d.DeckID != deckID {
			kept = append(kept, d)
		}
	}
	s.decisions = kept
}

// StatsFor computes aggregate mulligan stats for one deck from its kept
// hands. A deck with no keeps yields zeroed stats.
func (s *Store) StatsFor(deckID string) DeckStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := DeckStats{
		DeckID:               deckID,
		MulliganDistribution: map[int]int{},
	}

	var keeps []Decision
	for _, d := range s.decisions {
		if d.DeckID == deckID && d.Decision == DecisionKeep {
			keeps = append(keeps, d)
		}
	}
	if len(keeps) == 0 {
		return stats
	}

	keptFirst := 0
	totalMulligans := 0
	for _, k := range keeps {
		if k.MulliganNumber == 0 {
			keptFirst++
		}
		totalMulligans += k.MulliganNumber
		stats.MulliganDistribution[k.MulliganNumber]++
	}

	stats.TotalHands = len(keeps)
	stats.KeepRate = float64(keptFirst) / float64(len(keeps))
	stats.AverageMulligans = float64(totalMulligans) / float64(len(keeps))
	return stats
}
