package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Record(t *testing.T) {
	store := NewStore()

	stored := store.Record(Decision{
		DeckID:         "deck-1",
		HandCards:      []string{"Lightning Bolt", "Mountain"},
		Decision:       DecisionKeep,
		MulliganNumber: 0,
		OnPlay:         true,
	})

	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.Timestamp.IsZero())
	assert.Equal(t, "deck-1", stored.DeckID)

	all := store.Decisions("")
	require.Len(t, all, 1)
	assert.Equal(t, stored.ID, all[0].ID)
}

func TestStore_DecisionsFilterByDeck(t *testing.T) {
	store := NewStore()
	store.Record(Decision{DeckID: "deck-1", Decision: DecisionKeep})
	store.Record(Decision{DeckID: "deck-2", Decision: DecisionMulligan})
	store.Record(Decision{DeckID: "deck-1", Decision: DecisionMulligan})

	assert.Len(t, store.Decisions("deck-1"), 2)
	assert.Len(t, store.Decisions("deck-2"), 1)
	assert.Len(t, store.Decisions(""), 3)
	assert.Empty(t, store.Decisions("deck-3"))
}

func TestStore_Clear(t *testing.T) {
	store := NewStore()
	store.Record(Decision{DeckID: "deck-1", Decision: DecisionKeep})
	store.Record(Decision{DeckID: "deck-2", Decision: DecisionKeep})

	store.Clear("deck-1")
	assert.Empty(t, store.Decisions("deck-1"))
	assert.Len(t, store.Decisions("deck-2"), 1)

	store.Clear("")
	assert.Empty(t, store.Decisions(""))
}

func TestStore_StatsFor(t *testing.T) {
	store := NewStore()

	// Two hands kept without a mulligan, one kept after two mulligans.
	// Standalone mulligan records do not count toward the aggregates.
	store.Record(Decision{DeckID: "deck-1", Decision: DecisionKeep, MulliganNumber: 0})
	store.Record(Decision{DeckID: "deck-1", Decision: DecisionKeep, MulliganNumber: 0})
	store.Record(Decision{DeckID: "deck-1", Decision: DecisionMulligan, MulliganNumber: 0})
	store.Record(Decision{DeckID: "deck-1", Decision: DecisionMulligan, MulliganNumber: 1})
	store.Record(Decision{DeckID: "deck-1", Decision: DecisionKeep, MulliganNumber: 2})
	store.Record(Decision{DeckID: "other", Decision: DecisionKeep, MulliganNumber: 5})

	stats := store.StatsFor("deck-1")

	assert.Equal(t, "deck-1", stats.DeckID)
	assert.Equal(t, 3, stats.TotalHands)
	assert.InDelta(t, 2.0/3.0, stats.KeepRate, 1e-9)
	assert.InDelta(t, 2.0/3.0, stats.AverageMulligans, 1e-9)
	assert.Equal(t, map[int]int{0: 2, 2: 1}, stats.MulliganDistribution)
}

func TestStore_StatsFor_NoDecisions(t *testing.T) {
	store := NewStore()

	stats := store.StatsFor("deck-1")

	assert.Equal(t, "deck-1", stats.DeckID)
	assert.Zero(t, stats.TotalHands)
	assert.Zero(t, stats.KeepRate)
	assert.Zero(t, stats.AverageMulligans)
	assert.Empty(t, stats.MulliganDistribution)
}

func TestStore_StatsFor_OnlyMulligans(t *testing.T) {
	store := NewStore()
	store.Record(Decision{DeckID: "deck-1", Decision: DecisionMulligan, MulliganNumber: 0})

	stats := store.StatsFor("deck-1")
	assert.Zero(t, stats.TotalHands)
	assert.Zero(t, stats.KeepRate)
}
