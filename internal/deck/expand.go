package deck

import (
	"strings"

	"mulligan-trainer/internal/cards"
)

// Expand flattens parsed entries into a deck of resolved cards, repeating
// each card by its quantity. Entries are matched against the resolved map
// case-insensitively by input name; when that fails, the alias map re-routes
// game-client name variants to their canonical card. Entries that match
// nothing are skipped; the resolver already reported them as not found.
func Expand(entries []Entry, resolved map[string]cards.ResolvedCard, aliases map[string]string) []cards.ResolvedCard {
	byInput := make(map[string]cards.ResolvedCard, len(resolved))
	byCanonical := make(map[string]cards.ResolvedCard, len(resolved))
	for name, card := range resolved {
		byInput[strings.ToLower(name)] = card
		byCanonical[strings.ToLower(card.Name)] = card
	}

	var flat []cards.ResolvedCard
	for _, entry := range entries {
		card, ok := byInput[strings.ToLower(entry.Name)]
		if !ok {
			if canonical, aliased := aliases[entry.Name]; aliased {
				card, ok = byCanonical[strings.ToLower(canonical)]
			}
		}
		if !ok {
			card, ok = byCanonical[strings.ToLower(entry.Name)]
		}
		if !ok {
			continue
		}

		for n := 0; n < entry.Quantity; n++ {
			flat = append(flat, card)
		}
	}

	return flat
}
