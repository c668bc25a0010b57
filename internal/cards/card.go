// Package cards defines the resolved card record and the resolver that
// turns decklist names into card data via the Scryfall client, with an
// in-process TTL cache.
package cards

import (
	"mulligan-trainer/internal/scryfall"
)

// Color is a single mana color symbol: W, U, B, R, or G.
type Color string

// ResolvedCard is the canonical card record used throughout the app.
// For multi-faced cards it carries the combined "Front // Back" name but
// front-face data for cost, type, text, colors, and the primary image;
// the back face's image is exposed separately.
type ResolvedCard struct {
	ScryfallID   string  `json:"scryfall_id"`
	Name         string  `json:"name"`
	ManaCost     string  `json:"mana_cost"`
	TypeLine     string  `json:"type_line"`
	OracleText   string  `json:"oracle_text"`
	Power        string  `json:"power,omitempty"`
	Toughness    string  `json:"toughness,omitempty"`
	Colors       []Color `json:"colors"`
	ImageURI     string  `json:"image_uri"`
	BackImageURI string  `json:"back_image_uri,omitempty"`
	CMC          float64 `json:"cmc"`
}

// FromScryfall maps a raw Scryfall card to a ResolvedCard, preferring
// front-face data for multi-faced cards.
func FromScryfall(sc *scryfall.Card) ResolvedCard {
	var front *scryfall.CardFace
	isDFC := len(sc.CardFaces) >= 2
	if isDFC {
		front = &sc.CardFaces[0]
	}

	card := ResolvedCard{
		ScryfallID: sc.ID,
		Name:       sc.Name,
		ManaCost:   sc.ManaCost,
		TypeLine:   sc.TypeLine,
		OracleText: sc.OracleText,
		Power:      sc.Power,
		Toughness:  sc.Toughness,
		Colors:     toColors(sc.Colors),
		CMC:        sc.CMC,
	}
	if sc.ImageURIs != nil {
		card.ImageURI = sc.ImageURIs.Normal
	}

	if isDFC {
		if front.ManaCost != "" {
			card.ManaCost = front.ManaCost
		}
		if front.TypeLine != "" {
			card.TypeLine = front.TypeLine
		}
		if front.OracleText != "" {
			card.OracleText = front.OracleText
		}
		if front.Power != "" {
			card.Power = front.Power
		}
		if front.Toughness != "" {
			card.Toughness = front.Toughness
		}
		if len(front.Colors) > 0 {
			card.Colors = toColors(front.Colors)
		}
		// DFCs often have no top-level image_uris
		if front.ImageURIs != nil && front.ImageURIs.Normal != "" {
			card.ImageURI = front.ImageURIs.Normal
		}
		if back := sc.CardFaces[1]; back.ImageURIs != nil {
			card.BackImageURI = back.ImageURIs.Normal
		}
	}

	return card
}

func toColors(symbols []string) []Color {
	colors := make([]Color, len(symbols))
	for i, s := range symbols {
		colors[i] = Color(s)
	}
	return colors
}
