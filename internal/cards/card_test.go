package cards

import (
	"testing"

	"mulligan-trainer/internal/scryfall"
)

func TestFromScryfall_SingleFace(t *testing.T) {
	sc := &scryfall.Card{
		ID:         "abc-123",
		Name:       "Lightning Bolt",
		ManaCost:   "{R}",
		TypeLine:   "Instant",
		OracleText: "Lightning Bolt deals 3 damage to any target.",
		Colors:     []string{"R"},
		CMC:        1,
		ImageURIs:  &scryfall.ImageURIs{Normal: "https://img.example/bolt.jpg"},
	}

	card := FromScryfall(sc)

	if card.ScryfallID != "abc-123" {
		t.Errorf("ScryfallID = %q, want abc-123", card.ScryfallID)
	}
	if card.Name != "Lightning Bolt" {
		t.Errorf("Name = %q, want Lightning Bolt", card.Name)
	}
	if card.ManaCost != "{R}" {
		t.Errorf("ManaCost = %q, want {R}", card.ManaCost)
	}
	if card.ImageURI != "https://img.example/bolt.jpg" {
		t.Errorf("ImageURI = %q", card.ImageURI)
	}
	if card.BackImageURI != "" {
		t.Errorf("BackImageURI = %q, want empty for single-faced card", card.BackImageURI)
	}
	if len(card.Colors) != 1 || card.Colors[0] != "R" {
		t.Errorf("Colors = %v, want [R]", card.Colors)
	}
}

func TestFromScryfall_DoubleFaced(t *testing.T) {
	sc := &scryfall.Card{
		ID:   "dfc-456",
		Name: "Delver of Secrets // Insectile Aberration",
		CMC:  1,
		CardFaces: []scryfall.CardFace{
			{
				Name:       "Delver of Secrets",
				ManaCost:   "{U}",
				TypeLine:   "Creature — Human Wizard",
				OracleText: "At the beginning of your upkeep, look at the top card of your library.",
				Power:      "1",
				Toughness:  "1",
				Colors:     []string{"U"},
				ImageURIs:  &scryfall.ImageURIs{Normal: "https://img.example/front.jpg"},
			},
			{
				Name:      "Insectile Aberration",
				TypeLine:  "Creature — Human Insect",
				Power:     "3",
				Toughness: "2",
				ImageURIs: &scryfall.ImageURIs{Normal: "https://img.example/back.jpg"},
			},
		},
	}

	card := FromScryfall(sc)

	// Combined name, front-face everything else.
	if card.Name != "Delver of Secrets // Insectile Aberration" {
		t.Errorf("Name = %q, want combined face name", card.Name)
	}
	if card.ManaCost != "{U}" {
		t.Errorf("ManaCost = %q, want front face {U}", card.ManaCost)
	}
	if card.TypeLine != "Creature — Human Wizard" {
		t.Errorf("TypeLine = %q, want front face type", card.TypeLine)
	}
	if card.Power != "1" || card.Toughness != "1" {
		t.Errorf("P/T = %s/%s, want 1/1 from front face", card.Power, card.Toughness)
	}
	if card.ImageURI != "https://img.example/front.jpg" {
		t.Errorf("ImageURI = %q, want front face image", card.ImageURI)
	}
	if card.BackImageURI != "https://img.example/back.jpg" {
		t.Errorf("BackImageURI = %q, want back face image", card.BackImageURI)
	}
}

func TestFromScryfall_DFCWithTopLevelImage(t *testing.T) {
	// Some layouts keep a top-level image even with multiple faces. The
	// top-level image is used only when the front face has none.
	sc := &scryfall.Card{
		ID:        "split-789",
		Name:      "Fire // Ice",
		ImageURIs: &scryfall.ImageURIs{Normal: "https://img.example/fireice.jpg"},
		CardFaces: []scryfall.CardFace{
			{Name: "Fire", ManaCost: "{1}{R}"},
			{Name: "Ice", ManaCost: "{1}{U}"},
		},
	}

	card := FromScryfall(sc)

	if card.ImageURI != "https://img.example/fireice.jpg" {
		t.Errorf("ImageURI = %q, want top-level image", card.ImageURI)
	}
	if card.ManaCost != "{1}{R}" {
		t.Errorf("ManaCost = %q, want front face cost", card.ManaCost)
	}
}
