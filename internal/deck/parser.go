// Package deck parses free-form decklist text into structured entries and
// expands parsed entries into flat decks of resolved cards.
package deck

import (
	"regexp"
	"strconv"
	"strings"
)

// Entry is a single parsed decklist line: a card name and a quantity.
type Entry struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ParseError describes one line the parser could not interpret.
type ParseError struct {
	Line   int    `json:"line"` // 1-based
	Text   string `json:"text"` // original line text
	Reason string `json:"reason"`
}

// ParseResult is the complete output of one Parse call.
type ParseResult struct {
	Mainboard []Entry      `json:"mainboard"`
	Sideboard []Entry      `json:"sideboard"`
	Errors    []ParseError `json:"errors"`
}

// cardLineRe matches "4 Lightning Bolt", "4x Lightning Bolt", and
// "4 Lightning Bolt (FDN) 123" (the set/collector suffix is discarded).
// Card names may contain commas, apostrophes, and the "//" DFC separator.
var cardLineRe = regexp.MustCompile(`^(\d+)x?\s+(.+?)(?:\s+\([A-Z0-9]+\)\s+\d+)?$`)

// sbPrefixRe matches an inline "SB:" prefix marking a single sideboard line.
var sbPrefixRe = regexp.MustCompile(`(?i)^sb:\s*`)

const (
	reasonUnparseable = "Could not parse card entry"
	reasonBadQuantity = "Quantity must be at least 1"
)

// Parse parses raw decklist text into mainboard and sideboard entries.
// It supports MTGO, MTG Arena, and plain "N CardName" formats. The sideboard
// starts at a blank line after the first card entry, a "Sideboard"/"SB"
// header, or per-line with an "SB:" prefix. Unparseable lines are reported
// in Errors and never abort the parse.
func Parse(raw string) ParseResult {
	result := ParseResult{
		Mainboard: []Entry{},
		Sideboard: []Entry{},
		Errors:    []ParseError{},
	}

	inSideboard := false
	sawCards := false

	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)

		// A blank line is a sideboard separator only once cards exist;
		// leading blank lines are ignored.
		if trimmed == "" {
			if sawCards && !inSideboard {
				inSideboard = true
			}
			continue
		}

		if isIgnoredLine(trimmed) {
			continue
		}

		if isSideboardMarker(trimmed) {
			inSideboard = true
			continue
		}

		toParse := trimmed
		forceSideboard := false
		if loc := sbPrefixRe.FindStringIndex(toParse); loc != nil {
			toParse = toParse[loc[1]:]
			forceSideboard = true
		}

		match := cardLineRe.FindStringSubmatch(toParse)
		if match == nil {
			result.Errors = append(result.Errors, ParseError{
				Line:   i + 1,
				Text:   line,
				Reason: reasonUnparseable,
			})
			continue
		}

		quantity, err := strconv.Atoi(match[1])
		if err != nil || quantity <= 0 {
			result.Errors = append(result.Errors, ParseError{
				Line:   i + 1,
				Text:   line,
				Reason: reasonBadQuantity,
			})
			continue
		}

		entry := Entry{Name: strings.TrimSpace(match[2]), Quantity: quantity}
		if inSideboard || forceSideboard {
			result.Sideboard = append(result.Sideboard, entry)
		} else {
			result.Mainboard = append(result.Mainboard, entry)
		}
		sawCards = true
	}

	return result
}

// isIgnoredLine reports comments and non-card section headers that should
// not affect sideboard state.
func isIgnoredLine(trimmed string) bool {
	if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
		return true
	}
	lower := strings.ToLower(trimmed)
	switch lower {
	case "deck", "companion", "commander", "about":
		return true
	}
	// MTGGoldfish Arena export metadata ("Name <deck name>")
	return strings.HasPrefix(lower, "name ")
}

// isSideboardMarker reports explicit sideboard section headers:
// "sideboard" or "sb", case-insensitive, with or without a trailing colon.
func isSideboardMarker(trimmed string) bool {
	lower := strings.TrimSuffix(strings.ToLower(trimmed), ":")
	return lower == "sideboard" || lower == "sb"
}
