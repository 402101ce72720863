package engine

import (
	"strings"

	"github.com/malonaz/deckgpt/internal/deck"
)

// InferTypeOverride inspects free-text update instructions for a layout
// change request. It is a keyword heuristic layered on top of the content
// regeneration call, kept as a pure function so its precedence rules are
// testable without a backend. First match wins; no match keeps the slide's
// current type.
func InferTypeOverride(instructions string) (deck.SlideType, bool) {
	lower := strings.ToLower(instructions)
	switch {
	case strings.Contains(lower, "chart") || strings.Contains(lower, "graph"):
		return deck.TypeChart, true
	case strings.Contains(lower, "bullet") || strings.Contains(lower, "list"):
		return deck.TypeBullets, true
	case strings.Contains(lower, "image"):
		return deck.TypeImageRight, true
	}
	return "", false
}
