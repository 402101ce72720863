package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/malonaz/deckgpt/internal/deck"
)

func TestInferTypeOverride(t *testing.T) {
	for _, tc := range []struct {
		instructions string
		want         deck.SlideType
		ok           bool
	}{
		{"turn this into a chart", deck.TypeChart, true},
		{"show a GRAPH of revenue", deck.TypeChart, true},
		{"use bullet points", deck.TypeBullets, true},
		{"make it a list", deck.TypeBullets, true},
		{"add an image of the product", deck.TypeImageRight, true},
		// Chart wins over bullets when both keywords appear.
		{"a chart instead of bullets", deck.TypeChart, true},
		// Bullets win over image.
		{"bullet points next to an image", deck.TypeBullets, true},
		{"make it punchier", "", false},
		{"", "", false},
	} {
		got, ok := InferTypeOverride(tc.instructions)
		assert.Equal(t, tc.ok, ok, tc.instructions)
		assert.Equal(t, tc.want, got, tc.instructions)
	}
}
