package store

import (
	"context"
	"fmt"

	"github.com/malonaz/deckgpt/internal/deck"
)

// ListDecks returns every stored deck, most recently modified first.
func (s *Store) ListDecks(ctx context.Context) ([]*deck.Deck, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, title, created_at, last_modified, thumbnail, slides
        FROM decks
        ORDER BY last_modified DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("querying decks: %w", err)
	}
	defer rows.Close()

	return scanDecks(rows)
}
