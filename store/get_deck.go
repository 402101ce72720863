package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/malonaz/deckgpt/internal/deck"
)

// GetDeck by ID. Returns ErrNotFound when no deck has it.
func (s *Store) GetDeck(ctx context.Context, id string) (*deck.Deck, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, title, created_at, last_modified, thumbnail, slides
        FROM decks
        WHERE id = ?
    `, id)

	d, err := scanDeck(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying deck: %w", err)
	}
	return d, nil
}
