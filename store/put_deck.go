package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/malonaz/deckgpt/internal/deck"
)

// PutDeck writes a whole-deck snapshot, keyed by deck ID, last-write-wins.
// The transaction commits before this returns: an acknowledged write is
// durable.
func (s *Store) PutDeck(ctx context.Context, d *deck.Deck) error {
	if d == nil {
		return fmt.Errorf("deck cannot be nil")
	}

	slides := d.Slides
	if slides == nil {
		slides = []deck.Slide{}
	}
	slidesJSON, err := json.Marshal(slides)
	if err != nil {
		return fmt.Errorf("marshaling slides: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO decks (
    id,
    title,
    created_at,
    last_modified,
    thumbnail,
    slides
) VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    title = excluded.title,
    created_at = excluded.created_at,
    last_modified = excluded.last_modified,
    thumbnail = excluded.thumbnail,
    slides = excluded.slides`,
		d.ID,
		d.Title,
		d.CreatedAt,
		d.LastModified,
		d.Thumbnail,
		string(slidesJSON),
	)
	if err != nil {
		return fmt.Errorf("upserting into decks table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
