package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/malonaz/deckgpt/internal/deck"
)

func scanDeck(row interface{ Scan(...interface{}) error }) (*deck.Deck, error) {
	d := &deck.Deck{}
	var slidesJSON string

	if err := row.Scan(&d.ID, &d.Title, &d.CreatedAt, &d.LastModified, &d.Thumbnail, &slidesJSON); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(slidesJSON), &d.Slides); err != nil {
		return nil, fmt.Errorf("unmarshaling slides: %w", err)
	}
	return d, nil
}

// scanDecks helps avoid duplicate deck scanning code
func scanDecks(rows *sql.Rows) ([]*deck.Deck, error) {
	var decks []*deck.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning deck row: %w", err)
		}
		decks = append(decks, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deck rows: %w", err)
	}
	return decks, nil
}
