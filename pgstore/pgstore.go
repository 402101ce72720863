// Package pgstore implements the deck store against Postgres, for setups
// where decks are shared across machines. It mirrors the SQLite store's
// contract, including its sentinel errors.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/malonaz/deckgpt/internal/deck"
	"github.com/malonaz/deckgpt/store"
)

// Store implements the deck store over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New store over the given DSN. The decks table is created when missing.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS decks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			last_modified BIGINT NOT NULL,
			thumbnail TEXT NOT NULL DEFAULT '',
			slides JSONB NOT NULL
		)
	`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating decks table: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close the underlying pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// PutDeck writes a whole-deck snapshot, last-write-wins.
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

	_, err = s.pool.Exec(ctx, `
		INSERT INTO decks (id, title, created_at, last_modified, thumbnail, slides)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			created_at = EXCLUDED.created_at,
			last_modified = EXCLUDED.last_modified,
			thumbnail = EXCLUDED.thumbnail,
			slides = EXCLUDED.slides
	`, d.ID, d.Title, d.CreatedAt, d.LastModified, d.Thumbnail, slidesJSON)
	if err != nil {
		return fmt.Errorf("upserting deck: %w", err)
	}
	return nil
}

// GetDeck by ID. Returns store.ErrNotFound when no deck has it.
func (s *Store) GetDeck(ctx context.Context, id string) (*deck.Deck, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, title, created_at, last_modified, thumbnail, slides
		FROM decks
		WHERE id = $1
	`, id)

	d, err := scanDeck(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("querying deck: %w", err)
	}
	return d, nil
}

// ListDecks returns every stored deck, most recently modified first.
func (s *Store) ListDecks(ctx context.Context) ([]*deck.Deck, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, created_at, last_modified, thumbnail, slides
		FROM decks
		ORDER BY last_modified DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying decks: %w", err)
	}
	defer rows.Close()

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

// DeleteDeck removes a deck. Returns store.ErrNotFound for unknown IDs.
func (s *Store) DeleteDeck(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting deck: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanDeck(row pgx.Row) (*deck.Deck, error) {
	d := &deck.Deck{}
	var slidesJSON []byte
	if err := row.Scan(&d.ID, &d.Title, &d.CreatedAt, &d.LastModified, &d.Thumbnail, &slidesJSON); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(slidesJSON, &d.Slides); err != nil {
		return nil, fmt.Errorf("unmarshaling slides: %w", err)
	}
	return d, nil
}
