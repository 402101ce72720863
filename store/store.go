// Package store implements a SQLite store for decks. Writes are committed
// before they are acknowledged: a successful Put or Delete has reached disk.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/malonaz/deckgpt/internal/deck"
)

// ErrNotFound is returned when no deck has the requested ID.
var ErrNotFound = errors.New("deck not found")

// Interface is satisfied by every deck store backend.
type Interface interface {
	PutDeck(ctx context.Context, d *deck.Deck) error
	GetDeck(ctx context.Context, id string) (*deck.Deck, error)
	ListDecks(ctx context.Context) ([]*deck.Deck, error)
	DeleteDeck(ctx context.Context, id string) error
	Close() error
}

// Store implements a SQLite store for decks.
type Store struct {
	db *sql.DB
}

// New store at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Create decks table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS decks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			last_modified INTEGER NOT NULL,
			thumbnail TEXT NOT NULL DEFAULT '',
			slides TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("creating decks table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
