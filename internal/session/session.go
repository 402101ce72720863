// Package session owns one deck and one transcript for the duration of an
// editing session, sequencing user turns through intent resolution and the
// mutation engine, and tracking unsaved changes against the deck store.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/malonaz/deckgpt/internal/credentials"
	"github.com/malonaz/deckgpt/internal/deck"
	"github.com/malonaz/deckgpt/internal/engine"
	"github.com/malonaz/deckgpt/store"
)

// State of the session. Exactly one turn is processed at a time.
type State string

const (
	StateLoading    State = "loading"
	StateIdle       State = "idle"
	StateProcessing State = "processing"
)

// ErrBusy is returned when a turn arrives while another is processing.
var ErrBusy = errors.New("a request is already being processed")

// ActionClassifier resolves a user utterance into an editor action. It never
// fails: classification trouble resolves to a CHAT action internally.
type ActionClassifier interface {
	ClassifyAction(ctx context.Context, utterance string, slides []deck.Slide) deck.Action
}

// Applier applies a resolved action to a deck.
type Applier interface {
	Apply(ctx context.Context, d *deck.Deck, action deck.Action, events Events) (*deck.Deck, error)
}

// Events aliases the engine's sink interface so the session can stand in as
// the engine's event sink without the commands importing both packages.
type Events = engine.Events

// DeckStore is the persistence contract the session saves through.
type DeckStore interface {
	PutDeck(ctx context.Context, d *deck.Deck) error
	GetDeck(ctx context.Context, id string) (*deck.Deck, error)
}

// Hooks lets the presentation layer observe the session. All fields are
// optional; nil hooks are skipped.
type Hooks struct {
	// OnMessage fires for every transcript entry, user and model alike.
	OnMessage func(message deck.ChatMessage)
	// OnDeckUpdated fires with a snapshot after each incremental mutation.
	OnDeckUpdated func(d *deck.Deck)
	// OnSlideGenerating fires with the ID of the slide a generation call
	// is in flight for, and with an empty string once it clears.
	OnSlideGenerating func(slideID string)
}

// Session drives one deck through chat turns.
type Session struct {
	classifier ActionClassifier
	applier    Applier
	store      DeckStore
	credential *credentials.Credential
	hooks      Hooks

	mu              sync.Mutex
	state           State
	deck            *deck.Deck
	messages        []deck.ChatMessage
	dirty           bool
	generatingSlide string
}

// New session in the Loading state. Call Load to initialize the deck.
func New(classifier ActionClassifier, applier Applier, store DeckStore, credential *credentials.Credential, hooks Hooks) *Session {
	return &Session{
		classifier: classifier,
		applier:    applier,
		store:      store,
		credential: credential,
		hooks:      hooks,
		state:      StateLoading,
	}
}

// Load initializes the session deck: an existing deck when deckID names one,
// otherwise a fresh empty deck. Both start with no unsaved changes.
func (s *Session) Load(ctx context.Context, deckID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if deckID != "" {
		existing, err := s.store.GetDeck(ctx, deckID)
		if err == nil {
			s.deck = existing
			s.state = StateIdle
			s.dirty = false
			if len(existing.Slides) == 0 {
				s.appendMessageLocked(deck.NewModelMessage("Welcome back! What would you like to add to your deck today?"))
			}
			return nil
		}
		// A stale ID falls through to a fresh deck; any other storage
		// failure aborts the load.
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}

	s.deck = deck.NewDeck()
	s.state = StateIdle
	s.dirty = false
	s.appendMessageLocked(deck.NewModelMessage("Hi! Describe your startup idea, and I'll build a pitch deck for you."))
	return nil
}

// HandleMessage processes one user turn: it resolves the utterance into an
// action and applies it to the deck. Returns ErrBusy while another turn is
// in flight.
func (s *Session) HandleMessage(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrBusy
	}
	s.state = StateProcessing
	currentDeck := s.deck
	s.appendMessageLocked(deck.NewUserMessage(text))
	s.mu.Unlock()

	s.credential.Touch()

	defer func() {
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
	}()

	action := s.classifier.ClassifyAction(ctx, text, currentDeck.Slides)
	// Mutations reach the session through the DeckUpdated event; the
	// returned deck is the same final snapshot.
	if _, err := s.applier.Apply(ctx, currentDeck, action, s); err != nil {
		s.SystemMessage("I encountered an error while processing your request. Please try again.")
	}
	return nil
}

// Save writes the deck through the store, stamping a fresh LastModified.
// Dirty state clears only when the write succeeds.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	toSave := s.deck.Clone()
	s.mu.Unlock()

	toSave.LastModified = time.Now().UnixMilli()
	if err := s.store.PutDeck(ctx, toSave); err != nil {
		s.SystemMessage("I couldn't save your deck due to an error. Please try again.")
		return err
	}

	s.mu.Lock()
	s.deck = toSave
	s.dirty = false
	s.mu.Unlock()
	return nil
}

// Rename the deck. Counts as an unsaved change.
func (s *Session) Rename(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.deck.Clone()
	next.Title = title
	s.deck = next
	s.dirty = true
}

// UpdateSlideManually replaces the slide with the same ID, for user-authored
// edits that bypass generation. Counts as an unsaved change.
func (s *Session) UpdateSlideManually(updated deck.Slide) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.deck.Clone()
	for i := range next.Slides {
		if next.Slides[i].ID == updated.ID {
			next.Slides[i] = updated
		}
	}
	s.deck = next
	s.dirty = true
}

// Deck snapshot.
func (s *Session) Deck() *deck.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deck.Clone()
}

// Messages returns a copy of the transcript so far.
func (s *Session) Messages() []deck.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := make([]deck.ChatMessage, len(s.messages))
	copy(messages, s.messages)
	return messages
}

// HasUnsavedChanges reports whether the in-memory deck differs from the last
// persisted snapshot.
func (s *Session) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// State of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// GeneratingSlideID returns the slide a generation call is in flight for, or
// an empty string.
func (s *Session) GeneratingSlideID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generatingSlide
}

// SystemMessage implements the engine's event sink: the text joins the
// transcript as a model message.
func (s *Session) SystemMessage(text string) {
	s.mu.Lock()
	s.appendMessageLocked(deck.NewModelMessage(text))
	s.mu.Unlock()
}

// DeckUpdated implements the engine's event sink: the snapshot becomes the
// session deck and the session turns dirty.
func (s *Session) DeckUpdated(d *deck.Deck) {
	s.mu.Lock()
	s.deck = d
	s.dirty = true
	s.mu.Unlock()
	if s.hooks.OnDeckUpdated != nil {
		s.hooks.OnDeckUpdated(d)
	}
}

// SlideGenerating implements the engine's event sink.
func (s *Session) SlideGenerating(slideID string) {
	s.mu.Lock()
	s.generatingSlide = slideID
	s.mu.Unlock()
	if s.hooks.OnSlideGenerating != nil {
		s.hooks.OnSlideGenerating(slideID)
	}
}

func (s *Session) appendMessageLocked(message deck.ChatMessage) {
	s.messages = append(s.messages, message)
	if s.hooks.OnMessage != nil {
		s.hooks.OnMessage(message)
	}
}
