// Package mocks provides testify mocks for the module's interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/malonaz/deckgpt/internal/deck"
	"github.com/malonaz/deckgpt/internal/llm"
	"github.com/malonaz/deckgpt/internal/session"
)

// CompletionClient mocks llm.Client.
type CompletionClient struct {
	mock.Mock
}

func (m *CompletionClient) Complete(ctx context.Context, request *llm.CompleteRequest) (*llm.CompleteResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.CompleteResponse), args.Error(1)
}

// ContentGenerator mocks engine.ContentGenerator.
type ContentGenerator struct {
	mock.Mock
}

func (m *ContentGenerator) GenerateOutline(ctx context.Context, topic string) ([]deck.OutlineSlide, error) {
	args := m.Called(ctx, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]deck.OutlineSlide), args.Error(1)
}

func (m *ContentGenerator) GenerateSingleSlideOutline(ctx context.Context, topic string) deck.OutlineSlide {
	args := m.Called(ctx, topic)
	return args.Get(0).(deck.OutlineSlide)
}

func (m *ContentGenerator) GenerateSlideContent(ctx context.Context, topic string, outline deck.OutlineSlide) deck.SlideContent {
	args := m.Called(ctx, topic, outline)
	return args.Get(0).(deck.SlideContent)
}

// ActionClassifier mocks session.ActionClassifier.
type ActionClassifier struct {
	mock.Mock
}

func (m *ActionClassifier) ClassifyAction(ctx context.Context, utterance string, slides []deck.Slide) deck.Action {
	args := m.Called(ctx, utterance, slides)
	return args.Get(0).(deck.Action)
}

// Applier mocks session.Applier.
type Applier struct {
	mock.Mock
}

func (m *Applier) Apply(ctx context.Context, d *deck.Deck, action deck.Action, events session.Events) (*deck.Deck, error) {
	args := m.Called(ctx, d, action, events)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deck.Deck), args.Error(1)
}

// DeckStore mocks session.DeckStore.
type DeckStore struct {
	mock.Mock
}

func (m *DeckStore) PutDeck(ctx context.Context, d *deck.Deck) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *DeckStore) GetDeck(ctx context.Context, id string) (*deck.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deck.Deck), args.Error(1)
}

var _ llm.Client = (*CompletionClient)(nil)
var _ session.ActionClassifier = (*ActionClassifier)(nil)
var _ session.Applier = (*Applier)(nil)
var _ session.DeckStore = (*DeckStore)(nil)
