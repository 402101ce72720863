package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/malonaz/deckgpt/internal/credentials"
	"github.com/malonaz/deckgpt/internal/deck"
	"github.com/malonaz/deckgpt/internal/mocks"
	"github.com/malonaz/deckgpt/internal/session"
	"github.com/malonaz/deckgpt/store"
)

func newSession(classifier *mocks.ActionClassifier, applier *mocks.Applier, deckStore *mocks.DeckStore) *session.Session {
	credential := credentials.New("key", time.Minute)
	return session.New(classifier, applier, deckStore, credential, session.Hooks{})
}

func lastMessage(s *session.Session) deck.ChatMessage {
	messages := s.Messages()
	return messages[len(messages)-1]
}

func TestLoadNewDeck(t *testing.T) {
	deckStore := &mocks.DeckStore{}
	sess := newSession(&mocks.ActionClassifier{}, &mocks.Applier{}, deckStore)
	require.Equal(t, session.StateLoading, sess.State())

	require.NoError(t, sess.Load(context.Background(), ""))
	assert.Equal(t, session.StateIdle, sess.State())
	assert.False(t, sess.HasUnsavedChanges())
	assert.Equal(t, "Untitled Deck", sess.Deck().Title)
	assert.Equal(t, "Hi! Describe your startup idea, and I'll build a pitch deck for you.", lastMessage(sess).Text)
	deckStore.AssertNotCalled(t, "GetDeck", mock.Anything, mock.Anything)
}

func TestLoadExistingDeck(t *testing.T) {
	existing := deck.NewDeck()
	existing.Title = "Acme"
	existing.Slides = []deck.Slide{{ID: deck.NewID(), Title: "Problem"}}

	deckStore := &mocks.DeckStore{}
	deckStore.On("GetDeck", mock.Anything, existing.ID).Return(existing, nil)

	sess := newSession(&mocks.ActionClassifier{}, &mocks.Applier{}, deckStore)
	require.NoError(t, sess.Load(context.Background(), existing.ID))
	assert.Equal(t, "Acme", sess.Deck().Title)
	assert.False(t, sess.HasUnsavedChanges())
	// No welcome message when the deck already has slides.
	assert.Empty(t, sess.Messages())
}

func TestLoadExistingEmptyDeck(t *testing.T) {
	existing := deck.NewDeck()
	deckStore := &mocks.DeckStore{}
	deckStore.On("GetDeck", mock.Anything, existing.ID).Return(existing, nil)

	sess := newSession(&mocks.ActionClassifier{}, &mocks.Applier{}, deckStore)
	require.NoError(t, sess.Load(context.Background(), existing.ID))
	assert.Equal(t, "Welcome back! What would you like to add to your deck today?", lastMessage(sess).Text)
}

func TestLoadStaleIDStartsFresh(t *testing.T) {
	deckStore := &mocks.DeckStore{}
	deckStore.On("GetDeck", mock.Anything, "gone").Return(nil, store.ErrNotFound)

	sess := newSession(&mocks.ActionClassifier{}, &mocks.Applier{}, deckStore)
	require.NoError(t, sess.Load(context.Background(), "gone"))
	assert.NotEqual(t, "gone", sess.Deck().ID)
	assert.Equal(t, "Hi! Describe your startup idea, and I'll build a pitch deck for you.", lastMessage(sess).Text)
}

func TestLoadStoreFailureAborts(t *testing.T) {
	deckStore := &mocks.DeckStore{}
	deckStore.On("GetDeck", mock.Anything, "some-id").Return(nil, errors.New("disk on fire"))

	sess := newSession(&mocks.ActionClassifier{}, &mocks.Applier{}, deckStore)
	require.Error(t, sess.Load(context.Background(), "some-id"))
	assert.Equal(t, session.StateLoading, sess.State())
}

func TestHandleMessage(t *testing.T) {
	classifier := &mocks.ActionClassifier{}
	applier := &mocks.Applier{}
	sess := newSession(classifier, applier, &mocks.DeckStore{})
	require.NoError(t, sess.Load(context.Background(), ""))

	action := deck.NewChatAction("Happy to help!")
	classifier.On("ClassifyAction", mock.Anything, "hello", mock.Anything).Return(action)
	applier.On("Apply", mock.Anything, mock.Anything, action, mock.Anything).
		Run(func(args mock.Arguments) {
			events := args.Get(3).(session.Events)
			events.SystemMessage("Happy to help!")
		}).
		Return(deck.NewDeck(), nil)

	require.NoError(t, sess.HandleMessage(context.Background(), "hello"))
	assert.Equal(t, session.StateIdle, sess.State())
	// A chat turn mutates nothing, so the session stays clean.
	assert.False(t, sess.HasUnsavedChanges())

	messages := sess.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, deck.RoleUser, messages[1].Role)
	assert.Equal(t, "hello", messages[1].Text)
	assert.Equal(t, deck.RoleModel, messages[2].Role)
	assert.Equal(t, "Happy to help!", messages[2].Text)
}

func TestHandleMessageMutationTurnsDirty(t *testing.T) {
	classifier := &mocks.ActionClassifier{}
	applier := &mocks.Applier{}
	sess := newSession(classifier, applier, &mocks.DeckStore{})
	require.NoError(t, sess.Load(context.Background(), ""))

	updated := deck.NewDeck()
	updated.Slides = []deck.Slide{{ID: deck.NewID(), Title: "Problem"}}
	action := deck.Action{Kind: deck.ActionRemoveSlide, RemoveSlide: &deck.RemoveSlideAction{Indices: []int{1}}}
	classifier.On("ClassifyAction", mock.Anything, mock.Anything, mock.Anything).Return(action)
	applier.On("Apply", mock.Anything, mock.Anything, action, mock.Anything).
		Run(func(args mock.Arguments) {
			events := args.Get(3).(session.Events)
			events.DeckUpdated(updated)
		}).
		Return(updated, nil)

	require.NoError(t, sess.HandleMessage(context.Background(), "remove slide 1"))
	assert.True(t, sess.HasUnsavedChanges())
	assert.Equal(t, updated.ID, sess.Deck().ID)
}

func TestHandleMessageRejectsConcurrentTurn(t *testing.T) {
	classifier := &mocks.ActionClassifier{}
	applier := &mocks.Applier{}
	sess := newSession(classifier, applier, &mocks.DeckStore{})
	require.NoError(t, sess.Load(context.Background(), ""))

	action := deck.NewChatAction("hi")
	classifier.On("ClassifyAction", mock.Anything, mock.Anything, mock.Anything).Return(action)
	applier.On("Apply", mock.Anything, mock.Anything, action, mock.Anything).
		Run(func(args mock.Arguments) {
			// A turn arriving mid-processing is rejected.
			assert.ErrorIs(t, sess.HandleMessage(context.Background(), "another"), session.ErrBusy)
		}).
		Return(deck.NewDeck(), nil)

	require.NoError(t, sess.HandleMessage(context.Background(), "first"))
	assert.Equal(t, session.StateIdle, sess.State())
}

func TestHandleMessageApplyFailure(t *testing.T) {
	classifier := &mocks.ActionClassifier{}
	applier := &mocks.Applier{}
	sess := newSession(classifier, applier, &mocks.DeckStore{})
	require.NoError(t, sess.Load(context.Background(), ""))

	action := deck.NewCreateDeckAction("anything")
	classifier.On("ClassifyAction", mock.Anything, mock.Anything, mock.Anything).Return(action)
	applier.On("Apply", mock.Anything, mock.Anything, action, mock.Anything).Return(nil, errors.New("boom"))

	require.NoError(t, sess.HandleMessage(context.Background(), "anything"))
	assert.Equal(t, "I encountered an error while processing your request. Please try again.", lastMessage(sess).Text)
	assert.Equal(t, session.StateIdle, sess.State())
}

func TestSave(t *testing.T) {
	deckStore := &mocks.DeckStore{}
	deckStore.On("PutDeck", mock.Anything, mock.Anything).Return(nil)

	sess := newSession(&mocks.ActionClassifier{}, &mocks.Applier{}, deckStore)
	require.NoError(t, sess.Load(context.Background(), ""))
	before := sess.Deck().LastModified

	sess.Rename("Acme Pitch")
	require.True(t, sess.HasUnsavedChanges())

	require.NoError(t, sess.Save(context.Background()))
	assert.False(t, sess.HasUnsavedChanges())
	assert.GreaterOrEqual(t, sess.Deck().LastModified, before)
	assert.Equal(t, "Acme Pitch", sess.Deck().Title)
}

func TestSaveFailureKeepsDirty(t *testing.T) {
	deckStore := &mocks.DeckStore{}
	deckStore.On("PutDeck", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	sess := newSession(&mocks.ActionClassifier{}, &mocks.Applier{}, deckStore)
	require.NoError(t, sess.Load(context.Background(), ""))
	sess.Rename("Acme Pitch")

	require.Error(t, sess.Save(context.Background()))
	assert.True(t, sess.HasUnsavedChanges())
	assert.Equal(t, "I couldn't save your deck due to an error. Please try again.", lastMessage(sess).Text)
}

func TestUpdateSlideManually(t *testing.T) {
	existing := deck.NewDeck()
	slide := deck.Slide{ID: deck.NewID(), Title: "Problem", Content: "old"}
	existing.Slides = []deck.Slide{slide}

	deckStore := &mocks.DeckStore{}
	deckStore.On("GetDeck", mock.Anything, existing.ID).Return(existing, nil)

	sess := newSession(&mocks.ActionClassifier{}, &mocks.Applier{}, deckStore)
	require.NoError(t, sess.Load(context.Background(), existing.ID))

	slide.Content = "hand written"
	sess.UpdateSlideManually(slide)
	assert.Equal(t, "hand written", sess.Deck().Slides[0].Content)
	assert.True(t, sess.HasUnsavedChanges())
}
