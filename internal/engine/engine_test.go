package engine_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/malonaz/deckgpt/internal/deck"
	"github.com/malonaz/deckgpt/internal/engine"
	"github.com/malonaz/deckgpt/internal/mocks"
)

type eventRecorder struct {
	messages   []string
	decks      []*deck.Deck
	generating []string
}

func (r *eventRecorder) SystemMessage(text string)     { r.messages = append(r.messages, text) }
func (r *eventRecorder) DeckUpdated(d *deck.Deck)      { r.decks = append(r.decks, d) }
func (r *eventRecorder) SlideGenerating(slideID string) { r.generating = append(r.generating, slideID) }

func intPtr(i int) *int { return &i }

func deckWithSlides(titles ...string) *deck.Deck {
	d := deck.NewDeck()
	for _, title := range titles {
		d.Slides = append(d.Slides, deck.Slide{
			ID:      deck.NewID(),
			Title:   title,
			Content: "content of " + title,
			Type:    deck.TypeBullets,
		})
	}
	return d
}

func slideTitles(d *deck.Deck) []string {
	titles := make([]string, 0, len(d.Slides))
	for _, slide := range d.Slides {
		titles = append(titles, slide.Title)
	}
	return titles
}

func TestCreateDeck(t *testing.T) {
	generator := &mocks.ContentGenerator{}
	outline := []deck.OutlineSlide{
		{Title: "Problem", Type: deck.TypeTitle, Instructions: "State the problem"},
		{Title: "Solution", Type: deck.TypeBullets, Instructions: "Present the solution"},
		{Title: "Market", Type: deck.TypeChart, Instructions: "Size the market"},
	}
	generator.On("GenerateOutline", mock.Anything, "a drone delivery startup").Return(outline, nil)
	for _, item := range outline {
		generator.On("GenerateSlideContent", mock.Anything, "Untitled Deck", item).
			Return(deck.SlideContent{Content: "body: " + item.Title, Notes: "notes: " + item.Title}).Once()
	}

	events := &eventRecorder{}
	previous := deckWithSlides("Old A", "Old B")
	next, err := engine.New(generator).Apply(context.Background(), previous, deck.NewCreateDeckAction("a drone delivery startup"), events)
	require.NoError(t, err)

	// The old slides are gone and every new slide carries generated content.
	require.Len(t, next.Slides, 3)
	assert.Equal(t, []string{"Problem", "Solution", "Market"}, slideTitles(next))
	for _, slide := range next.Slides {
		assert.Equal(t, "body: "+slide.Title, slide.Content)
		assert.Equal(t, "notes: "+slide.Title, slide.Notes)
		assert.NotEmpty(t, slide.ID)
	}
	assert.Equal(t, []string{"Old A", "Old B"}, slideTitles(previous))

	assert.Equal(t, []string{
		"Analyzing your request and structuring the deck...",
		"I've created an outline with 3 slides. Now drafting content...",
		"Deck generation complete! Don't forget to save your work.",
	}, events.messages)

	// One snapshot for the outline, one per drafted slide.
	require.Len(t, events.decks, 4)
	for _, slide := range events.decks[0].Slides {
		assert.Empty(t, slide.Content)
	}
	assert.Equal(t, 1, countNonEmpty(events.decks[1]))
	assert.Equal(t, 3, countNonEmpty(events.decks[3]))

	// Slides are drafted strictly in order, and the marker clears at the end.
	require.Len(t, events.generating, 4)
	assert.Equal(t, next.Slides[0].ID, events.generating[0])
	assert.Equal(t, next.Slides[1].ID, events.generating[1])
	assert.Equal(t, next.Slides[2].ID, events.generating[2])
	assert.Equal(t, "", events.generating[3])
	generator.AssertExpectations(t)
}

func countNonEmpty(d *deck.Deck) int {
	count := 0
	for _, slide := range d.Slides {
		if slide.Content != "" {
			count++
		}
	}
	return count
}

func TestCreateDeckOutlineFailure(t *testing.T) {
	generator := &mocks.ContentGenerator{}
	generator.On("GenerateOutline", mock.Anything, "anything").Return(nil, errors.New("boom"))

	events := &eventRecorder{}
	previous := deckWithSlides("Keep Me")
	next, err := engine.New(generator).Apply(context.Background(), previous, deck.NewCreateDeckAction("anything"), events)
	require.Error(t, err)
	assert.Equal(t, []string{"Keep Me"}, slideTitles(next))
	assert.Empty(t, events.decks)
}

func TestAddSlideAppendsByDefault(t *testing.T) {
	generator := &mocks.ContentGenerator{}
	generator.On("GenerateSingleSlideOutline", mock.Anything, "the team").
		Return(deck.OutlineSlide{Title: "Team", Type: deck.TypeImageRight, Instructions: "Introduce the team"})
	generator.On("GenerateSlideContent", mock.Anything, "the team", mock.Anything).
		Return(deck.SlideContent{Content: "team body", Notes: "team notes"})

	events := &eventRecorder{}
	previous := deckWithSlides("A", "B", "C")
	action := deck.Action{Kind: deck.ActionAddSlide, AddSlide: &deck.AddSlideAction{Topic: "the team"}}
	next, err := engine.New(generator).Apply(context.Background(), previous, action, events)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C", "Team"}, slideTitles(next))
	assert.Equal(t, "team body", next.Slides[3].Content)
	assert.Contains(t, events.messages, `Adding a slide about "the team"...`)
	assert.Contains(t, events.messages, "Slide added successfully.")
}

func TestAddSlideAtPosition(t *testing.T) {
	generator := &mocks.ContentGenerator{}
	generator.On("GenerateSingleSlideOutline", mock.Anything, "traction").
		Return(deck.OutlineSlide{Title: "Traction", Type: deck.TypeChart})
	generator.On("GenerateSlideContent", mock.Anything, "traction", mock.Anything).
		Return(deck.SlideContent{Content: "traction body"})

	events := &eventRecorder{}
	action := deck.Action{Kind: deck.ActionAddSlide, AddSlide: &deck.AddSlideAction{Topic: "traction", Position: intPtr(2)}}
	next, err := engine.New(generator).Apply(context.Background(), deckWithSlides("A", "B", "C"), action, events)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "Traction", "B", "C"}, slideTitles(next))

	// The first snapshot holds the empty slide, the second its content.
	require.Len(t, events.decks, 2)
	assert.Empty(t, events.decks[0].Slides[1].Content)
	assert.Equal(t, "traction body", events.decks[1].Slides[1].Content)
}

func TestAddSlideOutOfRangePositionAppends(t *testing.T) {
	generator := &mocks.ContentGenerator{}
	generator.On("GenerateSingleSlideOutline", mock.Anything, "New Slide").
		Return(deck.OutlineSlide{Title: "New Slide", Type: deck.TypeBullets})
	generator.On("GenerateSlideContent", mock.Anything, "New Slide", mock.Anything).
		Return(deck.SlideContent{Content: "body"})

	events := &eventRecorder{}
	// Topic defaults and a position past the end falls back to appending.
	action := deck.Action{Kind: deck.ActionAddSlide, AddSlide: &deck.AddSlideAction{Position: intPtr(10)}}
	next, err := engine.New(generator).Apply(context.Background(), deckWithSlides("A", "B"), action, events)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "New Slide"}, slideTitles(next))
}

func TestRemoveSlide(t *testing.T) {
	generator := &mocks.ContentGenerator{}
	events := &eventRecorder{}
	action := deck.Action{Kind: deck.ActionRemoveSlide, RemoveSlide: &deck.RemoveSlideAction{Indices: []int{1, 3}}}
	next, err := engine.New(generator).Apply(context.Background(), deckWithSlides("A", "B", "C", "D"), action, events)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "D"}, slideTitles(next))
	assert.Contains(t, events.messages, "Removed 2 slide(s).")
}

func TestRemoveSlideWithoutIndices(t *testing.T) {
	generator := &mocks.ContentGenerator{}
	events := &eventRecorder{}
	action := deck.Action{Kind: deck.ActionRemoveSlide, RemoveSlide: &deck.RemoveSlideAction{}}
	next, err := engine.New(generator).Apply(context.Background(), deckWithSlides("A", "B"), action, events)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, slideTitles(next))
	assert.Equal(t, []string{"I couldn't figure out which slide to remove."}, events.messages)
	assert.Empty(t, events.decks)
}

func TestReorderSlide(t *testing.T) {
	generator := &mocks.ContentGenerator{}
	events := &eventRecorder{}
	action := deck.Action{Kind: deck.ActionReorderSlide, ReorderSlide: &deck.ReorderSlideAction{From: intPtr(2), To: intPtr(4)}}
	next, err := engine.New(generator).Apply(context.Background(), deckWithSlides("A", "B", "C", "D", "E"), action, events)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C", "D", "B", "E"}, slideTitles(next))
	assert.Contains(t, events.messages, "Moved slide 2 to position 4.")
}

func TestReorderSlideMissingIndices(t *testing.T) {
	generator := &mocks.ContentGenerator{}
	events := &eventRecorder{}
	action := deck.Action{Kind: deck.ActionReorderSlide, ReorderSlide: &deck.ReorderSlideAction{From: intPtr(1)}}
	next, err := engine.New(generator).Apply(context.Background(), deckWithSlides("A", "B"), action, events)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, slideTitles(next))
	assert.Empty(t, events.messages)
	assert.Empty(t, events.decks)
}

func TestReorderSlideOutOfRange(t *testing.T) {
	generator := &mocks.ContentGenerator{}
	events := &eventRecorder{}
	action := deck.Action{Kind: deck.ActionReorderSlide, ReorderSlide: &deck.ReorderSlideAction{From: intPtr(1), To: intPtr(9)}}
	next, err := engine.New(generator).Apply(context.Background(), deckWithSlides("A", "B"), action, events)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, slideTitles(next))
	assert.Equal(t, []string{"The slide numbers seem to be out of range."}, events.messages)
}

func TestUpdateSlide(t *testing.T) {
	generator := &mocks.ContentGenerator{}
	generator.On("GenerateSlideContent", mock.Anything, "Update Request", mock.MatchedBy(func(outline deck.OutlineSlide) bool {
		return outline.Title == "B" && outline.Instructions != ""
	})).Return(deck.SlideContent{Content: "as a chart", Notes: "chart notes"})

	events := &eventRecorder{}
	action := deck.Action{Kind: deck.ActionUpdateSlide, UpdateSlide: &deck.UpdateSlideAction{Index: intPtr(2), Instructions: "make it a chart"}}
	next, err := engine.New(generator).Apply(context.Background(), deckWithSlides("A", "B", "C"), action, events)
	require.NoError(t, err)

	// Only slide 2 changes, and the layout keyword flips its type.
	assert.Equal(t, deck.TypeChart, next.Slides[1].Type)
	assert.Equal(t, "as a chart", next.Slides[1].Content)
	assert.Equal(t, deck.TypeBullets, next.Slides[0].Type)
	assert.Equal(t, "content of A", next.Slides[0].Content)
	assert.Equal(t, "content of C", next.Slides[2].Content)
	assert.Contains(t, events.messages, "Updating slide 2...")
	assert.Contains(t, events.messages, "Slide 2 updated.")
}

func TestUpdateSlideMissingParameters(t *testing.T) {
	generator := &mocks.ContentGenerator{}
	events := &eventRecorder{}
	action := deck.Action{Kind: deck.ActionUpdateSlide, UpdateSlide: &deck.UpdateSlideAction{Instructions: "shorter"}}
	next, err := engine.New(generator).Apply(context.Background(), deckWithSlides("A"), action, events)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, slideTitles(next))
	assert.Empty(t, events.messages)
}

func TestUpdateSlideInvalidIndex(t *testing.T) {
	generator := &mocks.ContentGenerator{}
	events := &eventRecorder{}
	action := deck.Action{Kind: deck.ActionUpdateSlide, UpdateSlide: &deck.UpdateSlideAction{Index: intPtr(7), Instructions: "shorter"}}
	_, err := engine.New(generator).Apply(context.Background(), deckWithSlides("A"), action, events)
	require.NoError(t, err)
	assert.Equal(t, []string{"I couldn't find that slide."}, events.messages)
}

func TestChat(t *testing.T) {
	generator := &mocks.ContentGenerator{}
	events := &eventRecorder{}
	next, err := engine.New(generator).Apply(context.Background(), deckWithSlides("A"), deck.NewChatAction("Happy to help!"), events)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, slideTitles(next))
	assert.Equal(t, []string{"Happy to help!"}, events.messages)
	assert.Empty(t, events.decks)
}
