// Package engine applies resolved editor actions to a deck's slide sequence.
// Each handler is a transformation of the sequence, calling out to content
// generation where an operation needs generated text. Handlers never touch a
// rendering surface: progress is reported through the Events sink and the
// presentation layer decides what to do with it.
package engine

import (
	"context"
	"fmt"

	"github.com/scylladb/go-set/iset"

	"github.com/malonaz/deckgpt/internal/deck"
)

// layoutRider is appended to update instructions before regeneration, so the
// writer reformats the body when the user asked for a different layout.
const layoutRider = ". If the user asked for a different layout (like chart or bullets), format the content accordingly."

// ContentGenerator is the generation backend the engine calls out to.
// Single-slide outline and content requests degrade internally and never
// fail; only the full-outline request can.
type ContentGenerator interface {
	GenerateOutline(ctx context.Context, topic string) ([]deck.OutlineSlide, error)
	GenerateSingleSlideOutline(ctx context.Context, topic string) deck.OutlineSlide
	GenerateSlideContent(ctx context.Context, topic string, outline deck.OutlineSlide) deck.SlideContent
}

// Events receives the engine's incremental progress. SystemMessage carries
// transcript copy; DeckUpdated fires after every mutation of the slide
// sequence with an independent snapshot; SlideGenerating marks the slide a
// content request is in flight for, and fires with an empty ID once clear.
type Events interface {
	SystemMessage(text string)
	DeckUpdated(d *deck.Deck)
	SlideGenerating(slideID string)
}

// Engine applies actions to decks.
type Engine struct {
	generator ContentGenerator
}

// New engine over the given generation backend.
func New(generator ContentGenerator) *Engine {
	return &Engine{generator: generator}
}

// Apply the action to the deck, returning the next deck state. The input
// deck is never mutated. An error is returned only when an operation could
// not run at all (today: outline generation failure); recoverable problems
// degrade to transcript messages instead.
func (e *Engine) Apply(ctx context.Context, d *deck.Deck, action deck.Action, events Events) (*deck.Deck, error) {
	switch action.Kind {
	case deck.ActionCreateDeck:
		return e.createDeck(ctx, d, action.CreateDeck.Topic, events)
	case deck.ActionAddSlide:
		return e.addSlide(ctx, d, action.AddSlide, events)
	case deck.ActionRemoveSlide:
		return e.removeSlide(d, action.RemoveSlide.Indices, events)
	case deck.ActionReorderSlide:
		return e.reorderSlide(d, action.ReorderSlide, events)
	case deck.ActionUpdateSlide:
		return e.updateSlide(ctx, d, action.UpdateSlide, events)
	case deck.ActionChat:
		response := action.Chat.Response
		if response == "" {
			response = "I'm not sure how to help with that."
		}
		events.SystemMessage(response)
		return d, nil
	}
	return d, fmt.Errorf("unknown action kind (%s)", action.Kind)
}

// createDeck replaces the entire slide sequence with a freshly outlined one,
// then drafts content slide by slide.
func (e *Engine) createDeck(ctx context.Context, d *deck.Deck, topic string, events Events) (*deck.Deck, error) {
	events.SystemMessage("Analyzing your request and structuring the deck...")

	outline, err := e.generator.GenerateOutline(ctx, topic)
	if err != nil {
		return d, err
	}

	next := d.Clone()
	next.Slides = make([]deck.Slide, 0, len(outline))
	for _, item := range outline {
		next.Slides = append(next.Slides, deck.Slide{
			ID:    deck.NewID(),
			Title: item.Title,
			Type:  item.Type,
		})
	}
	events.DeckUpdated(next.Clone())

	events.SystemMessage(fmt.Sprintf("I've created an outline with %d slides. Now drafting content...", len(outline)))
	e.generateContentForSlides(ctx, next, outline, events)
	return next, nil
}

// generateContentForSlides drafts content for every pending slide, strictly
// in order, one request at a time. Slides that already have content are
// skipped, which makes a resumed generation idempotent.
func (e *Engine) generateContentForSlides(ctx context.Context, d *deck.Deck, outline []deck.OutlineSlide, events Events) {
	topic := d.Title
	if topic == "" {
		topic = "Startup"
	}

	for i := range d.Slides {
		if d.Slides[i].Content != "" || i >= len(outline) {
			continue
		}

		events.SlideGenerating(d.Slides[i].ID)
		content := e.generator.GenerateSlideContent(ctx, topic, outline[i])
		d.Slides[i].Content = content.Content
		d.Slides[i].Notes = content.Notes
		events.DeckUpdated(d.Clone())
	}
	events.SlideGenerating("")
	events.SystemMessage("Deck generation complete! Don't forget to save your work.")
}

// addSlide splices one new slide into the sequence, then drafts its content.
func (e *Engine) addSlide(ctx context.Context, d *deck.Deck, action *deck.AddSlideAction, events Events) (*deck.Deck, error) {
	topic := action.Topic
	if topic == "" {
		topic = "New Slide"
	}
	events.SystemMessage(fmt.Sprintf("Adding a slide about %q...", topic))

	outlineSlide := e.generator.GenerateSingleSlideOutline(ctx, topic)
	newSlide := deck.Slide{
		ID:    deck.NewID(),
		Title: outlineSlide.Title,
		Type:  outlineSlide.Type,
	}

	// A 1-based position within [1, len+1] is honored; anything else
	// appends after the last slide.
	next := d.Clone()
	insertIndex := len(next.Slides)
	if p := action.Position; p != nil && *p > 0 && *p <= len(next.Slides)+1 {
		insertIndex = *p - 1
	}
	next.Slides = append(next.Slides[:insertIndex], append([]deck.Slide{newSlide}, next.Slides[insertIndex:]...)...)
	events.DeckUpdated(next.Clone())

	events.SlideGenerating(newSlide.ID)
	content := e.generator.GenerateSlideContent(ctx, topic, outlineSlide)
	for i := range next.Slides {
		if next.Slides[i].ID == newSlide.ID {
			next.Slides[i].Content = content.Content
			next.Slides[i].Notes = content.Notes
		}
	}
	events.DeckUpdated(next.Clone())
	events.SlideGenerating("")
	events.SystemMessage("Slide added successfully.")
	return next, nil
}

// removeSlide drops the slides at the given 1-based indices, keeping the
// survivors in their original relative order.
func (e *Engine) removeSlide(d *deck.Deck, indices []int, events Events) (*deck.Deck, error) {
	if len(indices) == 0 {
		events.SystemMessage("I couldn't figure out which slide to remove.")
		return d, nil
	}

	toRemove := iset.New()
	for _, index := range indices {
		toRemove.Add(index - 1)
	}

	next := d.Clone()
	kept := next.Slides[:0]
	for i, slide := range next.Slides {
		if !toRemove.Has(i) {
			kept = append(kept, slide)
		}
	}
	next.Slides = kept
	events.DeckUpdated(next.Clone())
	events.SystemMessage(fmt.Sprintf("Removed %d slide(s).", len(indices)))
	return next, nil
}

// reorderSlide moves one slide: it is removed first and the target position
// is counted in the sequence after removal, conventional list-move
// semantics. On [A,B,C,D,E], from=2 to=4 yields [A,C,D,B,E].
func (e *Engine) reorderSlide(d *deck.Deck, action *deck.ReorderSlideAction, events Events) (*deck.Deck, error) {
	if action.From == nil || action.To == nil {
		return d, nil
	}
	from, to := *action.From, *action.To
	if from < 1 || from > len(d.Slides) || to < 1 || to > len(d.Slides) {
		events.SystemMessage("The slide numbers seem to be out of range.")
		return d, nil
	}

	next := d.Clone()
	moved := next.Slides[from-1]
	next.Slides = append(next.Slides[:from-1], next.Slides[from:]...)
	next.Slides = append(next.Slides[:to-1], append([]deck.Slide{moved}, next.Slides[to-1:]...)...)
	events.DeckUpdated(next.Clone())
	events.SystemMessage(fmt.Sprintf("Moved slide %d to position %d.", from, to))
	return next, nil
}

// updateSlide regenerates one slide's content following the instructions,
// then applies the keyword layout heuristic on top.
func (e *Engine) updateSlide(ctx context.Context, d *deck.Deck, action *deck.UpdateSlideAction, events Events) (*deck.Deck, error) {
	if action.Index == nil || action.Instructions == "" {
		return d, nil
	}
	slideIndex := *action.Index - 1
	if slideIndex < 0 || slideIndex >= len(d.Slides) {
		events.SystemMessage("I couldn't find that slide.")
		return d, nil
	}

	next := d.Clone()
	slide := next.Slides[slideIndex]
	events.SystemMessage(fmt.Sprintf("Updating slide %d...", *action.Index))
	events.SlideGenerating(slide.ID)

	content := e.generator.GenerateSlideContent(ctx, "Update Request", deck.OutlineSlide{
		Title:        slide.Title,
		Type:         slide.Type,
		Instructions: action.Instructions + layoutRider,
	})
	slide.Content = content.Content
	slide.Notes = content.Notes
	if override, ok := InferTypeOverride(action.Instructions); ok {
		slide.Type = override
	}
	next.Slides[slideIndex] = slide

	events.DeckUpdated(next.Clone())
	events.SlideGenerating("")
	events.SystemMessage(fmt.Sprintf("Slide %d updated.", *action.Index))
	return next, nil
}
