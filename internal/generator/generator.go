// Package generator wraps the hosted model behind the four content operations
// the editor needs: deck outlines, single-slide outlines, slide content and
// intent classification. Each operation defines its own failure fallback, so
// a flaky backend degrades the experience instead of aborting it.
package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/malonaz/deckgpt/internal/credentials"
	"github.com/malonaz/deckgpt/internal/debug"
	"github.com/malonaz/deckgpt/internal/deck"
	"github.com/malonaz/deckgpt/internal/llm"
)

const (
	// FallbackSlideContent replaces the body of a slide whose content
	// request failed. The surrounding operation carries on.
	FallbackSlideContent = "Error generating content. Please edit manually."
	// FallbackClassifyResponse is the chat reply used when intent
	// classification fails; classification failure is never fatal.
	FallbackClassifyResponse = "I'm having trouble understanding. Could you rephrase that?"
	// ExpiredCredentialResponse is the chat reply used when the session
	// credential has lapsed through inactivity.
	ExpiredCredentialResponse = "Your session has expired. Please restart deckgpt and enter your API key again."
)

// Generator implements the content generation operations over an llm.Client.
type Generator struct {
	client llm.Client
}

// New generator.
func New(client llm.Client) *Generator {
	return &Generator{client: client}
}

// GenerateOutline returns the slide skeletons of a full deck about the topic.
// This is the one operation whose failure propagates: without an outline the
// surrounding CREATE_DECK cannot proceed at all.
func (g *Generator) GenerateOutline(ctx context.Context, topic string) ([]deck.OutlineSlide, error) {
	userPrompt := fmt.Sprintf("Topic: %s", topic)
	content, err := g.complete(ctx, outlineSystemPrompt, userPrompt)
	if err != nil {
		return nil, errors.Wrap(err, "generating outline")
	}

	outline, err := parseOutline(content)
	if err != nil {
		return nil, errors.Wrap(err, "parsing outline")
	}
	return outline, nil
}

// GenerateSingleSlideOutline returns the skeleton of one new slide. On
// failure it falls back to a plain bullets slide about the topic.
func (g *Generator) GenerateSingleSlideOutline(ctx context.Context, topic string) deck.OutlineSlide {
	fallback := deck.OutlineSlide{
		Title:        "New Slide",
		Type:         deck.TypeBullets,
		Instructions: fmt.Sprintf("Write about %s", topic),
	}

	content, err := g.complete(ctx, singleSlideSystemPrompt, fmt.Sprintf("Slide Topic: %s", topic))
	if err != nil {
		debug.GetLogger().Warn("single slide outline failed", "error", err)
		return fallback
	}

	var outline deck.OutlineSlide
	if err := json.Unmarshal([]byte(content), &outline); err != nil {
		debug.GetLogger().Warn("single slide outline unparseable", "error", err)
		return fallback
	}
	if _, err := deck.ParseSlideType(string(outline.Type)); err != nil {
		outline.Type = deck.TypeBullets
	}
	if outline.Title == "" {
		outline.Title = fallback.Title
	}
	return outline
}

// GenerateSlideContent writes the body and speaker notes of one slide. On
// failure it falls back to a placeholder body with empty notes.
func (g *Generator) GenerateSlideContent(ctx context.Context, topic string, outline deck.OutlineSlide) deck.SlideContent {
	userPrompt, err := renderTemplate(contentUserPrompt, struct {
		Topic        string
		Title        string
		Type         deck.SlideType
		Instructions string
	}{topic, outline.Title, outline.Type, outline.Instructions})
	if err != nil {
		return deck.SlideContent{Content: FallbackSlideContent}
	}

	content, err := g.complete(ctx, contentSystemPrompt, userPrompt)
	if err != nil {
		debug.GetLogger().Warn("slide content generation failed", "slide", outline.Title, "error", err)
		return deck.SlideContent{Content: FallbackSlideContent}
	}

	var result deck.SlideContent
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		debug.GetLogger().Warn("slide content unparseable", "slide", outline.Title, "error", err)
		return deck.SlideContent{Content: FallbackSlideContent}
	}
	return result
}

// slideContext is the 1-based view of the deck the classifier reasons over.
type slideContext struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// ClassifyAction resolves one user utterance into a structural operation.
// An empty deck short-circuits to CREATE_DECK without consulting the model;
// every failure path resolves to a CHAT action, never an error.
func (g *Generator) ClassifyAction(ctx context.Context, utterance string, slides []deck.Slide) deck.Action {
	if len(slides) == 0 {
		return deck.NewCreateDeckAction(utterance)
	}

	slidesContext := make([]slideContext, 0, len(slides))
	for i, slide := range slides {
		slidesContext = append(slidesContext, slideContext{Index: i + 1, Title: slide.Title, Type: string(slide.Type)})
	}
	slidesContextJSON, err := json.Marshal(slidesContext)
	if err != nil {
		return deck.NewChatAction(FallbackClassifyResponse)
	}

	systemPrompt, err := renderTemplate(classifySystemPrompt, struct {
		SlidesContext string
		SlideCount    int
	}{string(slidesContextJSON), len(slides)})
	if err != nil {
		return deck.NewChatAction(FallbackClassifyResponse)
	}

	content, err := g.complete(ctx, systemPrompt, utterance)
	if err != nil {
		if errors.Is(err, credentials.ErrExpired) {
			return deck.NewChatAction(ExpiredCredentialResponse)
		}
		debug.GetLogger().Warn("action classification failed", "error", err)
		return deck.NewChatAction(FallbackClassifyResponse)
	}

	var action deck.Action
	if err := json.Unmarshal([]byte(content), &action); err != nil {
		debug.GetLogger().Warn("action classification unparseable", "content", content, "error", err)
		return deck.NewChatAction(FallbackClassifyResponse)
	}
	return action
}

func (g *Generator) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	response, err := g.client.Complete(ctx, &llm.CompleteRequest{
		Messages: []*llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", err
	}
	return response.Content, nil
}

// parseOutline tolerates both reply shapes models produce for the outline
// prompt: the requested {"slides": [...]} wrapper and a bare array.
func parseOutline(content string) ([]deck.OutlineSlide, error) {
	var wrapper struct {
		Slides []deck.OutlineSlide `json:"slides"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err == nil && len(wrapper.Slides) > 0 {
		return sanitizeOutline(wrapper.Slides), nil
	}

	var outline []deck.OutlineSlide
	if err := json.Unmarshal([]byte(content), &outline); err != nil {
		return nil, errors.Wrap(err, "unmarshaling outline")
	}
	if len(outline) == 0 {
		return nil, errors.New("outline contains no slides")
	}
	return sanitizeOutline(outline), nil
}

func sanitizeOutline(outline []deck.OutlineSlide) []deck.OutlineSlide {
	for i := range outline {
		if _, err := deck.ParseSlideType(string(outline[i].Type)); err != nil {
			outline[i].Type = deck.TypeBullets
		}
	}
	return outline
}
