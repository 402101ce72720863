package deck

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SlideType is the visual layout of a slide. The values are a wire contract
// with the rendering layer; adding one is a breaking change.
type SlideType string

const (
	TypeTitle      SlideType = "title"
	TypeBullets    SlideType = "bullets"
	TypeImageLeft  SlideType = "image_left"
	TypeImageRight SlideType = "image_right"
	TypeChart      SlideType = "chart"
)

// ParseSlideType validates a raw slide type value.
func ParseSlideType(raw string) (SlideType, error) {
	switch SlideType(raw) {
	case TypeTitle, TypeBullets, TypeImageLeft, TypeImageRight, TypeChart:
		return SlideType(raw), nil
	}
	return "", errors.Errorf("unknown slide type (%s)", raw)
}

// Slide is one presentation unit. Content is the empty string while
// generation for the slide is still pending.
type Slide struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Type    SlideType `json:"type"`
	Notes   string    `json:"notes,omitempty"`
}

// Deck is the persisted document: slide order in Slides is the presentation
// order. LastModified advances only on explicit save.
type Deck struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	CreatedAt    int64   `json:"createdAt"`
	LastModified int64   `json:"lastModified"`
	Thumbnail    string  `json:"thumbnail,omitempty"`
	Slides       []Slide `json:"slides"`
}

// NewDeck returns an empty untitled deck.
func NewDeck() *Deck {
	now := time.Now().UnixMilli()
	return &Deck{
		ID:           NewID(),
		Title:        "Untitled Deck",
		CreatedAt:    now,
		LastModified: now,
	}
}

// Clone returns a deep copy, so mutations never alias the stored slides.
func (d *Deck) Clone() *Deck {
	clone := *d
	clone.Slides = make([]Slide, len(d.Slides))
	copy(clone.Slides, d.Slides)
	return &clone
}

// NewID mints an opaque identifier for decks, slides and chat messages.
func NewID() string {
	return uuid.New().String()
}

// OutlineSlide is a slide skeleton produced by outline generation, ahead of
// content generation.
type OutlineSlide struct {
	Title        string    `json:"title"`
	Type         SlideType `json:"type"`
	Instructions string    `json:"instructions"`
}

// SlideContent is the generated body of a single slide.
type SlideContent struct {
	Content string `json:"content"`
	Notes   string `json:"notes"`
}
