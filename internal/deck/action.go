package deck

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ActionKind is the closed vocabulary of structural operations the intent
// classifier can resolve a user utterance into.
type ActionKind string

const (
	ActionCreateDeck   ActionKind = "CREATE_DECK"
	ActionAddSlide     ActionKind = "ADD_SLIDE"
	ActionRemoveSlide  ActionKind = "REMOVE_SLIDE"
	ActionReorderSlide ActionKind = "REORDER_SLIDE"
	ActionUpdateSlide  ActionKind = "UPDATE_SLIDE"
	ActionChat         ActionKind = "CHAT"
)

// Action is a tagged union over the six operation kinds. Exactly one payload
// field is set, matching Kind. All slide indices carried by payloads are
// 1-based: they come straight from the user's view of the deck, and only the
// mutation engine converts them to slice positions.
type Action struct {
	Kind ActionKind

	CreateDeck   *CreateDeckAction
	AddSlide     *AddSlideAction
	RemoveSlide  *RemoveSlideAction
	ReorderSlide *ReorderSlideAction
	UpdateSlide  *UpdateSlideAction
	Chat         *ChatAction
}

// CreateDeckAction replaces the whole deck with a freshly outlined one.
type CreateDeckAction struct {
	Topic string
}

// AddSlideAction inserts one new slide. Position is 1-based and optional:
// nil means append after the last slide.
type AddSlideAction struct {
	Topic    string
	Position *int
}

// RemoveSlideAction drops the slides at the given 1-based indices.
type RemoveSlideAction struct {
	Indices []int
}

// ReorderSlideAction moves one slide. Both indices are 1-based; nil means the
// classifier could not determine the value.
type ReorderSlideAction struct {
	From *int
	To   *int
}

// UpdateSlideAction regenerates one slide following free-text instructions.
type UpdateSlideAction struct {
	Index        *int
	Instructions string
}

// ChatAction carries a conversational reply and mutates nothing.
type ChatAction struct {
	Response string
}

// NewCreateDeckAction over the given topic.
func NewCreateDeckAction(topic string) Action {
	return Action{Kind: ActionCreateDeck, CreateDeck: &CreateDeckAction{Topic: topic}}
}

// NewChatAction with the given reply.
func NewChatAction(response string) Action {
	return Action{Kind: ActionChat, Chat: &ChatAction{Response: response}}
}

// wireAction is the duck-typed object shape the classifier model replies
// with: a "type" tag plus whichever parameter fields apply. Optional integers
// are pointers so that an absent field never reads as zero.
type wireAction struct {
	Type         ActionKind `json:"type"`
	Topic        string     `json:"topic,omitempty"`
	Position     *int       `json:"position,omitempty"`
	Indices      []int      `json:"indices,omitempty"`
	From         *int       `json:"from,omitempty"`
	To           *int       `json:"to,omitempty"`
	Index        *int       `json:"index,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
	Response     string     `json:"response,omitempty"`
}

// UnmarshalJSON decodes the classifier's wire object into the union.
func (a *Action) UnmarshalJSON(data []byte) error {
	var wire wireAction
	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.Wrap(err, "unmarshaling action object")
	}

	switch wire.Type {
	case ActionCreateDeck:
		*a = NewCreateDeckAction(wire.Topic)
	case ActionAddSlide:
		*a = Action{Kind: ActionAddSlide, AddSlide: &AddSlideAction{Topic: wire.Topic, Position: wire.Position}}
	case ActionRemoveSlide:
		*a = Action{Kind: ActionRemoveSlide, RemoveSlide: &RemoveSlideAction{Indices: wire.Indices}}
	case ActionReorderSlide:
		*a = Action{Kind: ActionReorderSlide, ReorderSlide: &ReorderSlideAction{From: wire.From, To: wire.To}}
	case ActionUpdateSlide:
		*a = Action{Kind: ActionUpdateSlide, UpdateSlide: &UpdateSlideAction{Index: wire.Index, Instructions: wire.Instructions}}
	case ActionChat:
		*a = NewChatAction(wire.Response)
	default:
		return errors.Errorf("unknown action type (%s)", wire.Type)
	}
	return nil
}

// MarshalJSON encodes the union back into the wire object shape.
func (a Action) MarshalJSON() ([]byte, error) {
	wire := wireAction{Type: a.Kind}
	switch a.Kind {
	case ActionCreateDeck:
		wire.Topic = a.CreateDeck.Topic
	case ActionAddSlide:
		wire.Topic = a.AddSlide.Topic
		wire.Position = a.AddSlide.Position
	case ActionRemoveSlide:
		wire.Indices = a.RemoveSlide.Indices
	case ActionReorderSlide:
		wire.From = a.ReorderSlide.From
		wire.To = a.ReorderSlide.To
	case ActionUpdateSlide:
		wire.Index = a.UpdateSlide.Index
		wire.Instructions = a.UpdateSlide.Instructions
	case ActionChat:
		wire.Response = a.Chat.Response
	default:
		return nil, errors.Errorf("unknown action kind (%s)", a.Kind)
	}
	return json.Marshal(wire)
}
