package deck

import "time"

// Role of a chat message author.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one entry of the editing transcript. The transcript is
// append-only and ephemeral: it is not persisted with the deck.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// NewUserMessage from the given text.
func NewUserMessage(text string) ChatMessage {
	return newMessage(RoleUser, text)
}

// NewModelMessage from the given text.
func NewModelMessage(text string) ChatMessage {
	return newMessage(RoleModel, text)
}

func newMessage(role Role, text string) ChatMessage {
	return ChatMessage{
		ID:        NewID(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
}
