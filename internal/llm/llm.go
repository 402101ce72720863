package llm

import "context"

// Message of a chat completion conversation.
type Message struct {
	Role    string
	Content string
}

// CompleteRequest for a single JSON-mode completion.
type CompleteRequest struct {
	Messages    []*Message
	Temperature float32
}

// CompleteResponse holds the model's reply plus usage accounting.
type CompleteResponse struct {
	// Content is the raw reply. Requests always ask for a JSON object, so
	// this is expected to be one, but callers own the parsing and its
	// failure modes.
	Content string
	Usage   Usage
}

// Client runs JSON-mode chat completions against a hosted model.
type Client interface {
	Complete(ctx context.Context, request *CompleteRequest) (*CompleteResponse, error)
}
