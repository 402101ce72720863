package llm

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/pkg/errors"

	"github.com/malonaz/deckgpt/internal/credentials"
)

// Role constants re-exported so callers need not import the provider SDK.
const (
	RoleSystem = openai.ChatMessageRoleSystem
	RoleUser   = openai.ChatMessageRoleUser
)

// OpenAIConfig for the OpenAI-compatible client.
type OpenAIConfig struct {
	APIHost    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// OpenAIClient implements Client against an OpenAI-compatible completion
// endpoint, always requesting a JSON object response.
type OpenAIClient struct {
	credential *credentials.Credential
	config     OpenAIConfig
	meter      *Meter
}

// NewOpenAIClient over the given credential. The credential is consulted on
// every call so that inactivity expiry takes effect mid-session.
func NewOpenAIClient(credential *credentials.Credential, config OpenAIConfig) *OpenAIClient {
	if config.Model == "" {
		config.Model = openai.GPT4o
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 2
	}
	return &OpenAIClient{
		credential: credential,
		config:     config,
		meter:      NewMeter(config.Model),
	}
}

// Meter returns the session usage meter.
func (c *OpenAIClient) Meter() *Meter {
	return c.meter
}

// Complete runs one JSON-mode chat completion, retrying transient failures.
func (c *OpenAIClient) Complete(ctx context.Context, request *CompleteRequest) (*CompleteResponse, error) {
	key, err := c.credential.Key()
	if err != nil {
		return nil, err
	}
	clientConfig := openai.DefaultConfig(key)
	if c.config.APIHost != "" {
		clientConfig.BaseURL = c.config.APIHost
	}
	client := openai.NewClientWithConfig(clientConfig)

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, len(request.Messages))
	for _, message := range request.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    message.Role,
			Content: message.Content,
		})
	}
	temperature := request.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	completionRequest := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var lastErr error
	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		response, err := client.CreateChatCompletion(ctx, completionRequest)
		if err != nil {
			lastErr = err
			continue
		}
		if len(response.Choices) == 0 {
			lastErr = errors.New("completion returned no choice")
			continue
		}

		usage := Usage{
			PromptTokens:     int64(response.Usage.PromptTokens),
			CompletionTokens: int64(response.Usage.CompletionTokens),
		}
		c.meter.Record(usage)
		return &CompleteResponse{
			Content: response.Choices[0].Message.Content,
			Usage:   usage,
		}, nil
	}
	return nil, errors.Wrap(lastErr, "creating chat completion")
}
