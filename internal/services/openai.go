package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/oselz/docqa-web-ui/internal/session"
)

// OpenAI answers questions through OpenAI's chat completion API, as an alternative to the
// hosted read-retrieve-read answer service.
type OpenAI struct {
	model        string
	systemPrompt string

	client *goopenai.Client

	logger *slog.Logger
}

// NewOpenAI creates a new OpenAI dispatcher with the specified API key, model name, and system
// prompt.
func NewOpenAI(apiKey, model, systemPrompt string, logger *slog.Logger) OpenAI {
	return OpenAI{
		model:        model,
		systemPrompt: systemPrompt,
		client:       goopenai.NewClient(apiKey),
		logger:       logger.With(slog.String("module", "openai")),
	}
}

// Send asks the model the question in a single chat completion request and returns the answer
// text. API errors carrying an HTTP status are classified as *session.ServiceRejectedError,
// everything else as *session.TransportFailureError.
func (o OpenAI) Send(ctx context.Context, question string) (string, error) {
	msgs := []goopenai.ChatCompletionMessage{
		{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: o.systemPrompt,
		},
		{
			Role:    goopenai.ChatMessageRoleUser,
			Content: question,
		},
	}

	req := goopenai.ChatCompletionRequest{
		Model:    o.model,
		Messages: msgs,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			return "", &session.ServiceRejectedError{
				StatusCode: apiErr.HTTPStatusCode,
				Message:    apiErr.Message,
			}
		}
		return "", &session.TransportFailureError{Err: fmt.Errorf("error sending request: %w", err)}
	}

	if len(resp.Choices) == 0 {
		return "", &session.TransportFailureError{Err: errors.New("no choices found")}
	}

	o.logger.Debug("Received completion", slog.String("model", o.model))

	return resp.Choices[0].Message.Content, nil
}
