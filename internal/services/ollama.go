package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/oselz/docqa-web-ui/internal/session"
)

// Ollama answers questions with a local Ollama model instead of the hosted answer service.
// Useful when no retrieval backend is available; the wire contract of the read-retrieve-read
// dispatcher does not apply to this backend.
type Ollama struct {
	host         string
	model        string
	systemPrompt string

	client *api.Client
}

// NewOllama creates a new Ollama dispatcher for the given server URL and model name. If the
// provided host URL is invalid, the function will panic.
func NewOllama(host, model, systemPrompt string) Ollama {
	u, err := url.Parse(host)
	if err != nil {
		panic(err)
	}

	return Ollama{
		host:         host,
		model:        model,
		systemPrompt: systemPrompt,
		client:       api.NewClient(u, &http.Client{}),
	}
}

// Send asks the model the question in a single non-streaming chat request and returns the
// accumulated answer text. HTTP-status failures from the Ollama server are classified as
// *session.ServiceRejectedError, everything else as *session.TransportFailureError.
func (o Ollama) Send(ctx context.Context, question string) (string, error) {
	msgs := []api.Message{
		{
			Role:    "user",
			Content: question,
		},
	}
	if o.systemPrompt != "" {
		msgs = append([]api.Message{{Role: "system", Content: o.systemPrompt}}, msgs...)
	}

	f := false
	req := api.ChatRequest{
		Model:    o.model,
		Messages: msgs,
		Stream:   &f,
	}

	var sb strings.Builder
	if err := o.client.Chat(ctx, &req, func(res api.ChatResponse) error {
		sb.WriteString(res.Message.Content)
		return nil
	}); err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return "", &session.ServiceRejectedError{
				StatusCode: statusErr.StatusCode,
				Message:    statusErr.Error(),
			}
		}
		return "", &session.TransportFailureError{Err: fmt.Errorf("error sending request: %w", err)}
	}

	return sb.String(), nil
}
