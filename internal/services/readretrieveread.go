// Package services provides the answer dispatcher backends, the bbolt answer cache, and the
// clipboard sink consumed by the session controller.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/oselz/docqa-web-ui/internal/session"
)

// RetrievalOverrides are the retrieval and ranking options embedded in every answer request.
// They are fixed at construction, not session-configurable.
type RetrievalOverrides struct {
	RetrievalMode            string `json:"retrieval_mode" yaml:"retrievalMode"`
	SemanticRanker           bool   `json:"semantic_ranker" yaml:"semanticRanker"`
	SemanticCaptions         bool   `json:"semantic_captions" yaml:"semanticCaptions"`
	Top                      int    `json:"top" yaml:"top"`
	SuggestFollowupQuestions bool   `json:"suggest_followup_questions" yaml:"suggestFollowupQuestions"`
}

// DefaultRetrievalOverrides returns the stock retrieval options the answer service is tuned for.
func DefaultRetrievalOverrides() RetrievalOverrides {
	return RetrievalOverrides{
		RetrievalMode:            "hybrid",
		SemanticRanker:           true,
		SemanticCaptions:         false,
		Top:                      3,
		SuggestFollowupQuestions: false,
	}
}

// ReadRetrieveRead dispatches questions to a read-retrieve-read answer service over plain HTTP.
// One attempt per call: no timeout, no retry, no backoff.
type ReadRetrieveRead struct {
	endpoint  string
	overrides RetrievalOverrides

	client *http.Client

	logger *slog.Logger
}

type rrrHistoryEntry struct {
	User string `json:"user"`
}

type rrrChatRequest struct {
	History   []rrrHistoryEntry  `json:"history"`
	Approach  string             `json:"approach"`
	Overrides RetrievalOverrides `json:"overrides"`
}

type rrrChatResponse struct {
	Answer string `json:"answer"`
}

// NewReadRetrieveRead creates a dispatcher pointed at the given answer service endpoint.
func NewReadRetrieveRead(endpoint string, overrides RetrievalOverrides, logger *slog.Logger) ReadRetrieveRead {
	return ReadRetrieveRead{
		endpoint:  endpoint,
		overrides: overrides,
		client:    &http.Client{},
		logger:    logger.With(slog.String("module", "readretrieveread")),
	}
}

// Send posts the question to the answer service and returns the raw answer text. A non-2xx
// status becomes a *session.ServiceRejectedError; a network or body-decode failure becomes a
// *session.TransportFailureError.
func (r ReadRetrieveRead) Send(ctx context.Context, question string) (string, error) {
	reqBody := rrrChatRequest{
		History:   []rrrHistoryEntry{{User: question}},
		Approach:  "rrr",
		Overrides: r.overrides,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", &session.TransportFailureError{Err: fmt.Errorf("error marshaling request: %w", err)}
	}

	r.logger.Debug("Request Body", slog.String("body", string(jsonBody)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", &session.TransportFailureError{Err: fmt.Errorf("error creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", &session.TransportFailureError{Err: fmt.Errorf("error sending request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		r.logger.Debug("Service rejected request",
			slog.Int("status", resp.StatusCode),
		)
		return "", &session.ServiceRejectedError{
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	var res rrrChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", &session.TransportFailureError{Err: fmt.Errorf("error decoding response: %w", err)}
	}

	return res.Answer, nil
}
