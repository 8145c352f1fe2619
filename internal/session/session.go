// Package session holds the chat session state machine: it owns the transcript, drives the
// submit/reset transitions, and is the only caller of the answer dispatcher, the annotation
// parser, and the clipboard sink.
package session

import (
	"context"
	"fmt"

	"github.com/oselz/docqa-web-ui/internal/annotate"
)

// Dispatcher delivers one question to the answer service. Send makes exactly one attempt and
// returns the raw answer text, a *ServiceRejectedError, or a *TransportFailureError.
type Dispatcher interface {
	Send(ctx context.Context, question string) (string, error)
}

// AnnotationParser splits raw answer text into display prose plus the extracted citation, step,
// and follow-up lists. The controller treats it as opaque apart from deduplicating the returned
// citations.
type AnnotationParser interface {
	Parse(raw string) annotate.Result
}

// ClipboardSink receives the text of a copied answer. Best effort; a failed copy is logged and
// otherwise ignored.
type ClipboardSink interface {
	Copy(text string) error
}

// ServiceRejectedError reports that the answer service replied with a non-success status.
type ServiceRejectedError struct {
	StatusCode int
	Message    string
}

func (e *ServiceRejectedError) Error() string {
	return fmt.Sprintf("answer service rejected request: %s", e.Message)
}

// TransportFailureError reports that the request never completed: the service was unreachable
// or its response body could not be decoded.
type TransportFailureError struct {
	Err error
}

func (e *TransportFailureError) Error() string {
	return fmt.Sprintf("answer request failed in transport: %v", e.Err)
}

func (e *TransportFailureError) Unwrap() error {
	return e.Err
}
