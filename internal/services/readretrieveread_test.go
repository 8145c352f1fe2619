package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oselz/docqa-web-ui/internal/services"
	"github.com/oselz/docqa-web-ui/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReadRetrieveReadSend(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Send() method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Send() content-type = %s, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Send() body decode error = %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"answer": "The sky is blue."})
	}))
	defer srv.Close()

	d := services.NewReadRetrieveRead(srv.URL, services.DefaultRetrievalOverrides(), discardLogger())

	answer, err := d.Send(context.Background(), "Why is the sky blue?")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if answer != "The sky is blue." {
		t.Errorf("Send() answer = %q, want %q", answer, "The sky is blue.")
	}

	if gotBody["approach"] != "rrr" {
		t.Errorf("Send() approach = %v, want rrr", gotBody["approach"])
	}

	history, ok := gotBody["history"].([]any)
	if !ok || len(history) != 1 {
		t.Fatalf("Send() history = %v, want one entry", gotBody["history"])
	}
	entry, _ := history[0].(map[string]any)
	if entry["user"] != "Why is the sky blue?" {
		t.Errorf("Send() history user = %v, want question text", entry["user"])
	}

	overrides, ok := gotBody["overrides"].(map[string]any)
	if !ok {
		t.Fatalf("Send() overrides missing")
	}
	if overrides["retrieval_mode"] != "hybrid" {
		t.Errorf("Send() retrieval_mode = %v, want hybrid", overrides["retrieval_mode"])
	}
	if overrides["semantic_ranker"] != true {
		t.Errorf("Send() semantic_ranker = %v, want true", overrides["semantic_ranker"])
	}
	if overrides["top"] != float64(3) {
		t.Errorf("Send() top = %v, want 3", overrides["top"])
	}
}

func TestReadRetrieveReadSendServiceRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := services.NewReadRetrieveRead(srv.URL, services.DefaultRetrievalOverrides(), discardLogger())

	_, err := d.Send(context.Background(), "question")
	var rejected *session.ServiceRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("Send() error = %v, want *session.ServiceRejectedError", err)
	}
	if rejected.StatusCode != http.StatusInternalServerError {
		t.Errorf("Send() status = %d, want %d", rejected.StatusCode, http.StatusInternalServerError)
	}
}

func TestReadRetrieveReadSendTransportFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name: "unreachable endpoint",
			setup: func(*testing.T) string {
				srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
				srv.Close()
				return srv.URL
			},
		},
		{
			name: "malformed response body",
			setup: func(t *testing.T) string {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					_, _ = w.Write([]byte("not json"))
				}))
				t.Cleanup(srv.Close)
				return srv.URL
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := services.NewReadRetrieveRead(tt.setup(t), services.DefaultRetrievalOverrides(), discardLogger())

			_, err := d.Send(context.Background(), "question")
			var transport *session.TransportFailureError
			if !errors.As(err, &transport) {
				t.Fatalf("Send() error = %v, want *session.TransportFailureError", err)
			}
		})
	}
}
