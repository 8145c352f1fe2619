package handlers

import (
	"log/slog"
	"net/http"
)

// HandleAsk accepts a question submission through an HTTP POST request with a "question" form
// field and forwards it to the session controller. Empty or whitespace-only questions are
// silently accepted without any session effect, matching the controller's no-op guard; they are
// not a user-visible error. The resulting state changes reach clients through SSE, so the
// response body stays empty.
func (m Main) HandleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	m.session.SubmitQuestion(r.FormValue("question"))
	w.WriteHeader(http.StatusNoContent)
}

// HandleReset clears the transcript and returns the session to its initial state.
func (m Main) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	m.session.ResetSession()
	w.WriteHeader(http.StatusNoContent)
}

// HandleCopy copies the most recent answer to the clipboard sink. A no-op when the transcript
// is empty.
func (m Main) HandleCopy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	m.session.CopyLastAnswer()
	w.WriteHeader(http.StatusNoContent)
}

// HandleTogglePrompts flips the default-prompt affordance.
func (m Main) HandleTogglePrompts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	m.session.ToggleDefaultPrompts()
	w.WriteHeader(http.StatusNoContent)
}
