package handlers

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/oselz/docqa-web-ui/internal/models"
	"github.com/oselz/docqa-web-ui/internal/session"
)

type message struct {
	ID        string
	Content   template.HTML
	Timestamp string
	IsUser    bool

	Citations         []models.Citation
	FollowupQuestions []string
	FollowingSteps    []string
}

type sessionView struct {
	State string
	Error string

	Messages []message

	ShowDefaultPrompts bool
	ChatStarted        bool
	ResponseCopied     bool

	Labels   Labels
	Features Features
}

type homePageData struct {
	Labels  Labels
	Session sessionView
}

// HandleHome renders the chat widget page from the current session snapshot.
func (m Main) HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := homePageData{
		Labels:  m.labels,
		Session: m.sessionView(m.session.Snapshot()),
	}

	if err := m.templates.ExecuteTemplate(w, "home.html", data); err != nil {
		m.logger.Error("Failed to render home page", slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleSSE subscribes the client to live session updates.
func (m Main) HandleSSE(w http.ResponseWriter, r *http.Request) {
	m.sseSrv.ServeHTTP(w, r)
}

// sessionView projects a controller snapshot into template data. Bot messages are rendered as
// markdown; user messages stay plain text and rely on template escaping.
func (m Main) sessionView(snap session.Snapshot) sessionView {
	msgs := snap.Transcript.Messages()
	views := make([]message, 0, len(msgs))
	for _, msg := range msgs {
		content := template.HTML(template.HTMLEscapeString(msg.Text))
		if !msg.IsUser {
			content = m.renderMarkdown(msg.Text)
		}
		views = append(views, message{
			ID:                msg.ID,
			Content:           content,
			Timestamp:         msg.Timestamp,
			IsUser:            msg.IsUser,
			Citations:         msg.Citations,
			FollowupQuestions: msg.FollowupQuestions,
			FollowingSteps:    msg.FollowingSteps,
		})
	}

	return sessionView{
		State:              snap.State.String(),
		Error:              snap.Error,
		Messages:           views,
		ShowDefaultPrompts: snap.ShowDefaultPrompts,
		ChatStarted:        snap.ChatStarted,
		ResponseCopied:     snap.ResponseCopied,
		Labels:             m.labels,
		Features:           m.features,
	}
}

func (m Main) renderMarkdown(text string) template.HTML {
	var sb bytes.Buffer
	if err := m.markdown.Convert([]byte(text), &sb); err != nil {
		m.logger.Error("Failed to render markdown", slog.String(errLoggerKey, err.Error()))
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(sb.String())
}
