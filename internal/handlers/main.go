// Package handlers exposes the chat widget over HTTP: page rendering, the session command
// endpoints, and live state updates over server-sent events.
package handlers

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"time"

	"github.com/tmaxmax/go-sse"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting"

	docqawebui "github.com/oselz/docqa-web-ui"
	"github.com/oselz/docqa-web-ui/internal/annotate"
	"github.com/oselz/docqa-web-ui/internal/session"
)

const errLoggerKey = "err"

const sessionSSETopic = "session"

var sessionSSEType = sse.Type("session")

// Labels is the static widget text, injected at construction instead of read from a global.
type Labels struct {
	Title          string
	Placeholder    string
	ErrorBanner    string
	DefaultPrompts []string
}

// Features are the widget's feature toggles.
type Features struct {
	ShowCopyButton bool
}

// Main wires the session controller to the web surface: it renders templates, accepts the
// session commands, and pushes every state change to connected clients over SSE.
type Main struct {
	sseSrv    *sse.Server
	templates *template.Template
	markdown  goldmark.Markdown

	session *session.Controller

	labels   Labels
	features Features

	logger *slog.Logger
}

// NewMain creates a Main instance around the given dispatcher and clipboard sink. It parses the
// embedded templates, configures the SSE server, and builds the session controller so that
// every transition is published to subscribers.
func NewMain(
	dispatcher session.Dispatcher,
	clipboard session.ClipboardSink,
	labels Labels,
	features Features,
	logger *slog.Logger,
) (Main, error) {
	// We parse templates from three distinct directories to separate layout, pages, and partial views
	tmpl, err := template.ParseFS(
		docqawebui.TemplateFS,
		"templates/layout/*.html",
		"templates/pages/*.html",
		"templates/partials/*.html",
	)
	if err != nil {
		return Main{}, err
	}

	m := Main{
		sseSrv: &sse.Server{
			OnSession: func(s *sse.Session) (sse.Subscription, bool) {
				return sse.Subscription{
					Client:      s,
					LastEventID: s.LastEventID,
					Topics:      []string{sse.DefaultTopic, sessionSSETopic},
				}, true
			},
		},
		templates: tmpl,
		markdown: goldmark.New(
			goldmark.WithExtensions(highlighting.Highlighting),
		),
		labels:   labels,
		features: features,
		logger:   logger.With(slog.String("module", "handlers")),
	}

	m.session = session.NewController(
		dispatcher,
		annotate.Parser{},
		clipboard,
		logger,
		session.WithOnChange(m.publishSession),
	)

	return m, nil
}

// Session returns the underlying session controller.
func (m Main) Session() *session.Controller {
	return m.session
}

// publishSession renders the session partial for a fresh snapshot and broadcasts it on the
// session topic.
func (m Main) publishSession(snap session.Snapshot) {
	var sb bytes.Buffer
	if err := m.templates.ExecuteTemplate(&sb, "chat_session", m.sessionView(snap)); err != nil {
		m.logger.Error("Failed to render session partial", slog.String(errLoggerKey, err.Error()))
		return
	}

	msg := sse.Message{
		Type: sessionSSEType,
	}
	msg.AppendData(sb.String())

	if err := m.sseSrv.Publish(&msg, sessionSSETopic); err != nil {
		m.logger.Error("Failed to publish session update", slog.String(errLoggerKey, err.Error()))
	}
}

// Shutdown gracefully terminates the SSE server. It broadcasts a close message to all connected
// clients and waits up to 5 seconds for connections to terminate. After the timeout, any
// remaining connections are forcefully closed.
func (m Main) Shutdown(ctx context.Context) error {
	e := &sse.Message{Type: sse.Type("closeSession")}
	// We create a close event that complies with SSE spec requiring data
	e.AppendData("bye")

	// We ignore the error here since we're shutting down anyway
	_ = m.sseSrv.Publish(e)

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	return m.sseSrv.Shutdown(ctx)
}
