package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oselz/docqa-web-ui/internal/models"
)

const errLoggerKey = "err"

// timestampLayout is the wall-clock format shown next to each message. Captured once at message
// creation and never recomputed.
const timestampLayout = "3:04 PM"

// Snapshot is an immutable view of the session, safe to hand to a renderer while the controller
// keeps moving.
type Snapshot struct {
	State      models.State
	Error      string
	Transcript models.Transcript

	ShowDefaultPrompts bool
	ChatStarted        bool
	ResponseCopied     bool
}

// Controller is the sole mutator of session state. All transitions run under one mutex; the
// only suspension point is the in-flight dispatch, which happens on its own goroutine and
// re-enters the controller on completion. At most one request is in flight at any time.
type Controller struct {
	mu sync.Mutex

	state      models.State
	errText    string
	transcript models.Transcript

	showDefaultPrompts bool
	chatStarted        bool
	responseCopied     bool

	// generation counts accepted submissions and resets. A dispatch resolution carrying a
	// stale generation is dropped instead of mutating state the operator already moved past.
	generation uint64

	dispatcher Dispatcher
	parser     AnnotationParser
	clipboard  ClipboardSink

	now      func() time.Time
	newID    func() string
	onChange func(Snapshot)

	logger *slog.Logger
}

// Option adjusts a Controller at construction time.
type Option func(*Controller)

// WithClock replaces the wall clock used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithOnChange registers a callback invoked after every state transition with the fresh
// snapshot. The callback runs outside the controller's lock.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// NewController creates an idle session with an empty transcript and default prompts visible.
func NewController(
	dispatcher Dispatcher,
	parser AnnotationParser,
	clipboard ClipboardSink,
	logger *slog.Logger,
	opts ...Option,
) *Controller {
	c := &Controller{
		state:              models.StateIdle,
		showDefaultPrompts: true,
		dispatcher:         dispatcher,
		parser:             parser,
		clipboard:          clipboard,
		now:                time.Now,
		newID:              func() string { return uuid.New().String() },
		logger:             logger.With(slog.String("module", "session")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitQuestion starts a new exchange. Whitespace-only input is ignored, as is any submission
// made while a request is still in flight. An accepted submission wipes the previous exchange,
// appends the question to the transcript, and dispatches it asynchronously.
func (c *Controller) SubmitQuestion(raw string) {
	question := strings.TrimSpace(raw)
	if question == "" {
		return
	}

	c.mu.Lock()
	if c.state == models.StateAwaitingResponse {
		c.mu.Unlock()
		c.logger.Debug("Dropping submission while a request is in flight")
		return
	}

	c.generation++
	gen := c.generation

	c.transcript = c.transcript.Clear().Append(models.Message{
		ID:        c.newID(),
		Text:      question,
		Timestamp: c.now().Format(timestampLayout),
		IsUser:    true,
	})
	c.state = models.StateAwaitingResponse
	c.errText = ""
	c.chatStarted = true
	c.showDefaultPrompts = false
	c.responseCopied = false
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)

	go c.dispatch(gen, question)
}

func (c *Controller) dispatch(gen uint64, question string) {
	raw, err := c.dispatcher.Send(context.Background(), question)
	c.complete(gen, raw, err)
}

// complete applies the outcome of a dispatch. Resolutions from a generation the session has
// left behind (reset, or a newer accepted submission) are discarded.
func (c *Controller) complete(gen uint64, raw string, err error) {
	c.mu.Lock()
	if gen != c.generation || c.state != models.StateAwaitingResponse {
		c.mu.Unlock()
		c.logger.Debug("Dropping stale dispatch resolution")
		return
	}

	if err != nil {
		c.state = models.StateErrored
		c.errText = err.Error()
		snap := c.snapshotLocked()
		c.mu.Unlock()

		c.logger.Error("Answer request failed", slog.String(errLoggerKey, err.Error()))
		c.notify(snap)
		return
	}

	parsed := c.parser.Parse(raw)
	c.transcript = c.transcript.Append(models.Message{
		ID:                c.newID(),
		Text:              parsed.DisplayText,
		Timestamp:         c.now().Format(timestampLayout),
		Citations:         models.DedupCitations(parsed.Citations),
		FollowupQuestions: parsed.FollowupQuestions,
		FollowingSteps:    parsed.FollowingSteps,
	})
	c.state = models.StateAnswered
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// ResetSession clears the transcript and every flag, returning the session to its initial
// idle state with default prompts visible. Any in-flight dispatch resolves into the void.
func (c *Controller) ResetSession() {
	c.mu.Lock()
	c.generation++
	c.transcript = c.transcript.Clear()
	c.state = models.StateIdle
	c.errText = ""
	c.chatStarted = false
	c.showDefaultPrompts = true
	c.responseCopied = false
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// CopyLastAnswer hands the newest message's display text to the clipboard sink. A no-op on an
// empty transcript; a failed copy is logged and swallowed.
func (c *Controller) CopyLastAnswer() {
	c.mu.Lock()
	last, ok := c.transcript.Last()
	if !ok {
		c.mu.Unlock()
		return
	}
	c.responseCopied = true
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if err := c.clipboard.Copy(last.Text); err != nil {
		c.logger.Error("Failed to copy answer to clipboard", slog.String(errLoggerKey, err.Error()))
	}
	c.notify(snap)
}

// ToggleDefaultPrompts flips the default-prompt affordance. No transcript effect.
func (c *Controller) ToggleDefaultPrompts() {
	c.mu.Lock()
	c.showDefaultPrompts = !c.showDefaultPrompts
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// Snapshot returns the current session view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:              c.state,
		Error:              c.errText,
		Transcript:         c.transcript,
		ShowDefaultPrompts: c.showDefaultPrompts,
		ChatStarted:        c.chatStarted,
		ResponseCopied:     c.responseCopied,
	}
}

func (c *Controller) notify(snap Snapshot) {
	if c.onChange == nil {
		return
	}
	c.onChange(snap)
}
