package models

// State is the session's lifecycle position. Exactly one value holds at a time, which keeps
// combinations like "errored while awaiting a response" unrepresentable.
type State int

const (
	// StateIdle means no question has been asked yet, or the session was reset.
	StateIdle State = iota
	// StateAwaitingResponse means a request is in flight; further submissions are dropped.
	StateAwaitingResponse
	// StateAnswered means the last request succeeded and the transcript ends with a bot message.
	StateAnswered
	// StateErrored means the last request failed; the question stays visible and input is
	// re-enabled.
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting_response"
	case StateAnswered:
		return "answered"
	case StateErrored:
		return "errored"
	}
	return "unknown"
}
