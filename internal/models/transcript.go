package models

// Transcript is an ordered, append-only snapshot of the current exchange. Mutating operations
// return a new snapshot instead of editing in place, so consumers holding an older snapshot
// never observe changes underneath them. The zero value is an empty transcript.
type Transcript struct {
	messages []Message
}

// Append returns a new snapshot with msg at the end. The receiver is left untouched.
func (t Transcript) Append(msg Message) Transcript {
	msgs := make([]Message, 0, len(t.messages)+1)
	msgs = append(msgs, t.messages...)
	msgs = append(msgs, msg)
	return Transcript{messages: msgs}
}

// Clear returns an empty snapshot.
func (t Transcript) Clear() Transcript {
	return Transcript{}
}

// Last returns the most recently appended message, or false when the transcript is empty.
func (t Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Len returns the number of messages in this snapshot.
func (t Transcript) Len() int {
	return len(t.messages)
}

// Messages returns the messages in insertion order. The returned slice is a copy; callers
// cannot reorder or edit the snapshot through it.
func (t Transcript) Messages() []Message {
	if len(t.messages) == 0 {
		return nil
	}
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}
