package session

// Transcript is the bounded message history shown to the player. It keeps
// the most recent messages up to a fixed capacity; inserting into a full
// transcript evicts exactly the oldest entry.
type Transcript struct {
	capacity int
	messages []string
	appended int
}

// NewTranscript creates an empty transcript with the given capacity.
//
// Precondition: capacity must be >= 1.
func NewTranscript(capacity int) *Transcript {
	return &Transcript{
		capacity: capacity,
		messages: make([]string, 0, capacity),
	}
}

// Append adds a message, evicting the oldest entry if the transcript is full.
//
// Postcondition: Len() <= Capacity(); the newest message is last.
func (t *Transcript) Append(msg string) {
	if len(t.messages) >= t.capacity {
		copy(t.messages, t.messages[1:])
		t.messages = t.messages[:len(t.messages)-1]
	}
	t.messages = append(t.messages, msg)
	t.appended++
}

// Messages returns a copy of the retained messages, oldest first.
//
// Postcondition: Returns a slice the caller may keep; may be empty.
func (t *Transcript) Messages() []string {
	out := make([]string, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of retained messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Capacity returns the maximum number of retained messages.
func (t *Transcript) Capacity() int {
	return t.capacity
}

// Seq returns the total number of messages ever appended, including
// evicted ones. Presenters use it to tell which retained messages are new
// since their last render.
func (t *Transcript) Seq() int {
	return t.appended
}
