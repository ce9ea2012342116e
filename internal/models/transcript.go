package models

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Transcript is the ordered list of chat entries displayed to the user. Insertion order is display
// order. All mutations are serialized through the transcript's lock, so a streamed fragment can never
// race with another append and land on the wrong entry.
//
// While a generation request is active, the last entry is the stream target: its content grows
// monotonically through AppendToLast and is never rewritten otherwise.
type Transcript struct {
	mu      sync.Mutex
	entries []ChatEntry
}

// NewTranscript creates a transcript seeded with a single assistant welcome entry. If welcome is
// empty, the transcript starts out empty.
func NewTranscript(welcome string) *Transcript {
	t := &Transcript{}
	if welcome != "" {
		t.Append(RoleAssistant, welcome)
	}
	return t
}

// Append adds a new entry with the given role and content to the end of the transcript, and returns
// the stored entry with its generated ID and timestamp.
func (t *Transcript) Append(role Role, content string) ChatEntry {
	entry := ChatEntry{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, entry)
	return entry
}

// AppendToLast concatenates fragment onto the content of the last entry as a single atomic
// read-modify-write, and returns the updated entry. The second return value is false if the
// transcript is empty; an empty fragment is a no-op. Fragments are applied in call order, so the
// final content of a streamed entry is exactly the concatenation of its fragments in arrival order.
func (t *Transcript) AppendToLast(fragment string) (ChatEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.entries) == 0 {
		return ChatEntry{}, false
	}
	if fragment != "" {
		t.entries[len(t.entries)-1].Content += fragment
	}
	return t.entries[len(t.entries)-1], true
}

// Replace discards every entry and reinstates the transcript as a single assistant entry with the
// given content. It returns the stored entry.
func (t *Transcript) Replace(content string) ChatEntry {
	entry := ChatEntry{
		ID:        uuid.New().String(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = []ChatEntry{entry}
	return entry
}

// Entries returns a snapshot copy of the transcript in display order.
func (t *Transcript) Entries() []ChatEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ChatEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Last returns the last entry of the transcript, or false if the transcript is empty.
func (t *Transcript) Last() (ChatEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.entries) == 0 {
		return ChatEntry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// Len returns the number of entries in the transcript.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}
