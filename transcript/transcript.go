// Package transcript holds the local view of a tutor chat as explicit
// two-phase state: a sent message is inserted as a pending entry, then
// atomically replaced by the server-confirmed exchange or removed when the
// send fails. A partially-applied update is never observable.
package transcript

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-study-client/api"
)

// Status of a transcript entry.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCommitted Status = "committed"
)

// Entry is one message in the transcript. ID is a client-generated uuid for
// pending entries and kept after commit so callers can correlate updates.
type Entry struct {
	ID      string
	Status  Status
	Message api.ChatMessage
}

// ErrEntryNotFound is returned when a pending entry has already been resolved.
var ErrEntryNotFound = errors.New("transcript: pending entry not found")

// Transcript is the ordered local chat history. Safe for concurrent use.
type Transcript struct {
	lock    sync.RWMutex
	entries []Entry
}

func New() *Transcript {
	return &Transcript{}
}

// Load seeds the transcript from a server-side session history, replacing any
// local state. All loaded entries are committed.
func (t *Transcript) Load(messages []api.ChatMessage) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.entries = make([]Entry, 0, len(messages))
	for _, message := range messages {
		t.entries = append(t.entries, Entry{
			ID:      uuid.NewString(),
			Status:  StatusCommitted,
			Message: message,
		})
	}
}

// AppendPending inserts a provisional user message and returns its ID.
func (t *Transcript) AppendPending(content string) string {
	t.lock.Lock()
	defer t.lock.Unlock()

	id := uuid.NewString()
	t.entries = append(t.entries, Entry{
		ID:     id,
		Status: StatusPending,
		Message: api.ChatMessage{
			Role:    api.ChatRoleUser,
			Content: content,
		},
	})
	return id
}

// Commit resolves a pending entry with the server-confirmed user message and
// appends the assistant's reply in the same step.
func (t *Transcript) Commit(pendingID string, confirmed api.ChatMessage, reply api.ChatMessage) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	index, ok := t.pendingIndex(pendingID)
	if !ok {
		return errors.Wrapf(ErrEntryNotFound, "[Transcript.Commit] %s", pendingID)
	}

	t.entries[index].Status = StatusCommitted
	t.entries[index].Message = confirmed
	t.entries = append(t.entries, Entry{
		ID:      uuid.NewString(),
		Status:  StatusCommitted,
		Message: reply,
	})
	return nil
}

// Reject removes a pending entry whose send failed.
func (t *Transcript) Reject(pendingID string) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	index, ok := t.pendingIndex(pendingID)
	if !ok {
		return errors.Wrapf(ErrEntryNotFound, "[Transcript.Reject] %s", pendingID)
	}
	t.entries = append(t.entries[:index], t.entries[index+1:]...)
	return nil
}

// Entries returns a snapshot of the transcript in order.
func (t *Transcript) Entries() []Entry {
	t.lock.RLock()
	defer t.lock.RUnlock()

	snapshot := make([]Entry, len(t.entries))
	copy(snapshot, t.entries)
	return snapshot
}

// HasPending reports whether any entry is still awaiting confirmation.
func (t *Transcript) HasPending() bool {
	t.lock.RLock()
	defer t.lock.RUnlock()

	for _, entry := range t.entries {
		if entry.Status == StatusPending {
			return true
		}
	}
	return false
}

func (t *Transcript) pendingIndex(pendingID string) (int, bool) {
	for i, entry := range t.entries {
		if entry.ID == pendingID && entry.Status == StatusPending {
			return i, true
		}
	}
	return 0, false
}
