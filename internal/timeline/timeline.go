package timeline

import (
	"sync"
	"time"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
)

// Entry is one message in the session log. Only Status changes after
// creation.
type Entry struct {
	ID        int64
	Text      string
	Sender    Sender
	Timestamp time.Time
	Status    Status
}

// Timeline is the append-only message log for one session. Insertion order
// is creation order is render order; entries are never re-sorted by
// timestamp, so clock skew between optimistic and server timestamps cannot
// reorder the visible log.
type Timeline struct {
	mu      sync.Mutex
	nextID  int64
	entries []Entry
}

func New() *Timeline {
	return &Timeline{}
}

// Append adds an entry at the end and returns its id. Ids are monotonically
// creation-ordered.
func (t *Timeline) Append(text string, sender Sender, ts time.Time, status Status) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.entries = append(t.entries, Entry{
		ID:        t.nextID,
		Text:      text,
		Sender:    sender,
		Timestamp: ts,
		Status:    status,
	})
	return t.nextID
}

// UpdateStatus is a no-op for unknown ids so a late reconciliation can never
// fail its caller.
func (t *Timeline) UpdateStatus(id int64, status Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.entries {
		if t.entries[i].ID == id {
			t.entries[i].Status = status
			return
		}
	}
}

// Snapshot returns a copy of the log in insertion order.
func (t *Timeline) Snapshot() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
