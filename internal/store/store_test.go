package store

import (
	"path/filepath"
	"testing"
	"time"

	"EduChat/internal/timeline"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "educhat.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndLoadTranscript(t *testing.T) {
	s := openTestStore(t)
	start := time.Now().UTC()
	entries := []timeline.Entry{
		{ID: 1, Text: "hello", Sender: timeline.SenderUser, Timestamp: start, Status: timeline.StatusDelivered},
		{ID: 2, Text: "Hi!", Sender: timeline.SenderAssistant, Timestamp: start.Add(time.Second), Status: timeline.StatusDelivered},
	}

	if err := s.Save("sess-1", start, "local", entries); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.Load("sess-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(loaded))
	}
	if loaded[0].Text != "hello" || loaded[0].Sender != timeline.SenderUser {
		t.Fatalf("unexpected first entry %+v", loaded[0])
	}
	if loaded[1].Status != timeline.StatusDelivered {
		t.Fatalf("unexpected status %+v", loaded[1])
	}
}

func TestSaveReplacesTranscript(t *testing.T) {
	s := openTestStore(t)
	start := time.Now().UTC()

	first := []timeline.Entry{
		{ID: 1, Text: "hello", Sender: timeline.SenderUser, Timestamp: start, Status: timeline.StatusPending},
	}
	if err := s.Save("sess-1", start, "local", first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := append(first, timeline.Entry{
		ID: 2, Text: "Hi!", Sender: timeline.SenderAssistant, Timestamp: start.Add(time.Second), Status: timeline.StatusDelivered,
	})
	second[0].Status = timeline.StatusDelivered
	if err := s.Save("sess-1", start, "local", second); err != nil {
		t.Fatalf("re-save: %v", err)
	}

	loaded, err := s.Load("sess-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected replaced transcript with 2 entries, got %d", len(loaded))
	}
	if loaded[0].Status != timeline.StatusDelivered {
		t.Fatalf("expected updated status, got %+v", loaded[0])
	}
}

func TestLoadUnknownSessionIsEmpty(t *testing.T) {
	s := openTestStore(t)
	loaded, err := s.Load("nope")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty transcript, got %d entries", len(loaded))
	}
}
