package timeline

import (
	"testing"
	"time"
)

func TestAppendAssignsCreationOrderedIDs(t *testing.T) {
	tl := New()
	now := time.Now()

	first := tl.Append("one", SenderUser, now, StatusPending)
	second := tl.Append("two", SenderAssistant, now, StatusDelivered)

	if first >= second {
		t.Fatalf("expected monotonically increasing ids, got %d then %d", first, second)
	}

	entries := tl.Snapshot()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Text != "one" || entries[1].Text != "two" {
		t.Fatalf("insertion order lost: %+v", entries)
	}
}

func TestUpdateStatusUnknownIDIsNoOp(t *testing.T) {
	tl := New()
	id := tl.Append("msg", SenderUser, time.Now(), StatusPending)

	tl.UpdateStatus(id+100, StatusFailed)

	entries := tl.Snapshot()
	if entries[0].Status != StatusPending {
		t.Fatalf("unknown id update must not touch other entries, got %s", entries[0].Status)
	}
}

func TestUpdateStatusOnlyTouchesStatus(t *testing.T) {
	tl := New()
	ts := time.Now()
	id := tl.Append("msg", SenderUser, ts, StatusPending)

	tl.UpdateStatus(id, StatusDelivered)

	e := tl.Snapshot()[0]
	if e.Status != StatusDelivered {
		t.Fatalf("expected delivered, got %s", e.Status)
	}
	if e.Text != "msg" || e.Sender != SenderUser || !e.Timestamp.Equal(ts) {
		t.Fatalf("fields other than status changed: %+v", e)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	tl := New()
	tl.Append("msg", SenderUser, time.Now(), StatusPending)

	snap := tl.Snapshot()
	snap[0].Text = "mutated"

	if tl.Snapshot()[0].Text != "msg" {
		t.Fatal("snapshot mutation leaked into the timeline")
	}
}

func TestTimestampsNeverReorderEntries(t *testing.T) {
	tl := New()
	later := time.Now()
	earlier := later.Add(-time.Hour)

	tl.Append("appended first", SenderUser, later, StatusDelivered)
	tl.Append("appended second", SenderAssistant, earlier, StatusDelivered)

	entries := tl.Snapshot()
	if entries[0].Text != "appended first" || entries[1].Text != "appended second" {
		t.Fatalf("entries were reordered by timestamp: %+v", entries)
	}
}
